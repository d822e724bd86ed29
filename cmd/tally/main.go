package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries the state shared by every command of one invocation.
type app struct {
	v          *viper.Viper
	interrupts *cli.InterruptHandler
	cfgFile    string
	cfg        config.Config
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tally",
		Short: "💰 Personal income and expense tracker",
		Long: `tally records income and expenses in a local database and turns them into
reports: totals, spending by category, trends, and budget progress.

Everything stays on this machine.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/tally/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "database file (default: $HOME/.local/share/tally/tally.db)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = a.v.BindPFlag(config.KeyDatabasePath, rootCmd.PersistentFlags().Lookup("db"))
	_ = a.v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))

	// Add commands
	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(deleteCmd(a))
	rootCmd.AddCommand(budgetCmd(a))
	rootCmd.AddCommand(reportCmd(a))
	rootCmd.AddCommand(importCmd(a))
	rootCmd.AddCommand(importOFXCmd(a))
	rootCmd.AddCommand(exportCmd(a))
	rootCmd.AddCommand(settingsCmd(a))
	rootCmd.AddCommand(clearCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx, cancel := interrupts.HandleInterrupts(context.Background())

	a := &app{v: viper.GetViper(), interrupts: interrupts}
	err := newRootCmd(a).ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(""); err != nil {
		return err
	}

	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Set up logging
	if err := common.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			printf(cmd.OutOrStdout(), "tally %s\n", version)
		},
	}
}

// printf writes to w, ignoring errors: a broken stdout cannot be reported on stdout.
func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

// writeln writes a line to w.
func writeln(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, s)
}
