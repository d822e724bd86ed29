package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// ImportProgress shows a progress bar while statement files are imported.
type ImportProgress struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	done   int
	total  int
}

// NewImportProgress creates a progress bar for total files.
func NewImportProgress(writer io.Writer, total int) *ImportProgress {
	p := &ImportProgress{writer: writer, total: total}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing statements...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Step marks one file as processed and shows its name.
func (p *ImportProgress) Step(name string) {
	p.done++
	p.bar.Describe(fmt.Sprintf("[cyan][bold]%s[reset]", name))
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Done returns the number of processed files.
func (p *ImportProgress) Done() int {
	return p.done
}

// Finish completes the bar even when some files were skipped.
func (p *ImportProgress) Finish() {
	if p.done >= p.total {
		return
	}
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}
