// Package ofx converts OFX/QFX bank and credit card statements into ledger
// transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/tally/internal/model"
	"github.com/aclindsa/ofxgo"
)

// IDPrefix marks transactions that came from a statement. The rest of the ID
// is the bank's FITID, so importing the same statement twice adds nothing.
const IDPrefix = "ofx-"

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of a bare opening tag
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns its transactions in
// statement order. Credits become income and debits become expenses.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Read and preprocess the content
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	processedContent := p.preprocessOFX(string(content))

	// Parse OFX response
	resp, err := ofxgo.ParseResponse(strings.NewReader(processedContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	transactions := []model.Transaction{}
	var bankStmts, ccStmts int

	// Process bank messages
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			transactions = append(transactions, p.convertList(stmt.BankTranList, stmt.CurDef.String(), string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	// Process credit card messages
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			transactions = append(transactions, p.convertList(stmt.BankTranList, stmt.CurDef.String(), string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, currency, accountID string) []model.Transaction {
	if list == nil {
		return nil
	}

	transactions := make([]model.Transaction, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		tx, ok := p.convertTransaction(ofxTx, currency)
		if !ok {
			slog.Debug("Skipping zero-amount OFX transaction",
				"account", accountID,
				"fitid", string(ofxTx.FiTID))
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions
}

// convertTransaction converts an OFX transaction to our model. It reports
// false for transactions without an amount.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, currency string) (model.Transaction, bool) {
	// ofxTx.TrnAmt is a big.Rat; OFX uses negative values for debits
	amount, _ := ofxTx.TrnAmt.Float64()
	if amount == 0 {
		return model.Transaction{}, false
	}

	txType := model.TypeExpense
	if amount > 0 {
		txType = model.TypeIncome
	} else {
		amount = -amount
	}

	if ofxTx.Currency != nil {
		if ok, _ := ofxTx.Currency.CurSym.Valid(); ok {
			currency = ofxTx.Currency.CurSym.String()
		}
	}

	trnType := ofxTx.TrnType.String()
	description := p.extractMerchantName(ofxTx)
	if description == "" {
		description = trnType
	}

	return model.Transaction{
		ID:          IDPrefix + string(ofxTx.FiTID),
		Amount:      amount,
		Type:        txType,
		Category:    categoryFor(txType, trnType),
		Description: description,
		Date:        model.CalendarDate(ofxTx.DtPosted.Time),
		Currency:    currency,
	}, true
}

// categoryFor infers a category from the OFX transaction type. OFX carries
// no spending categories, so expenses are always "other".
func categoryFor(txType model.TransactionType, trnType string) string {
	if txType != model.TypeIncome {
		return "other"
	}
	switch trnType {
	case "INT", "DIV":
		return "investment"
	case "DEP", "DIRECTDEP":
		return "salary"
	default:
		return "other"
	}
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)

	// Sometimes MEMO has better merchant info
	if tx.Memo != "" && (name == "" || isGenericDescription(name)) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "MM/DD " date
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
