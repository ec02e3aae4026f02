// Package ofx reads OFX/QFX bank and credit card statements into categorized
// transactions that the savings analyzer can consume.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-parse/internal/extraction"
	"github.com/Veraticus/the-spice-must-parse/internal/model"
	"github.com/Veraticus/the-spice-must-parse/internal/savings"
)

// statementConfidence is recorded for statement lines, which carry their
// amount, date and direction explicitly.
const statementConfidence = 1.0

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

var purchasePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericDescriptions = []string{
	"DEBIT",
	"CREDIT",
	"PURCHASE",
	"PAYMENT",
	"POS TRANSACTION",
	"CARD PURCHASE",
}

// Categorizer assigns a category to a statement line from its description
// and merchant. *extraction.Engine satisfies it.
type Categorizer interface {
	Categorize(message, merchant string) extraction.Field[model.Category]
}

// Parser converts OFX statements into transactions.
type Parser struct {
	categorizer Categorizer
}

// NewParser creates a parser that categorizes lines with categorizer.
func NewParser(categorizer Categorizer) *Parser {
	return &Parser{categorizer: categorizer}
}

// preprocessOFX fixes formatting issues some banks emit that ofxgo rejects.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML exports sometimes drop the closing bracket of a bare opening tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func parseResponse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX statement and returns its lines as
// transactions in statement order.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	resp, err := parseResponse(reader)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bankStmts++
		if stmt.BankTranList == nil {
			continue
		}
		transactions = append(transactions,
			p.convertAll(stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))...)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ccStmts++
		if stmt.BankTranList == nil {
			continue
		}
		transactions = append(transactions,
			p.convertAll(stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))...)
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// ParseRecords is ParseFile for callers that only need savings records.
func (p *Parser) ParseRecords(ctx context.Context, reader io.Reader) ([]savings.Record, error) {
	transactions, err := p.ParseFile(ctx, reader)
	if err != nil {
		return nil, err
	}

	records := make([]savings.Record, len(transactions))
	for i, txn := range transactions {
		records[i] = txn
	}
	return records, nil
}

func (p *Parser) convertAll(lines []ofxgo.Transaction, accountID string) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(lines))
	for _, line := range lines {
		txn, ok := p.convertTransaction(line, accountID)
		if !ok {
			slog.Debug("Skipping zero-amount statement line", "fitid", string(line.FiTID))
			continue
		}
		transactions = append(transactions, txn)
	}
	return transactions
}

// convertTransaction maps a statement line onto a transaction. OFX signs
// debits negative; the stored amount is always positive.
func (p *Parser) convertTransaction(line ofxgo.Transaction, accountID string) (model.Transaction, bool) {
	signed := decimal.NewFromBigRat(&line.TrnAmt.Rat, 2)
	if signed.IsZero() {
		return model.Transaction{}, false
	}

	direction := model.DirectionCredit
	if signed.IsNegative() {
		direction = model.DirectionDebit
	}

	description := strings.TrimSpace(string(line.Name))
	if memo := strings.TrimSpace(string(line.Memo)); memo != "" {
		description = strings.TrimSpace(description + " " + memo)
	}

	merchant := extractMerchantName(line)
	if merchant == "" {
		merchant = model.UnknownMerchant
	}

	category := model.CategoryOther
	if p.categorizer != nil {
		if field := p.categorizer.Categorize(description, merchant); field.Found {
			category = field.Value
		}
	}

	txn := model.Transaction{
		ID:              string(line.FiTID),
		Source:          accountID,
		Date:            line.DtPosted.Time,
		Amount:          signed.Abs(),
		Description:     description,
		Merchant:        merchant,
		Direction:       direction,
		Category:        category,
		Confidence:      statementConfidence,
		AccountLastFour: lastFour(accountID),
		ReferenceNumber: string(line.FiTID),
	}
	txn.Hash = txn.GenerateHash()

	return txn, true
}

// extractMerchantName picks the cleanest merchant name the line offers:
// PAYEE, then NAME, then MEMO when NAME is generic.
func extractMerchantName(line ofxgo.Transaction) string {
	if line.Payee != nil && line.Payee.Name != "" {
		return strings.TrimSpace(string(line.Payee.Name))
	}

	name := string(line.Name)
	if line.Memo != "" && isGenericDescription(name) {
		name = string(line.Memo)
	}
	name = strings.TrimSpace(name)

	upper := strings.ToUpper(name)
	for _, prefix := range purchasePrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " posting dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, g := range genericDescriptions {
		if upper == g {
			return true
		}
	}
	return false
}

func lastFour(accountID string) string {
	if len(accountID) < 4 {
		return accountID
	}
	return accountID[len(accountID)-4:]
}

// GetAccounts lists the distinct account IDs in a statement, in the order
// they first appear.
func (p *Parser) GetAccounts(_ context.Context, reader io.Reader) ([]string, error) {
	resp, err := parseResponse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	add := func(id ofxgo.String) {
		if id == "" || seen[string(id)] {
			return
		}
		seen[string(id)] = true
		accounts = append(accounts, string(id))
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(stmt.BankAcctFrom.AcctID)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(stmt.CCAcctFrom.AcctID)
		}
	}

	return accounts, nil
}
