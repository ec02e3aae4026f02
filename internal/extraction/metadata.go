package extraction

import (
	"github.com/shopspring/decimal"
)

// Metadata holds optional details attached to accepted transactions.
type Metadata struct {
	BalanceAfter    *decimal.Decimal
	AccountLastFour string
	ReferenceNumber string
}

// ExtractMetadata pulls the account suffix, reference number and post-transaction balance.
func (e *Engine) ExtractMetadata(message string) Metadata {
	var md Metadata

	if m := e.accountRule.FindStringSubmatch(message); m != nil {
		md.AccountLastFour = m[1]
	}

	for _, rule := range e.referenceRules {
		if m := rule.regex.FindStringSubmatch(message); m != nil {
			md.ReferenceNumber = m[1]
			break
		}
	}

	if m := e.balanceRule.FindStringSubmatch(message); m != nil {
		if balance, err := decimal.NewFromString(cleanNumber(m[1])); err == nil {
			md.BalanceAfter = &balance
		}
	}

	return md
}
