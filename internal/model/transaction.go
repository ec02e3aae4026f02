// Package model defines the core data structures for the spice application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether money left or entered the account.
type Direction string

// Direction constants.
const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// UnknownMerchant is recorded when no merchant could be extracted from a message.
const UnknownMerchant = "Unknown"

// descriptionHashPrefix bounds how much of the description participates in the dedup hash.
const descriptionHashPrefix = 50

// Transaction is a candidate transaction assembled from a single notification message.
type Transaction struct {
	Date            time.Time        `json:"date"`
	BalanceAfter    *decimal.Decimal `json:"balance_after,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	ID              string           `json:"id,omitempty"`
	Source          string           `json:"source,omitempty"`
	Description     string           `json:"description"`
	Merchant        string           `json:"merchant"`
	AccountLastFour string           `json:"account_last_four,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Hash            string           `json:"hash,omitempty"`
	Direction       Direction        `json:"direction"`
	Category        Category         `json:"category"`
	Confidence      float64          `json:"confidence"`
}

// GenerateHash creates a hash for duplicate detection from the day, amount,
// description prefix and source of the transaction.
func (t *Transaction) GenerateHash() string {
	desc := []rune(t.Description)
	if len(desc) > descriptionHashPrefix {
		desc = desc[:descriptionHashPrefix]
	}
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		string(desc),
		t.Source)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// TransactionAmount returns the amount as a float for aggregation.
func (t Transaction) TransactionAmount() float64 {
	return t.Amount.InexactFloat64()
}

// TransactionDate returns the date the transaction happened.
func (t Transaction) TransactionDate() time.Time {
	return t.Date
}

// TransactionDirection returns whether the transaction was a debit or a credit.
func (t Transaction) TransactionDirection() Direction {
	return t.Direction
}

// CategoryName returns the category as a plain string.
func (t Transaction) CategoryName() string {
	return string(t.Category)
}

// MerchantName returns the merchant, which may be UnknownMerchant.
func (t Transaction) MerchantName() string {
	return t.Merchant
}
