package model

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionGenerateHash(t *testing.T) {
	base := Transaction{
		ID:          "first",
		Date:        time.Date(2024, 11, 28, 9, 30, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("1250.5"),
		Description: "Rs. 1250.50 debited at BIG BAZAAR",
		Source:      "sms.txt",
		Confidence:  0.8,
	}

	t.Run("ignores id, time of day, confidence and amount formatting", func(t *testing.T) {
		other := base
		other.ID = "second"
		other.Date = base.Date.Add(5 * time.Hour)
		other.Amount = decimal.RequireFromString("1250.50")
		other.Confidence = 0.4
		assert.Equal(t, base.GenerateHash(), other.GenerateHash())
	})

	tests := []struct {
		mutate func(*Transaction)
		name   string
	}{
		{name: "amount", mutate: func(txn *Transaction) { txn.Amount = decimal.NewFromInt(1251) }},
		{name: "day", mutate: func(txn *Transaction) { txn.Date = txn.Date.AddDate(0, 0, 1) }},
		{name: "description", mutate: func(txn *Transaction) { txn.Description = "Rs. 1250.50 debited at DMART" }},
		{name: "source", mutate: func(txn *Transaction) { txn.Source = "mail.txt" }},
	}
	for _, tt := range tests {
		t.Run("changes with "+tt.name, func(t *testing.T) {
			other := base
			tt.mutate(&other)
			assert.NotEqual(t, base.GenerateHash(), other.GenerateHash())
		})
	}

	t.Run("only the description prefix counts", func(t *testing.T) {
		long := base
		long.Description = strings.Repeat("x", 50) + " tail one"
		other := long
		other.Description = strings.Repeat("x", 50) + " tail two"
		assert.Equal(t, long.GenerateHash(), other.GenerateHash())
	})
}

func TestTransactionRecordAccessors(t *testing.T) {
	txn := Transaction{
		Date:      time.Date(2024, 11, 28, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("99.99"),
		Merchant:  "Swiggy",
		Direction: DirectionDebit,
		Category:  CategoryDining,
	}

	assert.InDelta(t, 99.99, txn.TransactionAmount(), 1e-9)
	assert.Equal(t, txn.Date, txn.TransactionDate())
	assert.Equal(t, DirectionDebit, txn.TransactionDirection())
	assert.Equal(t, "dining", txn.CategoryName())
	assert.Equal(t, "Swiggy", txn.MerchantName())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
		ok    bool
	}{
		{input: "groceries", want: CategoryGroceries, ok: true},
		{input: "  Dining ", want: CategoryDining, ok: true},
		{input: "OTHER", want: CategoryOther, ok: true},
		{input: "crypto", want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoriesOrder(t *testing.T) {
	categories := Categories()
	assert.Len(t, categories, 10)
	assert.Equal(t, CategoryGroceries, categories[0])
	assert.Equal(t, CategoryOther, categories[len(categories)-1])
}
