package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

// createTestStorage returns a migrated in-memory store closed at test cleanup.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(memoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// createTestCandidates returns count debit candidates on consecutive days.
func createTestCandidates(count int) []model.Transaction {
	base := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	txns := make([]model.Transaction, count)
	for i := range txns {
		txns[i] = model.Transaction{
			Date:        base.AddDate(0, 0, i),
			Amount:      decimal.NewFromInt(int64(i+1) * 100),
			Description: "Rs " + decimal.NewFromInt(int64(i+1)*100).String() + " debited at SHOP",
			Merchant:    "SHOP",
			Direction:   model.DirectionDebit,
			Category:    model.CategoryShopping,
			Confidence:  0.7,
		}
	}
	return txns
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("creates database directory", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", "spice.db")

		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		assert.Equal(t, dbPath, store.Path())
		require.NoError(t, store.Migrate(context.Background()))
		assert.FileExists(t, dbPath)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		require.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestMigrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.schemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	var indexCount int
	err = store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_transactions_category'
	`).Scan(&indexCount)
	require.NoError(t, err)
	assert.Equal(t, 1, indexCount)
}

func TestMigrate_NilContext(t *testing.T) {
	store, err := NewSQLiteStorage(memoryPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	var nilCtx context.Context
	err = store.Migrate(nilCtx)
	assert.ErrorIs(t, err, ErrNilContext)
}
