package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
	"github.com/Veraticus/the-spice-must-parse/internal/savings"
)

const selectColumns = `
	SELECT id, hash, source, date, description, merchant, amount, direction,
	       category, confidence, account_last_four, reference_number, balance_after
	FROM transactions`

// SaveCandidates stores accepted candidates extracted from source. Candidates
// whose content hash is already present are skipped. It returns the number of
// rows actually inserted.
func (s *SQLiteStorage) SaveCandidates(ctx context.Context, source string, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, hash, source, date, description, merchant, amount, direction,
			category, confidence, account_last_four, reference_number, balance_after
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, txn := range transactions {
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}
		if txn.Source == "" {
			txn.Source = source
		}
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		var balance decimal.NullDecimal
		if txn.BalanceAfter != nil {
			balance = decimal.NewNullDecimal(*txn.BalanceAfter)
		}

		result, execErr := stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.Source,
			txn.Date,
			txn.Description,
			txn.Merchant,
			txn.Amount,
			string(txn.Direction),
			string(txn.Category),
			txn.Confidence,
			txn.AccountLastFour,
			txn.ReferenceNumber,
			balance,
		)
		if execErr != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", txn.ID, execErr)
		}

		if n, _ := result.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Debug("Saved candidates",
		"source", source,
		"received", len(transactions),
		"inserted", inserted)

	return inserted, nil
}

// LoadTransactions returns stored candidates ordered by date, optionally
// restricted to those on or after since.
func (s *SQLiteStorage) LoadTransactions(ctx context.Context, since *time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.loadTransactions(ctx, s.db, since)
}

func (s *SQLiteStorage) loadTransactions(ctx context.Context, q queryable, since *time.Time) ([]model.Transaction, error) {
	query := selectColumns
	var args []any
	if since != nil {
		query += ` WHERE date >= ?`
		args = append(args, *since)
	}
	query += ` ORDER BY date ASC, created_at ASC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

// LoadRecords returns every stored candidate as a savings record.
func (s *SQLiteStorage) LoadRecords(ctx context.Context) ([]savings.Record, error) {
	transactions, err := s.LoadTransactions(ctx, nil)
	if err != nil {
		return nil, err
	}

	records := make([]savings.Record, len(transactions))
	for i, txn := range transactions {
		records[i] = txn
	}
	return records, nil
}

// CountTransactions returns the number of stored candidates.
func (s *SQLiteStorage) CountTransactions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (model.Transaction, error) {
	var (
		txn       model.Transaction
		direction string
		category  string
		balance   decimal.NullDecimal
	)

	err := row.Scan(
		&txn.ID,
		&txn.Hash,
		&txn.Source,
		&txn.Date,
		&txn.Description,
		&txn.Merchant,
		&txn.Amount,
		&direction,
		&category,
		&txn.Confidence,
		&txn.AccountLastFour,
		&txn.ReferenceNumber,
		&balance,
	)
	if err != nil {
		return txn, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.Direction = model.Direction(direction)
	txn.Category = model.Category(category)
	if balance.Valid {
		txn.BalanceAfter = &balance.Decimal
	}

	return txn, nil
}
