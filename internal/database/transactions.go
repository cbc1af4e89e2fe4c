package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"smsledger/internal/models"
)

// ErrDuplicateFingerprint is returned when an insert loses the race against
// another writer of the same fingerprint. The schema's UNIQUE constraint is
// the final dedup authority; the in-memory cache only narrows the window.
var ErrDuplicateFingerprint = errors.New("fingerprint already stored")

// CreateTransaction inserts an accepted transaction and returns its row id.
func (db *DB) CreateTransaction(ctx context.Context, tx *models.Transaction) (int64, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO transactions (
			bank_code, direction, amount, timestamp_ms,
			description, merchant, raw_message, fingerprint
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, tx.BankCode, string(tx.Direction), tx.Amount, tx.Timestamp,
		tx.Description, tx.Merchant, tx.RawMessage, tx.Fingerprint)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateFingerprint
		}
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return result.LastInsertId()
}

// ExistsByFingerprint reports whether a transaction with this fingerprint is
// already stored.
func (db *DB) ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM transactions WHERE fingerprint = ?`, fingerprint).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query fingerprint: %w", err)
	}
	return true, nil
}

// FindBetween returns all transactions with timestamps in
// [startMillis, endMillis], oldest first.
func (db *DB) FindBetween(ctx context.Context, startMillis, endMillis int64) ([]models.Transaction, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, bank_code, direction, amount, timestamp_ms,
		       description, merchant, raw_message, fingerprint, created_at
		FROM transactions
		WHERE timestamp_ms BETWEEN ? AND ?
		ORDER BY timestamp_ms, id
	`, startMillis, endMillis)
	if err != nil {
		return nil, fmt.Errorf("query transactions window: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListTransactions returns the most recent transactions, newest first.
func (db *DB) ListTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, bank_code, direction, amount, timestamp_ms,
		       description, merchant, raw_message, fingerprint, created_at
		FROM transactions
		ORDER BY timestamp_ms DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var direction string
		if err := rows.Scan(&t.ID, &t.BankCode, &direction, &t.Amount, &t.Timestamp,
			&t.Description, &t.Merchant, &t.RawMessage, &t.Fingerprint, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Direction = models.Direction(direction)
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// TransactionStats summarises the ledger for the stats endpoint.
type TransactionStats struct {
	Total       int     `json:"total"`
	Debits      int     `json:"debits"`
	Credits     int     `json:"credits"`
	DebitTotal  float64 `json:"debit_total"`
	CreditTotal float64 `json:"credit_total"`
}

func (db *DB) GetTransactionStats(ctx context.Context) (*TransactionStats, error) {
	var stats TransactionStats
	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN direction = 'DEBIT' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN direction = 'CREDIT' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN direction = 'DEBIT' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN direction = 'CREDIT' THEN amount ELSE 0 END), 0)
		FROM transactions
	`).Scan(&stats.Total, &stats.Debits, &stats.Credits, &stats.DebitTotal, &stats.CreditTotal)
	if err != nil {
		return nil, fmt.Errorf("query transaction stats: %w", err)
	}
	return &stats, nil
}

// isUniqueViolation matches sqlite's UNIQUE constraint error without
// depending on driver error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
