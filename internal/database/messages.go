package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"smsledger/internal/models"
)

// CreateMessage enqueues a raw notification for the ingest worker.
func (db *DB) CreateMessage(ctx context.Context, msg *models.RawMessage) error {
	if msg.MaxAttempts <= 0 {
		msg.MaxAttempts = 3
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO messages (id, body, sender, received_at_ms, status, max_attempts)
		VALUES (?, ?, ?, ?, 'pending', ?)
	`, msg.ID, msg.Body, msg.Sender, msg.ReceivedAt, msg.MaxAttempts)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ClaimNextMessage atomically claims the oldest pending message for
// processing, or returns nil when the inbox is empty.
func (db *DB) ClaimNextMessage(ctx context.Context) (*models.RawMessage, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var msg models.RawMessage
	var transactionID sql.NullInt64
	var processedAt sql.NullTime
	err = tx.QueryRowContext(ctx, `
		SELECT id, body, sender, received_at_ms, status, attempts, max_attempts,
		       transaction_id, result, created_at, processed_at
		FROM messages
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT 1
	`).Scan(&msg.ID, &msg.Body, &msg.Sender, &msg.ReceivedAt, &msg.Status,
		&msg.Attempts, &msg.MaxAttempts, &transactionID, &msg.Result,
		&msg.CreatedAt, &processedAt)

	if err == sql.ErrNoRows {
		return nil, nil // inbox empty
	}
	if err != nil {
		return nil, fmt.Errorf("query message: %w", err)
	}
	if transactionID.Valid {
		msg.TransactionID = &transactionID.Int64
	}
	if processedAt.Valid {
		msg.ProcessedAt = &processedAt.Time
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE messages
		SET status = 'running', attempts = attempts + 1
		WHERE id = ?
	`, msg.ID)
	if err != nil {
		return nil, fmt.Errorf("claim message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	msg.Status = models.MessageStatusRunning
	msg.Attempts++
	return &msg, nil
}

// FinishMessage records the pipeline outcome for a claimed message. status
// is one of accepted/rejected/duplicate; result carries the reject reason
// tag and transactionID is set only on acceptance.
func (db *DB) FinishMessage(ctx context.Context, id, status, result string, transactionID *int64) error {
	var txID sql.NullInt64
	if transactionID != nil {
		txID = sql.NullInt64{Int64: *transactionID, Valid: true}
	}
	_, err := db.ExecContext(ctx, `
		UPDATE messages
		SET status = ?, result = ?, transaction_id = ?, processed_at = ?
		WHERE id = ?
	`, status, result, txID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("finish message: %w", err)
	}
	return nil
}

// RetryMessage puts a failed claim back in the queue.
func (db *DB) RetryMessage(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, `
		UPDATE messages SET status = 'pending' WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("retry message: %w", err)
	}
	return nil
}

// FailMessage marks a message as permanently failed.
func (db *DB) FailMessage(ctx context.Context, id, errMsg string) error {
	_, err := db.ExecContext(ctx, `
		UPDATE messages
		SET status = 'failed', result = ?, processed_at = ?
		WHERE id = ?
	`, errMsg, time.Now(), id)
	if err != nil {
		return fmt.Errorf("fail message: %w", err)
	}
	return nil
}

// GetMessage returns a message by id.
func (db *DB) GetMessage(ctx context.Context, id string) (*models.RawMessage, error) {
	var msg models.RawMessage
	var transactionID sql.NullInt64
	var processedAt sql.NullTime
	err := db.QueryRowContext(ctx, `
		SELECT id, body, sender, received_at_ms, status, attempts, max_attempts,
		       transaction_id, result, created_at, processed_at
		FROM messages
		WHERE id = ?
	`, id).Scan(&msg.ID, &msg.Body, &msg.Sender, &msg.ReceivedAt, &msg.Status,
		&msg.Attempts, &msg.MaxAttempts, &transactionID, &msg.Result,
		&msg.CreatedAt, &processedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("message not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query message: %w", err)
	}
	if transactionID.Valid {
		msg.TransactionID = &transactionID.Int64
	}
	if processedAt.Valid {
		msg.ProcessedAt = &processedAt.Time
	}
	return &msg, nil
}
