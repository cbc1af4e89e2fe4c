package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Direction indicates which way money moved relative to the account holder.
type Direction string

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

// Transaction is a structured record extracted from a bank notification
// message. Once a fingerprint is assigned the record is treated as immutable;
// persisting it is the caller's job.
type Transaction struct {
	ID          int64
	BankCode    string
	Direction   Direction
	Amount      float64 // positive, two fraction digits
	Timestamp   int64   // epoch milliseconds
	Description string
	Merchant    string // empty when none could be extracted
	RawMessage  string // original notification text, kept for review
	Fingerprint string
	CreatedAt   time.Time
}

// ComputeFingerprint hashes the four derived identity fields: amount at two
// decimals, the calendar day, the lower-cased merchant, and bank:direction.
// The raw message text deliberately does not participate, so re-deliveries
// with different phrasing hash identically when the derived fields agree.
// The day bucket is always UTC so the value never depends on the host
// timezone.
func (t *Transaction) ComputeFingerprint() string {
	day := time.UnixMilli(t.Timestamp).UTC().Format("2006-01-02")
	payload := fmt.Sprintf("%.2f|%s|%s|%s:%s",
		t.Amount, day, strings.ToLower(t.Merchant), t.BankCode, t.Direction)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Time returns the transaction timestamp as a time.Time.
func (t *Transaction) Time() time.Time {
	return time.UnixMilli(t.Timestamp)
}

// Inbox message statuses.
const (
	MessageStatusPending   = "pending"
	MessageStatusRunning   = "running"
	MessageStatusAccepted  = "accepted"
	MessageStatusRejected  = "rejected"
	MessageStatusDuplicate = "duplicate"
	MessageStatusFailed    = "failed"
)

// RawMessage is one inbound notification waiting in (or processed from) the
// inbox. Delivery itself is outside this system: rows are created by the
// HTTP API and consumed by the ingest worker.
type RawMessage struct {
	ID            string // uuid
	Body          string
	Sender        string
	ReceivedAt    int64 // epoch milliseconds, as reported by the deliverer
	Status        string
	Attempts      int
	MaxAttempts   int
	TransactionID *int64 // set when the message produced a stored transaction
	Result        string // reason tag on reject, error text on failure
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}
