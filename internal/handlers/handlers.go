// Package handlers exposes the ingest host's JSON API: enqueue a raw bank
// message, inspect its outcome, and read the resulting ledger. Message
// delivery and any UI live outside this system.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"smsledger/internal/database"
	"smsledger/internal/logger"
	"smsledger/internal/models"
	"smsledger/internal/version"
)

type Handlers struct {
	db *database.DB
}

// New creates the handler set
func New(db *database.DB) *Handlers {
	return &Handlers{db: db}
}

type enqueueRequest struct {
	Body       string `json:"body"`
	Sender     string `json:"sender"`
	ReceivedAt int64  `json:"received_at_ms"`
}

type enqueueResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// MessageEnqueue accepts a raw notification and queues it for the worker.
// Classification is asynchronous; poll MessageStatus for the outcome.
func (h *Handlers) MessageEnqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Body == "" {
		writeError(w, http.StatusBadRequest, "body is required")
		return
	}
	if req.ReceivedAt <= 0 {
		req.ReceivedAt = time.Now().UnixMilli()
	}

	msg := &models.RawMessage{
		ID:         uuid.NewString(),
		Body:       req.Body,
		Sender:     req.Sender,
		ReceivedAt: req.ReceivedAt,
	}
	if err := h.db.CreateMessage(r.Context(), msg); err != nil {
		logger.FromContext(r.Context()).Error("message_enqueue_failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "could not enqueue message")
		return
	}

	writeJSON(w, http.StatusAccepted, enqueueResponse{ID: msg.ID, Status: models.MessageStatusPending})
}

type messageResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Result        string `json:"result,omitempty"`
	TransactionID *int64 `json:"transaction_id,omitempty"`
	Attempts      int    `json:"attempts"`
}

// MessageStatus reports the processing outcome for one queued message.
func (h *Handlers) MessageStatus(w http.ResponseWriter, r *http.Request) {
	msg, err := h.db.GetMessage(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		ID:            msg.ID,
		Status:        msg.Status,
		Result:        msg.Result,
		TransactionID: msg.TransactionID,
		Attempts:      msg.Attempts,
	})
}

type transactionResponse struct {
	ID          int64   `json:"id"`
	BankCode    string  `json:"bank_code"`
	Direction   string  `json:"direction"`
	Amount      float64 `json:"amount"`
	TimestampMS int64   `json:"timestamp_ms"`
	Description string  `json:"description"`
	Merchant    string  `json:"merchant,omitempty"`
	Fingerprint string  `json:"fingerprint"`
}

// TransactionsList returns recent transactions, newest first.
func (h *Handlers) TransactionsList(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	transactions, err := h.db.ListTransactions(r.Context(), limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("transactions_list_failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "could not list transactions")
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, transactionResponse{
			ID:          t.ID,
			BankCode:    t.BankCode,
			Direction:   string(t.Direction),
			Amount:      t.Amount,
			TimestampMS: t.Timestamp,
			Description: t.Description,
			Merchant:    t.Merchant,
			Fingerprint: t.Fingerprint,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// TransactionsStats returns ledger totals.
func (h *Handlers) TransactionsStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.GetTransactionStats(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("transactions_stats_failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "could not compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// APIVersion reports build information.
func (h *Handlers) APIVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"build_time": version.BuildTime,
		"git_commit": version.GitCommit,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
