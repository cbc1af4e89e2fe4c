package ingest

import (
	"context"
	"log/slog"
	"time"

	"smsledger/internal/database"
	"smsledger/internal/models"
)

// Worker drains the message inbox in the background. One worker processes
// one message at a time; run several for parallel ingest.
type Worker struct {
	db              *database.DB
	service         *Service
	stop            chan struct{}
	done            chan struct{}
	logger          *slog.Logger
	pollInterval    time.Duration
	cleanupInterval time.Duration
	cacheMaxAge     time.Duration
}

// NewWorker creates an inbox worker over the shared pipeline service.
func NewWorker(db *database.DB, service *Service, logger *slog.Logger) *Worker {
	return &Worker{
		db:              db,
		service:         service,
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
		logger:          logger,
		pollInterval:    2 * time.Second,
		cleanupInterval: time.Hour,
		cacheMaxAge:     48 * time.Hour,
	}
}

// Start begins polling in a background goroutine.
func (w *Worker) Start() {
	go func() {
		defer close(w.done)
		w.logger.Info("ingest_worker_started")

		lastCleanup := time.Now()
		for {
			select {
			case <-w.stop:
				w.logger.Info("ingest_worker_stopping")
				return
			default:
				if time.Since(lastCleanup) >= w.cleanupInterval {
					removed := w.service.CleanupCache(w.cacheMaxAge)
					w.logger.Info("fingerprint_cache_cleanup", "removed", removed)
					lastCleanup = time.Now()
				}

				msg, err := w.db.ClaimNextMessage(context.Background())
				if err != nil {
					w.logger.Error("message_claim_error", "error", err.Error())
					time.Sleep(w.pollInterval)
					continue
				}
				if msg == nil {
					time.Sleep(w.pollInterval)
					continue
				}

				w.processMessage(msg)
			}
		}
	}()
}

// Stop signals the worker and waits for the in-flight message to finish.
func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
	w.logger.Info("ingest_worker_stopped")
}

func (w *Worker) processMessage(msg *models.RawMessage) {
	l := w.logger.With("message_id", msg.ID, "sender", msg.Sender, "attempt", msg.Attempts)
	l.Info("message_processing_started")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	outcome, err := w.service.Process(ctx, msg.Body, msg.Sender, msg.ReceivedAt)
	if err != nil {
		// A store failure means the duplicate check could not complete. The
		// message must not be silently accepted or dropped: retry while
		// attempts remain, otherwise park it as failed for operator review.
		l.Error("message_processing_failed", "error", err.Error())
		if msg.Attempts >= msg.MaxAttempts {
			l.Warn("message_max_attempts_reached")
			w.db.FailMessage(ctx, msg.ID, err.Error())
		} else {
			l.Info("message_retrying")
			w.db.RetryMessage(ctx, msg.ID)
		}
		return
	}

	var txID *int64
	if outcome.Status == models.MessageStatusAccepted {
		txID = &outcome.Transaction.ID
	}
	if err := w.db.FinishMessage(ctx, msg.ID, outcome.Status, outcome.Reason, txID); err != nil {
		l.Error("message_finish_failed", "error", err.Error())
		return
	}

	switch outcome.Status {
	case models.MessageStatusAccepted:
		l.Info("message_accepted",
			"transaction_id", outcome.Transaction.ID,
			"bank", outcome.Transaction.BankCode,
			"direction", string(outcome.Transaction.Direction),
			"amount", outcome.Transaction.Amount)
	case models.MessageStatusDuplicate:
		l.Info("message_duplicate", "fingerprint", outcome.Transaction.Fingerprint)
	default:
		l.Info("message_rejected", "reason", outcome.Reason)
	}
}
