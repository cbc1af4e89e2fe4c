// Package ingest wires the classification, deduplication and persistence
// stages into a single per-message pipeline and runs it off the inbox.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smsledger/internal/classify"
	"smsledger/internal/database"
	"smsledger/internal/dedup"
	"smsledger/internal/fpcache"
	"smsledger/internal/models"
)

// Store is everything the pipeline needs from persistence: the duplicate
// check queries plus the final insert.
type Store interface {
	dedup.Store
	CreateTransaction(ctx context.Context, tx *models.Transaction) (int64, error)
}

// Outcome is the result of running one message through the pipeline.
type Outcome struct {
	Status      string // models.MessageStatusAccepted / Rejected / Duplicate
	Reason      string // reject reason tag, empty otherwise
	Transaction *models.Transaction
}

// Service runs the full pipeline for one message at a time. Multiple
// goroutines may call Process concurrently; the classifier and registry are
// read-only and the cache locks internally.
type Service struct {
	classifier *classify.Classifier
	checker    *dedup.Checker
	cache      *fpcache.Cache
	store      Store
}

// NewService wires the pipeline over a shared fingerprint cache and store.
func NewService(classifier *classify.Classifier, cache *fpcache.Cache, store Store) *Service {
	return &Service{
		classifier: classifier,
		checker:    dedup.NewChecker(cache, store),
		cache:      cache,
		store:      store,
	}
}

// Process classifies one message and, when it extracts a fresh transaction,
// persists it. Rejection and duplication are ordinary outcomes; the error
// return is reserved for store failures, which callers must surface rather
// than swallow.
func (s *Service) Process(ctx context.Context, body, sender string, timestampMillis int64) (*Outcome, error) {
	tx, reason := s.classifier.Parse(body, sender, timestampMillis)
	if tx == nil {
		return &Outcome{Status: models.MessageStatusRejected, Reason: reason}, nil
	}

	duplicate, err := s.checker.IsDuplicate(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if duplicate {
		return &Outcome{Status: models.MessageStatusDuplicate, Transaction: tx}, nil
	}

	id, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		// Another worker with the same fingerprint won the insert race.
		if errors.Is(err, database.ErrDuplicateFingerprint) {
			return &Outcome{Status: models.MessageStatusDuplicate, Transaction: tx}, nil
		}
		return nil, fmt.Errorf("persist transaction: %w", err)
	}
	tx.ID = id

	return &Outcome{Status: models.MessageStatusAccepted, Transaction: tx}, nil
}

// CleanupCache drops cached fingerprints older than maxAge. Invoked
// periodically by the worker; capacity eviction happens on its own.
func (s *Service) CleanupCache(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge).UnixMilli()
	return s.cache.Cleanup(cutoff)
}
