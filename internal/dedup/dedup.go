// Package dedup suppresses repeated and re-delivered transactions before
// they reach the store. Checks run cheapest first: the in-memory fingerprint
// cache, then an exact fingerprint lookup, then a windowed similarity scan.
package dedup

import (
	"context"
	"fmt"
	"time"

	"smsledger/internal/fpcache"
	"smsledger/internal/models"
	"smsledger/internal/similarity"
)

// Window is how far either side of a candidate's timestamp the similarity
// scan reaches.
const Window = 24 * time.Hour

// Store is the persistence collaborator consulted during duplicate checks.
// The checker never writes transactions; persistence stays with the caller.
type Store interface {
	ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error)
	FindBetween(ctx context.Context, startMillis, endMillis int64) ([]models.Transaction, error)
}

// Checker runs the three-tier duplicate check.
type Checker struct {
	cache *fpcache.Cache
	store Store
}

// NewChecker wires a checker over the shared fingerprint cache and the store.
func NewChecker(cache *fpcache.Cache, store Store) *Checker {
	return &Checker{cache: cache, store: store}
}

// IsDuplicate reports whether tx repeats a transaction already seen. A store
// failure propagates: the caller must not treat an unverifiable candidate as
// fresh. When the candidate is fresh its fingerprint is cached so an
// identical near-future repeat short-circuits at tier one.
//
// Two workers racing on the same fingerprint may both see "fresh"; the
// store's uniqueness constraint settles that case, not the cache.
func (c *Checker) IsDuplicate(ctx context.Context, tx *models.Transaction) (bool, error) {
	if c.cache.Contains(tx.Fingerprint) {
		return true, nil
	}

	exists, err := c.store.ExistsByFingerprint(ctx, tx.Fingerprint)
	if err != nil {
		return false, fmt.Errorf("fingerprint lookup: %w", err)
	}
	if exists {
		c.cache.Add(tx.Fingerprint, tx.Timestamp)
		return true, nil
	}

	windowMillis := Window.Milliseconds()
	recent, err := c.store.FindBetween(ctx, tx.Timestamp-windowMillis, tx.Timestamp+windowMillis)
	if err != nil {
		return false, fmt.Errorf("window scan: %w", err)
	}
	for i := range recent {
		if similarity.AreSimilar(tx, &recent[i]) {
			c.cache.Add(tx.Fingerprint, tx.Timestamp)
			return true, nil
		}
	}

	c.cache.Add(tx.Fingerprint, tx.Timestamp)
	return false, nil
}
