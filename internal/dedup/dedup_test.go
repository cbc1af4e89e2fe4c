package dedup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smsledger/internal/fpcache"
	"smsledger/internal/models"
)

// fakeStore counts calls so the tests can assert which tiers ran.
type fakeStore struct {
	fingerprints map[string]bool
	recent       []models.Transaction

	existsErr error
	findErr   error

	existsCalls int
	findCalls   int
}

func (s *fakeStore) ExistsByFingerprint(_ context.Context, fingerprint string) (bool, error) {
	s.existsCalls++
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.fingerprints[fingerprint], nil
}

func (s *fakeStore) FindBetween(_ context.Context, startMillis, endMillis int64) ([]models.Transaction, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []models.Transaction
	for _, tx := range s.recent {
		if tx.Timestamp >= startMillis && tx.Timestamp <= endMillis {
			out = append(out, tx)
		}
	}
	return out, nil
}

func newTx(fingerprint string, ts int64) *models.Transaction {
	return &models.Transaction{
		BankCode:    "HDFC",
		Direction:   models.Debit,
		Amount:      500,
		Timestamp:   ts,
		Description: "UPI payment to Swiggy",
		Merchant:    "Swiggy",
		Fingerprint: fingerprint,
	}
}

func TestIsDuplicateCacheHitSkipsStore(t *testing.T) {
	cache := fpcache.New(10)
	cache.Add("fp-1", 1000)
	store := &fakeStore{}
	checker := NewChecker(cache, store)

	dup, err := checker.IsDuplicate(context.Background(), newTx("fp-1", 1000))

	require.NoError(t, err)
	assert.True(t, dup)
	assert.Zero(t, store.existsCalls)
	assert.Zero(t, store.findCalls)
}

func TestIsDuplicateExactMatchWarmsCache(t *testing.T) {
	cache := fpcache.New(10)
	store := &fakeStore{fingerprints: map[string]bool{"fp-1": true}}
	checker := NewChecker(cache, store)

	dup, err := checker.IsDuplicate(context.Background(), newTx("fp-1", 1000))
	require.NoError(t, err)
	assert.True(t, dup)
	assert.Equal(t, 1, store.existsCalls)
	assert.Zero(t, store.findCalls)

	// Second check for the same fingerprint resolves at the cache tier.
	dup, err = checker.IsDuplicate(context.Background(), newTx("fp-1", 1000))
	require.NoError(t, err)
	assert.True(t, dup)
	assert.Equal(t, 1, store.existsCalls)
}

func TestIsDuplicateWindowedSimilarity(t *testing.T) {
	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC).UnixMilli()

	stored := *newTx("fp-stored", base)
	cache := fpcache.New(10)
	store := &fakeStore{recent: []models.Transaction{stored}}
	checker := NewChecker(cache, store)

	// Different fingerprint, same event an hour later.
	candidate := newTx("fp-other", base+time.Hour.Milliseconds())
	dup, err := checker.IsDuplicate(context.Background(), candidate)

	require.NoError(t, err)
	assert.True(t, dup)
	assert.Equal(t, 1, store.findCalls)

	// The candidate's own fingerprint is now cached.
	dup, err = checker.IsDuplicate(context.Background(), candidate)
	require.NoError(t, err)
	assert.True(t, dup)
	assert.Equal(t, 1, store.findCalls)
}

func TestIsDuplicateFreshTransaction(t *testing.T) {
	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC).UnixMilli()

	unrelated := models.Transaction{
		Direction:   models.Debit,
		Amount:      3200,
		Timestamp:   base,
		Description: "ATM withdrawal",
		Fingerprint: "fp-unrelated",
	}
	cache := fpcache.New(10)
	store := &fakeStore{recent: []models.Transaction{unrelated}}
	checker := NewChecker(cache, store)

	fresh := newTx("fp-fresh", base)
	dup, err := checker.IsDuplicate(context.Background(), fresh)

	require.NoError(t, err)
	assert.False(t, dup)
	assert.Equal(t, 1, store.existsCalls)
	assert.Equal(t, 1, store.findCalls)

	// Fresh fingerprints are cached so a redelivery short-circuits.
	assert.True(t, cache.Contains("fp-fresh"))
}

func TestIsDuplicateStoreErrors(t *testing.T) {
	lookupErr := errors.New("database is locked")

	t.Run("fingerprint lookup", func(t *testing.T) {
		checker := NewChecker(fpcache.New(10), &fakeStore{existsErr: lookupErr})
		dup, err := checker.IsDuplicate(context.Background(), newTx("fp-1", 1000))
		assert.False(t, dup)
		require.Error(t, err)
		assert.ErrorIs(t, err, lookupErr)
	})

	t.Run("window scan", func(t *testing.T) {
		checker := NewChecker(fpcache.New(10), &fakeStore{findErr: lookupErr})
		dup, err := checker.IsDuplicate(context.Background(), newTx("fp-1", 1000))
		assert.False(t, dup)
		require.Error(t, err)
		assert.ErrorIs(t, err, lookupErr)
	})
}
