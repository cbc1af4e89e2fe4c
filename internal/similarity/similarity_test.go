package similarity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"smsledger/internal/models"
)

func tx(direction models.Direction, amount float64, ts int64, description, merchant string) *models.Transaction {
	return &models.Transaction{
		Direction:   direction,
		Amount:      amount,
		Timestamp:   ts,
		Description: description,
		Merchant:    merchant,
	}
}

func TestAreSimilarPrefilters(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC).UnixMilli()

	a := tx(models.Debit, 500, base, "UPI payment to Swiggy", "Swiggy")

	t.Run("amount outside tolerance", func(t *testing.T) {
		b := tx(models.Debit, 500.02, base, "UPI payment to Swiggy", "Swiggy")
		assert.False(t, AreSimilar(a, b))
	})

	t.Run("amount inside tolerance", func(t *testing.T) {
		b := tx(models.Debit, 500.01, base, "UPI payment to Swiggy", "Swiggy")
		assert.True(t, AreSimilar(a, b))
	})

	t.Run("outside 24h window", func(t *testing.T) {
		b := tx(models.Debit, 500, base+(24*time.Hour+time.Minute).Milliseconds(), "UPI payment to Swiggy", "Swiggy")
		assert.False(t, AreSimilar(a, b))
	})

	t.Run("window is symmetric", func(t *testing.T) {
		b := tx(models.Debit, 500, base-(24*time.Hour+time.Minute).Milliseconds(), "UPI payment to Swiggy", "Swiggy")
		assert.False(t, AreSimilar(a, b))
		assert.False(t, AreSimilar(b, a))
	})
}

func TestAreSimilarSameDirection(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC).UnixMilli()

	t.Run("identical pair", func(t *testing.T) {
		a := tx(models.Debit, 500, base, "UPI payment to Swiggy", "Swiggy")
		b := tx(models.Debit, 500, base+time.Minute.Milliseconds(), "UPI payment to Swiggy", "Swiggy")
		assert.True(t, AreSimilar(a, b))
	})

	t.Run("near-identical wording", func(t *testing.T) {
		a := tx(models.Debit, 500, base, "UPI payment to Swiggy", "Swiggy")
		b := tx(models.Debit, 500, base, "UPI payment to Swiggy (Ref: ABC123)", "Swiggy")
		assert.True(t, AreSimilar(a, b))
	})

	t.Run("merchant match floors diverging descriptions", func(t *testing.T) {
		a := tx(models.Debit, 200, base, "UPI payment to Raju Stores", "Raju Stores")
		b := tx(models.Debit, 200, base, "IMPS transfer completed", "Raju Stores")
		assert.True(t, AreSimilar(a, b))
	})

	t.Run("unrelated same-amount pair", func(t *testing.T) {
		a := tx(models.Debit, 500, base, "UPI payment to Swiggy", "Swiggy")
		b := tx(models.Debit, 500, base, "ATM withdrawal", "")
		assert.False(t, AreSimilar(a, b))
	})
}

func TestAreSimilarComplementaryPair(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC).UnixMilli()

	t.Run("sender and receiver of the same transfer", func(t *testing.T) {
		a := tx(models.Debit, 200, base, "You sent Rs.200 to Raju Stores via UPI", "Raju Stores")
		b := tx(models.Credit, 200, base+time.Hour.Milliseconds(), "Rs 200 received from Raju Stores via UPI", "Raju Stores")
		assert.True(t, AreSimilar(a, b))
		assert.True(t, AreSimilar(b, a))
	})

	t.Run("matching reference numbers", func(t *testing.T) {
		a := tx(models.Debit, 200, base, "Amount sent, UPI Ref No 425512345678", "")
		b := tx(models.Credit, 200, base, "Received, ref 425512345678", "")
		assert.True(t, AreSimilar(a, b))
	})

	t.Run("mirrored language but nothing shared", func(t *testing.T) {
		a := tx(models.Debit, 200, base, "Amount sent via UPI", "")
		b := tx(models.Credit, 200, base, "Received by counterparty", "")
		assert.False(t, AreSimilar(a, b))
	})

	t.Run("opposite directions without mirrored language", func(t *testing.T) {
		a := tx(models.Debit, 200, base, "Card purchase completed", "")
		b := tx(models.Credit, 200, base, "Refund processed", "")
		assert.False(t, AreSimilar(a, b))
	})
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("UPI payment to Swiggy, Ref 402194, Rs 500.00")

	assert.True(t, tokens["upi"])
	assert.True(t, tokens["payment"])
	assert.True(t, tokens["swiggy"])
	assert.True(t, tokens["ref"])
	// Short and purely numeric tokens are dropped.
	assert.False(t, tokens["to"])
	assert.False(t, tokens["rs"])
	assert.False(t, tokens["402194"])
	assert.False(t, tokens["500"])
}

func TestJaccard(t *testing.T) {
	a := Tokenize("upi payment swiggy")
	b := Tokenize("upi payment zomato")

	assert.Equal(t, 1.0, Jaccard(a, a))
	assert.Equal(t, Jaccard(a, b), Jaccard(b, a))
	assert.InDelta(t, 0.5, Jaccard(a, b), 1e-9)
	assert.Equal(t, 0.0, Jaccard(Tokenize(""), Tokenize("")))
	assert.Equal(t, 0.0, Jaccard(a, Tokenize("")))
}
