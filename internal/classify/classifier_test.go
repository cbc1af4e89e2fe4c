package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smsledger/internal/banks"
	"smsledger/internal/models"
)

func newTestClassifier() *Classifier {
	return New(banks.NewRegistry())
}

func TestIsTransactionMessageRejects(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name    string
		message string
		sender  string
		reason  string
	}{
		{
			"otp",
			"Your OTP for login is 123456. Do not share.",
			"HDFCBK",
			ReasonOTP,
		},
		{
			"balance enquiry",
			"Avl Bal in A/c XX1234 is Rs 20500",
			"SBIINB",
			ReasonBalanceEnquiry,
		},
		{
			"scheduled payment reminder",
			"Reminder: payment of Rs 4999 is scheduled for 05-04",
			"",
			ReasonFutureTense,
		},
		{
			"card statement",
			"Total amount due Rs 3200 on your card, pay by 15-04",
			"",
			ReasonDueStatement,
		},
		{
			"no amount",
			"Your account was debited yesterday",
			"",
			ReasonNoAmount,
		},
		{
			"no transaction verb",
			"Rs 500 cashback offer just for you",
			"",
			ReasonNoVerb,
		},
		{
			"known bank without its notification shape",
			"Rs 500 payment processed",
			"HDFCBK",
			ReasonBankShape,
		},
		{
			"weak evidence from unknown sender",
			"You sent Rs.200 to Raju Stores",
			"",
			ReasonLowConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := c.IsTransactionMessage(tt.message, tt.sender)
			assert.False(t, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestIsTransactionMessageAccepts(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name    string
		message string
		sender  string
	}{
		{
			"bank debit with account reference",
			"Rs.500.00 debited from your HDFC Bank A/c XX1234 on 15-03 to Swiggy via UPI. Ref ABC123",
			"HDFCBK",
		},
		{
			"credit quoting the balance",
			"Rs 1500 credited to your SBI account. Avl Bal Rs 20500",
			"SBIINB",
		},
		{
			"strong verb from unknown sender",
			"Rs 200 received via UPI",
			"",
		},
		{
			"known bank lifts weak evidence",
			"You sent Rs.200 to Raju Stores via UPI",
			"PYTMPB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := c.IsTransactionMessage(tt.message, tt.sender)
			assert.True(t, ok)
			assert.Empty(t, reason)
		})
	}
}

func TestDetermineDirection(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name    string
		message string
		want    models.Direction
	}{
		{
			"explicit debit phrase",
			"Rs 500 debited from your a/c",
			models.Debit,
		},
		{
			"explicit debit wins over a later credit mention",
			"Rs 500 debited from your a/c and credited to the merchant",
			models.Debit,
		},
		{
			"explicit credit phrase",
			"Rs 1500 credited to your account",
			models.Credit,
		},
		{
			"both flags resolved by override verb",
			"your a/c: Rs 500 credited, Rs 500 debited, amount received",
			models.Credit,
		},
		{
			"both flags resolved by first occurrence",
			"your a/c was debited then credited",
			models.Debit,
		},
		{
			"sentiment fallback debit",
			"You spent Rs 899 at Big Bazaar",
			models.Debit,
		},
		{
			"sentiment fallback credit",
			"Refund of Rs 99 received",
			models.Credit,
		},
		{
			"no signal defaults to debit",
			"Rs 100 transaction",
			models.Debit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.DetermineDirection(tt.message))
		})
	}
}

func TestParseBankDebit(t *testing.T) {
	c := newTestClassifier()

	msg := "Rs.500.00 debited from your HDFC Bank A/c XX1234 on 15-03 to Swiggy via UPI. Ref ABC123"
	tx, reason := c.Parse(msg, "HDFCBK", 1760000000000)

	require.NotNil(t, tx)
	assert.Empty(t, reason)
	assert.Equal(t, "HDFC", tx.BankCode)
	assert.Equal(t, models.Debit, tx.Direction)
	assert.Equal(t, 500.00, tx.Amount)
	assert.Equal(t, int64(1760000000000), tx.Timestamp)
	assert.Equal(t, "Swiggy", tx.Merchant)
	assert.Equal(t, "UPI payment to Swiggy (Ref: ABC123)", tx.Description)
	assert.Equal(t, msg, tx.RawMessage)
	assert.NotEmpty(t, tx.Fingerprint)
	assert.Equal(t, tx.ComputeFingerprint(), tx.Fingerprint)
}

func TestParseCreditIgnoresQuotedBalance(t *testing.T) {
	c := newTestClassifier()

	tx, reason := c.Parse("Rs 1500 credited to your SBI account. Avl Bal Rs 20500", "SBIINB", 1760000000000)

	require.NotNil(t, tx)
	assert.Empty(t, reason)
	assert.Equal(t, "SBI", tx.BankCode)
	assert.Equal(t, models.Credit, tx.Direction)
	assert.Equal(t, 1500.00, tx.Amount)
	assert.Empty(t, tx.Merchant)
	assert.Equal(t, "Transaction received", tx.Description)
}

func TestParseRejectionReturnsNil(t *testing.T) {
	c := newTestClassifier()

	tx, reason := c.Parse("Your OTP for login is 123456. Do not share.", "HDFCBK", 1760000000000)

	assert.Nil(t, tx)
	assert.Equal(t, ReasonOTP, reason)
}

func TestParseIsDeterministic(t *testing.T) {
	c := newTestClassifier()

	msg := "Rs.500.00 debited from your HDFC Bank A/c XX1234 on 15-03 to Swiggy via UPI. Ref ABC123"
	first, _ := c.Parse(msg, "HDFCBK", 1760000000000)
	require.NotNil(t, first)

	for i := 0; i < 20; i++ {
		tx, _ := c.Parse(msg, "HDFCBK", 1760000000000)
		require.NotNil(t, tx)
		assert.Equal(t, first.Fingerprint, tx.Fingerprint)
		assert.Equal(t, first.Description, tx.Description)
	}
}
