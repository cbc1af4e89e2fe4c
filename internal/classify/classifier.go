// Package classify decides whether a bank notification describes a completed
// transaction and, when it does, extracts the structured record. Rejection
// is the common case and is signaled by a nil result, never an error.
package classify

import (
	"math"
	"strings"

	"smsledger/internal/banks"
	"smsledger/internal/extract"
	"smsledger/internal/models"
	"smsledger/internal/sentiment"
)

// Classifier runs the staged accept/reject gate and the extraction pipeline.
// It is read-only after construction and safe for concurrent use.
type Classifier struct {
	registry *banks.Registry
}

// New creates a classifier over the given bank registry.
func New(registry *banks.Registry) *Classifier {
	return &Classifier{registry: registry}
}

// IsTransactionMessage runs the gate stages in strict order and
// short-circuits on the first failure. The returned reason tag names the
// failing stage; it is empty on acceptance.
func (c *Classifier) IsTransactionMessage(message, sender string) (ok bool, reason string) {
	lower := strings.ToLower(message)

	// Stage 1: exclusion filters.
	for _, f := range exclusionFilters {
		if f.matches(lower) {
			return false, f.reason
		}
	}

	// Stage 2: positive evidence.
	if !hasCurrencyAmount(message) {
		return false, ReasonNoAmount
	}
	if !hasTransactionVerb(lower) {
		return false, ReasonNoVerb
	}

	// Stage 3: bank-specific confirmation. A message attributed to a known
	// bank must look like that bank's transaction notifications.
	bankCode := c.registry.Identify(sender, message)
	if bankCode != banks.GeneralCode {
		if profile := c.registry.ProfileFor(bankCode); profile != nil && len(profile.ShapePatterns) > 0 {
			matched := false
			for _, re := range profile.ShapePatterns {
				if re.MatchString(message) {
					matched = true
					break
				}
			}
			if !matched {
				return false, ReasonBankShape
			}
		}
	}

	// Stage 4: confidence. Reject is the conservative default.
	switch {
	case hasAccountReference(lower) && hasCompletionIndicator(lower):
		return true, ""
	case hasStrongVerb(lower):
		// Amount presence is guaranteed by stage 2.
		return true, ""
	case bankCode != banks.GeneralCode:
		// Known bank plus the stage 2 amount and verb evidence.
		return true, ""
	default:
		return false, ReasonLowConfidence
	}
}

// Explicit direction phrases win outright over the flag heuristics.
var (
	explicitDebitPhrases  = []string{"debited from", "withdrawn from", "deducted from"}
	explicitCreditPhrases = []string{"credited to", "deposited in", "deposited to"}
)

var (
	possessiveContext   = []string{"your", "a/c", "account"}
	debitOverrideVerbs  = []string{"paid", "spent", "purchase", "purchased"}
	creditOverrideVerbs = []string{"received", "income", "salary"}
)

// DetermineDirection classifies money movement with an ordered rule cascade:
// explicit phrases, then verb-plus-possessive flags, then strong-verb
// override or first occurrence when both flags fire, then the sentiment
// fallback. The sentiment scorer itself defaults to DEBIT on a dead tie.
func (c *Classifier) DetermineDirection(message string) models.Direction {
	lower := strings.ToLower(message)

	for _, phrase := range explicitDebitPhrases {
		if strings.Contains(lower, phrase) {
			return models.Debit
		}
	}
	for _, phrase := range explicitCreditPhrases {
		if strings.Contains(lower, phrase) {
			return models.Credit
		}
	}

	hasContext := false
	for _, ctx := range possessiveContext {
		if strings.Contains(lower, ctx) {
			hasContext = true
			break
		}
	}
	debitFlag := hasContext && containsWord(lower, "debited")
	creditFlag := hasContext && containsWord(lower, "credited")

	switch {
	case debitFlag && creditFlag:
		for _, verb := range debitOverrideVerbs {
			if containsWord(lower, verb) {
				return models.Debit
			}
		}
		for _, verb := range creditOverrideVerbs {
			if containsWord(lower, verb) {
				return models.Credit
			}
		}
		if strings.Index(lower, "debited") < strings.Index(lower, "credited") {
			return models.Debit
		}
		return models.Credit
	case debitFlag:
		return models.Debit
	case creditFlag:
		return models.Credit
	}

	return sentiment.Classify(message)
}

// Parse is the pipeline entry point: gate, bank resolution, extraction,
// description synthesis, fingerprinting. A nil transaction with a reason tag
// means the message was rejected, which is an expected outcome, not a
// failure.
func (c *Classifier) Parse(message, sender string, timestampMillis int64) (tx *models.Transaction, reason string) {
	ok, reason := c.IsTransactionMessage(message, sender)
	if !ok {
		return nil, reason
	}

	bankCode := c.registry.Identify(sender, message)
	profile := c.registry.ProfileFor(bankCode)

	amount, found := extract.Amount(message, profile)
	if !found {
		return nil, ReasonNoAmount
	}

	direction := c.DetermineDirection(message)
	merchant := extract.MerchantName(message)

	tx = &models.Transaction{
		BankCode:    bankCode,
		Direction:   direction,
		Amount:      math.Round(amount*100) / 100,
		Timestamp:   timestampMillis,
		Description: extract.Description(message, direction, merchant),
		Merchant:    merchant,
		RawMessage:  message,
	}
	tx.Fingerprint = tx.ComputeFingerprint()
	return tx, ""
}
