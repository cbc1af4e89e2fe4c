package classify

import (
	"regexp"
	"strings"
)

// Reject reason tags recorded in the inbox when a message fails the gate.
const (
	ReasonBalanceEnquiry = "balance_enquiry"
	ReasonOTP            = "otp_or_login"
	ReasonFutureTense    = "future_or_scheduled"
	ReasonDueStatement   = "due_statement"
	ReasonNoAmount       = "no_amount"
	ReasonNoVerb         = "no_transaction_verb"
	ReasonBankShape      = "bank_shape_mismatch"
	ReasonLowConfidence  = "low_confidence"
)

// exclusionFilter rejects messages with a recognisably non-transactional
// shape. Filters run in order over the lower-cased message; the first match
// wins.
type exclusionFilter struct {
	reason  string
	matches func(lower string) bool
}

// exclusionFilters is the ordered reject list. Order matters only for which
// reason tag a multiply-matching message gets, so keep the most specific
// shapes first.
var exclusionFilters = []exclusionFilter{
	{ReasonOTP, isOTPOrLogin},
	{ReasonBalanceEnquiry, isBalanceEnquiry},
	{ReasonFutureTense, isFutureOrScheduled},
	{ReasonDueStatement, isDueStatement},
}

// The fixed transaction verb vocabulary for the positive evidence gate.
var transactionVerbs = []string{
	"debited", "credited", "paid", "sent", "received",
	"transfer", "payment", "spent", "purchased", "transaction",
}

// Strong verbs lift a message past the confidence gate on their own.
var strongVerbs = []string{"debited", "credited", "paid", "received"}

var (
	// Presence of a currency-amount shape; actual extraction happens later.
	currencyAmountPattern = regexp.MustCompile(`(?i)(?:\b(?:rs\.?|inr)|₹)\s*[\d,]+(?:\.\d{1,2})?|[\d,]+\.\d{2}`)

	// "A/c XX1234", "account no 4021", "card ending 9876"
	accountRefPattern = regexp.MustCompile(`(?i)\b(?:a/c|acct|account)\b|card\s+ending`)
)

var completionIndicators = []string{
	"has been", "have been", "was", "is debited", "is credited",
	"successfully", "successful", "completed", "debited", "credited",
}

func isOTPOrLogin(lower string) bool {
	for _, kw := range []string{
		"otp", "one time password", "one-time password", "verification code",
		"verification pin", "do not share", "login code", "passcode",
		"login to", "logged in", "sign in",
	} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// isBalanceEnquiry matches pure balance or statement notices. A balance
// mention next to a real debit/credit verb is fine; statements quote the
// available balance all the time.
func isBalanceEnquiry(lower string) bool {
	balancy := strings.Contains(lower, "balance") || strings.Contains(lower, "avl bal") ||
		strings.Contains(lower, "available bal") || strings.Contains(lower, "statement of account") ||
		strings.Contains(lower, "mini statement")
	if !balancy {
		return false
	}
	for _, verb := range transactionVerbs {
		if containsWord(lower, verb) {
			return false
		}
	}
	return true
}

// isFutureOrScheduled matches reminders about money that has not moved yet.
func isFutureOrScheduled(lower string) bool {
	future := false
	for _, kw := range []string{
		"will be", "is scheduled", "scheduled for", "upcoming",
		"reminder", "standing instruction", "autopay will",
	} {
		if strings.Contains(lower, kw) {
			future = true
			break
		}
	}
	if !future {
		return false
	}
	for _, kw := range completionIndicators {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

func isDueStatement(lower string) bool {
	for _, kw := range []string{
		"minimum due", "min amt due", "min due", "total amt due",
		"total amount due", "payment due", "due date", "bill is due",
		"is due on",
	} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func hasCurrencyAmount(message string) bool {
	return currencyAmountPattern.MatchString(message)
}

func hasTransactionVerb(lower string) bool {
	for _, verb := range transactionVerbs {
		if containsWord(lower, verb) {
			return true
		}
	}
	return false
}

func hasStrongVerb(lower string) bool {
	for _, verb := range strongVerbs {
		if containsWord(lower, verb) {
			return true
		}
	}
	return false
}

func hasAccountReference(lower string) bool {
	return accountRefPattern.MatchString(lower)
}

func hasCompletionIndicator(lower string) bool {
	for _, kw := range completionIndicators {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// containsWord is a whole-word Contains so "transaction" does not satisfy a
// search for "action".
func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordByte(lower[start-1])
		afterOK := end == len(lower) || !isWordByte(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
