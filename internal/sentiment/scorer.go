// Package sentiment is the fallback direction classifier, consulted only
// when the surface heuristics in classify are tied. Scoring is deterministic
// hand-authored rule weighting over token sets; nothing here is learned.
package sentiment

import (
	"strings"

	"smsledger/internal/models"
)

// Token weights, all in [0,1]. Credit-leaning tokens push toward money in,
// debit-leaning toward money out.
var creditTokens = map[string]float64{
	"credited":  1.0,
	"received":  0.9,
	"deposited": 0.9,
	"refund":    0.8,
	"refunded":  0.8,
	"cashback":  0.7,
	"salary":    0.7,
	"income":    0.6,
	"added":     0.5,
	"reversed":  0.5,
	"bonus":     0.4,
	"interest":  0.4,
}

var debitTokens = map[string]float64{
	"debited":   1.0,
	"paid":      0.9,
	"spent":     0.9,
	"purchased": 0.8,
	"purchase":  0.8,
	"withdrawn": 0.8,
	"sent":      0.7,
	"charged":   0.7,
	"deducted":  0.7,
	"payment":   0.5,
	"bill":      0.4,
	"emi":       0.4,
}

// Anchored phrases carry far more signal than lone tokens.
const phraseBonus = 1.5

var creditPhrases = []string{
	"credited to your",
	"credited to a/c",
	"received in your",
	"deposited in your",
}

var debitPhrases = []string{
	"debited from your",
	"debited from a/c",
	"paid from your",
	"withdrawn from your",
}

// Failure or negation language inverts the reading: "credit failed" is not
// a credit.
var negationTokens = []string{
	"not", "failed", "rejected", "declined", "unsuccessful", "cancelled",
}

// Classify sums the weights of every token present in the message, applies
// phrase bonuses, swaps the two scores when negation language appears, and
// returns the heavier side. An exact tie resolves to DEBIT, the stated
// default.
func Classify(message string) models.Direction {
	lower := strings.ToLower(message)

	var creditScore, debitScore float64
	for token, weight := range creditTokens {
		if containsToken(lower, token) {
			creditScore += weight
		}
	}
	for token, weight := range debitTokens {
		if containsToken(lower, token) {
			debitScore += weight
		}
	}
	for _, phrase := range creditPhrases {
		if strings.Contains(lower, phrase) {
			creditScore += phraseBonus
			break
		}
	}
	for _, phrase := range debitPhrases {
		if strings.Contains(lower, phrase) {
			debitScore += phraseBonus
			break
		}
	}

	for _, neg := range negationTokens {
		if containsToken(lower, neg) {
			creditScore, debitScore = debitScore, creditScore
			break
		}
	}

	if creditScore > debitScore {
		return models.Credit
	}
	return models.Debit
}

// containsToken matches whole words only, so "note" does not trip "not".
func containsToken(lower, token string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], token)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(token)
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
