// Package similarity decides whether two transactions describe the same
// real-world event. It is the last duplicate-detection tier, consulted only
// for pairs inside the 24h window that were not exact fingerprint matches.
package similarity

import (
	"math"
	"regexp"
	"strings"
	"time"

	"smsledger/internal/extract"
	"smsledger/internal/models"
)

const (
	// Window and tolerance prefilters. Pairs outside either can never be
	// duplicates regardless of wording.
	maxTimeDelta   = 24 * time.Hour
	maxAmountDelta = 0.01

	// Combined-score weighting and acceptance threshold for same-direction
	// pairs.
	descriptionWeight  = 0.7
	merchantWeight     = 0.3
	merchantFloorAbove = 0.8
	duplicateThreshold = 0.7
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Stop words ignored when comparing description tokens across a
// complementary pair; they describe the mechanism, not the counterparty.
var stopWords = map[string]bool{
	"payment": true, "received": true, "transaction": true, "transfer": true,
	"upi": true, "neft": true, "imps": true, "rtgs": true, "atm": true,
	"ref": true, "the": true, "and": true, "from": true, "your": true,
	"for": true, "card": true, "bank": true, "account": true,
}

// AreSimilar reports whether a and b plausibly describe the same event.
// Opposite-direction pairs go through the complementary check (one party's
// "sent" is the other's "received"); same-direction pairs are scored by
// token-set overlap.
func AreSimilar(a, b *models.Transaction) bool {
	delta := time.Duration(math.Abs(float64(a.Timestamp-b.Timestamp))) * time.Millisecond
	if delta > maxTimeDelta {
		return false
	}
	if math.Abs(a.Amount-b.Amount) > maxAmountDelta {
		return false
	}

	if a.Direction != b.Direction {
		return isComplementaryPair(a, b)
	}
	return combinedScore(a, b) >= duplicateThreshold
}

// isComplementaryPair detects the same transfer seen from both ends: the
// directions differ, the descriptions use mirrored language, and either the
// reference numbers agree or the descriptions share a meaningful token.
func isComplementaryPair(a, b *models.Transaction) bool {
	da := strings.ToLower(a.Description)
	db := strings.ToLower(b.Description)

	mirrored := (strings.Contains(da, "sent") && strings.Contains(db, "received")) ||
		(strings.Contains(db, "sent") && strings.Contains(da, "received")) ||
		(strings.Contains(da, " to ") && strings.Contains(db, " from ")) ||
		(strings.Contains(db, " to ") && strings.Contains(da, " from "))
	if !mirrored {
		return false
	}

	refA := normalizeRef(extract.Reference(a.Description))
	refB := normalizeRef(extract.Reference(b.Description))
	if refA != "" && refA == refB {
		return true
	}

	return sharesMeaningfulToken(da, db)
}

func normalizeRef(ref string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(ref), "")
}

func sharesMeaningfulToken(a, b string) bool {
	tokensB := Tokenize(b)
	for token := range Tokenize(a) {
		if stopWords[token] {
			continue
		}
		if tokensB[token] {
			return true
		}
	}
	return false
}

// combinedScore blends description and merchant similarity. A very strong
// merchant match floors the score even when the descriptions diverge.
func combinedScore(a, b *models.Transaction) float64 {
	desc := Jaccard(Tokenize(a.Description), Tokenize(b.Description))

	score := desc
	if a.Merchant != "" && b.Merchant != "" {
		merchant := Jaccard(Tokenize(a.Merchant), Tokenize(b.Merchant))
		score = descriptionWeight*desc + merchantWeight*merchant
		if merchant > merchantFloorAbove && score < merchantFloorAbove {
			score = merchantFloorAbove
		}
	}
	return score
}

// Tokenize lowers the text, splits on every non-alphanumeric run, and drops
// tokens that are two characters or shorter or purely numeric.
func Tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, t := range nonAlnum.Split(strings.ToLower(text), -1) {
		if len(t) <= 2 {
			continue
		}
		if isNumeric(t) {
			continue
		}
		tokens[t] = true
	}
	return tokens
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// Jaccard is |intersection| / |union| over two token sets, 0 when both are
// empty. Symmetric and bounded in [0,1].
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for token := range a {
		if b[token] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
