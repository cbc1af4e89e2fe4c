package extract

import (
	"regexp"
	"strings"
)

// Words that introduce a merchant name within a sentence.
var merchantIndicators = map[string]bool{
	"at":      true,
	"to":      true,
	"for":     true,
	"towards": true,
	"via":     true,
	"through": true,
	"from":    true,
}

// Words that end a merchant name once collection has started.
var merchantTerminators = map[string]bool{
	"on":      true,
	"of":      true,
	"via":     true,
	"using":   true,
	"through": true,
	"for":     true,
	"info":    true,
	"alert":   true,
	"inr":     true,
	"rs":      true,
	"upi":     true,
	"dated":   true,
	"ref":     true,
	"refno":   true,
	"txn":     true,
	"avl":     true,
	"bal":     true,
	"balance": true,
	"a/c":     true,
	"ac":      true,
	"account": true,
	// Possessives and articles never start a merchant name; hitting one
	// right after an indicator means the indicator was a false lead.
	"your": true,
	"you":  true,
	"my":   true,
	"the":  true,
	"a":    true,
	"an":   true,
	"is":   true,
	"has":  true,
	"been": true,
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	// "UPI-SWIGGY-..." or "UPI/SWIGGY/..."
	upiMerchantPattern = regexp.MustCompile(`(?i)upi[-/]([a-z][a-z0-9 ]*[a-z0-9])[-/]`)
	// "... to RAJU STORES Ref No 1234"
	refAdjacentPattern = regexp.MustCompile(`(?i)\b(?:to|at)\s+([a-z][a-z ]{2,40}?)\s+ref\b`)
	digitsOnly         = regexp.MustCompile(`^\d+$`)
	trailingPunct      = regexp.MustCompile(`[[:punct:]]+$`)
)

// MerchantName scans each sentence for a merchant-indicator word and takes
// up to the four words that follow it, stopping early at terminator tokens.
// An indicator whose following words all terminate immediately is skipped
// and the scan continues. Falls back to the UPI-<name>- convention, then to
// a reference-adjacent pattern. Returns "" (never an error) on a total miss.
func MerchantName(message string) string {
	for _, sentence := range sentenceSplit.Split(message, -1) {
		words := strings.Fields(sentence)
		for i, w := range words {
			if !merchantIndicators[strings.ToLower(w)] {
				continue
			}
			if name := collectMerchantWords(words[i+1:]); name != "" {
				return name
			}
		}
	}

	if match := upiMerchantPattern.FindStringSubmatch(message); len(match) > 1 {
		return titleCase(strings.Fields(match[1]))
	}
	if match := refAdjacentPattern.FindStringSubmatch(message); len(match) > 1 {
		return titleCase(strings.Fields(strings.TrimSpace(match[1])))
	}
	return ""
}

// collectMerchantWords takes up to four words, stopping at the first
// terminator or pure-digit token.
func collectMerchantWords(words []string) string {
	var collected []string
	for _, w := range words {
		if len(collected) == 4 {
			break
		}
		cleaned := trailingPunct.ReplaceAllString(w, "")
		lower := strings.ToLower(cleaned)
		if cleaned == "" || merchantTerminators[lower] || digitsOnly.MatchString(cleaned) {
			break
		}
		collected = append(collected, cleaned)
	}
	return titleCase(collected)
}

func titleCase(words []string) string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		lower := strings.ToLower(w)
		out = append(out, strings.ToUpper(lower[:1])+lower[1:])
	}
	return strings.Join(out, " ")
}
