package extract

import (
	"regexp"
	"strconv"
	"strings"

	"smsledger/internal/banks"
)

// General currency patterns in priority order. Bank-specific patterns run
// before these; the loose pattern runs last.
var (
	amountPatterns = []*regexp.Regexp{
		// "Rs.500.00", "Rs 1,500", "INR 200.50"
		regexp.MustCompile(`(?i)(?:\b(?:rs\.?|inr)|₹)\s*([\d,]+(?:\.\d{1,2})?)`),
		// "500.00 Rs", "1500 INR"
		regexp.MustCompile(`(?i)([\d,]+(?:\.\d{1,2})?)\s*(?:rs\b|inr\b)`),
		// "amount of 1,250.00", "amt 300"
		regexp.MustCompile(`(?i)(?:amount|amt)\s*(?:of)?\s*:?\s*(?:rs\.?|inr)?\s*([\d,]+(?:\.\d{1,2})?)`),
	}

	// Last resort: any number with exactly two fraction digits. Requiring
	// the decimals keeps OTPs and reference numbers out.
	looseAmountPattern = regexp.MustCompile(`([\d,]+\.\d{2})`)
)

// Amount pulls the transaction amount out of a message. The resolved bank's
// own patterns are tried first, then the general patterns, then the loose
// fallback. A match whose capture fails to parse is a miss for that pattern,
// not a fatal error; extraction moves on. ok is false only when every
// pattern misses.
func Amount(message string, profile *banks.BankProfile) (amount float64, ok bool) {
	if profile != nil {
		for _, re := range profile.AmountPatterns {
			if v, ok := tryAmount(re, message); ok {
				return v, true
			}
		}
	}
	for _, re := range amountPatterns {
		if v, ok := tryAmount(re, message); ok {
			return v, true
		}
	}
	return tryAmount(looseAmountPattern, message)
}

func tryAmount(re *regexp.Regexp, message string) (float64, bool) {
	match := re.FindStringSubmatch(message)
	if len(match) < 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
