package extract

import (
	"fmt"
	"regexp"
	"strings"

	"smsledger/internal/models"
)

// Transaction methods in detection precedence order. The first pattern that
// matches names the method; "Transaction" is the generic fallback.
var methodPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"UPI", regexp.MustCompile(`(?i)\bupi\b`)},
	{"NEFT", regexp.MustCompile(`(?i)\bneft\b`)},
	{"IMPS", regexp.MustCompile(`(?i)\bimps\b`)},
	{"RTGS", regexp.MustCompile(`(?i)\brtgs\b`)},
	{"ATM", regexp.MustCompile(`(?i)\batm\b|cash\s*withdrawal`)},
	{"NetBanking", regexp.MustCompile(`(?i)net\s*banking|netbanking`)},
	{"Credit Card", regexp.MustCompile(`(?i)credit\s*card`)},
	{"Debit Card", regexp.MustCompile(`(?i)debit\s*card`)},
}

// Description synthesizes a human-readable summary from the detected
// transaction method, the direction, and the merchant. The merchant clause
// is omitted when no merchant was extracted; a reference suffix is appended
// when one is present in the message.
func Description(message string, direction models.Direction, merchant string) string {
	method := "Transaction"
	for _, m := range methodPatterns {
		if m.pattern.MatchString(message) {
			method = m.name
			break
		}
	}

	var b strings.Builder
	b.WriteString(method)
	if direction == models.Credit {
		b.WriteString(" received")
		if merchant != "" {
			b.WriteString(" from ")
			b.WriteString(merchant)
		}
	} else {
		b.WriteString(" payment")
		if merchant != "" {
			b.WriteString(" to ")
			b.WriteString(merchant)
		}
	}

	if ref := Reference(message); ref != "" {
		fmt.Fprintf(&b, " (Ref: %s)", ref)
	}
	return b.String()
}
