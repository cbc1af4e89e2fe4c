package extract

import "regexp"

// Reference number patterns, tried in order. First match wins.
var referencePatterns = []*regexp.Regexp{
	// "Ref: ABC123", "Ref No. 4021", "Reference No: 99"
	regexp.MustCompile(`(?i)\bref(?:erence)?(?:\s*no)?\.?\s*[:\-]?\s*([a-z0-9]+)`),
	// "Txn ID: X123", "transaction no 456"
	regexp.MustCompile(`(?i)\b(?:txn|transaction)\s*(?:id|no)\.?\s*[:\-]?\s*([a-z0-9]+)`),
	// "UPI Ref No 425512345678"
	regexp.MustCompile(`(?i)\bupi\s*ref\s*no\.?\s*[:\-]?\s*(\d+)`),
	// "IMPS/P2A/123456789"
	regexp.MustCompile(`(?i)\bimps[/\s]*(?:[a-z0-9]+/)*(\d{6,})`),
}

// Reference extracts a transaction reference number, or "" when none of the
// known formats appear.
func Reference(message string) string {
	for _, re := range referencePatterns {
		if match := re.FindStringSubmatch(message); len(match) > 1 {
			return match[1]
		}
	}
	return ""
}
