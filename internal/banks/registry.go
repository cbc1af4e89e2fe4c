package banks

import "regexp"

// GeneralCode is the fallback profile for senders no pattern recognises.
// Registry lookups never fail; they degrade to this sentinel.
const GeneralCode = "GENERAL"

// BankProfile bundles the pattern set for one institution: how to recognise
// its sender ids or message bodies, how it writes amounts, and what its
// transaction notifications look like. Profiles are read-only after
// construction and safe to share across workers.
type BankProfile struct {
	Code string

	// Identification matches the sender id or, failing that, the body.
	// Every profile except GENERAL carries at least one of these.
	Identification []*regexp.Regexp

	// AmountPatterns are tried before the general currency patterns when
	// extracting an amount from this bank's messages.
	AmountPatterns []*regexp.Regexp

	// ShapePatterns describe what a genuine transaction notification from
	// this bank looks like. When present, a message attributed to the bank
	// must match at least one to pass classification.
	ShapePatterns []*regexp.Regexp
}

// Registry maps senders and messages to bank profiles. Profile order is
// fixed at construction, so identification is deterministic per run.
type Registry struct {
	profiles []*BankProfile
	byCode   map[string]*BankProfile
}

// NewRegistry builds the built-in profile set. This is the only mutation
// point; the returned registry is read-only.
func NewRegistry() *Registry {
	profiles := []*BankProfile{
		{
			Code: "HDFC",
			Identification: []*regexp.Regexp{
				regexp.MustCompile(`(?i)HDFCBK|HDFCBN|\bHDFC\b`),
				regexp.MustCompile(`(?i)HDFC\s*Bank`),
			},
			AmountPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:Rs\.?|INR)\s*([\d,]+(?:\.\d{1,2})?)\s+(?:is\s+)?(?:debited|credited)`),
			},
			ShapePatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:debited|credited|sent|received).*(?:a/c|acct|account)`),
				regexp.MustCompile(`(?i)(?:a/c|acct|account).*(?:debited|credited)`),
				regexp.MustCompile(`(?i)UPI`),
			},
		},
		{
			Code: "SBI",
			Identification: []*regexp.Regexp{
				regexp.MustCompile(`(?i)SBIINB|SBIUPI|SBIPSG|CBSSBI|\bSBI\b`),
				regexp.MustCompile(`(?i)State\s*Bank`),
			},
			AmountPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:Rs\.?|INR)\s*([\d,]+(?:\.\d{1,2})?)\s+(?:is\s+)?(?:debited|credited|withdrawn|deposited)`),
			},
			ShapePatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:debited|credited|withdrawn|deposited|transferred)`),
			},
		},
		{
			Code: "ICICI",
			Identification: []*regexp.Regexp{
				regexp.MustCompile(`(?i)ICICIB|ICICIT|\bICICI\b`),
				regexp.MustCompile(`(?i)ICICI\s*Bank`),
			},
			ShapePatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:debited|credited|spent|received|paid)`),
			},
		},
		{
			Code: "AXIS",
			Identification: []*regexp.Regexp{
				regexp.MustCompile(`(?i)AXISBK|AXISB|\bAXIS\b`),
				regexp.MustCompile(`(?i)Axis\s*Bank`),
			},
			ShapePatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:debited|credited|spent|received|paid)`),
			},
		},
		{
			Code: "KOTAK",
			Identification: []*regexp.Regexp{
				regexp.MustCompile(`(?i)KOTAKB|KOTAKM|\bKOTAK\b`),
			},
			ShapePatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:debited|credited|sent|received)`),
			},
		},
		{
			Code: "PNB",
			Identification: []*regexp.Regexp{
				regexp.MustCompile(`(?i)PNBSMS|\bPNB\b`),
				regexp.MustCompile(`(?i)Punjab\s*National`),
			},
		},
		{
			Code: "BOB",
			Identification: []*regexp.Regexp{
				regexp.MustCompile(`(?i)BOBTXN|BOBSMS|\bBOB\b`),
				regexp.MustCompile(`(?i)Bank\s*of\s*Baroda`),
			},
		},
		{
			Code: "PAYTM",
			Identification: []*regexp.Regexp{
				regexp.MustCompile(`(?i)PYTMPB|\bPAYTM\b`),
			},
			ShapePatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:paid|received|sent|added|debited|credited)`),
			},
		},
		{
			// Catch-all for unrecognised senders. No identification patterns;
			// Identify falls through to this code instead of matching it.
			Code: GeneralCode,
		},
	}

	byCode := make(map[string]*BankProfile, len(profiles))
	for _, p := range profiles {
		byCode[p.Code] = p
	}
	return &Registry{profiles: profiles, byCode: byCode}
}

// Identify resolves the sending bank. Sender id patterns are tried first,
// then the message body. A miss is a valid outcome: the GENERAL code comes
// back and the caller proceeds with bank-agnostic heuristics.
func (r *Registry) Identify(sender, message string) string {
	for _, p := range r.profiles {
		if p.Code == GeneralCode {
			continue
		}
		for _, re := range p.Identification {
			if sender != "" && re.MatchString(sender) {
				return p.Code
			}
		}
	}
	for _, p := range r.profiles {
		if p.Code == GeneralCode {
			continue
		}
		for _, re := range p.Identification {
			if re.MatchString(message) {
				return p.Code
			}
		}
	}
	return GeneralCode
}

// ProfileFor returns the profile for a code, or nil when the code is
// unknown. Callers treat nil the same as the GENERAL profile.
func (r *Registry) ProfileFor(code string) *BankProfile {
	return r.byCode[code]
}

// Codes returns the registered bank codes in registry order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.profiles))
	for _, p := range r.profiles {
		codes = append(codes, p.Code)
	}
	return codes
}
