package repayment

import (
	"strings"

	"loanpap/internal/domain/repayment"
)

// NormalizePhone rewrites a Kenyan mobile number to the 2547XXXXXXXX form
// the STK push endpoint expects.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	switch {
	case clean == "":
		return "", repayment.ErrPhoneMissing
	case strings.HasPrefix(clean, "0"):
		return "254" + clean[1:], nil
	case strings.HasPrefix(clean, "254"):
		return clean, nil
	case len(clean) == 9:
		return "254" + clean, nil
	}
	return clean, nil
}
