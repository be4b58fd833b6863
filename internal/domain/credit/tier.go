package credit

import "github.com/shopspring/decimal"

type Category string

const (
	Excellent Category = "EXCELLENT"
	Good      Category = "GOOD"
	Fair      Category = "FAIR"
	Poor      Category = "POOR"
	VeryPoor  Category = "VERY_POOR"
)

func CategoryOf(score int) Category {
	switch {
	case score >= 750:
		return Excellent
	case score >= 700:
		return Good
	case score >= 650:
		return Fair
	case score >= 600:
		return Poor
	default:
		return VeryPoor
	}
}

// RiskBucket groups a stored score for portfolio reporting. A nil score is "Unknown".
func RiskBucket(score *int) string {
	switch {
	case score == nil:
		return "Unknown"
	case *score >= 750:
		return "Low Risk"
	case *score >= 650:
		return "Medium Risk"
	default:
		return "High Risk"
	}
}

// MaxAmount is the largest principal a score qualifies for. Zero means not eligible.
func MaxAmount(score int) decimal.Decimal {
	switch {
	case score >= 750:
		return decimal.NewFromInt(100000)
	case score >= 700:
		return decimal.NewFromInt(75000)
	case score >= 650:
		return decimal.NewFromInt(50000)
	case score >= 600:
		return decimal.NewFromInt(25000)
	default:
		return decimal.Zero
	}
}

func Eligible(score int, amount decimal.Decimal) bool {
	if score < 600 {
		return false
	}
	return amount.LessThanOrEqual(MaxAmount(score))
}

// ReviewHint is the eligibility message shown next to a quote.
func ReviewHint(score int) string {
	if score >= 650 {
		return "Likely for auto-approval"
	}
	return "Requires manual review"
}
