// Package credit scores borrowers and caps what they may borrow.
package credit

import (
	"strings"
	"time"
)

const (
	MinScore  = 300
	MaxScore  = 850
	BaseScore = 650

	// AdminScore is assigned to staff accounts created through the admin route.
	AdminScore = 850
)

// Profile is the subset of a user record the scoring model reads.
// Nil pointers mean the borrower did not declare the value.
type Profile struct {
	AnnualIncome   *float64
	MonthlyDebt    *float64
	EmploymentType string
	ExistingLoans  *int
	CreatedAt      time.Time
}

// Score computes a credit score in [MinScore, MaxScore] as of now.
func Score(p Profile, now time.Time) int {
	score := BaseScore

	if p.AnnualIncome != nil {
		switch inc := *p.AnnualIncome; {
		case inc >= 100000:
			score += 50
		case inc >= 50000:
			score += 30
		case inc >= 30000:
			score += 10
		default:
			score -= 20
		}
	}

	if p.EmploymentType != "" {
		score += employmentPoints(p.EmploymentType)
	}

	if p.AnnualIncome != nil && p.MonthlyDebt != nil && *p.AnnualIncome > 0 {
		dti := *p.MonthlyDebt * 12 / *p.AnnualIncome
		switch {
		case dti < 0.2:
			score += 50
		case dti < 0.3:
			score += 30
		case dti < 0.4:
			score += 10
		case dti < 0.5:
			score -= 10
		default:
			score -= 30
		}
	}

	if p.ExistingLoans != nil {
		switch n := *p.ExistingLoans; {
		case n == 0:
			score += 10
		case n == 1:
			score += 5
		case n == 2:
		case n <= 4:
			score -= 10
		default:
			score -= 30
		}
	}

	if !p.CreatedAt.IsZero() {
		months := monthsBetween(p.CreatedAt, now)
		switch {
		case months >= 36:
			score += 20
		case months >= 12:
			score += 10
		case months >= 6:
			score += 5
		}
	}

	return clamp(score)
}

func employmentPoints(kind string) int {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "full-time":
		return 40
	case "part-time":
		return 20
	case "self-employed":
		return 30
	case "contractor":
		return 15
	default:
		return -10
	}
}

// monthsBetween counts whole calendar months from a to b.
func monthsBetween(a, b time.Time) int {
	if b.Before(a) {
		return 0
	}
	m := (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
	if b.Day() < a.Day() {
		m--
	}
	return m
}

func clamp(s int) int {
	if s < MinScore {
		return MinScore
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}
