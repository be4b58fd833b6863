// Package pricing holds the loan rate rule and the amortization formula.
//
// Everything here is a pure function of its inputs. The same Policy and inputs
// always produce the same Quote.
package pricing

// DefaultCreditScore is assumed when the borrower's score is unknown.
const DefaultCreditScore = 700

// ScoreTier adjusts the base rate for borrowers scoring at least MinScore.
type ScoreTier struct {
	MinScore   int
	Adjustment float64
	Label      string
}

// TermTier adjusts the base rate for terms strictly longer than MinTermExclusive months.
type TermTier struct {
	MinTermExclusive int
	Adjustment       float64
}

// Policy is a step-function pricing rule:
//
//	rate = BaseRate + scoreAdjustment(score) + termAdjustment(term)
//
// ScoreTiers and TermTiers must be ordered from the highest bound down; the
// first matching tier wins.
type Policy struct {
	Name            string
	BaseRate        float64
	ScoreTiers      []ScoreTier
	FloorAdjustment float64 // applied when no score tier matches
	FloorLabel      string
	TermTiers       []TermTier
}

// EstimatorPolicy is the rule shown to borrowers before they submit.
var EstimatorPolicy = Policy{
	Name:     "estimator",
	BaseRate: 6.5,
	ScoreTiers: []ScoreTier{
		{MinScore: 750, Adjustment: -2.0, Label: "excellent"},
		{MinScore: 700, Adjustment: -1.0, Label: "good"},
		{MinScore: 600, Adjustment: 1.5, Label: "fair"},
	},
	FloorAdjustment: 3.0,
	FloorLabel:      "poor",
	TermTiers: []TermTier{
		{MinTermExclusive: 60, Adjustment: 1.0},
		{MinTermExclusive: 36, Adjustment: 0.5},
	},
}

// ServicingPolicy is the rule stored on a loan when the application is accepted.
var ServicingPolicy = Policy{
	Name:     "servicing",
	BaseRate: 12.0,
	ScoreTiers: []ScoreTier{
		{MinScore: 750, Adjustment: -4.0, Label: "excellent"},
		{MinScore: 650, Adjustment: -2.0, Label: "good"},
	},
	FloorLabel: "standard",
	TermTiers: []TermTier{
		{MinTermExclusive: 36, Adjustment: 2.0},
	},
}

// ScoreAdjustment is the rate change in points for the first tier the score reaches.
func (p Policy) ScoreAdjustment(score int) float64 {
	for _, t := range p.ScoreTiers {
		if score >= t.MinScore {
			return t.Adjustment
		}
	}
	return p.FloorAdjustment
}

// Tier names the score band the borrower falls into.
func (p Policy) Tier(score int) string {
	for _, t := range p.ScoreTiers {
		if score >= t.MinScore {
			return t.Label
		}
	}
	return p.FloorLabel
}

// TermAdjustment is the rate change in points for terms longer than a tier threshold.
func (p Policy) TermAdjustment(term int) float64 {
	for _, t := range p.TermTiers {
		if term > t.MinTermExclusive {
			return t.Adjustment
		}
	}
	return 0
}

// Rate returns the annual rate in percent for the given score and term.
func (p Policy) Rate(score, term int) float64 {
	return p.BaseRate + p.ScoreAdjustment(score) + p.TermAdjustment(term)
}
