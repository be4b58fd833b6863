package pricing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Amortize returns the level monthly installment for a fully amortizing loan:
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1),  r = annualRate/100/12
//
// A zero or negative principal, rate or term yields 0.
func Amortize(principal, annualRate float64, months int) float64 {
	if principal <= 0 || annualRate <= 0 || months <= 0 {
		return 0
	}
	r := annualRate / 100 / 12
	f := math.Pow(1+r, float64(months))
	return principal * r * f / (f - 1)
}

var (
	twelveHundred = decimal.NewFromInt(1200)
	one           = decimal.NewFromInt(1)
)

// AmortizeDecimal is the stored-loan variant of Amortize. The monthly rate is
// rounded half-up to 10 places and the payment half-up to cents.
func AmortizeDecimal(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	if !principal.IsPositive() || !annualRate.IsPositive() || months <= 0 {
		return decimal.Zero
	}
	r := annualRate.DivRound(twelveHundred, 10)
	f := one.Add(r).Pow(decimal.NewFromInt(int64(months)))
	return principal.Mul(r.Mul(f)).DivRound(f.Sub(one), 2)
}

// Quote is an estimate shown before an application is submitted.
type Quote struct {
	Policy         string  `json:"policy"`
	Amount         float64 `json:"amount"`
	TermMonths     int     `json:"termMonths"`
	CreditScore    int     `json:"creditScore"`
	Tier           string  `json:"tier"`
	Rate           float64 `json:"interestRate"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPaid      float64 `json:"totalPaid"`
	TotalInterest  float64 `json:"totalInterest"`
}

// Estimate prices amount over term months for a borrower with the given score.
// A score of 0 means unknown and falls back to DefaultCreditScore.
func (p Policy) Estimate(amount float64, term, score int) Quote {
	if score == 0 {
		score = DefaultCreditScore
	}
	rate := p.Rate(score, term)
	payment := Amortize(amount, rate, term)
	q := Quote{
		Policy:         p.Name,
		Amount:         amount,
		TermMonths:     term,
		CreditScore:    score,
		Tier:           p.Tier(score),
		Rate:           rate,
		MonthlyPayment: payment,
	}
	if payment > 0 {
		q.TotalPaid = payment * float64(term)
		q.TotalInterest = q.TotalPaid - amount
	}
	return q
}

// Installment is one row of an amortization table.
type Installment struct {
	Number    int       `json:"installmentNumber"`
	DueDate   time.Time `json:"dueDate"`
	Payment   float64   `json:"payment"`
	Principal float64   `json:"principal"`
	Interest  float64   `json:"interest"`
	Balance   float64   `json:"balance"`
}

// Schedule breaks a loan into monthly installments starting one month after start.
// The final row absorbs rounding so the balance closes at zero.
func Schedule(principal, annualRate float64, months int, start time.Time) []Installment {
	payment := Amortize(principal, annualRate, months)
	if payment == 0 {
		return nil
	}
	r := annualRate / 100 / 12
	out := make([]Installment, 0, months)
	balance := principal
	for i := 1; i <= months; i++ {
		interest := round2(balance * r)
		pay := round2(payment)
		princ := round2(pay - interest)
		if i == months {
			princ = round2(balance)
			pay = round2(princ + interest)
		}
		balance = round2(balance - princ)
		out = append(out, Installment{
			Number:    i,
			DueDate:   AddMonths(start, i),
			Payment:   pay,
			Principal: princ,
			Interest:  interest,
			Balance:   balance,
		})
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
