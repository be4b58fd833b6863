// Package analytics aggregates the loan book for the staff dashboards.
package analytics

import (
	"context"
	"sort"
	"time"

	"loanpap/internal/domain/credit"
	"loanpap/internal/domain/loan"

	"github.com/shopspring/decimal"
)

const monthLabel = "Jan 2006"

var hundred = decimal.NewFromInt(100)

type Usecase struct {
	loans loan.Repository
	now   func() time.Time
}

func NewUsecase(l loan.Repository) *Usecase { return &Usecase{loans: l, now: time.Now} }

// DefaultRange is the last six months up to today.
func (u *Usecase) DefaultRange() (time.Time, time.Time) {
	end := u.now().UTC()
	return end.AddDate(0, -6, 0), end
}

// window turns an inclusive date range into a half-open one. Zero bounds use DefaultRange.
func (u *Usecase) window(start, end time.Time) (time.Time, time.Time) {
	ds, de := u.DefaultRange()
	if start.IsZero() {
		start = ds
	}
	if end.IsZero() {
		end = de
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return start, end
}

func percent(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).DivRound(decimal.NewFromInt(int64(total)), 2)
}

func (u *Usecase) Dashboard(ctx context.Context, start, end time.Time) (*Dashboard, error) {
	from, to := u.window(start, end)
	loans, err := u.loans.ListAppliedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalLoans:           len(loans),
		TotalAmount:          decimal.Zero,
		AverageAmount:        decimal.Zero,
		TopPerformingOfficer: "N/A",
	}
	var approved, rejected, pending, defaulted int
	officers := map[string]int{}
	for _, l := range loans {
		d.TotalAmount = d.TotalAmount.Add(l.Amount)
		switch l.Status {
		case loan.StatusApproved:
			approved++
		case loan.StatusRejected:
			rejected++
		case loan.StatusPending:
			pending++
		case loan.StatusDefaulted:
			defaulted++
		}
		if l.ReviewedBy != "" {
			officers[l.ReviewedBy]++
		}
	}
	if d.TotalLoans > 0 {
		d.AverageAmount = d.TotalAmount.DivRound(decimal.NewFromInt(int64(d.TotalLoans)), 2)
	}
	d.ApprovalRate = percent(approved, d.TotalLoans)
	d.DefaultRate = percent(defaulted, d.TotalLoans)
	d.ApprovedApplications = approved
	d.RejectedApplications = rejected
	d.PendingApplications = pending
	d.TopPerformingOfficer = topOfficer(officers)
	d.MonthOverMonthGrowth = growth(monthly(loans))
	return d, nil
}

// topOfficer picks the most frequent reviewer. Ties go to the smaller id.
func topOfficer(counts map[string]int) string {
	best, n := "N/A", 0
	for id, c := range counts {
		if c > n || (c == n && id < best) {
			best, n = id, c
		}
	}
	return best
}

func growth(months []MonthlyMetric) decimal.Decimal {
	if len(months) < 2 {
		return decimal.Zero
	}
	prev := months[len(months)-2].TotalLoans
	last := months[len(months)-1].TotalLoans
	if prev == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(last - prev)).Mul(hundred).DivRound(decimal.NewFromInt(int64(prev)), 2)
}

type monthKey struct {
	year  int
	month time.Month
}

// monthly groups loans by application month, oldest first.
func monthly(loans []loan.Loan) []MonthlyMetric {
	byMonth := map[monthKey]*MonthlyMetric{}
	var keys []monthKey
	for _, l := range loans {
		k := monthKey{l.AppliedDate.Year(), l.AppliedDate.Month()}
		m, ok := byMonth[k]
		if !ok {
			m = &MonthlyMetric{
				Month:       time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC).Format(monthLabel),
				TotalAmount: decimal.Zero,
			}
			byMonth[k] = m
			keys = append(keys, k)
		}
		m.TotalLoans++
		m.TotalAmount = m.TotalAmount.Add(l.Amount)
		switch l.Status {
		case loan.StatusApproved:
			m.ApprovedLoans++
		case loan.StatusRejected:
			m.RejectedLoans++
		case loan.StatusPending:
			m.PendingLoans++
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	out := make([]MonthlyMetric, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byMonth[k])
	}
	return out
}

func (u *Usecase) Overview(ctx context.Context) (*Overview, error) {
	loans, err := u.loans.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	o := &Overview{
		TotalPortfolioValue: decimal.Zero,
		TotalInterestEarned: decimal.Zero,
		AverageCreditScore:  decimal.Zero,
		RiskDistribution:    map[string]int{},
	}
	scoreSum, scored := 0, 0
	for _, l := range loans {
		switch l.Status {
		case loan.StatusApproved:
			o.TotalPortfolioValue = o.TotalPortfolioValue.Add(l.Amount)
		case loan.StatusDisbursed, loan.StatusRepaying, loan.StatusDefaulted:
			o.ActiveLoans++
		}
		if l.Status == loan.StatusApproved || l.Status == loan.StatusCompleted {
			o.TotalInterestEarned = o.TotalInterestEarned.Add(l.Amount.Mul(l.InterestRate).Div(hundred))
		}
		if l.CreditScore != nil {
			scoreSum += *l.CreditScore
			scored++
		}
		o.RiskDistribution[credit.RiskBucket(l.CreditScore)]++
	}
	o.TotalInterestEarned = o.TotalInterestEarned.Round(2)
	if scored > 0 {
		o.AverageCreditScore = decimal.NewFromInt(int64(scoreSum)).DivRound(decimal.NewFromInt(int64(scored)), 2)
	}
	return o, nil
}

func (u *Usecase) MonthlyTrend(ctx context.Context, start, end time.Time) (*MonthlyTrend, error) {
	from, to := u.window(start, end)
	loans, err := u.loans.ListAppliedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	months := monthly(loans)
	index := make(map[string]int, len(months))
	for i, m := range months {
		index[m.Month] = i
	}
	trends := map[string][]int{}
	for _, l := range loans {
		s := string(l.Status)
		if trends[s] == nil {
			trends[s] = make([]int, len(months))
		}
		trends[s][index[l.AppliedDate.Format(monthLabel)]]++
	}
	return &MonthlyTrend{MonthlyData: months, StatusTrends: trends, OverallTrends: map[string]any{}}, nil
}

func (u *Usecase) StatusDistribution(ctx context.Context) (*StatusDistribution, error) {
	loans, err := u.loans.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	dist := map[string]int{}
	for _, l := range loans {
		dist[string(l.Status)]++
	}
	pct := make(map[string]decimal.Decimal, len(dist))
	for k, c := range dist {
		pct[k] = percent(c, len(loans))
	}
	return &StatusDistribution{Distribution: dist, Percentages: pct, TotalLoans: len(loans)}, nil
}

func (u *Usecase) PurposeDistribution(ctx context.Context) (*PurposeDistribution, error) {
	loans, err := u.loans.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	dist := map[string]int{}
	sums := map[string]decimal.Decimal{}
	for _, l := range loans {
		p := string(l.Purpose)
		dist[p]++
		sums[p] = sums[p].Add(l.Amount)
	}
	pct := make(map[string]decimal.Decimal, len(dist))
	avg := make(map[string]decimal.Decimal, len(dist))
	for k, c := range dist {
		pct[k] = percent(c, len(loans))
		avg[k] = sums[k].DivRound(decimal.NewFromInt(int64(c)), 2)
	}
	return &PurposeDistribution{Distribution: dist, Percentages: pct, AverageAmounts: avg, TotalLoans: len(loans)}, nil
}
