package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestEstimatorPolicy_Rate(t *testing.T) {
	base := EstimatorPolicy.BaseRate
	tests := []struct {
		name  string
		score int
		term  int
		want  float64
	}{
		{"excellent short", 780, 36, base - 2.0},
		{"excellent boundary", 750, 12, base - 2.0},
		{"good", 720, 24, base - 1.0},
		{"fair mid term", 650, 48, base + 1.5 + 0.5},
		{"fair lower bound mid term", 600, 60, base + 1.5 + 0.5},
		{"poor long", 550, 72, base + 3.0 + 1.0},
		{"term 37 bumps", 700, 37, base - 1.0 + 0.5},
		{"term 61 bumps more", 700, 61, base - 1.0 + 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimatorPolicy.Rate(tt.score, tt.term); !near(got, tt.want, 1e-9) {
				t.Fatalf("Rate(%d,%d) = %v, want %v", tt.score, tt.term, got, tt.want)
			}
		})
	}
}

func TestServicingPolicy_Rate(t *testing.T) {
	cases := map[[2]int]float64{
		{800, 24}: 8.0,
		{700, 24}: 10.0,
		{600, 24}: 12.0,
		{760, 48}: 10.0,
		{640, 84}: 14.0,
	}
	for in, want := range cases {
		if got := ServicingPolicy.Rate(in[0], in[1]); !near(got, want, 1e-9) {
			t.Fatalf("Rate(%d,%d) = %v, want %v", in[0], in[1], got, want)
		}
	}
}

func TestAmortize_ZeroGuards(t *testing.T) {
	for _, c := range []struct {
		p, r float64
		n    int
	}{
		{0, 8, 36},
		{25000, 0, 36},
		{25000, 8, 0},
		{-1, 8, 36},
	} {
		if got := Amortize(c.p, c.r, c.n); got != 0 {
			t.Fatalf("Amortize(%v,%v,%d) = %v, want 0", c.p, c.r, c.n, got)
		}
	}
}

func TestAmortize_KnownValue(t *testing.T) {
	got := Amortize(25000, 8.0, 36)
	if !near(got, 783.41, 0.01) {
		t.Fatalf("Amortize(25000, 8, 36) = %v, want ~783.41", got)
	}
}

func TestAmortize_LongerTermLowersPaymentRaisesTotal(t *testing.T) {
	prevPay, prevTotal := math.MaxFloat64, 0.0
	for _, n := range []int{12, 24, 36, 48, 60, 72, 84} {
		pay := Amortize(25000, 8.0, n)
		total := pay * float64(n)
		if pay >= prevPay {
			t.Fatalf("payment not decreasing at n=%d: %v >= %v", n, pay, prevPay)
		}
		if total <= prevTotal {
			t.Fatalf("total not increasing at n=%d: %v <= %v", n, total, prevTotal)
		}
		prevPay, prevTotal = pay, total
	}
}

func TestAmortizeDecimal_MatchesFloat(t *testing.T) {
	got := AmortizeDecimal(decimal.NewFromInt(25000), decimal.NewFromInt(8), 36)
	if got.Exponent() < -2 {
		t.Fatalf("payment not rounded to cents: %s", got)
	}
	f, _ := got.Float64()
	if !near(f, 783.41, 0.01) {
		t.Fatalf("AmortizeDecimal = %s, want ~783.41", got)
	}
	if !AmortizeDecimal(decimal.Zero, decimal.NewFromInt(8), 36).IsZero() {
		t.Fatal("zero principal must yield zero")
	}
}

func TestEstimate_Idempotent(t *testing.T) {
	a := EstimatorPolicy.Estimate(25000, 36, 720)
	b := EstimatorPolicy.Estimate(25000, 36, 720)
	if a != b {
		t.Fatalf("estimate not deterministic: %+v vs %+v", a, b)
	}
	if a.Rate != 5.5 {
		t.Fatalf("rate = %v, want 5.5", a.Rate)
	}
	if !near(a.TotalInterest, a.TotalPaid-25000, 1e-9) {
		t.Fatalf("interest mismatch: %+v", a)
	}
}

func TestEstimate_UnknownScoreUsesDefault(t *testing.T) {
	q := EstimatorPolicy.Estimate(10000, 24, 0)
	if q.CreditScore != DefaultCreditScore {
		t.Fatalf("score = %d, want %d", q.CreditScore, DefaultCreditScore)
	}
}

func TestSchedule_ClosesBalance(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	rows := Schedule(25000, 8.0, 36, start)
	if len(rows) != 36 {
		t.Fatalf("rows = %d, want 36", len(rows))
	}
	if rows[len(rows)-1].Balance != 0 {
		t.Fatalf("final balance = %v, want 0", rows[len(rows)-1].Balance)
	}
	if !rows[0].DueDate.Equal(start.AddDate(0, 1, 0)) {
		t.Fatalf("first due = %v", rows[0].DueDate)
	}
	var principal float64
	for _, r := range rows {
		principal += r.Principal
	}
	if !near(principal, 25000, 0.01) {
		t.Fatalf("principal sum = %v, want 25000", principal)
	}
	if Schedule(0, 8, 12, start) != nil {
		t.Fatal("zero principal should give no schedule")
	}

	for _, tc := range []struct {
		start       time.Time
		first, last string
	}{
		{time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), "2025-02-28", "2026-01-31"},
		{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), "2024-03-29", "2025-02-28"},
	} {
		rows := Schedule(1200, 6, 12, tc.start)
		if got := rows[0].DueDate.Format("2006-01-02"); got != tc.first {
			t.Fatalf("start %v: first due %s, want %s", tc.start, got, tc.first)
		}
		if got := rows[11].DueDate.Format("2006-01-02"); got != tc.last {
			t.Fatalf("start %v: last due %s, want %s", tc.start, got, tc.last)
		}
		if rows[11].Balance != 0 {
			t.Fatalf("start %v: final balance %v", tc.start, rows[11].Balance)
		}
	}
}

func TestAddMonths(t *testing.T) {
	cases := []struct {
		from string
		n    int
		want string
	}{
		{"2025-01-31", 1, "2025-02-28"},
		{"2024-01-31", 1, "2024-02-29"},
		{"2025-01-31", 2, "2025-03-31"},
		{"2024-02-29", 12, "2025-02-28"},
		{"2024-02-29", 48, "2028-02-29"},
		{"2025-08-31", 1, "2025-09-30"},
		{"2025-12-31", 2, "2026-02-28"},
		{"2025-03-10", 0, "2025-03-10"},
		{"2025-03-31", -1, "2025-02-28"},
	}
	for _, tc := range cases {
		from, _ := time.Parse("2006-01-02", tc.from)
		if got := AddMonths(from, tc.n).Format("2006-01-02"); got != tc.want {
			t.Fatalf("AddMonths(%s, %d) = %s, want %s", tc.from, tc.n, got, tc.want)
		}
	}
}

func TestPolicy_Tier(t *testing.T) {
	if got := EstimatorPolicy.Tier(760); got != "excellent" {
		t.Fatalf("tier = %q", got)
	}
	if got := EstimatorPolicy.Tier(580); got != "poor" {
		t.Fatalf("tier = %q", got)
	}
	if got := ServicingPolicy.Tier(600); got != "standard" {
		t.Fatalf("tier = %q", got)
	}
}
