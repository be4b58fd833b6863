package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"loanpap/internal/domain/pricing"
)

// Offline quote tool: prices a loan with the same rule the API uses.
//
//	go run . -amount 25000 -term 36 -score 720 -schedule
func main() {
	amount := flag.Float64("amount", 10000, "principal")
	term := flag.Int("term", 36, "term in months")
	score := flag.Int("score", 0, "credit score, 0 means unknown")
	policy := flag.String("policy", "estimator", "estimator or servicing")
	schedule := flag.Bool("schedule", false, "print the amortization table")
	asJSON := flag.Bool("json", false, "print JSON")
	flag.Parse()

	p, err := policyByName(*policy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *amount <= 0 || *term <= 0 {
		fmt.Fprintln(os.Stderr, "amount and term must be positive")
		os.Exit(2)
	}

	q := p.Estimate(*amount, *term, *score)
	var rows []pricing.Installment
	if *schedule {
		rows = pricing.Schedule(q.Amount, q.Rate, q.TermMonths, time.Now().UTC())
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(struct {
			pricing.Quote
			Schedule []pricing.Installment `json:"schedule,omitempty"`
		}{q, rows})
		return
	}

	fmt.Printf("policy %s, score %d (%s)\n", q.Policy, q.CreditScore, q.Tier)
	fmt.Printf("rate %.2f%%  monthly %.2f  total %.2f  interest %.2f\n",
		q.Rate, q.MonthlyPayment, q.TotalPaid, q.TotalInterest)
	if len(rows) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tdue\tpayment\tprincipal\tinterest\tbalance\t")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			r.Number, r.DueDate.Format("2006-01-02"), r.Payment, r.Principal, r.Interest, r.Balance)
	}
	_ = w.Flush()
}

func policyByName(name string) (pricing.Policy, error) {
	switch strings.ToLower(name) {
	case "estimator", "":
		return pricing.EstimatorPolicy, nil
	case "servicing":
		return pricing.ServicingPolicy, nil
	}
	return pricing.Policy{}, fmt.Errorf("unknown policy %q", name)
}
