package notifymock

import (
	"context"
	"sync"
	"time"

	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/repayment"
	"loanpap/internal/domain/user"
	"loanpap/internal/infrastructure/notify"
)

var _ notify.Notifier = (*Notifier)(nil)

// Notifier counts calls by kind.
type Notifier struct {
	mu    sync.Mutex
	Calls map[string]int
}

func New() *Notifier { return &Notifier{Calls: map[string]int{}} }

func (n *Notifier) hit(kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Calls == nil {
		n.Calls = map[string]int{}
	}
	n.Calls[kind]++
}

func (n *Notifier) Count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.Calls[kind]
}

func (n *Notifier) Welcome(context.Context, *user.User)       { n.hit("welcome") }
func (n *Notifier) LoanApplied(context.Context, *loan.Loan)   { n.hit("applied") }
func (n *Notifier) LoanApproved(context.Context, *loan.Loan)  { n.hit("approved") }
func (n *Notifier) LoanRejected(context.Context, *loan.Loan)  { n.hit("rejected") }
func (n *Notifier) LoanDisbursed(context.Context, *loan.Loan) { n.hit("disbursed") }
func (n *Notifier) AccountStatusChanged(context.Context, *user.User, string) {
	n.hit("account")
}
func (n *Notifier) RepaymentConfirmed(context.Context, string, *repayment.Repayment) {
	n.hit("confirmed")
}
func (n *Notifier) RepaymentOverdue(context.Context, string, *repayment.Repayment, time.Time) {
	n.hit("overdue")
}
