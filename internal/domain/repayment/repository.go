package repayment

import (
	"context"
	"time"
)

type Repository interface {
	CreateBatch(ctx context.Context, rs []Repayment) error
	Save(ctx context.Context, r *Repayment) error
	GetByRepaymentID(ctx context.Context, repaymentID string) (*Repayment, error)
	GetByRepaymentIDForUpdate(ctx context.Context, repaymentID string) (*Repayment, error)
	GetByCheckoutID(ctx context.Context, checkoutID string) (*Repayment, error)
	// ListByLoan is ordered by due date.
	ListByLoan(ctx context.Context, loanID string) ([]Repayment, error)
	ListByLoans(ctx context.Context, loanIDs []string) ([]Repayment, error)
	ListByStatusDueBefore(ctx context.Context, status Status, before time.Time) ([]Repayment, error)
	CountUnpaid(ctx context.Context, loanID string) (int64, error)
	// MarkOverdue flips a PENDING installment to OVERDUE and touches nothing else.
	// It reports false when the row was no longer PENDING.
	MarkOverdue(ctx context.Context, repaymentID string) (bool, error)
}
