package loan

import (
	"context"
	"time"
)

// Page is a zero-based page request.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int { return p.Number * p.Size }

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row for the rest of the transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)

	ListByUser(ctx context.Context, userID string) ([]Loan, error)
	PageByUser(ctx context.Context, userID string, p Page) ([]Loan, int64, error)
	PageAll(ctx context.Context, p Page) ([]Loan, int64, error)
	PageByStatus(ctx context.Context, status Status, p Page) ([]Loan, int64, error)

	CountActiveByUser(ctx context.Context, userID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// ListAppliedBetween returns loans with from <= applied_date < to.
	ListAppliedBetween(ctx context.Context, from, to time.Time) ([]Loan, error)
	ListAll(ctx context.Context) ([]Loan, error)
}
