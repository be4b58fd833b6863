package repaymentmock

import (
	"context"
	"time"

	domain "loanpap/internal/domain/repayment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateBatchFn               func(ctx context.Context, rs []domain.Repayment) error
	SaveFn                      func(ctx context.Context, r *domain.Repayment) error
	GetByRepaymentIDFn          func(ctx context.Context, id string) (*domain.Repayment, error)
	GetByRepaymentIDForUpdateFn func(ctx context.Context, id string) (*domain.Repayment, error)
	GetByCheckoutIDFn           func(ctx context.Context, checkoutID string) (*domain.Repayment, error)
	ListByLoanFn                func(ctx context.Context, loanID string) ([]domain.Repayment, error)
	ListByLoansFn               func(ctx context.Context, loanIDs []string) ([]domain.Repayment, error)
	ListByStatusDueBeforeFn     func(ctx context.Context, s domain.Status, before time.Time) ([]domain.Repayment, error)
	CountUnpaidFn               func(ctx context.Context, loanID string) (int64, error)
	MarkOverdueFn               func(ctx context.Context, id string) (bool, error)
}

func (m *Repo) CreateBatch(ctx context.Context, rs []domain.Repayment) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, rs)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, r *domain.Repayment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRepaymentID(ctx context.Context, id string) (*domain.Repayment, error) {
	if m.GetByRepaymentIDFn != nil {
		return m.GetByRepaymentIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRepaymentIDForUpdate(ctx context.Context, id string) (*domain.Repayment, error) {
	if m.GetByRepaymentIDForUpdateFn != nil {
		return m.GetByRepaymentIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByCheckoutID(ctx context.Context, checkoutID string) (*domain.Repayment, error) {
	if m.GetByCheckoutIDFn != nil {
		return m.GetByCheckoutIDFn(ctx, checkoutID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLoan(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) ListByLoans(ctx context.Context, loanIDs []string) ([]domain.Repayment, error) {
	if m.ListByLoansFn != nil {
		return m.ListByLoansFn(ctx, loanIDs)
	}
	return nil, nil
}

func (m *Repo) ListByStatusDueBefore(ctx context.Context, s domain.Status, before time.Time) ([]domain.Repayment, error) {
	if m.ListByStatusDueBeforeFn != nil {
		return m.ListByStatusDueBeforeFn(ctx, s, before)
	}
	return nil, nil
}

func (m *Repo) CountUnpaid(ctx context.Context, loanID string) (int64, error) {
	if m.CountUnpaidFn != nil {
		return m.CountUnpaidFn(ctx, loanID)
	}
	return 0, nil
}

func (m *Repo) MarkOverdue(ctx context.Context, id string) (bool, error) {
	if m.MarkOverdueFn != nil {
		return m.MarkOverdueFn(ctx, id)
	}
	return true, nil
}
