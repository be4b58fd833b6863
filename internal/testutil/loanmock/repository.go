package loanmock

import (
	"context"
	"time"

	domain "loanpap/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to no-ops, reads default to context.Canceled.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByUserFn           func(ctx context.Context, userID string) ([]domain.Loan, error)
	PageByUserFn           func(ctx context.Context, userID string, p domain.Page) ([]domain.Loan, int64, error)
	PageAllFn              func(ctx context.Context, p domain.Page) ([]domain.Loan, int64, error)
	PageByStatusFn         func(ctx context.Context, s domain.Status, p domain.Page) ([]domain.Loan, int64, error)
	CountActiveByUserFn    func(ctx context.Context, userID string) (int64, error)
	CountFn                func(ctx context.Context) (int64, error)
	CountByStatusFn        func(ctx context.Context, s domain.Status) (int64, error)
	ListAppliedBetweenFn   func(ctx context.Context, from, to time.Time) ([]domain.Loan, error)
	ListAllFn              func(ctx context.Context) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUser(ctx context.Context, userID string) ([]domain.Loan, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) PageByUser(ctx context.Context, userID string, p domain.Page) ([]domain.Loan, int64, error) {
	if m.PageByUserFn != nil {
		return m.PageByUserFn(ctx, userID, p)
	}
	return nil, 0, nil
}

func (m *Repo) PageAll(ctx context.Context, p domain.Page) ([]domain.Loan, int64, error) {
	if m.PageAllFn != nil {
		return m.PageAllFn(ctx, p)
	}
	return nil, 0, nil
}

func (m *Repo) PageByStatus(ctx context.Context, s domain.Status, p domain.Page) ([]domain.Loan, int64, error) {
	if m.PageByStatusFn != nil {
		return m.PageByStatusFn(ctx, s, p)
	}
	return nil, 0, nil
}

func (m *Repo) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	if m.CountActiveByUserFn != nil {
		return m.CountActiveByUserFn(ctx, userID)
	}
	return 0, nil
}

func (m *Repo) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, nil
}

func (m *Repo) CountByStatus(ctx context.Context, s domain.Status) (int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, s)
	}
	return 0, nil
}

func (m *Repo) ListAppliedBetween(ctx context.Context, from, to time.Time) ([]domain.Loan, error) {
	if m.ListAppliedBetweenFn != nil {
		return m.ListAppliedBetweenFn(ctx, from, to)
	}
	return nil, nil
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Loan, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, nil
}
