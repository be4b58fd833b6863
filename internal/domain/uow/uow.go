package uow

import (
	"context"

	"loanpap/internal/domain/audit"
	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/repayment"
	"loanpap/internal/domain/user"
)

// Repos are bound to the same transaction.
type Repos struct {
	Users      user.Repository
	Loans      loan.Repository
	Repayments repayment.Repository
	Audit      audit.Repository
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then passes it in.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
