package admin

import (
	"context"
	"time"

	"loanpap/internal/domain/audit"
	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/repayment"
	"loanpap/internal/domain/uow"
	"loanpap/internal/domain/user"
	"loanpap/internal/infrastructure/notify"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Usecase struct {
	users      user.Repository
	loans      loan.Repository
	repayments repayment.Repository
	tx         uow.UnitOfWork
	notifier   notify.Notifier
	log        *zap.Logger
}

func NewUsecase(u user.Repository, l loan.Repository, r repayment.Repository, tx uow.UnitOfWork, n notify.Notifier, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: u, loans: l, repayments: r, tx: tx, notifier: n, log: log}
}

func (u *Usecase) Stats(ctx context.Context) (*Stats, error) {
	var (
		s   Stats
		err error
	)
	if s.Users.Total, err = u.users.Count(ctx); err != nil {
		return nil, err
	}
	if s.Users.Admins, err = u.users.CountByRole(ctx, user.RoleAdmin); err != nil {
		return nil, err
	}
	if s.Users.Users, err = u.users.CountByRole(ctx, user.RoleUser); err != nil {
		return nil, err
	}
	if s.Loans.Total, err = u.loans.Count(ctx); err != nil {
		return nil, err
	}
	if s.Loans.Pending, err = u.loans.CountByStatus(ctx, loan.StatusPending); err != nil {
		return nil, err
	}
	if s.Loans.Approved, err = u.loans.CountByStatus(ctx, loan.StatusApproved); err != nil {
		return nil, err
	}
	if s.Loans.Rejected, err = u.loans.CountByStatus(ctx, loan.StatusRejected); err != nil {
		return nil, err
	}
	return &s, nil
}

func (u *Usecase) Users(ctx context.Context) ([]user.User, error) {
	list, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []user.User{}
	}
	return list, nil
}

func (u *Usecase) User(ctx context.Context, userID string) (*UserDetail, error) {
	found, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := u.userStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserDetail{User: found, Stats: *stats}, nil
}

// borrowedStatuses count towards a user's lifetime borrowing.
var borrowedStatuses = map[loan.Status]bool{
	loan.StatusApproved:  true,
	loan.StatusDisbursed: true,
	loan.StatusRepaying:  true,
	loan.StatusCompleted: true,
}

func (u *Usecase) userStats(ctx context.Context, userID string) (*UserStats, error) {
	loans, err := u.loans.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s := &UserStats{TotalBorrowed: decimal.Zero, TotalRepaid: decimal.Zero, OnTimeRepaymentRate: decimal.Zero}
	ids := make([]string, 0, len(loans))
	for _, l := range loans {
		s.TotalLoanApplications++
		switch l.Status {
		case loan.StatusApproved:
			s.ApprovedLoans++
		case loan.StatusRejected:
			s.RejectedLoans++
		}
		if borrowedStatuses[l.Status] {
			s.TotalBorrowed = s.TotalBorrowed.Add(l.Amount)
		}
		ids = append(ids, l.LoanID)
	}
	if len(ids) == 0 {
		return s, nil
	}

	reps, err := u.repayments.ListByLoans(ctx, ids)
	if err != nil {
		return nil, err
	}
	onTime := 0
	for _, r := range reps {
		if r.Status != repayment.StatusPaid {
			continue
		}
		s.TotalRepaid = s.TotalRepaid.Add(r.Amount)
		if r.PaidDate != nil && !dateOnly(*r.PaidDate).After(dateOnly(r.DueDate)) {
			onTime++
		}
	}
	if len(reps) > 0 {
		s.OnTimeRepaymentRate = decimal.NewFromInt(int64(onTime)).Mul(decimal.NewFromInt(100)).
			DivRound(decimal.NewFromInt(int64(len(reps))), 2)
	}
	return s, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (u *Usecase) Lock(ctx context.Context, caller user.Caller, userID string) error {
	return u.setLocked(ctx, caller, userID, true)
}

func (u *Usecase) Unlock(ctx context.Context, caller user.Caller, userID string) error {
	return u.setLocked(ctx, caller, userID, false)
}

func (u *Usecase) setLocked(ctx context.Context, caller user.Caller, userID string, locked bool) error {
	if !caller.IsAdmin() {
		return user.ErrForbidden
	}
	action, change := audit.ActionAccountUnlock, "Account unlocked"
	if locked {
		action, change = audit.ActionAccountLock, "Account locked"
	}
	var target *user.User
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		found, err := r.Users.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		found.AccountNonLocked = !locked
		if err := r.Users.Save(ctx, found); err != nil {
			return err
		}
		target = found
		return r.Audit.Create(ctx, &audit.Entry{
			Action:     action,
			EntityType: audit.EntityUser,
			EntityID:   found.UserID,
			UserID:     caller.UserID,
			Details:    change,
		})
	})
	if err != nil {
		return err
	}
	u.notifier.AccountStatusChanged(ctx, target, change)
	u.log.Info("account status changed", zap.String("user_id", userID), zap.Bool("locked", locked), zap.String("by", caller.UserID))
	return nil
}
