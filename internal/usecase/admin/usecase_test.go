package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"loanpap/internal/domain/audit"
	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/repayment"
	"loanpap/internal/domain/uow"
	"loanpap/internal/domain/user"
	"loanpap/internal/testutil/auditmock"
	"loanpap/internal/testutil/loanmock"
	"loanpap/internal/testutil/notifymock"
	"loanpap/internal/testutil/repaymentmock"
	"loanpap/internal/testutil/uowmock"
	"loanpap/internal/testutil/usermock"

	"github.com/shopspring/decimal"
)

const targetID = "uuuuuuuuuuuuuuuuuuuuuuuuuuuuuuuu"

var adminCaller = user.Caller{UserID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Role: user.RoleAdmin}

func tptr(t time.Time) *time.Time { return &t }

func newUsecase(users *usermock.Repo, loans *loanmock.Repo, reps *repaymentmock.Repo, a *auditmock.Repo, n *notifymock.Notifier) *Usecase {
	tx := uowmock.Passthrough(uow.Repos{Users: users, Loans: loans, Repayments: reps, Audit: a})
	return NewUsecase(users, loans, reps, tx, n, nil)
}

func TestStats(t *testing.T) {
	users := &usermock.Repo{
		CountFn: func(context.Context) (int64, error) { return 10, nil },
		CountByRoleFn: func(_ context.Context, r user.Role) (int64, error) {
			if r == user.RoleAdmin {
				return 2, nil
			}
			return 8, nil
		},
	}
	loans := &loanmock.Repo{
		CountFn: func(context.Context) (int64, error) { return 7, nil },
		CountByStatusFn: func(_ context.Context, s loan.Status) (int64, error) {
			return map[loan.Status]int64{loan.StatusPending: 3, loan.StatusApproved: 2, loan.StatusRejected: 1}[s], nil
		},
	}
	uc := newUsecase(users, loans, &repaymentmock.Repo{}, &auditmock.Repo{}, notifymock.New())
	s, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats err: %v", err)
	}
	want := Stats{Users: UserCounts{Total: 10, Admins: 2, Users: 8}, Loans: LoanCounts{Total: 7, Pending: 3, Approved: 2, Rejected: 1}}
	if *s != want {
		t.Fatalf("stats = %+v, want %+v", *s, want)
	}
}

func TestUser_WithStats(t *testing.T) {
	users := &usermock.Repo{
		GetByUserIDFn: func(_ context.Context, id string) (*user.User, error) {
			return &user.User{UserID: id, Name: "Wanjiru"}, nil
		},
	}
	loans := &loanmock.Repo{
		ListByUserFn: func(context.Context, string) ([]loan.Loan, error) {
			return []loan.Loan{
				{LoanID: "l1", Status: loan.StatusRepaying, Amount: decimal.NewFromInt(10000)},
				{LoanID: "l2", Status: loan.StatusRejected, Amount: decimal.NewFromInt(4000)},
				{LoanID: "l3", Status: loan.StatusApproved, Amount: decimal.NewFromInt(2000)},
			}, nil
		},
	}
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	reps := &repaymentmock.Repo{
		ListByLoansFn: func(context.Context, []string) ([]repayment.Repayment, error) {
			return []repayment.Repayment{
				{LoanID: "l1", Status: repayment.StatusPaid, Amount: decimal.NewFromInt(900), DueDate: due, PaidDate: tptr(due.Add(20 * time.Hour))},
				{LoanID: "l1", Status: repayment.StatusPaid, Amount: decimal.NewFromInt(900), DueDate: due.AddDate(0, 1, 0), PaidDate: tptr(due.AddDate(0, 1, 3))},
				{LoanID: "l1", Status: repayment.StatusPending, Amount: decimal.NewFromInt(900), DueDate: due.AddDate(0, 2, 0)},
			}, nil
		},
	}
	uc := newUsecase(users, loans, reps, &auditmock.Repo{}, notifymock.New())
	d, err := uc.User(context.Background(), targetID)
	if err != nil {
		t.Fatalf("User err: %v", err)
	}
	s := d.Stats
	if s.TotalLoanApplications != 3 || s.ApprovedLoans != 1 || s.RejectedLoans != 1 {
		t.Fatalf("counts = %+v", s)
	}
	if !s.TotalBorrowed.Equal(decimal.NewFromInt(12000)) || !s.TotalRepaid.Equal(decimal.NewFromInt(1800)) {
		t.Fatalf("money = %s / %s", s.TotalBorrowed, s.TotalRepaid)
	}
	if s.OnTimeRepaymentRate.String() != "33.33" {
		t.Fatalf("on-time rate = %s", s.OnTimeRepaymentRate)
	}
}

func TestLockUnlock(t *testing.T) {
	stored := &user.User{UserID: targetID, AccountNonLocked: true}
	users := &usermock.Repo{
		GetByUserIDFn: func(context.Context, string) (*user.User, error) { return stored, nil },
		SaveFn: func(_ context.Context, u *user.User) error {
			stored = u
			return nil
		},
	}
	a := &auditmock.Repo{}
	n := notifymock.New()
	uc := newUsecase(users, &loanmock.Repo{}, &repaymentmock.Repo{}, a, n)

	if err := uc.Lock(context.Background(), adminCaller, targetID); err != nil {
		t.Fatalf("Lock err: %v", err)
	}
	if stored.AccountNonLocked {
		t.Fatal("account should be locked")
	}
	if err := uc.Unlock(context.Background(), adminCaller, targetID); err != nil {
		t.Fatalf("Unlock err: %v", err)
	}
	if !stored.AccountNonLocked {
		t.Fatal("account should be unlocked")
	}
	got := a.Actions()
	if len(got) != 2 || got[0] != audit.ActionAccountLock || got[1] != audit.ActionAccountUnlock {
		t.Fatalf("audit = %v", got)
	}
	if n.Count("account") != 2 {
		t.Fatalf("notifications = %d", n.Count("account"))
	}

	officer := user.Caller{UserID: "o", Role: user.RoleLoanOfficer}
	if err := uc.Lock(context.Background(), officer, targetID); !errors.Is(err, user.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestLock_UnknownUser(t *testing.T) {
	users := &usermock.Repo{
		GetByUserIDFn: func(context.Context, string) (*user.User, error) { return nil, user.ErrNotFound },
	}
	uc := newUsecase(users, &loanmock.Repo{}, &repaymentmock.Repo{}, &auditmock.Repo{}, notifymock.New())
	if err := uc.Lock(context.Background(), adminCaller, targetID); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
