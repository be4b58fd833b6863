package mysql

import (
	"context"
	"testing"
	"time"

	loanDomain "loanpap/internal/domain/loan"
	domain "loanpap/internal/domain/repayment"
	"loanpap/internal/domain/user"
	"loanpap/internal/testutil/notifymock"
	ucRepayment "loanpap/internal/usecase/repayment"
	"loanpap/pkg/id"

	"github.com/shopspring/decimal"
)

// payingRepayments settles an installment right after the overdue listing is read.
type payingRepayments struct {
	*RepaymentRepository
	afterList func()
}

func (p *payingRepayments) ListByStatusDueBefore(ctx context.Context, s domain.Status, before time.Time) ([]domain.Repayment, error) {
	out, err := p.RepaymentRepository.ListByStatusDueBefore(ctx, s, before)
	if err == nil && p.afterList != nil {
		p.afterList()
		p.afterList = nil
	}
	return out, err
}

func TestMarkOverdue_KeepsPaymentMadeDuringSweep(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	users := NewUserRepository(db)
	loans := NewLoanRepository(db)
	reps := NewRepaymentRepository(db)

	borrower := makeUser("jane@example.com", user.RoleUser)
	if err := users.Create(ctx, borrower); err != nil {
		t.Fatalf("create user: %v", err)
	}
	l := makeLoan(borrower.UserID, loanDomain.StatusDisbursed, now.AddDate(0, -3, 0))
	if err := loans.Create(ctx, l); err != nil {
		t.Fatalf("create loan: %v", err)
	}
	rows := domain.Build(l.LoanID, 2, decimal.NewFromInt(100), now.AddDate(0, -3, 0), id.NewID32)
	if err := reps.CreateBatch(ctx, rows); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	first := rows[0].RepaymentID

	notifier := notifymock.New()
	wrapped := &payingRepayments{RepaymentRepository: reps}
	uc := ucRepayment.NewUsecase(wrapped, loans, users, NewGormUoW(db), nil, notifier, nil)
	caller := user.Caller{UserID: borrower.UserID, Role: user.RoleUser}
	wrapped.afterList = func() {
		if _, err := uc.Pay(ctx, caller, first, domain.MethodWallet); err != nil {
			t.Fatalf("Pay: %v", err)
		}
	}

	n, err := uc.MarkOverdue(ctx, now)
	if err != nil {
		t.Fatalf("MarkOverdue: %v", err)
	}
	if n != 1 {
		t.Fatalf("marked = %d, want only the unpaid installment", n)
	}

	got, err := reps.GetByRepaymentID(ctx, first)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusPaid || got.PaidDate == nil || got.PaymentMethod != domain.MethodWallet {
		t.Fatalf("payment reverted: status=%s paidDate=%v method=%q", got.Status, got.PaidDate, got.PaymentMethod)
	}
	second, _ := reps.GetByRepaymentID(ctx, rows[1].RepaymentID)
	if second.Status != domain.StatusOverdue {
		t.Fatalf("second installment = %s, want OVERDUE", second.Status)
	}
	if notifier.Count("overdue") != 1 {
		t.Fatalf("overdue notices = %d", notifier.Count("overdue"))
	}
}

func TestRepaymentRepository_MarkOverdueOnlyFromPending(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepaymentRepository(db)
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := domain.Build("loan-a", 2, decimal.NewFromInt(100), start, id.NewID32)
	rows[1].MpesaCheckoutID = "ws_CO_9"
	if err := repo.CreateBatch(ctx, rows); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	ok, err := repo.MarkOverdue(ctx, rows[1].RepaymentID)
	if err != nil || !ok {
		t.Fatalf("MarkOverdue = %v, %v", ok, err)
	}
	got, _ := repo.GetByRepaymentID(ctx, rows[1].RepaymentID)
	if got.Status != domain.StatusOverdue || got.MpesaCheckoutID != "ws_CO_9" {
		t.Fatalf("got %+v", got)
	}
	if ok, _ := repo.MarkOverdue(ctx, rows[1].RepaymentID); ok {
		t.Fatal("second flip should report false")
	}

	paid := rows[0]
	if err := paid.MarkPaid(domain.MethodWallet, "", start); err != nil {
		t.Fatal(err)
	}
	_ = repo.Save(ctx, &paid)
	if ok, _ := repo.MarkOverdue(ctx, paid.RepaymentID); ok {
		t.Fatal("paid installment must not flip")
	}
}
