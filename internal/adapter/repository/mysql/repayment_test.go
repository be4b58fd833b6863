package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "loanpap/internal/domain/repayment"
	"loanpap/pkg/id"

	"github.com/shopspring/decimal"
)

func TestRepaymentRepository_Lifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepaymentRepository(db)
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := domain.Build("loan-a", 3, decimal.NewFromInt(100), start, id.NewID32)
	if err := repo.CreateBatch(ctx, rows); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	list, err := repo.ListByLoan(ctx, "loan-a")
	if err != nil || len(list) != 3 {
		t.Fatalf("ListByLoan = %d, %v", len(list), err)
	}
	if list[0].InstallmentNumber != 1 {
		t.Fatalf("not ordered by due date: %+v", list[0])
	}

	first := list[0]
	first.MpesaCheckoutID = "ws_CO_123"
	if err := repo.Save(ctx, &first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.GetByCheckoutID(ctx, "ws_CO_123")
	if err != nil || got.RepaymentID != first.RepaymentID {
		t.Fatalf("GetByCheckoutID = %+v, %v", got, err)
	}

	if err := got.MarkPaid(domain.MethodMpesa, "RBT1", start); err != nil {
		t.Fatal(err)
	}
	_ = repo.Save(ctx, got)
	if n, _ := repo.CountUnpaid(ctx, "loan-a"); n != 2 {
		t.Fatalf("unpaid = %d, want 2", n)
	}

	due, err := repo.ListByStatusDueBefore(ctx, domain.StatusPending, start.AddDate(0, 2, 1))
	if err != nil || len(due) != 1 {
		t.Fatalf("due = %d, %v", len(due), err)
	}

	byLoans, _ := repo.ListByLoans(ctx, []string{"loan-a", "loan-b"})
	if len(byLoans) != 3 {
		t.Fatalf("ListByLoans = %d", len(byLoans))
	}
	if empty, _ := repo.ListByLoans(ctx, nil); len(empty) != 0 {
		t.Fatal("expected empty")
	}
}

func TestRepaymentRepository_NotFound(t *testing.T) {
	repo := NewRepaymentRepository(openTestDB(t))
	ctx := context.Background()
	if _, err := repo.GetByRepaymentID(ctx, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := repo.GetByRepaymentIDForUpdate(ctx, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
