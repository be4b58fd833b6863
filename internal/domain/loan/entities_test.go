package loan

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransitions(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	l := &Loan{Status: StatusPending, TermMonths: 24}
	if err := l.Approve("rev", now); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if l.Status != StatusApproved || l.ReviewedBy != "rev" {
		t.Fatalf("unexpected loan after approve: %+v", l)
	}
	if want := now.AddDate(0, 24, 0); !l.DueDate.Equal(want) {
		t.Fatalf("due = %v, want %v", l.DueDate, want)
	}
	if err := l.Approve("rev", now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second approve err = %v", err)
	}
	if err := l.Reject("rev", "late", now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("reject approved err = %v", err)
	}
	if err := l.Disburse(now); err != nil {
		t.Fatalf("Disburse: %v", err)
	}
	if err := l.Disburse(now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second disburse err = %v", err)
	}
}

func TestApprove_MonthEndDueDate(t *testing.T) {
	l := &Loan{Status: StatusPending, TermMonths: 1}
	if err := l.Approve("rev", time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if got := l.DueDate.Format("2006-01-02"); got != "2025-02-28" {
		t.Fatalf("due = %s, want 2025-02-28", got)
	}
}

func TestReject(t *testing.T) {
	l := &Loan{Status: StatusPending}
	if err := l.Reject("rev", "insufficient income", time.Now()); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if l.Status != StatusRejected || l.RejectionReason != "insufficient income" {
		t.Fatalf("unexpected loan: %+v", l)
	}
}

func TestRecordPayment(t *testing.T) {
	now := time.Now()
	l := &Loan{Status: StatusDisbursed, TotalRepaid: decimal.Zero}

	if err := l.RecordPayment(decimal.NewFromInt(100), false, now); err != nil {
		t.Fatal(err)
	}
	if l.Status != StatusRepaying || !l.TotalRepaid.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("after first payment: %+v", l)
	}
	if err := l.RecordPayment(decimal.NewFromInt(50), true, now); err != nil {
		t.Fatal(err)
	}
	if l.Status != StatusCompleted || l.CompletedDate == nil {
		t.Fatalf("loan should be completed: %+v", l)
	}

	rejected := &Loan{Status: StatusRejected}
	if err := rejected.RecordPayment(decimal.NewFromInt(1), false, now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseStatusAndPurpose(t *testing.T) {
	if _, ok := ParseStatus("APPROVED"); !ok {
		t.Fatal("APPROVED should parse")
	}
	if _, ok := ParseStatus("approved"); ok {
		t.Fatal("lowercase should not parse")
	}
	if !ValidPurpose("PERSONAL") || ValidPurpose("GAMBLING") {
		t.Fatal("purpose validation wrong")
	}
	if !StatusRepaying.Active() || StatusPending.Active() {
		t.Fatal("active statuses wrong")
	}
}
