package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"loanpap/internal/domain/audit"
	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/repayment"
	"loanpap/internal/domain/user"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingAudit struct {
	entries []audit.Entry
	err     error
}

func (r *recordingAudit) Create(_ context.Context, e *audit.Entry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *recordingAudit) ListByUser(context.Context, string, int) ([]audit.Entry, error) {
	return r.entries, nil
}

func TestAuditNotifier_RecordsEntries(t *testing.T) {
	rec := &recordingAudit{}
	n := NewAuditNotifier(rec, zap.NewNop())
	ctx := context.Background()

	l := &loan.Loan{LoanID: "l1", UserID: "u1"}
	n.LoanApplied(ctx, l)
	n.LoanApproved(ctx, l)
	n.RepaymentOverdue(ctx, "u1", &repayment.Repayment{LoanID: "l1", DueDate: time.Now().Add(-72 * time.Hour)}, time.Now())

	if len(rec.entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(rec.entries))
	}
	for _, e := range rec.entries {
		if e.Action != audit.ActionNotificationSent || e.EntityType != audit.EntityNotification || e.UserID != "u1" {
			t.Fatalf("unexpected entry: %+v", e)
		}
	}
	if !strings.HasPrefix(rec.entries[0].Details, "LOAN_APPLICATION_SENT") {
		t.Fatalf("details = %q", rec.entries[0].Details)
	}
	if !strings.Contains(rec.entries[2].Details, "3 days overdue") {
		t.Fatalf("details = %q", rec.entries[2].Details)
	}
}

func TestAuditNotifier_SwallowsErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	n := NewAuditNotifier(&recordingAudit{err: errors.New("db down")}, zap.New(core))

	n.Welcome(context.Background(), &user.User{UserID: "u1", Email: "a@b.c"})

	if logs.FilterMessage("failed to record notification").Len() != 1 {
		t.Fatalf("expected one error log, got %d", logs.Len())
	}
}
