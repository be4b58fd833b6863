// Package notify records user-facing notifications. Delivery is an audit
// entry plus a structured log line; there is no mail transport.
package notify

import (
	"context"
	"fmt"
	"time"

	"loanpap/internal/domain/audit"
	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/repayment"
	"loanpap/internal/domain/user"

	"go.uber.org/zap"
)

type Notifier interface {
	Welcome(ctx context.Context, u *user.User)
	LoanApplied(ctx context.Context, l *loan.Loan)
	LoanApproved(ctx context.Context, l *loan.Loan)
	LoanRejected(ctx context.Context, l *loan.Loan)
	LoanDisbursed(ctx context.Context, l *loan.Loan)
	RepaymentConfirmed(ctx context.Context, userID string, r *repayment.Repayment)
	RepaymentOverdue(ctx context.Context, userID string, r *repayment.Repayment, now time.Time)
	AccountStatusChanged(ctx context.Context, u *user.User, change string)
}

// AuditNotifier writes every notification to the audit log. Failures are
// logged and never returned to the caller.
type AuditNotifier struct {
	audit audit.Repository
	log   *zap.Logger
}

func NewAuditNotifier(repo audit.Repository, log *zap.Logger) *AuditNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditNotifier{audit: repo, log: log}
}

func (n *AuditNotifier) record(ctx context.Context, kind, userID, entityID, details string) {
	e := &audit.Entry{
		Action:     audit.ActionNotificationSent,
		EntityType: audit.EntityNotification,
		EntityID:   entityID,
		UserID:     userID,
		Details:    kind + ": " + details,
		IPAddress:  "SYSTEM",
		UserAgent:  "Notifier",
	}
	if err := n.audit.Create(ctx, e); err != nil {
		n.log.Error("failed to record notification", zap.String("kind", kind), zap.Error(err))
	}
}

func (n *AuditNotifier) Welcome(ctx context.Context, u *user.User) {
	n.log.Info("welcome notification", zap.String("email", u.Email), zap.Intp("credit_score", u.CreditScore))
	n.record(ctx, "WELCOME_EMAIL_SENT", u.UserID, "", "Welcome email sent to new user")
}

func (n *AuditNotifier) LoanApplied(ctx context.Context, l *loan.Loan) {
	n.log.Info("loan application notification", zap.String("loan_id", l.LoanID), zap.String("amount", l.Amount.StringFixed(2)))
	n.record(ctx, "LOAN_APPLICATION_SENT", l.UserID, l.LoanID, "Loan application confirmation sent to user")
}

func (n *AuditNotifier) LoanApproved(ctx context.Context, l *loan.Loan) {
	n.log.Info("loan approval notification", zap.String("loan_id", l.LoanID), zap.String("rate", l.InterestRate.String()))
	n.record(ctx, "LOAN_APPROVAL_SENT", l.UserID, l.LoanID, "Loan approval notification sent")
}

func (n *AuditNotifier) LoanRejected(ctx context.Context, l *loan.Loan) {
	n.log.Info("loan rejection notification", zap.String("loan_id", l.LoanID), zap.String("reason", l.RejectionReason))
	n.record(ctx, "LOAN_REJECTION_SENT", l.UserID, l.LoanID, "Loan rejection notification sent")
}

func (n *AuditNotifier) LoanDisbursed(ctx context.Context, l *loan.Loan) {
	n.log.Info("loan disbursement notification", zap.String("loan_id", l.LoanID))
	n.record(ctx, "LOAN_DISBURSEMENT_SENT", l.UserID, l.LoanID, "Loan disbursement notification sent")
}

func (n *AuditNotifier) RepaymentConfirmed(ctx context.Context, userID string, r *repayment.Repayment) {
	n.log.Info("repayment confirmation", zap.String("loan_id", r.LoanID), zap.String("amount", r.Amount.StringFixed(2)))
	n.record(ctx, "REPAYMENT_CONFIRMATION_SENT", userID, r.LoanID, "Repayment confirmation sent")
}

func (n *AuditNotifier) RepaymentOverdue(ctx context.Context, userID string, r *repayment.Repayment, now time.Time) {
	days := int(now.Sub(r.DueDate).Hours() / 24)
	n.log.Warn("overdue notification", zap.String("loan_id", r.LoanID), zap.Int("days_overdue", days))
	n.record(ctx, "OVERDUE_NOTIFICATION_SENT", userID, r.LoanID, fmt.Sprintf("Overdue notification sent - %d days overdue", days))
}

func (n *AuditNotifier) AccountStatusChanged(ctx context.Context, u *user.User, change string) {
	n.log.Info("account status change", zap.String("user_id", u.UserID), zap.String("change", change))
	n.record(ctx, "ACCOUNT_STATUS_CHANGE_SENT", u.UserID, "", "Account status change notification sent: "+change)
}
