package audit

import (
	"context"
	"time"
)

const (
	ActionRegister         = "REGISTER"
	ActionAdminCreate      = "ADMIN_CREATE"
	ActionLogin            = "LOGIN"
	ActionLoanApply        = "LOAN_APPLY"
	ActionLoanApprove      = "LOAN_APPROVE"
	ActionLoanReject       = "LOAN_REJECT"
	ActionLoanDisburse     = "LOAN_DISBURSE"
	ActionRepayment        = "REPAYMENT"
	ActionAccountLock      = "ACCOUNT_LOCK"
	ActionAccountUnlock    = "ACCOUNT_UNLOCK"
	ActionNotificationSent = "NOTIFICATION_SENT"

	EntityUser         = "USER"
	EntityLoan         = "LOAN"
	EntityRepayment    = "REPAYMENT"
	EntityNotification = "NOTIFICATION"
)

type Entry struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"id"`
	Action     string    `gorm:"size:48;not null" json:"action"`
	EntityType string    `gorm:"size:32;not null" json:"entityType"`
	EntityID   string    `gorm:"size:32" json:"entityId,omitempty"`
	UserID     string    `gorm:"size:32;index:idx_audit_user_ts" json:"userId,omitempty"`
	Details    string    `gorm:"type:text" json:"details,omitempty"`
	IPAddress  string    `gorm:"size:64" json:"ipAddress,omitempty"`
	UserAgent  string    `gorm:"size:255" json:"userAgent,omitempty"`
	Timestamp  time.Time `gorm:"autoCreateTime;index:idx_audit_user_ts" json:"timestamp"`
}

func (Entry) TableName() string { return "audit_logs" }

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	// ListByUser returns the most recent entries first.
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}
