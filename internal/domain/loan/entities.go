package loan

import (
	"errors"
	"time"

	"loanpap/internal/domain/pricing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid loan status transition")
	ErrActiveLoanLimit   = errors.New("maximum limit of 3 active loans reached")
)

const MaxActiveLoans = 3

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
	StatusDisbursed   Status = "DISBURSED"
	StatusRepaying    Status = "REPAYING"
	StatusDefaulted   Status = "DEFAULTED"
	StatusCompleted   Status = "COMPLETED"
)

// ActiveStatuses count towards the per-borrower loan limit and credit usage.
var ActiveStatuses = []Status{StatusApproved, StatusDisbursed, StatusRepaying}

func (s Status) Active() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

func ParseStatus(raw string) (Status, bool) {
	switch s := Status(raw); s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected,
		StatusDisbursed, StatusRepaying, StatusDefaulted, StatusCompleted:
		return s, true
	}
	return "", false
}

type Purpose string

const (
	PurposeHomeRenovation    Purpose = "HOME_RENOVATION"
	PurposeDebtConsolidation Purpose = "DEBT_CONSOLIDATION"
	PurposeBusinessExpansion Purpose = "BUSINESS_EXPANSION"
	PurposeMedicalExpenses   Purpose = "MEDICAL_EXPENSES"
	PurposeEducation         Purpose = "EDUCATION"
	PurposeVehiclePurchase   Purpose = "VEHICLE_PURCHASE"
	PurposeWedding           Purpose = "WEDDING"
	PurposeTravel            Purpose = "TRAVEL"
	PurposePersonal          Purpose = "PERSONAL"
	PurposeOther             Purpose = "OTHER"
)

var Purposes = []Purpose{
	PurposeHomeRenovation, PurposeDebtConsolidation, PurposeBusinessExpansion,
	PurposeMedicalExpenses, PurposeEducation, PurposeVehiclePurchase,
	PurposeWedding, PurposeTravel, PurposePersonal, PurposeOther,
}

func ValidPurpose(raw string) bool {
	for _, p := range Purposes {
		if string(p) == raw {
			return true
		}
	}
	return false
}

type Loan struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"id"`
	UserID          string          `gorm:"size:32;not null;index:idx_loans_user_status" json:"userId"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	TermMonths      int             `gorm:"not null" json:"termMonths"`
	Purpose         Purpose         `gorm:"size:32;not null" json:"purpose"`
	Status          Status          `gorm:"size:16;not null;default:'PENDING';index:idx_loans_user_status" json:"status"`
	InterestRate    decimal.Decimal `gorm:"type:decimal(5,2)" json:"interestRate"`
	MonthlyPayment  decimal.Decimal `gorm:"type:decimal(12,2)" json:"monthlyPayment"`
	TotalRepaid     decimal.Decimal `gorm:"type:decimal(12,2)" json:"totalRepaid"`
	CreditScore     *int            `json:"creditScore,omitempty"`
	AppliedDate     time.Time       `gorm:"index" json:"appliedDate"`
	ReviewedDate    *time.Time      `json:"reviewedDate,omitempty"`
	DisbursedDate   *time.Time      `json:"disbursedDate,omitempty"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	CompletedDate   *time.Time      `json:"completedDate,omitempty"`
	ReviewedBy      string          `gorm:"size:32" json:"reviewedBy,omitempty"`
	RejectionReason string          `gorm:"type:text" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Approve moves a PENDING loan to APPROVED and sets its final due date.
func (l *Loan) Approve(reviewer string, now time.Time) error {
	if l.Status != StatusPending {
		return ErrInvalidTransition
	}
	due := pricing.AddMonths(now, l.TermMonths)
	l.Status = StatusApproved
	l.ReviewedBy = reviewer
	l.ReviewedDate = &now
	l.DueDate = &due
	return nil
}

func (l *Loan) Reject(reviewer, reason string, now time.Time) error {
	if l.Status != StatusPending {
		return ErrInvalidTransition
	}
	l.Status = StatusRejected
	l.ReviewedBy = reviewer
	l.ReviewedDate = &now
	l.RejectionReason = reason
	return nil
}

func (l *Loan) Disburse(now time.Time) error {
	if l.Status != StatusApproved {
		return ErrInvalidTransition
	}
	l.Status = StatusDisbursed
	l.DisbursedDate = &now
	return nil
}

// RecordPayment adds amount to the repaid total. The loan completes once
// nothing remains unpaid, otherwise it is repaying.
func (l *Loan) RecordPayment(amount decimal.Decimal, allPaid bool, now time.Time) error {
	switch l.Status {
	case StatusApproved, StatusDisbursed, StatusRepaying, StatusDefaulted:
	default:
		return ErrInvalidTransition
	}
	l.TotalRepaid = l.TotalRepaid.Add(amount)
	if allPaid {
		l.Status = StatusCompleted
		l.CompletedDate = &now
		return nil
	}
	l.Status = StatusRepaying
	return nil
}
