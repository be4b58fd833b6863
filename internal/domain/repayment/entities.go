package repayment

import (
	"errors"
	"time"

	"loanpap/internal/domain/pricing"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("repayment installment not found")
	ErrAlreadyPaid  = errors.New("this installment has already been paid")
	ErrCancelled    = errors.New("this installment has been cancelled")
	ErrPhoneMissing = errors.New("user phone number is missing")
)

type Status string

const (
	StatusPending       Status = "PENDING"
	StatusPaid          Status = "PAID"
	StatusOverdue       Status = "OVERDUE"
	StatusPartiallyPaid Status = "PARTIALLY_PAID"
	StatusCancelled     Status = "CANCELLED"
)

const (
	MethodWallet = "WALLET"
	MethodMpesa  = "MPESA"
)

type Repayment struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	RepaymentID       string          `gorm:"size:32;uniqueIndex:ux_repayments_repayment_id" json:"id"`
	LoanID            string          `gorm:"size:32;not null;index:idx_repayments_loan" json:"loanId"`
	InstallmentNumber int             `gorm:"not null" json:"installmentNumber"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	DueDate           time.Time       `gorm:"not null;index:idx_repayments_status_due" json:"dueDate"`
	PaidDate          *time.Time      `json:"paidDate,omitempty"`
	Status            Status          `gorm:"size:16;not null;default:'PENDING';index:idx_repayments_status_due" json:"status"`
	LateFee           decimal.Decimal `gorm:"type:decimal(12,2)" json:"lateFee"`
	PaymentMethod     string          `gorm:"size:16" json:"paymentMethod,omitempty"`
	TransactionID     string          `gorm:"size:64" json:"transactionId,omitempty"`
	MpesaCheckoutID   string          `gorm:"size:64;column:mpesa_checkout_id;index" json:"mpesaCheckoutId,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Repayment) TableName() string { return "repayments" }

// Payable returns nil when the installment can still take a payment.
func (r *Repayment) Payable() error {
	switch r.Status {
	case StatusPaid:
		return ErrAlreadyPaid
	case StatusCancelled:
		return ErrCancelled
	}
	return nil
}

// MarkPaid finalises the installment. Paid and cancelled installments are refused.
func (r *Repayment) MarkPaid(method, txID string, now time.Time) error {
	if err := r.Payable(); err != nil {
		return err
	}
	r.Status = StatusPaid
	r.PaidDate = &now
	r.PaymentMethod = method
	if txID != "" {
		r.TransactionID = txID
	}
	return nil
}

// Build lays out term equal installments, the first due one month after start.
func Build(loanID string, term int, payment decimal.Decimal, start time.Time, newID func() string) []Repayment {
	out := make([]Repayment, 0, term)
	for i := 1; i <= term; i++ {
		out = append(out, Repayment{
			RepaymentID:       newID(),
			LoanID:            loanID,
			InstallmentNumber: i,
			Amount:            payment,
			DueDate:           pricing.AddMonths(start, i),
			Status:            StatusPending,
			LateFee:           decimal.Zero,
		})
	}
	return out
}
