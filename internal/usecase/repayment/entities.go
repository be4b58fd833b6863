package repayment

import (
	"context"
	"time"

	"loanpap/internal/domain/repayment"

	"github.com/shopspring/decimal"
)

// Gateway starts a mobile-money collection and returns its checkout id.
type Gateway interface {
	STKPush(ctx context.Context, phone string, amount decimal.Decimal, reference string) (string, error)
}

// MpesaResult is the part of a Daraja STK callback that settles an installment.
type MpesaResult struct {
	CheckoutID string
	ResultCode int
	ResultDesc string
	Receipt    string
}

type StatusDTO struct {
	ID                string           `json:"id"`
	LoanID            string           `json:"loanId"`
	InstallmentNumber int              `json:"installmentNumber"`
	Amount            decimal.Decimal  `json:"amount"`
	DueDate           time.Time        `json:"dueDate"`
	PaidDate          *time.Time       `json:"paidDate,omitempty"`
	Status            repayment.Status `json:"status"`
	PaymentMethod     string           `json:"paymentMethod,omitempty"`
	TransactionID     string           `json:"transactionId,omitempty"`
	CheckoutID        string           `json:"checkoutRequestId,omitempty"`
	Message           string           `json:"message,omitempty"`
}

func toStatusDTO(r *repayment.Repayment) *StatusDTO {
	return &StatusDTO{
		ID:                r.RepaymentID,
		LoanID:            r.LoanID,
		InstallmentNumber: r.InstallmentNumber,
		Amount:            r.Amount,
		DueDate:           r.DueDate,
		PaidDate:          r.PaidDate,
		Status:            r.Status,
		PaymentMethod:     r.PaymentMethod,
		TransactionID:     r.TransactionID,
		CheckoutID:        r.MpesaCheckoutID,
	}
}
