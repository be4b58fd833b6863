package client

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	ZipCode        string   `json:"zipCode,omitempty"`
	DateOfBirth    string   `json:"dateOfBirth,omitempty"`
	AnnualIncome   *float64 `json:"annualIncome,omitempty"`
	EmploymentType string   `json:"employmentType,omitempty"`
	MonthlyDebt    *float64 `json:"monthlyDebt,omitempty"`
}

type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	ExpiresIn    int64  `json:"expiresIn"`
	CreditScore  *int   `json:"creditScore,omitempty"`
}

type refreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type Quote struct {
	Amount            float64         `json:"amount"`
	TermMonths        int             `json:"termMonths"`
	CreditScore       int             `json:"creditScore"`
	Tier              string          `json:"tier"`
	InterestRate      float64         `json:"interestRate"`
	MonthlyPayment    float64         `json:"monthlyPayment"`
	TotalPaid         float64         `json:"totalPaid"`
	TotalInterest     float64         `json:"totalInterest"`
	CreditCategory    string          `json:"creditCategory"`
	Eligible          bool            `json:"eligible"`
	MaxEligibleAmount decimal.Decimal `json:"maxEligibleAmount"`
	Message           string          `json:"message"`
}

type ApplyRequest struct {
	Amount     float64 `json:"amount"`
	TermMonths int     `json:"termMonths"`
	Purpose    string  `json:"purpose"`
}

type Repayment struct {
	ID                string          `json:"id"`
	LoanID            string          `json:"loanId"`
	InstallmentNumber int             `json:"installmentNumber"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           time.Time       `json:"dueDate"`
	PaidDate          *time.Time      `json:"paidDate,omitempty"`
	Status            string          `json:"status"`
	PaymentMethod     string          `json:"paymentMethod,omitempty"`
	TransactionID     string          `json:"transactionId,omitempty"`
	CheckoutID        string          `json:"checkoutRequestId,omitempty"`
	Message           string          `json:"message,omitempty"`
}

type Loan struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Amount         decimal.Decimal `json:"amount"`
	TermMonths     int             `json:"termMonths"`
	Purpose        string          `json:"purpose"`
	Status         string          `json:"status"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	TotalRepaid    decimal.Decimal `json:"totalRepaid"`
	AppliedDate    time.Time       `json:"appliedDate"`
	Repayments     []Repayment     `json:"repayments,omitempty"`
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}
