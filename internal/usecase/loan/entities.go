package loan

import (
	"loanpap/internal/domain/credit"
	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/pricing"
	"loanpap/internal/domain/repayment"

	"github.com/shopspring/decimal"
)

const (
	MinAmount = 1000
	MaxAmount = 100000
	MinTerm   = 12
	MaxTerm   = 84

	DefaultPageSize = 20
	MaxPageSize     = 100

	// CreditLimit is the total a borrower may hold across active loans.
	CreditLimit = 100000
)

type CreateLoanInput struct {
	Amount     decimal.Decimal
	TermMonths int
	Purpose    string
}

type LoanDTO struct {
	*loan.Loan
	UserName   string                `json:"userName,omitempty"`
	Repayments []repayment.Repayment `json:"repayments"`
}

// QuoteDTO is an estimate plus what the borrower's score qualifies for.
type QuoteDTO struct {
	pricing.Quote
	CreditCategory    credit.Category `json:"creditCategory"`
	Eligible          bool            `json:"eligible"`
	MaxEligibleAmount decimal.Decimal `json:"maxEligibleAmount"`
	Message           string          `json:"message"`
}

type Summary struct {
	TotalBorrowed   decimal.Decimal `json:"totalBorrowed"`
	TotalRepaid     decimal.Decimal `json:"totalRepaid"`
	ActiveLoans     int             `json:"activeLoans"`
	MonthlyPayment  decimal.Decimal `json:"monthlyPayment"`
	AvailableCredit decimal.Decimal `json:"availableCredit"`
	PendingDue      int             `json:"pendingDue"`
}

// PageResult is a zero-based page of results.
type PageResult[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPage(number, size int) loan.Page {
	if number < 0 {
		number = 0
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return loan.Page{Number: number, Size: size}
}

func newPageResult[T any](content []T, p loan.Page, total int64) *PageResult[T] {
	pages := 0
	if p.Size > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	if content == nil {
		content = []T{}
	}
	return &PageResult[T]{Content: content, Page: p.Number, Size: p.Size, TotalElements: total, TotalPages: pages}
}
