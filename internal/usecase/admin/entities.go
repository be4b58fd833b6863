package admin

import (
	"loanpap/internal/domain/user"

	"github.com/shopspring/decimal"
)

type UserCounts struct {
	Total  int64 `json:"total"`
	Admins int64 `json:"admins"`
	Users  int64 `json:"users"`
}

type LoanCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type Stats struct {
	Users UserCounts `json:"users"`
	Loans LoanCounts `json:"loans"`
}

type UserStats struct {
	TotalLoanApplications int             `json:"totalLoanApplications"`
	ApprovedLoans         int             `json:"approvedLoans"`
	RejectedLoans         int             `json:"rejectedLoans"`
	TotalBorrowed         decimal.Decimal `json:"totalBorrowed"`
	TotalRepaid           decimal.Decimal `json:"totalRepaid"`
	OnTimeRepaymentRate   decimal.Decimal `json:"onTimeRepaymentRate"`
}

type UserDetail struct {
	*user.User
	Stats UserStats `json:"stats"`
}
