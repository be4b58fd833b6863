package analytics

import "github.com/shopspring/decimal"

type Dashboard struct {
	TotalLoans           int             `json:"totalLoans"`
	TotalAmount          decimal.Decimal `json:"totalAmount"`
	AverageAmount        decimal.Decimal `json:"averageAmount"`
	ApprovalRate         decimal.Decimal `json:"approvalRate"`
	DefaultRate          decimal.Decimal `json:"defaultRate"`
	PendingApplications  int             `json:"pendingApplications"`
	ApprovedApplications int             `json:"approvedApplications"`
	RejectedApplications int             `json:"rejectedApplications"`
	TopPerformingOfficer string          `json:"topPerformingOfficer"`
	MonthOverMonthGrowth decimal.Decimal `json:"monthOverMonthGrowth"`
}

type Overview struct {
	TotalPortfolioValue decimal.Decimal `json:"totalPortfolioValue"`
	ActiveLoans         int             `json:"activeLoans"`
	TotalInterestEarned decimal.Decimal `json:"totalInterestEarned"`
	AverageCreditScore  decimal.Decimal `json:"averageCreditScore"`
	RiskDistribution    map[string]int  `json:"riskDistribution"`
}

type MonthlyMetric struct {
	Month         string          `json:"month"`
	TotalLoans    int             `json:"totalLoans"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	ApprovedLoans int             `json:"approvedLoans"`
	RejectedLoans int             `json:"rejectedLoans"`
	PendingLoans  int             `json:"pendingLoans"`
}

type MonthlyTrend struct {
	MonthlyData   []MonthlyMetric  `json:"monthlyData"`
	StatusTrends  map[string][]int `json:"statusTrends"`
	OverallTrends map[string]any   `json:"overallTrends"`
}

type StatusDistribution struct {
	Distribution map[string]int             `json:"distribution"`
	Percentages  map[string]decimal.Decimal `json:"percentages"`
	TotalLoans   int                        `json:"totalLoans"`
}

type PurposeDistribution struct {
	Distribution   map[string]int             `json:"distribution"`
	Percentages    map[string]decimal.Decimal `json:"percentages"`
	AverageAmounts map[string]decimal.Decimal `json:"averageAmounts"`
	TotalLoans     int                        `json:"totalLoans"`
}
