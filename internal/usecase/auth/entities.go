package auth

import (
	"time"

	"loanpap/internal/domain/audit"
	"loanpap/internal/domain/user"
	"loanpap/internal/usecase/loan"
)

type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Phone          string
	Address        string
	City           string
	State          string
	ZipCode        string
	DateOfBirth    *time.Time
	AnnualIncome   *float64
	EmploymentType string
	MonthlyDebt    *float64
}

type AuthResponse struct {
	Success      bool   `json:"success"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
	Phone        string `json:"phone,omitempty"`
	CreditScore  *int   `json:"creditScore,omitempty"`
	IsAdmin      bool   `json:"isAdmin"`
	Message      string `json:"message,omitempty"`
}

type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Type         string `json:"type"`
}

type Activity struct {
	ID         uint64    `json:"id"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	IPAddress  string    `json:"ipAddress,omitempty"`
}

type Profile struct {
	User             *user.User    `json:"user"`
	CreditCategory   string        `json:"creditCategory"`
	LoanSummary      *loan.Summary `json:"loanSummary"`
	RecentActivities []Activity    `json:"recentActivities"`
}

func toActivities(entries []audit.Entry) []Activity {
	out := make([]Activity, 0, len(entries))
	for _, e := range entries {
		out = append(out, Activity{
			ID:         e.ID,
			Action:     e.Action,
			Details:    e.Details,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Timestamp:  e.Timestamp,
			IPAddress:  e.IPAddress,
		})
	}
	return out
}
