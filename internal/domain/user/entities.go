package user

import (
	"errors"
	"time"

	"loanpap/internal/domain/credit"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked")
	ErrForbidden          = errors.New("access denied")
)

type Role string

const (
	RoleUser        Role = "USER"
	RoleAdmin       Role = "ADMIN"
	RoleLoanOfficer Role = "LOAN_OFFICER"
)

// Authority is the role as carried in token claims.
func (r Role) Authority() string { return "ROLE_" + string(r) }

type User struct {
	ID                 uint64     `gorm:"primaryKey;column:id" json:"-"`
	UserID             string     `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"id"`
	Name               string     `gorm:"size:120;not null" json:"name"`
	Email              string     `gorm:"size:190;not null;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash       string     `gorm:"size:100;not null;column:password_hash" json:"-"`
	Phone              string     `gorm:"size:32;not null" json:"phone"`
	Role               Role       `gorm:"size:16;not null;index" json:"role"`
	Address            string     `gorm:"size:255" json:"address,omitempty"`
	City               string     `gorm:"size:100" json:"city,omitempty"`
	State              string     `gorm:"size:100" json:"state,omitempty"`
	ZipCode            string     `gorm:"size:16" json:"zipCode,omitempty"`
	DateOfBirth        *time.Time `gorm:"type:date" json:"dateOfBirth,omitempty"`
	CreditScore        *int       `json:"creditScore,omitempty"`
	AnnualIncome       *float64   `json:"annualIncome,omitempty"`
	EmploymentType     string     `gorm:"size:32" json:"employmentType,omitempty"`
	MonthlyDebt        *float64   `json:"monthlyDebt,omitempty"`
	ExistingLoansCount *int       `json:"existingLoansCount,omitempty"`
	Enabled            bool       `gorm:"not null;default:true" json:"enabled"`
	AccountNonLocked   bool       `gorm:"not null;default:true" json:"accountNonLocked"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) CreditProfile() credit.Profile {
	return credit.Profile{
		AnnualIncome:   u.AnnualIncome,
		MonthlyDebt:    u.MonthlyDebt,
		EmploymentType: u.EmploymentType,
		ExistingLoans:  u.ExistingLoansCount,
		CreatedAt:      u.CreatedAt,
	}
}

// Score returns the stored credit score, or 0 when none was computed.
func (u *User) Score() int {
	if u.CreditScore == nil {
		return 0
	}
	return *u.CreditScore
}

// Caller identifies the authenticated principal behind a request.
type Caller struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}

func (c Caller) IsStaff() bool { return c.Role == RoleAdmin || c.Role == RoleLoanOfficer }
func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }
