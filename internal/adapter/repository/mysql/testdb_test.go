package mysql

import (
	"testing"
	"time"

	"loanpap/internal/domain/audit"
	"loanpap/internal/domain/loan"
	"loanpap/internal/domain/repayment"
	"loanpap/internal/domain/user"
	"loanpap/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the full schema. A single
// connection keeps every query on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&user.User{}, &loan.Loan{}, &repayment.Repayment{}, &audit.Entry{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeUser(email string, role user.Role) *user.User {
	return &user.User{
		UserID:           id.NewID32(),
		Name:             "Jane Wanjiru",
		Email:            email,
		PasswordHash:     "x",
		Phone:            "0712345678",
		Role:             role,
		Enabled:          true,
		AccountNonLocked: true,
	}
}

func makeLoan(userID string, status loan.Status, applied time.Time) *loan.Loan {
	return &loan.Loan{
		LoanID:         id.NewID32(),
		UserID:         userID,
		Amount:         decimal.NewFromInt(10000),
		TermMonths:     12,
		Purpose:        loan.PurposeEducation,
		Status:         status,
		InterestRate:   decimal.NewFromInt(10),
		MonthlyPayment: decimal.RequireFromString("879.16"),
		TotalRepaid:    decimal.Zero,
		AppliedDate:    applied,
	}
}
