package mysql

import (
	"context"
	"time"

	loanDomain "loanpap/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, notFound(err, loanDomain.ErrNotFound, loanID)
	}
	return &out, nil
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	if err := forUpdate(r.db.WithContext(ctx)).Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, notFound(err, loanDomain.ErrNotFound, loanID)
	}
	return &out, nil
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("applied_date DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *LoanRepository) page(ctx context.Context, scope func(*gorm.DB) *gorm.DB, p loanDomain.Page) ([]loanDomain.Loan, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []loanDomain.Loan
	err := paginate(r.db.WithContext(ctx).Scopes(scope), p).Order("applied_date DESC, id DESC").Find(&out).Error
	return out, total, err
}

func (r *LoanRepository) PageByUser(ctx context.Context, userID string, p loanDomain.Page) ([]loanDomain.Loan, int64, error) {
	return r.page(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", userID) }, p)
}

func (r *LoanRepository) PageAll(ctx context.Context, p loanDomain.Page) ([]loanDomain.Loan, int64, error) {
	return r.page(ctx, func(db *gorm.DB) *gorm.DB { return db }, p)
}

func (r *LoanRepository) PageByStatus(ctx context.Context, status loanDomain.Status, p loanDomain.Page) ([]loanDomain.Loan, int64, error) {
	return r.page(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("status = ?", status) }, p)
}

func (r *LoanRepository) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("user_id = ? AND status IN ?", userID, loanDomain.ActiveStatuses).
		Count(&n).Error
	return n, err
}

func (r *LoanRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Count(&n).Error
	return n, err
}

func (r *LoanRepository) CountByStatus(ctx context.Context, status loanDomain.Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *LoanRepository) ListAppliedBetween(ctx context.Context, from, to time.Time) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Where("applied_date >= ? AND applied_date < ?", from, to).
		Order("applied_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListAll(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}
