package mysql

import (
	"context"
	"time"

	repaymentDomain "loanpap/internal/domain/repayment"

	"gorm.io/gorm"
)

type RepaymentRepository struct{ db *gorm.DB }

func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository { return &RepaymentRepository{db: db} }

func (r *RepaymentRepository) CreateBatch(ctx context.Context, rs []repaymentDomain.Repayment) error {
	if len(rs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(rs, 100).Error
}

func (r *RepaymentRepository) Save(ctx context.Context, rp *repaymentDomain.Repayment) error {
	return r.db.WithContext(ctx).Save(rp).Error
}

func (r *RepaymentRepository) GetByRepaymentID(ctx context.Context, repaymentID string) (*repaymentDomain.Repayment, error) {
	var out repaymentDomain.Repayment
	if err := r.db.WithContext(ctx).Where("repayment_id = ?", repaymentID).First(&out).Error; err != nil {
		return nil, notFound(err, repaymentDomain.ErrNotFound, repaymentID)
	}
	return &out, nil
}

func (r *RepaymentRepository) GetByRepaymentIDForUpdate(ctx context.Context, repaymentID string) (*repaymentDomain.Repayment, error) {
	var out repaymentDomain.Repayment
	if err := forUpdate(r.db.WithContext(ctx)).Where("repayment_id = ?", repaymentID).First(&out).Error; err != nil {
		return nil, notFound(err, repaymentDomain.ErrNotFound, repaymentID)
	}
	return &out, nil
}

func (r *RepaymentRepository) GetByCheckoutID(ctx context.Context, checkoutID string) (*repaymentDomain.Repayment, error) {
	var out repaymentDomain.Repayment
	if err := forUpdate(r.db.WithContext(ctx)).Where("mpesa_checkout_id = ?", checkoutID).First(&out).Error; err != nil {
		return nil, notFound(err, repaymentDomain.ErrNotFound, checkoutID)
	}
	return &out, nil
}

func (r *RepaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]repaymentDomain.Repayment, error) {
	var out []repaymentDomain.Repayment
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).
		Order("due_date ASC, installment_number ASC").Find(&out).Error
	return out, err
}

func (r *RepaymentRepository) ListByLoans(ctx context.Context, loanIDs []string) ([]repaymentDomain.Repayment, error) {
	var out []repaymentDomain.Repayment
	if len(loanIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("loan_id IN ?", loanIDs).
		Order("due_date ASC, installment_number ASC").Find(&out).Error
	return out, err
}

func (r *RepaymentRepository) ListByStatusDueBefore(ctx context.Context, status repaymentDomain.Status, before time.Time) ([]repaymentDomain.Repayment, error) {
	var out []repaymentDomain.Repayment
	err := r.db.WithContext(ctx).Where("status = ? AND due_date < ?", status, before).
		Order("due_date ASC").Find(&out).Error
	return out, err
}

func (r *RepaymentRepository) MarkOverdue(ctx context.Context, repaymentID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&repaymentDomain.Repayment{}).
		Where("repayment_id = ? AND status = ?", repaymentID, repaymentDomain.StatusPending).
		Update("status", repaymentDomain.StatusOverdue)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *RepaymentRepository) CountUnpaid(ctx context.Context, loanID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&repaymentDomain.Repayment{}).
		Where("loan_id = ? AND status <> ?", loanID, repaymentDomain.StatusPaid).
		Count(&n).Error
	return n, err
}
