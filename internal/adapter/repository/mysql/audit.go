package mysql

import (
	"context"

	auditDomain "loanpap/internal/domain/audit"

	"gorm.io/gorm"
)

type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Create(ctx context.Context, e *auditDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AuditRepository) ListByUser(ctx context.Context, userID string, limit int) ([]auditDomain.Entry, error) {
	var out []auditDomain.Entry
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").Limit(limit).Find(&out).Error
	return out, err
}
