package mysql

import (
	"errors"
	"fmt"

	"loanpap/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds SELECT ... FOR UPDATE on dialects that support it.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// notFound maps gorm's missing-row error onto a domain sentinel.
func notFound(err, sentinel error, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", sentinel, key)
	}
	return err
}

func paginate(q *gorm.DB, p loan.Page) *gorm.DB {
	return q.Offset(p.Offset()).Limit(p.Size)
}
