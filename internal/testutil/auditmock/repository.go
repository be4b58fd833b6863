package auditmock

import (
	"context"
	"sync"

	domain "loanpap/internal/domain/audit"
)

var _ domain.Repository = (*Repo)(nil)

// Repo records created entries unless CreateFn is set.
type Repo struct {
	CreateFn     func(ctx context.Context, e *domain.Entry) error
	ListByUserFn func(ctx context.Context, userID string, limit int) ([]domain.Entry, error)

	mu      sync.Mutex
	Entries []domain.Entry
}

func (m *Repo) Create(ctx context.Context, e *domain.Entry) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, *e)
	return nil
}

func (m *Repo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Entry, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit)
	}
	return nil, nil
}

// Actions lists the recorded actions in order.
func (m *Repo) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e.Action)
	}
	return out
}
