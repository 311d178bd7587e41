package http_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/practo-cms-api/internal/domain"
	"github.com/jhoicas/practo-cms-api/internal/domain/entity"
	"github.com/jhoicas/practo-cms-api/internal/domain/rbac"
	"github.com/jhoicas/practo-cms-api/internal/domain/repository"
	"github.com/jhoicas/practo-cms-api/internal/domain/workflow"
)

// Repositorios en memoria para probar el router completo sin PostgreSQL.

type memUsers struct {
	mu    sync.Mutex
	items map[string]entity.User
}

var _ repository.UserRepository = (*memUsers)(nil)

func newMemUsers() *memUsers { return &memUsers{items: map[string]entity.User{}} }

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.items {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.items[u.ID] = *u
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUsers) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.items))
	for _, u := range r.items {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memUsers) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items), nil
}

func (r *memUsers) update(id string, fn func(u *entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(&u)
	r.items[id] = u
	return nil
}

func (r *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	return r.update(id, func(u *entity.User) { u.PasswordHash = hash })
}

func (r *memUsers) UpdateStatus(_ context.Context, id, status string) error {
	return r.update(id, func(u *entity.User) { u.Status = status })
}

func (r *memUsers) UpdateRole(_ context.Context, id string, role rbac.Role) error {
	return r.update(id, func(u *entity.User) { u.Role = role })
}

func (r *memUsers) RecordLogin(_ context.Context, id string, at time.Time, googleID string) error {
	return r.update(id, func(u *entity.User) {
		u.LastLoginAt = &at
		if googleID != "" && u.GoogleID == nil {
			u.GoogleID = &googleID
		}
	})
}

type memContent struct {
	mu    sync.Mutex
	items map[string]entity.ContentItem
	audit []entity.AuditLog
}

var (
	_ repository.ContentRepository = (*memContent)(nil)
	_ repository.AuditRepository   = (*memAudit)(nil)
)

func newMemContent() *memContent { return &memContent{items: map[string]entity.ContentItem{}} }

func (r *memContent) Create(_ context.Context, it *entity.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = *it
	return nil
}

func (r *memContent) GetByID(_ context.Context, id string) (*entity.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *memContent) List(_ context.Context, f repository.ContentFilter) ([]*entity.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ContentItem
	for _, it := range r.items {
		if f.Type != "" && it.Type != f.Type {
			continue
		}
		if f.Stage != "" && it.Stage != f.Stage {
			continue
		}
		it := it
		out = append(out, &it)
	}
	return out, nil
}

func (r *memContent) UpdateStage(_ context.Context, id string, expected, next workflow.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if it.Stage != expected {
		return domain.ErrStageConflict
	}
	it.Stage = next
	it.UpdatedAt = time.Now()
	r.items[id] = it
	return nil
}

// memAudit comparte el mutex del contenido, como si fueran tablas de la misma BD.
type memAudit struct{ db *memContent }

func (a *memAudit) Create(_ context.Context, l *entity.AuditLog) error {
	a.db.mu.Lock()
	defer a.db.mu.Unlock()
	a.db.audit = append(a.db.audit, *l)
	return nil
}

func (a *memAudit) List(_ context.Context, contentID string, limit, offset int) ([]*entity.AuditLog, error) {
	a.db.mu.Lock()
	defer a.db.mu.Unlock()
	var out []*entity.AuditLog
	for i := len(a.db.audit) - 1; i >= 0; i-- {
		l := a.db.audit[i]
		if contentID == "" || l.ContentID == contentID {
			out = append(out, &l)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type memTx struct {
	content *memContent
	audit   *memAudit
}

func (t *memTx) RunOverride(_ context.Context, fn func(repository.ContentRepository, repository.AuditRepository) error) error {
	return fn(t.content, t.audit)
}
