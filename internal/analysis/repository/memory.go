package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/projectziio/ziio-ai/internal/analysis"
)

var (
	ErrNotFound = errors.New("file analysis not found")
)

// Repository persists saved file analyses.
type Repository interface {
	Save(ctx context.Context, fa *analysis.FileAnalysis) (string, error)
	Get(ctx context.Context, id string) (*analysis.FileAnalysis, error)
	List(ctx context.Context, limit int) ([]*analysis.FileAnalysis, error)
}

// MemoryRepo is an in-memory repository used in tests and when MongoDB is
// not configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*analysis.FileAnalysis
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*analysis.FileAnalysis)}
}

func (m *MemoryRepo) Save(_ context.Context, fa *analysis.FileAnalysis) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fa.ID == "" {
		fa.ID = uuid.NewString()
	}
	fa.Timestamp = time.Now().UTC()
	cp := *fa
	m.store[fa.ID] = &cp
	return fa.ID, nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*analysis.FileAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if fa, ok := m.store[id]; ok {
		cp := *fa
		return &cp, nil
	}
	return nil, ErrNotFound
}

// List returns analyses newest first; limit <= 0 means all.
func (m *MemoryRepo) List(_ context.Context, limit int) ([]*analysis.FileAnalysis, error) {
	m.mu.RLock()
	out := make([]*analysis.FileAnalysis, 0, len(m.store))
	for _, fa := range m.store {
		cp := *fa
		out = append(out, &cp)
	}
	m.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
