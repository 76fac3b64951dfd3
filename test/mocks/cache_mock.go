package mocks

import (
	"context"
	"sync"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

// MockIdentityCache implements ports.IdentityCache in memory.
type MockIdentityCache struct {
	mu      sync.Mutex
	Entries map[int64]*domain.User

	GetError        error
	SetError        error
	InvalidateError error

	GetCalls        int
	SetCalls        int
	InvalidatedIDs  []int64
}

var _ ports.IdentityCache = (*MockIdentityCache)(nil)

func NewMockIdentityCache() *MockIdentityCache {
	return &MockIdentityCache{Entries: make(map[int64]*domain.User)}
}

func (m *MockIdentityCache) Get(ctx context.Context, userID int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetError != nil {
		return nil, m.GetError
	}
	user, ok := m.Entries[userID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (m *MockIdentityCache) Set(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetError != nil {
		return m.SetError
	}
	copied := *user
	m.Entries[user.ID] = &copied
	return nil
}

func (m *MockIdentityCache) Invalidate(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InvalidateError != nil {
		return m.InvalidateError
	}
	m.InvalidatedIDs = append(m.InvalidatedIDs, userID)
	delete(m.Entries, userID)
	return nil
}
