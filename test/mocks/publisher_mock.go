package mocks

import (
	"context"
	"sync"

	"github.com/unisga/academic-service/internal/core/ports"
)

// MockResetEmailPublisher implements ports.ResetEmailPublisher so the
// outbox relay can be tested without a broker.
type MockResetEmailPublisher struct {
	mu sync.Mutex

	PublishedEvents []ports.PasswordResetEvent
	PublishError    error
	PublishCalls    int
}

var _ ports.ResetEmailPublisher = (*MockResetEmailPublisher)(nil)

func NewMockResetEmailPublisher() *MockResetEmailPublisher {
	return &MockResetEmailPublisher{}
}

func (m *MockResetEmailPublisher) PublishPasswordReset(ctx context.Context, evt ports.PasswordResetEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

func (m *MockResetEmailPublisher) Events() []ports.PasswordResetEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.PasswordResetEvent, len(m.PublishedEvents))
	copy(out, m.PublishedEvents)
	return out
}
