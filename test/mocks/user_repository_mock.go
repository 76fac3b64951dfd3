package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

// MockUserRepository is an in-memory ports.UserRepository for unit tests.
// Error fields inject failures per method; call counters let tests verify
// interactions without a real database.
type MockUserRepository struct {
	mu     sync.Mutex
	Users  map[int64]*domain.User
	nextID int64

	CreateError         error
	FindError           error
	ListError           error
	UpdateError         error
	DeleteError         error
	SaveResetTokenError error
	UpdatePasswordError error

	CreateCalls         int
	SaveResetTokenCalls []SavedResetToken
	DeletedIDs          []int64
}

// SavedResetToken records one SaveResetToken invocation.
type SavedResetToken struct {
	UserID        int64
	Token         string
	ExpiresAt     time.Time
	OutboxPayload []byte
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[int64]*domain.User)}
}

// Seed inserts a user directly, bypassing error injection.
func (m *MockUserRepository) Seed(user *domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
	} else if user.ID > m.nextID {
		m.nextID = user.ID
	}
	copied := *user
	m.Users[copied.ID] = &copied
	return user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return ports.ErrDuplicate
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	m.Users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	user, ok := m.Users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	for _, user := range m.Users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, token string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	for _, user := range m.Users {
		if user.ResetToken != nil && *user.ResetToken == token &&
			user.ResetTokenExpiresAt != nil && user.ResetTokenExpiresAt.After(time.Now()) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, role domain.Role) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []domain.User
	for _, user := range m.Users {
		if role != "" && user.Role != role {
			continue
		}
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockUserRepository) ListActiveByRole(ctx context.Context, role domain.Role) ([]domain.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []domain.UserSummary
	for _, user := range m.Users {
		if user.Role == role && user.IsActive {
			out = append(out, user.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Users[user.ID]; !ok {
		return ports.ErrNotFound
	}
	for _, existing := range m.Users {
		if existing.ID != user.ID && existing.Email == user.Email {
			return ports.ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now()
	copied := *user
	m.Users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.DeletedIDs = append(m.DeletedIDs, id)
	delete(m.Users, id)
	return nil
}

func (m *MockUserRepository) SaveResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time, outboxPayload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveResetTokenError != nil {
		return m.SaveResetTokenError
	}
	user, ok := m.Users[userID]
	if !ok {
		return ports.ErrNotFound
	}
	user.ResetToken = &token
	user.ResetTokenExpiresAt = &expiresAt
	m.SaveResetTokenCalls = append(m.SaveResetTokenCalls, SavedResetToken{
		UserID:        userID,
		Token:         token,
		ExpiresAt:     expiresAt,
		OutboxPayload: outboxPayload,
	})
	return nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdatePasswordError != nil {
		return m.UpdatePasswordError
	}
	user, ok := m.Users[userID]
	if !ok {
		return ports.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.ResetToken = nil
	user.ResetTokenExpiresAt = nil
	return nil
}
