package services_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
	"github.com/unisga/academic-service/internal/core/services"
	"github.com/unisga/academic-service/test/mocks"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	return key
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name        string
		role        domain.Role
		email       string
		setup       func(*mocks.MockUserRepository)
		wantErr     string
		wantCreates int
	}{
		{
			name:        "successful_registration",
			role:        domain.RoleStudent,
			email:       "ana@uni.edu",
			setup:       func(m *mocks.MockUserRepository) {},
			wantCreates: 1,
		},
		{
			name:    "invalid_role_rejected",
			role:    domain.Role("director"),
			email:   "ana@uni.edu",
			setup:   func(m *mocks.MockUserRepository) {},
			wantErr: "Rol inválido",
		},
		{
			name:  "duplicate_email_rejected_without_create",
			role:  domain.RoleStudent,
			email: "ana@uni.edu",
			setup: func(m *mocks.MockUserRepository) {
				m.Seed(&domain.User{Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent, IsActive: true})
			},
			wantErr: "El correo ya está registrado.",
		},
		{
			name:  "duplicate_from_constraint_maps_to_same_message",
			role:  domain.RoleStudent,
			email: "ana@uni.edu",
			setup: func(m *mocks.MockUserRepository) {
				// FindByEmail misses but the insert hits the unique index.
				m.CreateError = ports.ErrDuplicate
			},
			wantErr: "El correo ya está registrado.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockUserRepository()
			tt.setup(repo)
			svc := services.NewAuthService(repo, testKey(t), time.Hour)

			token, user, err := svc.Register(context.Background(), "Ana", tt.email, "secret123", tt.role)

			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token == "" {
				t.Error("expected a signed token")
			}
			if user.ID == 0 {
				t.Error("expected the created user to have an ID")
			}
			if !user.IsActive {
				t.Error("new users must start active")
			}
			if user.PasswordHash == "secret123" {
				t.Error("password must be stored hashed")
			}
			if repo.CreateCalls != tt.wantCreates {
				t.Errorf("expected %d Create calls, got %d", tt.wantCreates, repo.CreateCalls)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash := hashPassword(t, "secret123")
	seed := func(m *mocks.MockUserRepository) {
		m.Seed(&domain.User{
			Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent,
			PasswordHash: hash, IsActive: true,
		})
	}

	tests := []struct {
		name     string
		email    string
		password string
		setup    func(*mocks.MockUserRepository)
		wantErr  string
	}{
		{
			name:     "successful_login",
			email:    "ana@uni.edu",
			password: "secret123",
			setup:    seed,
		},
		{
			name:     "unknown_email_and_wrong_password_share_a_message",
			email:    "nadie@uni.edu",
			password: "secret123",
			setup:    seed,
			wantErr:  "Credenciales inválidas.",
		},
		{
			name:     "wrong_password",
			email:    "ana@uni.edu",
			password: "incorrecta",
			setup:    seed,
			wantErr:  "Credenciales inválidas.",
		},
		{
			name:     "inactive_account",
			email:    "ana@uni.edu",
			password: "secret123",
			setup: func(m *mocks.MockUserRepository) {
				m.Seed(&domain.User{
					Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent,
					PasswordHash: hash, IsActive: false,
				})
			},
			wantErr: "Usuario inactivo.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockUserRepository()
			tt.setup(repo)
			key := testKey(t)
			svc := services.NewAuthService(repo, key, time.Hour)

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				if domain.KindOf(err) != domain.KindUnauthorized {
					t.Errorf("login failures must map to 401, got kind %v", domain.KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
				return &key.PublicKey, nil
			})
			if err != nil || !parsed.Valid {
				t.Fatalf("issued token does not verify: %v", err)
			}
			claims := parsed.Claims.(jwt.MapClaims)
			if claims["role"] != string(user.Role) {
				t.Errorf("expected role claim %q, got %v", user.Role, claims["role"])
			}
		})
	}
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Run("unknown_email_is_silently_ignored", func(t *testing.T) {
		repo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(repo, testKey(t), time.Hour)

		if err := svc.ForgotPassword(context.Background(), "nadie@uni.edu"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.SaveResetTokenCalls) != 0 {
			t.Errorf("no token must be issued for an unknown address, got %d calls", len(repo.SaveResetTokenCalls))
		}
	})

	t.Run("known_email_gets_a_one_hour_token_and_outbox_event", func(t *testing.T) {
		repo := mocks.NewMockUserRepository()
		user := repo.Seed(&domain.User{Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent, IsActive: true})
		svc := services.NewAuthService(repo, testKey(t), time.Hour)

		before := time.Now()
		if err := svc.ForgotPassword(context.Background(), "ana@uni.edu"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(repo.SaveResetTokenCalls) != 1 {
			t.Fatalf("expected 1 SaveResetToken call, got %d", len(repo.SaveResetTokenCalls))
		}
		call := repo.SaveResetTokenCalls[0]
		if call.UserID != user.ID {
			t.Errorf("token saved for user %d, want %d", call.UserID, user.ID)
		}
		if len(call.Token) != 64 {
			t.Errorf("expected a 32-byte hex token, got %d characters", len(call.Token))
		}
		ttl := call.ExpiresAt.Sub(before)
		if ttl < 59*time.Minute || ttl > 61*time.Minute {
			t.Errorf("expected roughly one hour of validity, got %s", ttl)
		}

		var evt ports.PasswordResetEvent
		if err := json.Unmarshal(call.OutboxPayload, &evt); err != nil {
			t.Fatalf("outbox payload is not valid JSON: %v", err)
		}
		if evt.Email != "ana@uni.edu" || evt.Token != call.Token {
			t.Errorf("outbox event does not match the saved token: %+v", evt)
		}
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	newToken := func(expiry time.Time) (*mocks.MockUserRepository, *domain.User) {
		repo := mocks.NewMockUserRepository()
		token := "a1b2c3"
		user := repo.Seed(&domain.User{
			Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent, IsActive: true,
			PasswordHash: hashPassword(t, "vieja"), ResetToken: &token, ResetTokenExpiresAt: &expiry,
		})
		return repo, user
	}

	t.Run("unknown_token_rejected", func(t *testing.T) {
		repo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(repo, testKey(t), time.Hour)

		err := svc.ResetPassword(context.Background(), "inexistente", "nueva123")
		if err == nil || err.Error() != "Token inválido o expirado." {
			t.Fatalf("expected invalid-token error, got %v", err)
		}
	})

	t.Run("expired_token_rejected_and_password_unchanged", func(t *testing.T) {
		repo, user := newToken(time.Now().Add(-time.Minute))
		svc := services.NewAuthService(repo, testKey(t), time.Hour)

		err := svc.ResetPassword(context.Background(), "a1b2c3", "nueva123")
		if err == nil || err.Error() != "Token inválido o expirado." {
			t.Fatalf("expected invalid-token error, got %v", err)
		}

		stored := repo.Users[user.ID]
		if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("vieja")) != nil {
			t.Error("password must stay unchanged after a failed reset")
		}
	})

	t.Run("valid_token_replaces_password_and_clears_token", func(t *testing.T) {
		repo, user := newToken(time.Now().Add(30 * time.Minute))
		svc := services.NewAuthService(repo, testKey(t), time.Hour)

		if err := svc.ResetPassword(context.Background(), "a1b2c3", "nueva123"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stored := repo.Users[user.ID]
		if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("nueva123")) != nil {
			t.Error("new password does not verify")
		}
		if stored.ResetToken != nil || stored.ResetTokenExpiresAt != nil {
			t.Error("reset token must be cleared after use")
		}
	})
}
