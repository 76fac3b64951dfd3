package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/unisga/academic-service/internal/adapters/handler"
	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

// stubAuthService scripts the responses of ports.AuthService per test.
type stubAuthService struct {
	registerToken string
	registerUser  *domain.User
	registerErr   error

	loginToken string
	loginUser  *domain.User
	loginErr   error

	forgotErr error
	resetErr  error

	forgotCalls int
}

var _ ports.AuthService = (*stubAuthService)(nil)

func (s *stubAuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (string, *domain.User, error) {
	return s.registerToken, s.registerUser, s.registerErr
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginToken, s.loginUser, s.loginErr
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error {
	s.forgotCalls++
	return s.forgotErr
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.resetErr
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		stub        *stubAuthService
		wantStatus  int
		wantMessage string
		wantError   string
	}{
		{
			name: "successful_registration",
			body: `{"nombre":"Ana","correo":"ana@uni.edu","contraseña":"secret123","rol":"estudiante"}`,
			stub: &stubAuthService{
				registerToken: "tok123",
				registerUser:  &domain.User{ID: 1, Name: "Ana", Email: "ana@uni.edu", Role: domain.RoleStudent},
			},
			wantStatus:  http.StatusCreated,
			wantMessage: "Usuario registrado exitosamente!",
		},
		{
			name:       "missing_fields_rejected",
			body:       `{"correo":"ana@uni.edu"}`,
			stub:       &stubAuthService{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Todos los campos son requeridos.",
		},
		{
			name:       "duplicate_email_maps_to_400",
			body:       `{"nombre":"Ana","correo":"ana@uni.edu","contraseña":"secret123","rol":"estudiante"}`,
			stub:       &stubAuthService{registerErr: domain.Conflict("El correo ya está registrado.")},
			wantStatus: http.StatusBadRequest,
			wantError:  "El correo ya está registrado.",
		},
		{
			name:       "internal_error_hidden_behind_generic_message",
			body:       `{"nombre":"Ana","correo":"ana@uni.edu","contraseña":"secret123","rol":"estudiante"}`,
			stub:       &stubAuthService{registerErr: context.DeadlineExceeded},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Error al registrar el usuario.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewAuthHandler(tt.stub)

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}

			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if tt.wantError != "" {
				if body["error"] != tt.wantError {
					t.Errorf("expected error %q, got %v", tt.wantError, body["error"])
				}
				return
			}
			if body["message"] != tt.wantMessage {
				t.Errorf("expected message %q, got %v", tt.wantMessage, body["message"])
			}
			if body["token"] != "tok123" {
				t.Errorf("expected the issued token in the response, got %v", body["token"])
			}
			user, ok := body["user"].(map[string]any)
			if !ok {
				t.Fatalf("expected a user object, got %v", body["user"])
			}
			if user["correo"] != "ana@uni.edu" || user["rol"] != "estudiante" {
				t.Errorf("unexpected user projection %v", user)
			}
			if _, leaked := user["is_active"]; leaked {
				t.Error("registration response must carry only id, nombre, correo and rol")
			}
		})
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := handler.NewAuthHandler(&stubAuthService{
		loginErr: domain.Unauthorized("Credenciales inválidas."),
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"correo":"ana@uni.edu","contraseña":"mala"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Credenciales inválidas." {
		t.Errorf("unexpected error message %q", body["error"])
	}
}

func TestAuthHandler_ForgotPassword_AlwaysGeneric(t *testing.T) {
	stub := &stubAuthService{}
	h := handler.NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password",
		strings.NewReader(`{"correo":"nadie@uni.edu"}`))
	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["message"] != "Si el correo existe, recibirás un enlace de recuperación." {
		t.Errorf("unexpected message %q", body["message"])
	}
	if stub.forgotCalls != 1 {
		t.Errorf("expected the service to be consulted once, got %d", stub.forgotCalls)
	}
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	t.Run("invalid_token_maps_to_400", func(t *testing.T) {
		h := handler.NewAuthHandler(&stubAuthService{
			resetErr: domain.Validation("Token inválido o expirado."),
		})

		req := httptest.NewRequest(http.MethodPost, "/auth/reset-password",
			strings.NewReader(`{"token":"viejo","nuevaContraseña":"nueva123"}`))
		rec := httptest.NewRecorder()
		h.ResetPassword(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("successful_reset", func(t *testing.T) {
		h := handler.NewAuthHandler(&stubAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/auth/reset-password",
			strings.NewReader(`{"token":"abc","nuevaContraseña":"nueva123"}`))
		rec := httptest.NewRecorder()
		h.ResetPassword(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		if body["message"] != "Contraseña actualizada exitosamente!" {
			t.Errorf("unexpected message %q", body["message"])
		}
	})
}
