package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

const resetTokenTTL = time.Hour

type AuthService struct {
	users      ports.UserRepository
	privateKey *rsa.PrivateKey
	tokenTTL   time.Duration
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(users ports.UserRepository, privateKey *rsa.PrivateKey, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		privateKey: privateKey,
		tokenTTL:   tokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (string, *domain.User, error) {
	if !role.Valid() {
		return "", nil, domain.Validation("Rol inválido")
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return "", nil, domain.Conflict("El correo ya está registrado.")
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The unique constraint on email is the real guard; the lookup
		// above only provides the fast path.
		if errors.Is(err, ports.ErrDuplicate) {
			return "", nil, domain.Conflict("El correo ya está registrado.")
		}
		return "", nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login deliberately returns the same error for an unknown address and a
// wrong credential so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", nil, domain.Unauthorized("Credenciales inválidas.")
		}
		return "", nil, err
	}

	if !user.IsActive {
		return "", nil, domain.Unauthorized("Usuario inactivo.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.Unauthorized("Credenciales inválidas.")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ForgotPassword issues a single-use token valid for one hour. An unknown
// address is not an error: the handler answers with the same generic
// message either way.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(resetTokenTTL)

	payload, err := json.Marshal(ports.PasswordResetEvent{
		Email: user.Email,
		Name:  user.Name,
		Token: token,
	})
	if err != nil {
		return err
	}

	return s.users.SaveResetToken(ctx, user.ID, token, expiresAt, payload)
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return domain.Validation("Token inválido o expirado.")
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
