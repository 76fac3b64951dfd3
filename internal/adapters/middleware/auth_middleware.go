package middleware

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

// AuthMiddleware is the authentication gate: it verifies the bearer token
// and resolves it to an active user record, which downstream handlers read
// from the request context. The role gate (RequireRole) runs on top of it.
type AuthMiddleware struct {
	publicKey *rsa.PublicKey
	users     ports.UserRepository
	cache     ports.IdentityCache
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, users ports.UserRepository, cache ports.IdentityCache) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
		users:     users,
		cache:     cache,
	}
}

type contextKey string

const userKey contextKey = "user"

// UserFrom returns the authenticated user attached by Authenticate.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// Authenticate verifies the bearer token and loads the user it names.
func (m *AuthMiddleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "No autorizado. Token no proporcionado")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "Token expirado")
				return
			}
			writeError(w, http.StatusUnauthorized, "Token inválido")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Token inválido")
			return
		}
		sub, _ := claims["sub"].(string)
		userID, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token inválido")
			return
		}

		user, err := m.resolveUser(r.Context(), userID)
		if err != nil {
			log.Printf("auth middleware: failed to resolve user %d: %v", userID, err)
			writeError(w, http.StatusInternalServerError, "Error en autenticación")
			return
		}
		if user == nil || !user.IsActive {
			writeError(w, http.StatusUnauthorized, "Usuario no encontrado o inactivo")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole runs the authentication gate, then permits only the listed
// roles.
func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok {
			// Unreachable given the ordering, kept as a guard.
			writeError(w, http.StatusUnauthorized, "No autorizado")
			return
		}

		for _, role := range roles {
			if user.Role == role {
				next(w, r)
				return
			}
		}
		writeError(w, http.StatusForbidden, "No tienes permisos para realizar esta acción")
	})
}

// resolveUser consults the identity cache first and falls back to the
// users table, priming the cache on a miss. Cache failures degrade to a
// direct lookup.
func (m *AuthMiddleware) resolveUser(ctx context.Context, userID int64) (*domain.User, error) {
	cached, err := m.cache.Get(ctx, userID)
	if err != nil {
		log.Printf("auth middleware: identity cache read failed: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := m.cache.Set(ctx, user); err != nil {
		log.Printf("auth middleware: identity cache write failed: %v", err)
	}
	return user, nil
}

// writeError mirrors the handler package's envelope without importing it,
// keeping the adapter packages cycle-free.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
