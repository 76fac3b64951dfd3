package handler

import (
	"net/http"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: auth}
}

// publicUser is the projection returned by register and login.
type publicUser struct {
	ID    int64       `json:"id"`
	Name  string      `json:"nombre"`
	Email string      `json:"correo"`
	Role  domain.Role `json:"rol"`
}

type registerRequest struct {
	Name     string `json:"nombre" validate:"required"`
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"contraseña" validate:"required"`
	Role     string `json:"rol" validate:"required"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Todos los campos son requeridos.")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Todos los campos son requeridos.")
		return
	}

	token, user, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		writeServiceError(w, err, "Error al registrar el usuario.")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Usuario registrado exitosamente!",
		"token":   token,
		"user":    publicUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
	})
}

type loginRequest struct {
	Email    string `json:"correo" validate:"required"`
	Password string `json:"contraseña" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Correo y Contraseña son requeridos.")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Correo y Contraseña son requeridos.")
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "Error al iniciar sesión.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login exitoso!",
		"token":   token,
		"user":    publicUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
	})
}

type forgotPasswordRequest struct {
	Email string `json:"correo" validate:"required"`
}

// ForgotPassword answers the same message whether or not the address is
// registered, so it cannot be used to probe for accounts.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "El correo es requerido.")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "El correo es requerido.")
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, err, "Error al procesar solicitud.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Si el correo existe, recibirás un enlace de recuperación.",
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"nuevaContraseña" validate:"required"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Token y nueva contraseña son requeridos.")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Token y nueva contraseña son requeridos.")
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeServiceError(w, err, "Error al restablecer contraseña.")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Contraseña actualizada exitosamente!",
	})
}
