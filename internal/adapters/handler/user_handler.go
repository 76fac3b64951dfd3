package handler

import (
	"net/http"

	"github.com/unisga/academic-service/internal/adapters/middleware"
	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{userService: users}
}

// Profile returns the authenticated user, straight from the request
// context. No repository round trip is needed.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "No autorizado")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":         user.ID,
			"nombre":     user.Name,
			"correo":     user.Email,
			"rol":        user.Role,
			"is_active":  user.IsActive,
			"created_at": user.CreatedAt,
		},
	})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(r.URL.Query().Get("rol"))

	users, err := h.userService.List(r.Context(), role)
	if err != nil {
		writeServiceError(w, err, "Error al obtener usuarios")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"users": sliceOrEmpty(users),
		"total": len(users),
	})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	detail, err := h.userService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Error al obtener usuario")
		return
	}

	resp := map[string]any{"user": detail.User}
	switch detail.User.Role {
	case domain.RoleProfessor:
		resp["classes"] = sliceOrEmpty(detail.Classes)
	case domain.RoleStudent:
		resp["enrollments"] = sliceOrEmpty(detail.Enrollments)
	}
	WriteJSON(w, http.StatusOK, resp)
}

type updateUserRequest struct {
	Name     *string `json:"nombre"`
	Email    *string `json:"correo"`
	Role     *string `json:"rol"`
	IsActive *bool   `json:"is_active"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}

	upd := ports.UserUpdate{Name: req.Name, Email: req.Email, IsActive: req.IsActive}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		upd.Role = &role
	}

	user, err := h.userService.Update(r.Context(), id, upd)
	if err != nil {
		writeServiceError(w, err, "Error al actualizar usuario")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Usuario actualizado exitosamente",
		"user": map[string]any{
			"id":        user.ID,
			"nombre":    user.Name,
			"correo":    user.Email,
			"rol":       user.Role,
			"is_active": user.IsActive,
		},
	})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	if err := h.userService.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, err, "Error al eliminar usuario")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Usuario eliminado exitosamente",
	})
}

func (h *UserHandler) Professors(w http.ResponseWriter, r *http.Request) {
	professors, err := h.userService.ListActiveProfessors(r.Context())
	if err != nil {
		writeServiceError(w, err, "Error al obtener profesores")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"professors": sliceOrEmpty(professors)})
}

func (h *UserHandler) Students(w http.ResponseWriter, r *http.Request) {
	students, err := h.userService.ListActiveStudents(r.Context())
	if err != nil {
		writeServiceError(w, err, "Error al obtener estudiantes")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"students": sliceOrEmpty(students)})
}
