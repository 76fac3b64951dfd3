package handler

import (
	"net/http"
	"strconv"

	"github.com/unisga/academic-service/internal/adapters/middleware"
	"github.com/unisga/academic-service/internal/core/ports"
)

type EnrollmentHandler struct {
	enrollmentService ports.EnrollmentService
}

func NewEnrollmentHandler(enrollments ports.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollments}
}

type createEnrollmentRequest struct {
	ClassID int64 `json:"id_clase" validate:"required"`
}

func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	var req createEnrollmentRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "El ID de la clase es requerido")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "El ID de la clase es requerido")
		return
	}

	enrollment, err := h.enrollmentService.Enroll(r.Context(), actor, req.ClassID)
	if err != nil {
		writeServiceError(w, err, "Error al crear inscripción")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"message":    "Inscripción realizada exitosamente",
		"enrollment": enrollment,
	})
}

func (h *EnrollmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	enrollments, err := h.enrollmentService.ListMine(r.Context(), actor.ID)
	if err != nil {
		writeServiceError(w, err, "Error al obtener inscripciones")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"enrollments": sliceOrEmpty(enrollments)})
}

func (h *EnrollmentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("id_usuario"), 10, 64)
	if err != nil || userID <= 0 {
		WriteError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	user, enrollments, svcErr := h.enrollmentService.ListByUser(r.Context(), userID)
	if svcErr != nil {
		writeServiceError(w, svcErr, "Error al obtener inscripciones")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":        user,
		"enrollments": sliceOrEmpty(enrollments),
	})
}

func (h *EnrollmentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.enrollmentService.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err, "Error al obtener inscripciones")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"enrollments": sliceOrEmpty(enrollments)})
}

func (h *EnrollmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "Inscripción no encontrada")
		return
	}

	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	subjectName, err := h.enrollmentService.Cancel(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, "Error al cancelar inscripción")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Inscripción cancelada exitosamente",
		"enrollment": map[string]any{
			"id":    id,
			"clase": subjectName,
		},
	})
}

func (h *EnrollmentHandler) AvailableClasses(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	classes, err := h.enrollmentService.AvailableClasses(r.Context(), actor.ID)
	if err != nil {
		writeServiceError(w, err, "Error al obtener clases disponibles")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"availableClasses": sliceOrEmpty(classes),
		"totalAvailable":   len(classes),
	})
}

func (h *EnrollmentHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	schedule, err := h.enrollmentService.Schedule(r.Context(), actor.ID)
	if err != nil {
		writeServiceError(w, err, "Error al obtener horario")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"schedule":     sliceOrEmpty(schedule),
		"totalClasses": len(schedule),
	})
}
