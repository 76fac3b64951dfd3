package handler

import (
	"net/http"
	"strconv"

	"github.com/unisga/academic-service/internal/adapters/middleware"
	"github.com/unisga/academic-service/internal/core/ports"
)

type ClassHandler struct {
	classService ports.ClassService
}

func NewClassHandler(classes ports.ClassService) *ClassHandler {
	return &ClassHandler{classService: classes}
}

func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classService.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "Error al obtener clases")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"classes": sliceOrEmpty(classes)})
}

func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "Clase no encontrada")
		return
	}

	class, err := h.classService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Error al obtener clase")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"class": class})
}

func (h *ClassHandler) ListByProfessor(w http.ResponseWriter, r *http.Request) {
	professorID, err := strconv.ParseInt(r.PathValue("id_profesor"), 10, 64)
	if err != nil || professorID <= 0 {
		WriteError(w, http.StatusNotFound, "Profesor no encontrado o inválido")
		return
	}

	classes, err := h.classService.ListByProfessor(r.Context(), professorID)
	if err != nil {
		writeServiceError(w, err, "Error al obtener clases del profesor")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"classes": sliceOrEmpty(classes)})
}

type createClassRequest struct {
	SubjectID   int64  `json:"id_asignatura" validate:"required"`
	ProfessorID int64  `json:"id_profesor" validate:"required"`
	Schedule    string `json:"horario" validate:"required"`
	Room        string `json:"salon" validate:"required"`
}

func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createClassRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Todos los campos son requeridos")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Todos los campos son requeridos")
		return
	}

	class, err := h.classService.Create(r.Context(), req.SubjectID, req.ProfessorID, req.Schedule, req.Room)
	if err != nil {
		writeServiceError(w, err, "Error al crear clase")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Clase creada exitosamente",
		"class":   class,
	})
}

type updateClassRequest struct {
	SubjectID   *int64  `json:"id_asignatura"`
	ProfessorID *int64  `json:"id_profesor"`
	Schedule    *string `json:"horario"`
	Room        *string `json:"salon"`
}

func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "Clase no encontrada")
		return
	}

	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	var req updateClassRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}

	class, err := h.classService.Update(r.Context(), actor, id, ports.ClassUpdate{
		SubjectID:   req.SubjectID,
		ProfessorID: req.ProfessorID,
		Schedule:    req.Schedule,
		Room:        req.Room,
	})
	if err != nil {
		writeServiceError(w, err, "Error al actualizar clase")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Clase actualizada exitosamente",
		"class":   class,
	})
}

func (h *ClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "Clase no encontrada")
		return
	}

	if err := h.classService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "Error al eliminar clase")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Clase eliminada exitosamente",
	})
}

// Students lists the roster of a class. The enrollment record and the
// student fields are flattened into a single object per row.
func (h *ClassHandler) Students(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "Clase no encontrada")
		return
	}

	actor, ok := middleware.UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	class, enrollments, err := h.classService.Students(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, "Error al obtener estudiantes de la clase")
		return
	}

	students := make([]map[string]any, 0, len(enrollments))
	for _, e := range enrollments {
		row := map[string]any{
			"enrollment_id":     e.ID,
			"fecha_inscripcion": e.EnrolledAt,
		}
		if e.Student != nil {
			row["id"] = e.Student.ID
			row["nombre"] = e.Student.Name
			row["correo"] = e.Student.Email
		}
		students = append(students, row)
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"class": map[string]any{
			"id":         class.ID,
			"asignatura": class.Subject,
			"horario":    class.Schedule,
			"salon":      class.Room,
		},
		"students": students,
	})
}
