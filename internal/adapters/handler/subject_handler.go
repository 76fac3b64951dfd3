package handler

import (
	"net/http"

	"github.com/unisga/academic-service/internal/core/ports"
)

type SubjectHandler struct {
	subjectService ports.SubjectService
}

func NewSubjectHandler(subjects ports.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjects}
}

func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjectService.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "Error al obtener asignaturas")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"subjects": sliceOrEmpty(subjects)})
}

func (h *SubjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "Asignatura no encontrada")
		return
	}

	subject, classes, err := h.subjectService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Error al obtener asignatura")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"subject": map[string]any{
			"id":          subject.ID,
			"nombre":      subject.Name,
			"descripcion": subject.Description,
			"created_at":  subject.CreatedAt,
			"updated_at":  subject.UpdatedAt,
			"classes":     sliceOrEmpty(classes),
		},
	})
}

type createSubjectRequest struct {
	Name        string `json:"nombre" validate:"required"`
	Description string `json:"descripcion"`
}

func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "El nombre es requerido")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "El nombre es requerido")
		return
	}

	subject, err := h.subjectService.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, err, "Error al crear asignatura")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Asignatura creada exitosamente",
		"subject": subject,
	})
}

type updateSubjectRequest struct {
	Name        *string `json:"nombre"`
	Description *string `json:"descripcion"`
}

func (h *SubjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "Asignatura no encontrada")
		return
	}

	var req updateSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}

	subject, err := h.subjectService.Update(r.Context(), id, req.Name, req.Description)
	if err != nil {
		writeServiceError(w, err, "Error al actualizar asignatura")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Asignatura actualizada exitosamente",
		"subject": subject,
	})
}

func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "Asignatura no encontrada")
		return
	}

	if err := h.subjectService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "Error al eliminar asignatura")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Asignatura eliminada exitosamente",
	})
}
