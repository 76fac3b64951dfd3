package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/unisga/academic-service/internal/core/domain"
)

var validate = validator.New()

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("handler: failed to write response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

var statusByKind = map[domain.Kind]int{
	domain.KindValidation:   http.StatusBadRequest,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindConflict:     http.StatusBadRequest,
}

// writeServiceError maps a domain error to its HTTP status. Anything
// unclassified is logged and collapsed to a 500 with the generic message
// for the endpoint; internals never reach the caller.
func writeServiceError(w http.ResponseWriter, err error, internalMessage string) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		log.Printf("handler: %s: %v", internalMessage, err)
		WriteError(w, http.StatusInternalServerError, internalMessage)
		return
	}
	WriteError(w, statusByKind[kind], err.Error())
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// pathID parses the {id} segment of the route; false means the segment is
// not a valid identifier and the handler should answer its own 404.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// sliceOrEmpty keeps list responses as JSON arrays; a nil slice would
// otherwise serialize as null.
func sliceOrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
