package handler

import "net/http"

// Index serves the welcome payload on "/" and a JSON 404 for every other
// path that no registered route matched.
func Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteJSON(w, http.StatusNotFound, map[string]string{
			"error":  "Ruta no encontrada",
			"path":   r.URL.Path,
			"method": r.Method,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "🎓 API Sistema de Gestión Académica",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"auth":        "/auth",
			"users":       "/users",
			"subjects":    "/subjects",
			"classes":     "/classes",
			"enrollments": "/enrollments",
		},
	})
}
