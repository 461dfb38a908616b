package handler

import "net/http"

// Health handles GET /healthz. It reports process liveness only; database
// health shows up as 5xx on real endpoints, not here.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
