package handler

import "net/http"

// HandleRoot is the API's front door: a small JSON welcome so hitting the
// base URL in a browser shows something sensible.
//
// HTTP: GET /
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the Boilerplate API",
	})
}

// HandleHealth is the liveness probe for load balancers and orchestrators.
//
// HTTP: GET /health
//
// Deliberately does not touch the database — a probe that depends on
// downstream services turns every database hiccup into a restart loop.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
