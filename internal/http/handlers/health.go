package handlers

import "net/http"

// Health reports process liveness. It deliberately does not probe the
// remote API; a missing credential is caught at startup.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
