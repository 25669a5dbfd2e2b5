package server

import (
	"log/slog"
	"net/http"
	"slices"
)

// newCheckOrigin returns the WebSocket CheckOrigin for the configured origins. Requests
// without an Origin header (non-browser clients) are allowed; "*" allows everything.
func newCheckOrigin(allowed []string) func(r *http.Request) bool {
	allowAll := slices.Contains(allowed, "*")

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if allowAll || origin == "" || slices.Contains(allowed, origin) {
			return true
		}

		slog.Warn("WebSocket origin rejected", "origin", origin, "remote_addr", r.RemoteAddr)
		return false
	}
}
