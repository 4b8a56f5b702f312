package middleware

import (
	"net/http"
	"strings"

	"karaoke-lyrics-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// APIKeyMiddleware gates the API behind an X-API-Key header when required
// is true. Public paths skip the check; a trailing "*" matches by prefix,
// which covers the media proxy where players cannot send custom headers.
// Requiring a key without configuring one logs a warning and lets traffic
// through rather than locking the server down by accident.
func APIKeyMiddleware(apiKey string, required bool, publicPaths []string) func(http.Handler) http.Handler {
	exact := make(map[string]bool)
	var prefixes []string
	for _, p := range publicPaths {
		if strings.HasSuffix(p, "*") {
			prefixes = append(prefixes, strings.TrimSuffix(p, "*"))
		} else {
			exact[p] = true
		}
	}

	isPublic := func(path string) bool {
		if exact[path] {
			return true
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !required {
				next.ServeHTTP(w, r)
				return
			}

			if apiKey == "" {
				log.Warnf("%s API key required but not configured, allowing request", logcolors.LogAPIKey)
				next.ServeHTTP(w, r)
				return
			}

			if isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			switch provided := r.Header.Get("X-API-Key"); {
			case provided == "":
				log.Warnf("%s Missing API key from %s for %s", logcolors.LogAPIKey, r.RemoteAddr, r.URL.Path)
				writeAuthError(w, "API key required", "Provide a valid API key via X-API-Key header")
			case provided != apiKey:
				log.Warnf("%s Invalid API key from %s for %s", logcolors.LogAPIKey, r.RemoteAddr, r.URL.Path)
				writeAuthError(w, "Invalid API key", "The provided API key is not valid")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func writeAuthError(w http.ResponseWriter, errMsg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + errMsg + `","message":"` + detail + `"}`))
}
