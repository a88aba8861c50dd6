package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

var allowedOrigins = map[string]bool{
	"https://fitcoach.2beens.online": true,
	"http://localhost:8080":          true,
	"http://localhost:5173":          true,
	"test":                           true,
}

var allowedUserAgentPrefixes = []string{
	"setlog/",
	"curl/",
	"test-agent",
}

func Cors() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if !corsAllowed(r, origin) {
				log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", r.URL.Path, origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			allowOrigin := origin
			if allowOrigin == "" && strings.HasPrefix(r.URL.Path, "/mcp") {
				allowOrigin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Headers",
				"Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-FITCOACH-TOKEN, MCP-Protocol-Version, MCP-Session-Id",
			)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

			next.ServeHTTP(w, r)
		})
	}
}

func corsAllowed(r *http.Request, origin string) bool {
	if allowedOrigins[origin] {
		return true
	}
	userAgent := r.Header.Get("User-Agent")
	for _, prefix := range allowedUserAgentPrefixes {
		if strings.HasPrefix(userAgent, prefix) {
			return true
		}
	}
	// MCP clients often send no Origin
	return strings.HasPrefix(r.URL.Path, "/mcp")
}
