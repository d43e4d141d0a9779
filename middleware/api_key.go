package middleware

import (
	"log"
	"net"
	"net/http"
	"os"
)

// APIKeyMiddleware protects the read-only affiliate API with a shared key
// handed out to the partner portal. No JWT is involved: affiliates are not
// system accounts.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := os.Getenv("AFFILIATE_API_KEY")
		if expected == "" {
			http.Error(w, "affiliate API disabled", http.StatusServiceUnavailable)
			return
		}

		apiKey := r.Header.Get("x-api-key")
		if apiKey != expected {
			log.Printf("[SECURITY] 🔒 Blocked - invalid affiliate API key. IP=%s Path=%s", getClientIP(r), r.URL.Path)
			http.Error(w, "Invalid or missing API key", http.StatusUnauthorized)
			return
		}

		if r.Method != http.MethodGet {
			http.Error(w, "This HTTP method is not allowed for this app", http.StatusMethodNotAllowed)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the originating client IP, honoring proxy headers.
func getClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
