// Package fingerprint approximates per-visitor identity without login.
// The value is not a security credential; it only feeds rate limiting
// and like/vote dedup.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// ClientIP extracts the client IP address from the request, honoring
// proxy headers before falling back to RemoteAddr.
func ClientIP(r *http.Request) string {
	// X-Forwarded-For may hold a chain; the first hop is the client
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Derive returns the client-supplied fingerprint when present, otherwise
// a server-side fallback hashed from the client IP and user agent.
func Derive(r *http.Request, supplied string) string {
	supplied = strings.TrimSpace(supplied)
	if supplied != "" {
		return supplied
	}

	sum := sha256.Sum256([]byte(ClientIP(r) + "|" + r.UserAgent()))
	return "srv-" + hex.EncodeToString(sum[:16])
}
