package middleware

import (
	"net"
	"net/http"
	"strings"
)

const unknownIP = "unknown"

// ClientIP prefers the edge proxy header, then the first X-Forwarded-For hop, then the
// connection address. Mount chi's RealIP ahead of it to trust X-Real-IP as well.
func ClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return unknownIP
}
