// Package mw provides HTTP middleware for the Bulletform API.
package mw

import (
	"context"
	"net"
	"net/http"
)

type contextKey string

const clientIPKey contextKey = "client_ip"

// ClientIP returns middleware that stores the client IP in the request
// context so handlers can meter against it. Apply after chi's RealIP so
// proxy headers are already resolved into RemoteAddr.
func ClientIP() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), clientIPKey, clientIPFromRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientIP extracts the client IP stored by ClientIP, or "" when the
// middleware did not run.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

func clientIPFromRequest(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}
