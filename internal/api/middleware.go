package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/auth"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/ratelimit"
)

type contextKey string

const sessionKey contextKey = "session"

// sessionFrom returns the authenticated session stored by requireAuth.
func sessionFrom(ctx context.Context) *auth.Session {
	sess, _ := ctx.Value(sessionKey).(*auth.Session)
	return sess
}

// clientIP resolves the originating client address, honouring proxy headers.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// requireAuth resolves the bearer token and stores the session on the
// request context. Unauthenticated requests get 401.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		sess, err := s.sessions.Get(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requirePermission wraps requireAuth and additionally checks the session
// role against the permission matrix. Denials are audit logged.
func (s *Server) requirePermission(permission string, next http.Handler) http.Handler {
	return s.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r.Context())
		if sess == nil || !auth.HasPermission(sess.Role, permission) {
			if sess != nil && s.auditor != nil {
				s.auditor.RecordAccessDenied(r.Context(), &sess.UserID, r.URL.Path, "missing permission: "+permission, clientIP(r), r.UserAgent())
			}
			writeError(w, http.StatusForbidden, "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	}))
}

// rateLimit gates the request by client IP and route class.
func (s *Server) rateLimit(class string, limit ratelimit.Limit, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(r.Context(), clientIP(r), class, limit) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
