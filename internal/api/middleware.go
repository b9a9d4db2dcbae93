package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const requestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// withRequestID tags every request with an id, reusing a caller-supplied one
// when it looks sane.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// recordRequests appends a request record to the store for every request.
func (s *Server) recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		s.store.Request(r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// tokenAuth checks bearer tokens against a bcrypt hash. The last accepted
// token is remembered so polling clients do not pay for bcrypt every call.
type tokenAuth struct {
	hash []byte

	mu       sync.Mutex
	accepted []byte
}

func newTokenAuth(hash string) *tokenAuth {
	return &tokenAuth{hash: []byte(hash)}
}

func (a *tokenAuth) verify(token string) bool {
	if token == "" {
		return false
	}
	candidate := []byte(token)

	a.mu.Lock()
	accepted := a.accepted
	a.mu.Unlock()
	if accepted != nil && subtle.ConstantTimeCompare(accepted, candidate) == 1 {
		return true
	}

	if err := bcrypt.CompareHashAndPassword(a.hash, candidate); err != nil {
		return false
	}
	a.mu.Lock()
	a.accepted = candidate
	a.mu.Unlock()
	return true
}

func (a *tokenAuth) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			token = r.URL.Query().Get("token")
		}
		if !a.verify(strings.TrimSpace(token)) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="daylog"`)
			writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
