package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return token
}

// fakeServer serves the info endpoint and all three token endpoints.
type fakeServer struct {
	*httptest.Server

	version   string
	expiresIn int64
	token     string
	failToken int

	// delay is applied to the info probe, widening the window for concurrent callers.
	delay time.Duration

	infoCalls         atomic.Int32
	legacyCalls       atomic.Int32
	transitionalCalls atomic.Int32
	currentCalls      atomic.Int32
	issued            atomic.Int32

	// order records endpoint hits; "info" or "token".
	order chan string
}

func newFakeServer(t *testing.T, version string) *fakeServer {
	t.Helper()

	fs := &fakeServer{
		version:   version,
		expiresIn: 3600,
		order:     make(chan string, 64),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/info", fs.handleInfo)
	mux.HandleFunc("/api/v1/teams/main/auth/token", fs.handleLegacy(t))
	mux.HandleFunc("/sky/token", fs.handleTransitional(t))
	mux.HandleFunc("/sky/issuer/token", fs.handleCurrent(t))

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)

	return fs
}

func (fs *fakeServer) credentials() Credentials {
	return NewCredentials(fs.URL, "main", "admin", "s3cret")
}

func (fs *fakeServer) record(event string) {
	select {
	case fs.order <- event:
	default:
	}
}

func (fs *fakeServer) handleInfo(w http.ResponseWriter, _ *http.Request) {
	fs.infoCalls.Add(1)
	fs.record("info")

	if fs.delay > 0 {
		time.Sleep(fs.delay)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"version": fs.version})
}

func (fs *fakeServer) nextToken(t *testing.T) string {
	n := fs.issued.Add(1)
	if fs.token != "" {
		return fs.token
	}

	return signToken(t, jwt.MapClaims{
		"sub":  "admin",
		"csrf": "csrf-value",
		"exp":  testNow.Unix() + fs.expiresIn,
		"n":    n,
	})
}

func (fs *fakeServer) rejectToken(w http.ResponseWriter) bool {
	if fs.failToken == 0 {
		return false
	}

	w.WriteHeader(fs.failToken)
	_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))

	return true
}

func (fs *fakeServer) handleLegacy(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fs.legacyCalls.Add(1)
		fs.record("token")

		username, password, ok := r.BasicAuth()
		if !ok || username != "admin" || password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		if fs.rejectToken(w) {
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]string{
			"type":  "Bearer",
			"value": fs.nextToken(t),
		})
	}
}

func (fs *fakeServer) handleTransitional(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fs.transitionalCalls.Add(1)
		fs.record("token")

		if fs.rejectToken(w) {
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": fs.nextToken(t),
			"token_type":   "Bearer",
			"expiry":       testNow.Add(time.Duration(fs.expiresIn) * time.Second).Format(time.RFC3339),
		})
	}
}

func (fs *fakeServer) handleCurrent(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fs.currentCalls.Add(1)
		fs.record("token")

		if fs.rejectToken(w) {
			return
		}

		token := fs.nextToken(t)

		w.Header().Set("Date", testNow.Format(http.TimeFormat))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id_token":     token,
			"access_token": token,
			"token_type":   "bearer",
			"expires_in":   fs.expiresIn,
		})
	}
}

func (fs *fakeServer) tokenCalls() int32 {
	return fs.legacyCalls.Load() + fs.transitionalCalls.Load() + fs.currentCalls.Load()
}

func newServer(t *testing.T, handler http.Handler) string {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server.URL
}
