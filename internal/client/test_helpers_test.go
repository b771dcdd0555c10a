package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	internalhttp "github.com/fivetwenty-io/concourse-client/internal/http"
)

// recordedRequest is a request seen by the fake server.
type recordedRequest struct {
	Method   string
	Path     string
	RawPath  string
	RawQuery string
	Body     []byte
	Header   http.Header
}

// fakeAPI replies to every request with a canned body and records it.
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     interface{}
	headers  map[string]string
}

func newFakeAPI(t *testing.T, status int, body interface{}) *fakeAPI {
	t.Helper()

	api := &fakeAPI{status: status, body: body}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.Close)

	return api
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)

	a.mu.Lock()
	a.requests = append(a.requests, recordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawPath:  r.URL.EscapedPath(),
		RawQuery: r.URL.RawQuery,
		Body:     raw,
		Header:   r.Header.Clone(),
	})
	a.mu.Unlock()

	for key, value := range a.headers {
		w.Header().Set(key, value)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(a.status)

	if a.body != nil {
		_ = json.NewEncoder(w).Encode(a.body)
	}
}

func (a *fakeAPI) last(t *testing.T) recordedRequest {
	t.Helper()

	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.requests) == 0 {
		t.Fatal("no requests recorded")
	}

	return a.requests[len(a.requests)-1]
}

func (a *fakeAPI) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.requests)
}

// newTestClient creates an unauthenticated client against baseURL.
func newTestClient(baseURL string) *Client {
	return &Client{
		httpClient: internalhttp.NewClient(baseURL, nil),
		baseURL:    baseURL,
	}
}
