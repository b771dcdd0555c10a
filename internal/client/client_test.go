package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/concourse-client/internal/auth"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a URL", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &concourse.Config{})
		require.ErrorIs(t, err, ErrURLRequired)
	})

	t.Run("unauthenticated without credentials", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &concourse.Config{URL: "https://ci.example.com"})
		require.NoError(t, err)
		assert.Nil(t, client.GetTokenManager())

		_, err = client.Session()
		require.ErrorIs(t, err, ErrSessionStateUnavailable)
	})

	t.Run("static token wins over password", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &concourse.Config{
			URL:         "https://ci.example.com",
			AccessToken: "pre-issued",
			Username:    "admin",
			Password:    "s3cret",
		})
		require.NoError(t, err)
		assert.IsType(t, &auth.StaticAuthenticator{}, client.GetTokenManager())
	})

	t.Run("password creates a session", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &concourse.Config{
			URL:      "https://ci.example.com",
			Username: "admin",
			Password: "s3cret",
		})
		require.NoError(t, err)

		session, err := client.Session()
		require.NoError(t, err)
		assert.Nil(t, session.State())
	})

	t.Run("username without password", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &concourse.Config{URL: "https://ci.example.com", Username: "admin"})
		require.ErrorIs(t, err, auth.ErrMissingCredentials)
	})
}

func TestNewWithAuthenticator(t *testing.T) {
	t.Parallel()

	_, err := NewWithAuthenticator(&concourse.Config{URL: "https://ci.example.com"}, nil)
	require.ErrorIs(t, err, ErrNoAuthenticator)

	client, err := NewWithAuthenticator(&concourse.Config{URL: "https://ci.example.com"}, auth.NewStaticAuthenticator("t"))
	require.NoError(t, err)
	assert.NotNil(t, client.GetTokenManager())
}

func TestClient_PasswordSession(t *testing.T) {
	t.Parallel()

	var (
		probes atomic.Int32
		tokens atomic.Int32
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/info", func(w http.ResponseWriter, _ *http.Request) {
		probes.Add(1)
		_, _ = w.Write([]byte(`{"version":"7.11.0","worker_version":"2.5"}`))
	})
	mux.HandleFunc("/sky/issuer/token", func(w http.ResponseWriter, r *http.Request) {
		tokens.Add(1)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "admin", r.PostForm.Get("username"))

		_, _ = w.Write([]byte(`{"id_token":"id","access_token":"session-token","token_type":"bearer","expires_in":86400}`))
	})
	mux.HandleFunc("/api/v1/teams", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bearer session-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]concourse.Team{{ID: 1, Name: "main"}})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := New(context.Background(), &concourse.Config{
		URL:      server.URL,
		Username: "admin",
		Password: "s3cret",
	})
	require.NoError(t, err)

	for range 3 {
		teams, err := client.ListTeams(context.Background())
		require.NoError(t, err)
		require.Len(t, teams, 1)
		assert.Equal(t, "main", teams[0].Name)
	}

	// The first request probes the version and fetches a token.
	assert.Equal(t, int32(1), probes.Load())
	assert.Equal(t, int32(1), tokens.Load())

	info, err := client.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7.11.0", info.Version)
	assert.Equal(t, "2.5", info.WorkerVersion)
}

func TestClient_SystemOperations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      interface{}
		call      func(context.Context, *Client) (interface{}, error)
		wantPath  string
		wantQuery string
	}{
		{
			name: "list teams",
			body: []concourse.Team{{ID: 1, Name: "main"}},
			call: func(ctx context.Context, c *Client) (interface{}, error) {
				return c.ListTeams(ctx)
			},
			wantPath: "/api/v1/teams",
		},
		{
			name: "list pipelines",
			body: []concourse.Pipeline{{ID: 3, Name: "deploy", TeamName: "main"}},
			call: func(ctx context.Context, c *Client) (interface{}, error) {
				return c.ListPipelines(ctx)
			},
			wantPath: "/api/v1/pipelines",
		},
		{
			name: "list builds with page",
			body: []concourse.Build{{ID: 9, Name: "12", Status: concourse.BuildStatusSucceeded}},
			call: func(ctx context.Context, c *Client) (interface{}, error) {
				return c.ListBuilds(ctx, &concourse.Page{Limit: 2, Until: 40})
			},
			wantPath:  "/api/v1/builds",
			wantQuery: "limit=2&until=40",
		},
		{
			name: "list builds without page",
			body: []concourse.Build{},
			call: func(ctx context.Context, c *Client) (interface{}, error) {
				return c.ListBuilds(ctx, nil)
			},
			wantPath: "/api/v1/builds",
		},
		{
			name: "list workers",
			body: []concourse.Worker{{Name: "w1", Platform: "linux", State: "running"}},
			call: func(ctx context.Context, c *Client) (interface{}, error) {
				return c.ListWorkers(ctx)
			},
			wantPath: "/api/v1/workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newFakeAPI(t, http.StatusOK, tt.body)
			client := newTestClient(api.URL)

			result, err := tt.call(context.Background(), client)
			require.NoError(t, err)
			assert.NotNil(t, result)

			req := api.last(t)
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, tt.wantPath, req.Path)
			assert.Equal(t, tt.wantQuery, req.RawQuery)
		})
	}
}

func TestClient_ErrorsCarryContext(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusForbidden, map[string][]string{"errors": {"not authorized"}})
	client := newTestClient(api.URL)

	_, err := client.ListWorkers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getting workers")
	assert.True(t, concourse.IsForbidden(err))
}
