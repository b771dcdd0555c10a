package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// useTempConfig points the CLI at a fresh config file. Tests calling it share
// viper's global state and must not run in parallel.
func useTempConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")

	viper.Reset()
	viper.Set("config", path)
	t.Cleanup(viper.Reset)

	return path
}

// execute runs cmd with args and returns what it printed.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

// fakeConcourse is a 7.x server with one pipeline and one job.
type fakeConcourse struct {
	*httptest.Server

	tokenCalls   atomic.Int32
	triggerCalls atomic.Int32
}

func newFakeConcourse(t *testing.T) *fakeConcourse {
	t.Helper()

	fc := &fakeConcourse{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/info", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"version": "7.11.2", "worker_version": "2.5"})
	})
	mux.HandleFunc("/sky/issuer/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		assert.Equal(t, "fly", user)
		assert.Equal(t, "Zmx5", pass)

		if err := r.ParseForm(); err != nil || r.PostForm.Get("password") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		n := fc.tokenCalls.Add(1)
		writeJSON(w, map[string]interface{}{
			"id_token":     fmt.Sprintf("id-%d", n),
			"access_token": fmt.Sprintf("access-%d", n),
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/api/v1/teams/main/pipelines", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "bearer access-") {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		writeJSON(w, []map[string]interface{}{{"id": 1, "name": "app", "team_name": "main"}})
	})
	mux.HandleFunc("/api/v1/teams/main/pipelines/app/jobs/unit/builds", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)

			return
		}

		fc.triggerCalls.Add(1)
		writeJSON(w, map[string]interface{}{"id": 42, "name": "7", "status": "pending", "team_name": "main"})
	})

	fc.Server = httptest.NewServer(mux)
	t.Cleanup(fc.Close)

	return fc
}

func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
