package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

var errDiskFull = errors.New("disk full")

type recordingPersister struct {
	mu     sync.Mutex
	saved  []State
	target string
	err    error
}

func (r *recordingPersister) SaveState(target string, state State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.target = target
	if r.err != nil {
		return r.err
	}

	r.saved = append(r.saved, state)

	return nil
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string, map[string]interface{}) {}
func (l *recordingLogger) Info(string, map[string]interface{})  {}
func (l *recordingLogger) Error(string, map[string]interface{}) {}
func (l *recordingLogger) Warn(msg string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.warns = append(l.warns, msg)
}

func TestPersistingAuthenticator(t *testing.T) {
	t.Parallel()

	t.Run("saves each new state once", func(t *testing.T) {
		t.Parallel()

		fs := newFakeServer(t, "7.11.0")
		persister := &recordingPersister{}
		p := NewPersistingAuthenticator(newTestAuthenticator(t, fs, testNow), persister, "prod", nil)

		for range 3 {
			_, err := p.Intercept(context.Background(), &concourse.Request{})
			require.NoError(t, err)
		}

		require.Len(t, persister.saved, 1)
		assert.Equal(t, "prod", persister.target)
		assert.Equal(t, *p.State(), persister.saved[0])

		require.NoError(t, p.RefreshToken(context.Background()))
		require.Len(t, persister.saved, 2)
		assert.NotEqual(t, persister.saved[0].AccessToken, persister.saved[1].AccessToken)
	})

	t.Run("does not save a seeded state", func(t *testing.T) {
		t.Parallel()

		fs := newFakeServer(t, "7.11.0")
		session := newTestAuthenticator(t, fs, testNow)
		session.SetState(State{
			AccessToken:   "seeded",
			TokenType:     "bearer",
			ExpiresAt:     testNow.Add(time.Hour).Unix(),
			IDToken:       "seeded",
			ServerVersion: "7.11.0",
		})

		persister := &recordingPersister{}
		p := NewPersistingAuthenticator(session, persister, "prod", nil)

		token, err := p.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "seeded", token)
		assert.Empty(t, persister.saved)
	})

	t.Run("persist failures only warn", func(t *testing.T) {
		t.Parallel()

		fs := newFakeServer(t, "7.11.0")
		persister := &recordingPersister{err: errDiskFull}
		logger := &recordingLogger{}
		p := NewPersistingAuthenticator(newTestAuthenticator(t, fs, testNow), persister, "prod", logger)

		_, err := p.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"failed to persist refreshed session"}, logger.warns)
	})
}
