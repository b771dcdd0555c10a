package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLogger(t *testing.T) {
	t.Parallel()

	t.Run("quiet by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		logger := newLogger(&buf, false)
		logger.Debug("Refreshing session", map[string]interface{}{"flow": "current"})
		logger.Info("ignored", nil)
		assert.Empty(t, buf.String())

		logger.Warn("failed to persist refreshed session", map[string]interface{}{"target": "ci", "error": "disk full"})
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), `msg="failed to persist refreshed session" error="disk full" target=ci`)
	})

	t.Run("verbose", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		logger := newLogger(&buf, true)
		logger.Debug("Refreshing session", map[string]interface{}{"server_version": "7.11.2", "flow": "current"})
		logger.Error("Session refresh failed", nil)

		assert.Contains(t, buf.String(), `level=DEBUG msg="Refreshing session" flow=current server_version=7.11.2`)
		assert.Contains(t, buf.String(), `level=ERROR msg="Session refresh failed"`)
	})
}
