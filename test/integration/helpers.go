//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	URL        string
	Team       string
	Username   string
	Password   string
	BinaryPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	team := os.Getenv("CONCOURSE_TEST_TEAM")
	if team == "" {
		team = "main"
	}

	return &TestConfig{
		URL:        os.Getenv("CONCOURSE_TEST_URL"),
		Team:       team,
		Username:   os.Getenv("CONCOURSE_TEST_USERNAME"),
		Password:   os.Getenv("CONCOURSE_TEST_PASSWORD"),
		BinaryPath: getBinaryPath(),
		Verbose:    os.Getenv("CONCOURSE_TEST_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the concourse binary.
func getBinaryPath() string {
	if path := os.Getenv("CONCOURSE_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../concourse",
		"./concourse",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "concourse"
}

// SkipIfMissingConfig skips the test unless a server and credentials are set.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.URL == "" || config.Username == "" || config.Password == "" {
		t.Skip("CONCOURSE_TEST_URL, CONCOURSE_TEST_USERNAME or CONCOURSE_TEST_PASSWORD not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips the test when the CLI has not been built.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("concourse binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs the CLI against an isolated config file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner with its own config file.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a concourse command and returns its output.
func (runner *CommandRunner) Run(args ...string) (string, string, error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.BinaryPath, args...) // #nosec G204 -- test binary

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err := cmd.Run()
	stdout := stdoutBuf.String()
	stderr := stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// Login logs in to the configured server as the named target.
func (runner *CommandRunner) Login(target string, extra ...string) (string, string, error) {
	args := []string{
		"login", "--target", target,
		"--url", runner.config.URL,
		"--team", runner.config.Team,
		"--username", runner.config.Username,
		"--password", runner.config.Password,
	}

	return runner.Run(append(args, extra...)...)
}

// ConfigFile returns the path of the runner's config file.
func (runner *CommandRunner) ConfigFile() string {
	return runner.configFile
}

// AssertJSONOutput verifies command output is valid JSON.
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	if !json.Valid([]byte(strings.TrimSpace(output))) {
		t.Errorf("Output is not valid JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML.
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	var decoded interface{}
	if err := yaml.Unmarshal([]byte(output), &decoded); err != nil || decoded == nil {
		t.Errorf("Output is not valid YAML: %s", output)
	}
}
