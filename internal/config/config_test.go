package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a fixture file in a per-test temp directory and returns
// its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestDefault_IsValid verifies the built-in configuration passes validation.
func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, ":5000", cfg.Server.ListenAddr())
	assert.Equal(t, 3, cfg.Defaults.QuantumCount)
}

// TestListenAddr verifies host and port are joined the way net.Listen and
// the serve error messages expect, including IPv6 literals.
func TestListenAddr(t *testing.T) {
	tests := []struct {
		address string
		port    int
		want    string
	}{
		{"", 5000, ":5000"},
		{"127.0.0.1", 8080, "127.0.0.1:8080"},
		{"::1", 8080, "[::1]:8080"},
	}
	for _, tt := range tests {
		s := ServerConfig{Address: tt.address, Port: tt.port}
		assert.Equal(t, tt.want, s.ListenAddr())
	}
}

// TestLoad_YAML verifies a partial YAML file overlays the defaults.
func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "qv.yaml", `
server:
  address: 127.0.0.1
  port: 8080
  readTimeout: 3s
  allowedOrigins: ["http://localhost:5173"]
  rateLimit: 5
  rateBurst: 10
log:
  level: debug
  format: json
defaults:
  quantumCount: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.ListenAddr())
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout.Std())
	// Unset keys keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout.Std())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5.0, cfg.Server.RateLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5, cfg.Defaults.QuantumCount)
	assert.Equal(t, 9.10938356e-31, cfg.Defaults.Mass)
}

// TestLoad_JSONC verifies comments and trailing commas are tolerated.
func TestLoad_JSONC(t *testing.T) {
	path := writeFile(t, "qv.jsonc", `{
  // development server
  "server": {
    "port": 9000,
    "fallbackPortRange": [9001, 9010],
    "shutdownTimeout": "1s", /* short for tests */
  },
  "defaults": {"boundaryLength": 2e-9},
}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []int{9001, 9010}, cfg.Server.FallbackPortRange)
	assert.Equal(t, time.Second, cfg.Server.ShutdownTimeout.Std())
	assert.Equal(t, 2e-9, cfg.Defaults.BoundaryLength)
}

// TestLoad_Errors covers the failure modes of Load.
func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"unsupported extension", "qv.toml", "port = 1", "unsupported config format"},
		{"malformed yaml", "qv.yaml", "server: [", "failed to parse"},
		{"malformed json", "qv.json", "{", "failed to parse"},
		{"bad duration", "qv.yaml", "server:\n  readTimeout: soon\n", "invalid duration"},
		{"port out of range", "qv.yaml", "server:\n  port: 70000\n", "out of range"},
		{"bad fallback range", "qv.yaml", "server:\n  fallbackPortRange: [10, 5]\n", "not a valid port range"},
		{"fallback wrong arity", "qv.yaml", "server:\n  fallbackPortRange: [10]\n", "[start, end]"},
		{"burst missing", "qv.yaml", "server:\n  rateLimit: 2\n  rateBurst: 0\n", "rateBurst"},
		{"bad log level", "qv.yaml", "log:\n  level: loud\n", "invalid log level"},
		{"bad log format", "qv.yaml", "log:\n  format: xml\n", "invalid log format"},
		{"zero default mass", "qv.yaml", "defaults:\n  mass: 0\n", "defaults.mass"},
		{"negative default length", "qv.yaml", "defaults:\n  boundaryLength: -1\n", "defaults.boundaryLength"},
		{"zero default count", "qv.yaml", "defaults:\n  quantumCount: 0\n", "defaults.quantumCount"},
		{"default count above maximum", "qv.yaml", "defaults:\n  quantumCount: 10001\n", "defaults.quantumCount"},
		{"NaN default mass", "qv.yaml", "defaults:\n  mass: .nan\n", "defaults.mass"},
		{"infinite default mass", "qv.yaml", "defaults:\n  mass: .inf\n", "defaults.mass"},
		{"NaN default length", "qv.yaml", "defaults:\n  boundaryLength: .nan\n", "defaults.boundaryLength"},
		{"infinite default length", "qv.yaml", "defaults:\n  boundaryLength: .inf\n", "defaults.boundaryLength"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

// TestLoad_NotFound verifies a missing file is reported as such.
func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// TestDuration_RoundTrip verifies durations serialize as strings.
func TestDuration_RoundTrip(t *testing.T) {
	d := Duration(1500 * time.Millisecond)

	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1.5s"`, string(data))

	var back Duration
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, d, back)

	y, err := d.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", y)
}
