package config

import (
	"encoding/json"
	"fmt"
	"math"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/quantum-visualizer/internal/logging"
	"github.com/shinji-kodama/quantum-visualizer/internal/well"
)

// Config is the root configuration document.
type Config struct {
	Server   ServerConfig `yaml:"server" json:"server"`
	Log      LogConfig    `yaml:"log" json:"log"`
	Defaults WellDefaults `yaml:"defaults" json:"defaults"`
}

// ServerConfig controls the HTTP listener and its middleware.
type ServerConfig struct {
	// Address is the interface to bind, e.g. "" (all) or "127.0.0.1".
	Address string `yaml:"address" json:"address"`

	// Port is the preferred TCP port.
	Port int `yaml:"port" json:"port"`

	// FallbackPortRange, when set as [start, end], lets serve pick the first
	// free port in range if Port is already taken. Empty disables fallback.
	FallbackPortRange []int `yaml:"fallbackPortRange,omitempty" json:"fallbackPortRange,omitempty"`

	// ReadTimeout and WriteTimeout bound a single request.
	ReadTimeout  Duration `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout Duration `yaml:"writeTimeout" json:"writeTimeout"`

	// ShutdownTimeout bounds graceful shutdown after SIGINT/SIGTERM.
	ShutdownTimeout Duration `yaml:"shutdownTimeout" json:"shutdownTimeout"`

	// AllowedOrigins is the CORS allow-list. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowedOrigins" json:"allowedOrigins"`

	// RateLimit is the per-client request rate (requests/second). Zero
	// disables rate limiting.
	RateLimit float64 `yaml:"rateLimit" json:"rateLimit"`

	// RateBurst is the token bucket size for RateLimit.
	RateBurst int `yaml:"rateBurst" json:"rateBurst"`
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// WellDefaults are used when a request or CLI invocation omits a parameter.
type WellDefaults struct {
	Mass           float64 `yaml:"mass" json:"mass"`
	BoundaryLength float64 `yaml:"boundaryLength" json:"boundaryLength"`
	QuantumCount   int     `yaml:"quantumCount" json:"quantumCount"`
}

// Default returns the built-in configuration: all interfaces on port 5000,
// any CORS origin, no rate limit, and an electron in a 1 nm well with three
// levels.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(10 * time.Second),
			ShutdownTimeout: Duration(5 * time.Second),
			AllowedOrigins:  []string{"*"},
			RateBurst:       20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Defaults: WellDefaults{
			Mass:           9.10938356e-31,
			BoundaryLength: 1e-9,
			QuantumCount:   3,
		},
	}
}

// Load reads the file at path, overlays it on Default() and validates the
// result. The format is chosen by file extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .yaml, .yml, .json or .jsonc)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges. Physical defaults are checked for sign only;
// the well package performs the authoritative validation per request.
func (c *Config) Validate() error {
	s := c.Server
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("server.port %d out of range (0-65535)", s.Port)
	}
	if len(s.FallbackPortRange) != 0 {
		if len(s.FallbackPortRange) != 2 {
			return fmt.Errorf("server.fallbackPortRange must be [start, end], got %v", s.FallbackPortRange)
		}
		start, end := s.FallbackPortRange[0], s.FallbackPortRange[1]
		if start < 1 || end > 65535 || start > end {
			return fmt.Errorf("server.fallbackPortRange %d-%d is not a valid port range", start, end)
		}
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if s.RateLimit < 0 {
		return fmt.Errorf("server.rateLimit must not be negative")
	}
	if s.RateLimit > 0 && s.RateBurst < 1 {
		return fmt.Errorf("server.rateBurst must be >= 1 when rateLimit is set")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}

	d := c.Defaults
	// Written as !(v > 0) so NaN fails too.
	if !(d.Mass > 0) || math.IsInf(d.Mass, 0) {
		return fmt.Errorf("defaults.mass must be a finite number > 0")
	}
	if !(d.BoundaryLength > 0) || math.IsInf(d.BoundaryLength, 0) {
		return fmt.Errorf("defaults.boundaryLength must be a finite number > 0")
	}
	if d.QuantumCount < 1 || d.QuantumCount > well.MaxQuantumCount {
		return fmt.Errorf("defaults.quantumCount must be between 1 and %d", well.MaxQuantumCount)
	}
	return nil
}

// ListenAddr formats Address and Port for net.Listen.
func (s ServerConfig) ListenAddr() string {
	return net.JoinHostPort(s.Address, strconv.Itoa(s.Port))
}
