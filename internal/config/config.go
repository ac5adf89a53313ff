package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/idna"

	"github.com/prosecnetworks/sentinel/pkg/types"
)

type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Scan      ScanConfig      `mapstructure:"scan"`
}

type LoggerConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// ScanConfig is the only configuration surface of the audit pipeline. It
// is immutable once a scan starts; the orchestrator copies it by value.
type ScanConfig struct {
	Mode           string         `mapstructure:"mode"`
	MaxAssets      int            `mapstructure:"max_assets"`
	EnableQuantum  bool           `mapstructure:"enable_quantum"`
	EnableTLSCheck bool           `mapstructure:"enable_tls_check"`
	EnableGeo      bool           `mapstructure:"enable_geo"`
	RequestDelay   time.Duration  `mapstructure:"request_delay"`
	Timeout        time.Duration  `mapstructure:"timeout"`
	Workers        int            `mapstructure:"workers"`
	Sources        []types.Source `mapstructure:"sources"`

	// Live cipher analysis is out of scope, so every asset is assessed
	// against an assumed crypto deployment. This is an explicit,
	// documented assumption, not a measurement.
	AssumedCrypto  types.CryptoFamily `mapstructure:"assumed_crypto"`
	AssumedKeySize int                `mapstructure:"assumed_key_size"`
}

// Scan mode names accepted by Preset and the --mode flag.
const (
	ModeStandard      = "standard"
	ModeDeep          = "deep"
	ModeStealth       = "stealth"
	ModeComprehensive = "comprehensive"
)

// Preset returns the named scan mode configuration. Modes differ in
// asset budget, pacing and which analysis stages run; deep is the default.
func Preset(mode string) (ScanConfig, error) {
	base := ScanConfig{
		Mode:           mode,
		MaxAssets:      20,
		EnableQuantum:  true,
		EnableTLSCheck: true,
		EnableGeo:      true,
		Timeout:        30 * time.Second,
		Workers:        10,
		Sources:        []types.Source{types.SourceCTLog, types.SourceWordlistCommon},
		AssumedCrypto:  types.CryptoRSA,
		AssumedKeySize: 2048,
	}

	switch mode {
	case ModeStandard:
		base.EnableQuantum = false
	case ModeDeep:
	case ModeStealth:
		base.MaxAssets = 15
		base.RequestDelay = 3 * time.Second
		// Passive sources only: no wordlist-seeded hosts beyond what the
		// CT logs already expose.
		base.Sources = []types.Source{types.SourceCTLog}
	case ModeComprehensive:
		base.MaxAssets = 50
		base.Sources = []types.Source{
			types.SourceCTLog,
			types.SourceWordlistCommon,
			types.SourceWordlistExtended,
		}
	default:
		return ScanConfig{}, fmt.Errorf("unknown scan mode %q", mode)
	}

	return base, nil
}

// Validate rejects fatal configuration errors before any network
// activity. Per-probe failures are handled downstream; these are not.
func (c ScanConfig) Validate() error {
	if c.MaxAssets < 1 {
		return fmt.Errorf("max_assets must be at least 1, got %d", c.MaxAssets)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one subdomain source is required")
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request_delay must not be negative, got %s", c.RequestDelay)
	}
	return nil
}

// NormalizeDomain lowercases and punycode-normalizes a target domain and
// rejects values that cannot be a registerable DNS name.
func NormalizeDomain(domain string) (string, error) {
	domain = strings.TrimSpace(strings.ToLower(domain))
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" {
		return "", fmt.Errorf("domain must not be empty")
	}
	if strings.ContainsAny(domain, " /\\@:") {
		return "", fmt.Errorf("invalid domain %q", domain)
	}
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", domain, err)
	}
	if !strings.Contains(ascii, ".") {
		return "", fmt.Errorf("domain %q has no TLD", domain)
	}
	return ascii, nil
}

func DefaultConfig() *Config {
	scan, _ := Preset(ModeDeep)
	return &Config{
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			OutputPaths: []string{"stdout"},
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "sentinel",
			Endpoint:    "localhost:4318",
			SampleRate:  1.0,
		},
		Scan: scan,
	}
}
