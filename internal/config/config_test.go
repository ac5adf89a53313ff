package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosecnetworks/sentinel/pkg/types"
)

func TestPresetDeep(t *testing.T) {
	cfg, err := Preset(ModeDeep)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.MaxAssets)
	assert.True(t, cfg.EnableQuantum)
	assert.True(t, cfg.EnableTLSCheck)
	assert.True(t, cfg.EnableGeo)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 10, cfg.Workers)
	assert.Equal(t, types.CryptoRSA, cfg.AssumedCrypto)
	assert.Equal(t, 2048, cfg.AssumedKeySize)
	assert.ElementsMatch(t, []types.Source{types.SourceCTLog, types.SourceWordlistCommon}, cfg.Sources)
}

func TestPresetStandardDisablesQuantum(t *testing.T) {
	cfg, err := Preset(ModeStandard)
	require.NoError(t, err)

	assert.False(t, cfg.EnableQuantum)
	assert.True(t, cfg.EnableTLSCheck)
}

func TestPresetStealth(t *testing.T) {
	cfg, err := Preset(ModeStealth)
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.MaxAssets)
	assert.Equal(t, 3*time.Second, cfg.RequestDelay)
	assert.Equal(t, []types.Source{types.SourceCTLog}, cfg.Sources,
		"stealth mode must stay passive: CT logs only")
}

func TestPresetComprehensive(t *testing.T) {
	cfg, err := Preset(ModeComprehensive)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.MaxAssets)
	assert.Contains(t, cfg.Sources, types.SourceWordlistExtended)
}

func TestPresetUnknownMode(t *testing.T) {
	_, err := Preset("aggressive")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := Preset(ModeDeep)
	require.NoError(t, err)
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*ScanConfig)
	}{
		{"zero max assets", func(c *ScanConfig) { c.MaxAssets = 0 }},
		{"negative timeout", func(c *ScanConfig) { c.Timeout = -time.Second }},
		{"zero workers", func(c *ScanConfig) { c.Workers = 0 }},
		{"no sources", func(c *ScanConfig) { c.Sources = nil }},
		{"negative delay", func(c *ScanConfig) { c.RequestDelay = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Example.COM", "example.com", false},
		{"  example.com  ", "example.com", false},
		{"example.com.", "example.com", false},
		{"münchen.de", "xn--mnchen-3ya.de", false},
		{"", "", true},
		{"localhost", "", true},
		{"http://example.com", "", true},
		{"user@example.com", "", true},
		{"exa mple.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeDomain(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, ModeDeep, cfg.Scan.Mode)
	assert.NoError(t, cfg.Scan.Validate())
}
