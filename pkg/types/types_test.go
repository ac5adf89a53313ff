package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCriticality(t *testing.T) {
	tests := []struct {
		hostname string
		want     Criticality
	}{
		{"vault.example.com", CriticalityCritical},
		{"api.example.com", CriticalityCritical},
		{"pqc-gateway.example.com", CriticalityCritical},
		{"auth.example.com", CriticalityCritical},
		{"iam.example.com", CriticalityCritical},
		{"keys.example.com", CriticalityCritical},
		{"dev.example.com", CriticalityModerate},
		{"test.example.com", CriticalityModerate},
		{"staging.example.com", CriticalityModerate},
		{"www.example.com", CriticalityHigh},
		{"example.com", CriticalityHigh},
		{"blog.example.com", CriticalityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCriticality(tt.hostname))
		})
	}
}

func TestClassifyCriticalityFirstMatchWins(t *testing.T) {
	// api-dev matches both rule tiers; the critical rule is evaluated
	// first.
	assert.Equal(t, CriticalityCritical, ClassifyCriticality("api-dev.example.com"))
}

func TestClassifyCriticalityCaseInsensitive(t *testing.T) {
	assert.Equal(t, CriticalityCritical, ClassifyCriticality("VAULT.Example.COM"))
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("vault.example.com")

	assert.Len(t, fp, 12)
	assert.Equal(t, fp, Fingerprint("vault.example.com"), "fingerprints are deterministic")
	assert.NotEqual(t, fp, Fingerprint("api.example.com"))
}

func TestNewAsset(t *testing.T) {
	asset := NewAsset("vault.example.com")

	assert.Equal(t, "vault.example.com", asset.Hostname)
	assert.Equal(t, CriticalityCritical, asset.Criticality)
	assert.Len(t, asset.Fingerprint, 12)
}

func TestUnknownGeoSentinel(t *testing.T) {
	geo := UnknownGeo()

	assert.Equal(t, "N/A", geo.IP)
	assert.Equal(t, "Unknown", geo.Country)
	assert.Equal(t, "Unknown", geo.City)
	assert.Equal(t, "Unknown", geo.ISP)
	assert.Equal(t, "Unknown", geo.Timezone)
	assert.Zero(t, geo.Latitude)
	assert.Zero(t, geo.Longitude)
	assert.False(t, geo.Resolved)
}

func TestFailedTLSSentinel(t *testing.T) {
	rec := FailedTLS()

	assert.False(t, rec.Valid)
	assert.Equal(t, "N/A", rec.Issuer)
	assert.Equal(t, "N/A", rec.Protocol)
	assert.Equal(t, "Unknown", rec.CipherSuite)
	assert.False(t, rec.QuantumSafe)
}
