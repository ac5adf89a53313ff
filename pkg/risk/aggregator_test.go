package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosecnetworks/sentinel/internal/config"
	"github.com/prosecnetworks/sentinel/pkg/types"
)

func deepConfig(t *testing.T) config.ScanConfig {
	t.Helper()
	cfg, err := config.Preset(config.ModeDeep)
	require.NoError(t, err)
	return cfg
}

func immediateQuantum() types.QuantumAssessment {
	return types.QuantumAssessment{
		CryptoFamily:         types.CryptoRSA,
		KeySize:              2048,
		ThreatAlgorithm:      types.ThreatShor,
		RiskScore:            95,
		Urgency:              types.UrgencyImmediate,
		YearsUntilVulnerable: 3,
	}
}

func validTLS() types.TLSRecord {
	return types.TLSRecord{
		Valid:       true,
		Issuer:      "Example CA",
		Protocol:    "TLS 1.3",
		CipherSuite: "TLS_AES_256_GCM_SHA384",
	}
}

func resolvedGeo() types.GeoRecord {
	return types.GeoRecord{IP: "93.184.216.34", Country: "United States", Resolved: true}
}

func TestScoreWorstCaseAsset(t *testing.T) {
	cfg := deepConfig(t)
	asset := types.NewAsset("vault.example.com")

	report := Score(asset, types.UnknownGeo(), types.FailedTLS(), immediateQuantum(), quantumRec(asset), cfg)

	// 40 criticality + 20 invalid TLS + 30 capped quantum + 10 geo = 100.
	assert.Equal(t, 100, report.RiskScore)
	assert.Equal(t, types.RiskLevelCritical, report.RiskLevel)
}

func quantumRec(asset types.Asset) types.PQCRecommendation {
	return types.PQCRecommendation{
		Criticality: asset.Criticality,
		KEMSuite:    "ML-KEM-1024",
	}
}

func TestScoreCriticalAssetResolvedGeo(t *testing.T) {
	cfg := deepConfig(t)
	asset := types.NewAsset("api.example.com")

	report := Score(asset, resolvedGeo(), types.FailedTLS(), immediateQuantum(), quantumRec(asset), cfg)

	// 40 + 20 + 30, no geo penalty.
	assert.Equal(t, 90, report.RiskScore)
	assert.Equal(t, types.RiskLevelCritical, report.RiskLevel)
}

func TestScoreQuantumTermCapped(t *testing.T) {
	cfg := deepConfig(t)
	asset := types.NewAsset("www.example.com")

	q := immediateQuantum()
	report := Score(asset, resolvedGeo(), validTLS(), q, quantumRec(asset), cfg)

	// 25 criticality + 15 not quantum safe + min(30, 95/3)=30.
	assert.Equal(t, 70, report.RiskScore)
	assert.Equal(t, types.RiskLevelHigh, report.RiskLevel)
}

func TestScoreQuantumDisabledLowersCeiling(t *testing.T) {
	cfg := deepConfig(t)
	cfg.EnableQuantum = false
	asset := types.NewAsset("vault.example.com")

	report := Score(asset, types.UnknownGeo(), types.FailedTLS(), types.QuantumAssessment{ThreatAlgorithm: types.ThreatNone}, quantumRec(asset), cfg)

	// 40 + 20 + 10; no quantum term possible.
	assert.Equal(t, 70, report.RiskScore)
	assert.False(t, report.HarvestNowThreat)
}

func TestScoreTLSDisabledSkipsTLSTerms(t *testing.T) {
	cfg := deepConfig(t)
	cfg.EnableTLSCheck = false
	asset := types.NewAsset("www.example.com")

	report := Score(asset, resolvedGeo(), types.FailedTLS(), immediateQuantum(), quantumRec(asset), cfg)

	// 25 + 30 quantum; the sentinel TLS record carries no penalty when
	// the stage never ran.
	assert.Equal(t, 55, report.RiskScore)
}

func TestScoreGeoDisabledSkipsGeoPenalty(t *testing.T) {
	cfg := deepConfig(t)
	cfg.EnableGeo = false
	asset := types.NewAsset("www.example.com")

	report := Score(asset, types.GeoRecord{IP: "93.184.216.34", Resolved: true}, validTLS(), immediateQuantum(), quantumRec(asset), cfg)

	assert.Equal(t, 70, report.RiskScore)
}

func TestScoreQuantumSafeTLSAvoidsHybridPenalty(t *testing.T) {
	cfg := deepConfig(t)
	asset := types.NewAsset("blog.example.com")

	tlsRec := validTLS()
	tlsRec.CipherSuite = "X25519MLKEM768"
	tlsRec.QuantumSafe = true

	report := Score(asset, resolvedGeo(), tlsRec, immediateQuantum(), quantumRec(asset), cfg)

	// 25 criticality + 30 quantum only.
	assert.Equal(t, 55, report.RiskScore)
	assert.NotContains(t, report.Remediation, "hybrid")
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  types.RiskLevel
	}{
		{100, types.RiskLevelCritical},
		{80, types.RiskLevelCritical},
		{79, types.RiskLevelHigh},
		{60, types.RiskLevelHigh},
		{59, types.RiskLevelModerate},
		{40, types.RiskLevelModerate},
		{39, types.RiskLevelLow},
		{0, types.RiskLevelLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.score), "score %d", tt.score)
	}
}

func TestRemediationClauses(t *testing.T) {
	cfg := deepConfig(t)
	asset := types.NewAsset("vault.example.com")

	report := Score(asset, resolvedGeo(), types.FailedTLS(), immediateQuantum(), quantumRec(asset), cfg)

	assert.Contains(t, report.Remediation, "QUANTUM THREAT: Migrate to ML-KEM-1024")
	assert.Contains(t, report.Remediation, "Deploy valid SSL/TLS certificate")
	assert.Contains(t, report.Remediation, "Enable hybrid classical-PQC mode")
	assert.Contains(t, report.Remediation, " | ")
}

func TestRemediationDefault(t *testing.T) {
	cfg := deepConfig(t)
	cfg.EnableQuantum = false
	cfg.EnableTLSCheck = false
	asset := types.NewAsset("www.example.com")

	report := Score(asset, resolvedGeo(), validTLS(), types.QuantumAssessment{}, types.PQCRecommendation{}, cfg)

	assert.Equal(t, "Maintain quarterly security audits and monitoring", report.Remediation)
}

func TestHarvestNowThreat(t *testing.T) {
	cfg := deepConfig(t)
	asset := types.NewAsset("www.example.com")

	near := immediateQuantum()
	near.YearsUntilVulnerable = 10
	report := Score(asset, resolvedGeo(), validTLS(), near, quantumRec(asset), cfg)
	assert.True(t, report.HarvestNowThreat, "10 years inclusive is inside the HNDL window")

	far := immediateQuantum()
	far.YearsUntilVulnerable = 14
	report = Score(asset, resolvedGeo(), validTLS(), far, quantumRec(asset), cfg)
	assert.False(t, report.HarvestNowThreat)
}

func TestScoreDeterministic(t *testing.T) {
	cfg := deepConfig(t)
	asset := types.NewAsset("api.example.com")

	a := Score(asset, resolvedGeo(), validTLS(), immediateQuantum(), quantumRec(asset), cfg)
	b := Score(asset, resolvedGeo(), validTLS(), immediateQuantum(), quantumRec(asset), cfg)

	assert.Equal(t, a.RiskScore, b.RiskScore)
	assert.Equal(t, a.RiskLevel, b.RiskLevel)
	assert.Equal(t, a.Remediation, b.Remediation)
}
