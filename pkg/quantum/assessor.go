// Package quantum holds the deterministic quantum-threat tables: the
// vulnerability assessment for classical crypto families and the
// post-quantum migration recommendations. All timeline figures are
// configurable heuristics, not measured facts or compliance guarantees.
package quantum

import (
	"github.com/prosecnetworks/sentinel/pkg/types"
)

// familyThreat describes how a quantum adversary attacks one crypto
// family.
type familyThreat struct {
	Algorithm    types.ThreatAlgorithm
	Speedup      string
	BreakYear    int
	LargeKeyYear int // break year for keys above LargeKeyBits; 0 means same as BreakYear
	LargeKeyBits int
	Severity     types.RiskLevel
}

// urgencyTier maps a years-until-vulnerable ceiling to an urgency and its
// heuristic risk score. Boundaries are inclusive: exactly N years resolves
// to the more urgent tier.
type urgencyTier struct {
	MaxYears int
	Urgency  types.Urgency
	Score    int
}

// Params carries every tunable of the assessment. The defaults mirror
// the published CRQC projections this tool ships with, but nothing here
// is authoritative; deployments may override any of it.
type Params struct {
	Families map[types.CryptoFamily]familyThreat
	Tiers    []urgencyTier

	// FallbackScore/FallbackUrgency apply when years-until-vulnerable
	// exceeds every tier ceiling.
	FallbackUrgency types.Urgency
	FallbackScore   int
}

// DefaultParams returns the standard assessment table: RSA and ECC fall
// to Shor's algorithm around 2030 (2032 for RSA above 2048 bits), while
// AES and SHA only face Grover's quadratic speedup decades out.
func DefaultParams() Params {
	return Params{
		Families: map[types.CryptoFamily]familyThreat{
			types.CryptoRSA: {
				Algorithm:    types.ThreatShor,
				Speedup:      "Exponential",
				BreakYear:    2030,
				LargeKeyYear: 2032,
				LargeKeyBits: 2048,
				Severity:     types.RiskLevelCritical,
			},
			types.CryptoECC: {
				Algorithm: types.ThreatShor,
				Speedup:   "Exponential",
				BreakYear: 2030,
				Severity:  types.RiskLevelCritical,
			},
			types.CryptoAES: {
				Algorithm: types.ThreatGrover,
				Speedup:   "Quadratic",
				BreakYear: 2040,
				Severity:  types.RiskLevelModerate,
			},
			types.CryptoSHA: {
				Algorithm: types.ThreatGrover,
				Speedup:   "Quadratic",
				BreakYear: 2040,
				Severity:  types.RiskLevelLow,
			},
		},
		Tiers: []urgencyTier{
			{MaxYears: 3, Urgency: types.UrgencyImmediate, Score: 95},
			{MaxYears: 5, Urgency: types.UrgencyUrgent, Score: 85},
			{MaxYears: 7, Urgency: types.UrgencyHigh, Score: 70},
		},
		FallbackUrgency: types.UrgencyModerate,
		FallbackScore:   50,
	}
}

// Assessor evaluates crypto deployments against its parameter table.
// Pure and total: no network, no failure modes.
type Assessor struct {
	params Params
}

// NewAssessor creates an assessor. Zero-value Params fall back to
// DefaultParams.
func NewAssessor(params Params) *Assessor {
	if params.Families == nil {
		params = DefaultParams()
	}
	return &Assessor{params: params}
}

// Assess maps (family, key size, current year) to a QuantumAssessment.
// Unknown families are treated as RSA, and any key of 1024 bits or more
// is assumed to be RSA-class public-key material.
func (a *Assessor) Assess(family types.CryptoFamily, keySize, currentYear int) types.QuantumAssessment {
	if keySize >= 1024 {
		family = types.CryptoRSA
	}

	threat, ok := a.params.Families[family]
	if !ok {
		family = types.CryptoRSA
		threat = a.params.Families[types.CryptoRSA]
	}

	breakYear := threat.BreakYear
	if threat.LargeKeyYear != 0 && keySize > threat.LargeKeyBits {
		breakYear = threat.LargeKeyYear
	}

	years := breakYear - currentYear
	if years < 0 {
		years = 0
	}

	urgency := a.params.FallbackUrgency
	score := a.params.FallbackScore
	for _, tier := range a.params.Tiers {
		if years <= tier.MaxYears {
			urgency = tier.Urgency
			score = tier.Score
			break
		}
	}

	return types.QuantumAssessment{
		CryptoFamily:         family,
		KeySize:              keySize,
		ThreatAlgorithm:      threat.Algorithm,
		QuantumSpeedup:       threat.Speedup,
		VulnerabilityYear:    breakYear,
		YearsUntilVulnerable: years,
		RiskScore:            score,
		Urgency:              urgency,
		Severity:             threat.Severity,
	}
}
