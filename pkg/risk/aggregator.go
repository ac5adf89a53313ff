// Package risk combines criticality, TLS posture, quantum urgency and
// geolocation confidence into a composite 0-100 score with a categorical
// level and remediation guidance. Scoring is deterministic: the same
// inputs under the same configuration always produce the same report.
package risk

import (
	"strings"
	"time"

	"github.com/prosecnetworks/sentinel/internal/config"
	"github.com/prosecnetworks/sentinel/pkg/types"
)

// Weights of the composite score. They sum to 100; the quantum term is
// only applied when the scan mode enables quantum analysis.
const (
	criticalityCriticalPoints = 40
	criticalityHighPoints     = 25
	criticalityModeratePoints = 15

	tlsInvalidPoints     = 20
	tlsNotQuantumSafe    = 15
	quantumCapPoints     = 30
	geoUnresolvedPoints  = 10
	quantumScoreDivisor  = 3
	harvestThreatHorizon = 10 // years; HNDL exposure window
)

// Risk level thresholds on the composite score.
const (
	thresholdCritical = 80
	thresholdHigh     = 60
	thresholdModerate = 40
)

// Score assembles the AssetReport for one asset from its probe and
// assessment results.
func Score(asset types.Asset, geo types.GeoRecord, tlsRec types.TLSRecord, quantum types.QuantumAssessment, pqc types.PQCRecommendation, cfg config.ScanConfig) types.AssetReport {
	score := 0

	switch asset.Criticality {
	case types.CriticalityCritical:
		score += criticalityCriticalPoints
	case types.CriticalityHigh:
		score += criticalityHighPoints
	default:
		score += criticalityModeratePoints
	}

	if cfg.EnableTLSCheck {
		if !tlsRec.Valid {
			score += tlsInvalidPoints
		} else if !tlsRec.QuantumSafe {
			score += tlsNotQuantumSafe
		}
	}

	if cfg.EnableQuantum {
		q := quantum.RiskScore / quantumScoreDivisor
		if q > quantumCapPoints {
			q = quantumCapPoints
		}
		score += q
	}

	if cfg.EnableGeo && !geo.Resolved {
		score += geoUnresolvedPoints
	}

	if score > 100 {
		score = 100
	}

	return types.AssetReport{
		Asset:            asset,
		Geo:              geo,
		TLS:              tlsRec,
		Quantum:          quantum,
		PQC:              pqc,
		RiskScore:        score,
		RiskLevel:        LevelFor(score),
		Remediation:      remediation(tlsRec, quantum, pqc, cfg),
		HarvestNowThreat: cfg.EnableQuantum && quantum.YearsUntilVulnerable <= harvestThreatHorizon,
		AnalyzedAt:       time.Now().UTC(),
	}
}

// LevelFor maps a composite score to its categorical risk level.
func LevelFor(score int) types.RiskLevel {
	switch {
	case score >= thresholdCritical:
		return types.RiskLevelCritical
	case score >= thresholdHigh:
		return types.RiskLevelHigh
	case score >= thresholdModerate:
		return types.RiskLevelModerate
	default:
		return types.RiskLevelLow
	}
}

// remediation concatenates the applicable action clauses. Never empty:
// assets with nothing actionable get the monitoring default.
func remediation(tlsRec types.TLSRecord, quantum types.QuantumAssessment, pqc types.PQCRecommendation, cfg config.ScanConfig) string {
	var actions []string

	if cfg.EnableQuantum && (quantum.Urgency == types.UrgencyImmediate || quantum.Urgency == types.UrgencyUrgent) {
		actions = append(actions, "QUANTUM THREAT: Migrate to "+pqc.KEMSuite)
	}
	if cfg.EnableTLSCheck && !tlsRec.Valid {
		actions = append(actions, "Deploy valid SSL/TLS certificate")
	}
	if cfg.EnableTLSCheck && !tlsRec.QuantumSafe {
		actions = append(actions, "Enable hybrid classical-PQC mode")
	}

	if len(actions) == 0 {
		return "Maintain quarterly security audits and monitoring"
	}
	return strings.Join(actions, " | ")
}
