package quantum

import (
	"github.com/prosecnetworks/sentinel/pkg/types"
)

// pqcSuite is one row of the recommendation table.
type pqcSuite struct {
	KEM       string
	Signature string
	Hash      string
	Priority  string
	Timeline  string
}

// recommendations maps criticality tiers to NIST-standardized suites.
// Strengths step down with criticality; timelines step out.
var recommendations = map[types.Criticality]pqcSuite{
	types.CriticalityCritical: {
		KEM:       "ML-KEM-1024",
		Signature: "ML-DSA-87",
		Hash:      "SHA-3-512",
		Priority:  "P0 - Immediate",
		Timeline:  "0-3 months",
	},
	types.CriticalityHigh: {
		KEM:       "ML-KEM-768",
		Signature: "ML-DSA-65",
		Hash:      "SHA-3-256",
		Priority:  "P1 - Urgent",
		Timeline:  "3-6 months",
	},
	types.CriticalityModerate: {
		KEM:       "ML-KEM-512",
		Signature: "ML-DSA-44",
		Hash:      "SHA-3-256",
		Priority:  "P2 - Standard",
		Timeline:  "6-12 months",
	},
}

// Recommend maps an asset's criticality tier to its post-quantum
// migration suite. Pure and table-driven; unknown tiers fall back to the
// MODERATE row. Independent of the vulnerability assessment: the two are
// composed at the risk aggregator, not chained.
func Recommend(criticality types.Criticality) types.PQCRecommendation {
	suite, ok := recommendations[criticality]
	if !ok {
		criticality = types.CriticalityModerate
		suite = recommendations[types.CriticalityModerate]
	}

	return types.PQCRecommendation{
		Criticality:       criticality,
		KEMSuite:          suite.KEM,
		SignatureSuite:    suite.Signature,
		HashSuite:         suite.Hash,
		MigrationPriority: suite.Priority,
		Timeline:          suite.Timeline,
		HybridMode:        "Combine with classical crypto during transition",
		NISTRef:           "FIPS 203, 204, 205",
	}
}
