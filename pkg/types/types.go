package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Criticality classifies how sensitive an asset is, derived from its
// hostname. It drives both the PQC recommendation and the risk score.
type Criticality string

const (
	CriticalityCritical Criticality = "CRITICAL"
	CriticalityHigh     Criticality = "HIGH"
	CriticalityModerate Criticality = "MODERATE"
)

// RiskLevel is the categorical rating derived from the composite score.
type RiskLevel string

const (
	RiskLevelCritical RiskLevel = "CRITICAL"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelModerate RiskLevel = "MODERATE"
	RiskLevelLow      RiskLevel = "LOW"
)

// ThreatAlgorithm is the quantum algorithm class that breaks a crypto family.
type ThreatAlgorithm string

const (
	ThreatShor   ThreatAlgorithm = "SHOR"
	ThreatGrover ThreatAlgorithm = "GROVER"
	ThreatNone   ThreatAlgorithm = "NONE"
)

// Urgency tiers the time pressure on migrating an asset away from
// quantum-vulnerable cryptography.
type Urgency string

const (
	UrgencyImmediate Urgency = "IMMEDIATE"
	UrgencyUrgent    Urgency = "URGENT"
	UrgencyHigh      Urgency = "HIGH"
	UrgencyModerate  Urgency = "MODERATE"
)

// CryptoFamily names a classical cryptographic primitive family.
type CryptoFamily string

const (
	CryptoRSA CryptoFamily = "RSA"
	CryptoECC CryptoFamily = "ECC"
	CryptoAES CryptoFamily = "AES"
	CryptoSHA CryptoFamily = "SHA"
)

// Source identifies a subdomain discovery source.
type Source string

const (
	SourceCTLog            Source = "ct_log"
	SourceWordlistCommon   Source = "wordlist_common"
	SourceWordlistExtended Source = "wordlist_extended"
)

// Asset is a discovered hostname plus its derived criticality tier.
type Asset struct {
	Hostname    string      `json:"hostname"`
	Fingerprint string      `json:"fingerprint"`
	Criticality Criticality `json:"criticality"`
}

// NewAsset builds an Asset for a hostname, computing its fingerprint and
// criticality from the default rule table.
func NewAsset(hostname string) Asset {
	return Asset{
		Hostname:    hostname,
		Fingerprint: Fingerprint(hostname),
		Criticality: ClassifyCriticality(hostname),
	}
}

// Fingerprint returns a short stable identifier for a hostname, used by
// downstream reporting to track assets across scans.
func Fingerprint(hostname string) string {
	sum := sha256.Sum256([]byte(hostname))
	return hex.EncodeToString(sum[:])[:12]
}

// CriticalityRule maps a keyword set to a criticality tier. Rules are
// evaluated in order; the first rule whose keyword substring-matches the
// hostname wins.
type CriticalityRule struct {
	Keywords []string
	Tier     Criticality
}

// CriticalityRules is the default classification table. New keywords are
// data changes, not code changes.
var CriticalityRules = []CriticalityRule{
	{
		Keywords: []string{"vault", "api", "pqc", "secure", "admin", "gateway", "quantum", "keys", "auth", "iam"},
		Tier:     CriticalityCritical,
	},
	{
		Keywords: []string{"dev", "test", "staging"},
		Tier:     CriticalityModerate,
	},
}

// ClassifyCriticality applies CriticalityRules to a hostname. Hostnames
// matching no rule default to HIGH: an unknown production asset is treated
// as sensitive until named otherwise.
func ClassifyCriticality(hostname string) Criticality {
	lower := strings.ToLower(hostname)
	for _, rule := range CriticalityRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Tier
			}
		}
	}
	return CriticalityHigh
}

// GeoRecord holds the resolved location of an asset. Lookup failure is
// represented by the sentinel record (Resolved=false, Unknown fields),
// never by an error.
type GeoRecord struct {
	IP        string  `json:"ip"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	City      string  `json:"city"`
	ISP       string  `json:"isp"`
	Timezone  string  `json:"timezone"`
	Resolved  bool    `json:"resolved"`
}

// UnknownGeo returns the sentinel GeoRecord used when DNS resolution or
// every geolocation provider fails.
func UnknownGeo() GeoRecord {
	return GeoRecord{
		IP:       "N/A",
		Country:  "Unknown",
		City:     "Unknown",
		ISP:      "Unknown",
		Timezone: "Unknown",
	}
}

// TLSRecord captures the negotiated TLS posture of an asset on port 443.
type TLSRecord struct {
	Valid       bool   `json:"valid"`
	Issuer      string `json:"issuer"`
	Protocol    string `json:"protocol"`
	CipherSuite string `json:"cipher_suite"`
	QuantumSafe bool   `json:"quantum_safe"`
}

// FailedTLS returns the sentinel TLSRecord used when the handshake cannot
// be completed or the host never resolved.
func FailedTLS() TLSRecord {
	return TLSRecord{
		Issuer:      "N/A",
		Protocol:    "N/A",
		CipherSuite: "Unknown",
	}
}

// QuantumAssessment is the deterministic vulnerability verdict for a
// (crypto family, key size) pair at a given year. The figures are
// configured heuristics, not measured facts.
type QuantumAssessment struct {
	CryptoFamily         CryptoFamily    `json:"crypto_family"`
	KeySize              int             `json:"key_size"`
	ThreatAlgorithm      ThreatAlgorithm `json:"threat_algorithm"`
	QuantumSpeedup       string          `json:"quantum_speedup"`
	VulnerabilityYear    int             `json:"vulnerability_year"`
	YearsUntilVulnerable int             `json:"years_until_vulnerable"`
	RiskScore            int             `json:"risk_score"`
	Urgency              Urgency         `json:"urgency"`
	Severity             RiskLevel       `json:"severity"`
	Assumed              bool            `json:"assumed"`
}

// PQCRecommendation is the migration advice for an asset's criticality tier.
type PQCRecommendation struct {
	Criticality       Criticality `json:"criticality"`
	KEMSuite          string      `json:"kem_suite"`
	SignatureSuite    string      `json:"signature_suite"`
	HashSuite         string      `json:"hash_suite"`
	MigrationPriority string      `json:"migration_priority"`
	Timeline          string      `json:"timeline"`
	HybridMode        string      `json:"hybrid_mode"`
	NISTRef           string      `json:"nist_ref"`
}

// AssetReport is the per-asset unit of output: everything learned about
// one hostname plus its composite risk verdict. Immutable once produced.
type AssetReport struct {
	Asset       Asset             `json:"asset"`
	Geo         GeoRecord         `json:"geo"`
	TLS         TLSRecord         `json:"tls"`
	Quantum     QuantumAssessment `json:"quantum"`
	PQC         PQCRecommendation `json:"pqc"`
	RiskScore   int               `json:"risk_score"`
	RiskLevel   RiskLevel         `json:"risk_level"`
	Remediation string            `json:"remediation"`

	HarvestNowThreat bool      `json:"harvest_now_threat"`
	ScanID           string    `json:"scan_id"`
	AnalyzedAt       time.Time `json:"analyzed_at"`
}
