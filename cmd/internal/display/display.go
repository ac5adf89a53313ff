// Package display provides reusable display and formatting functions for
// Sentinel CLI commands.
//
// This package centralizes output formatting and colorization so the audit
// command stays focused on orchestration.
package display

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/prosecnetworks/sentinel/pkg/types"
)

// ColorRiskLevel returns a colorized risk level string.
func ColorRiskLevel(level types.RiskLevel) string {
	switch level {
	case types.RiskLevelCritical:
		return color.New(color.FgRed, color.Bold).Sprint("CRITICAL")
	case types.RiskLevelHigh:
		return color.New(color.FgRed).Sprint("HIGH")
	case types.RiskLevelModerate:
		return color.New(color.FgYellow).Sprint("MODERATE")
	case types.RiskLevelLow:
		return color.New(color.FgCyan).Sprint("LOW")
	default:
		return string(level)
	}
}

// ColorCriticality returns a colorized asset criticality string.
func ColorCriticality(c types.Criticality) string {
	switch c {
	case types.CriticalityCritical:
		return color.New(color.FgRed).Sprint("CRITICAL")
	case types.CriticalityHigh:
		return color.New(color.FgYellow).Sprint("HIGH")
	case types.CriticalityModerate:
		return color.New(color.FgCyan).Sprint("MODERATE")
	default:
		return string(c)
	}
}

// GroupByRiskLevel counts reports per risk level.
func GroupByRiskLevel(reports []types.AssetReport) map[types.RiskLevel]int {
	counts := make(map[types.RiskLevel]int)
	for _, r := range reports {
		counts[r.RiskLevel]++
	}
	return counts
}

// AuditSummary prints the headline numbers for a completed audit.
func AuditSummary(domain, mode string, reports []types.AssetReport, elapsed time.Duration) {
	counts := GroupByRiskLevel(reports)
	harvestThreats := 0
	for _, r := range reports {
		if r.HarvestNowThreat {
			harvestThreats++
		}
	}

	fmt.Println()
	color.Cyan("Audit complete: %s\n", domain)
	color.White("  Mode:     %s\n", mode)
	color.White("  Assets:   %d\n", len(reports))
	color.White("  Duration: %s\n", elapsed.Round(time.Second))
	fmt.Println()

	fmt.Printf("  Risk distribution: %s %d  %s %d  %s %d  %s %d\n",
		ColorRiskLevel(types.RiskLevelCritical), counts[types.RiskLevelCritical],
		ColorRiskLevel(types.RiskLevelHigh), counts[types.RiskLevelHigh],
		ColorRiskLevel(types.RiskLevelModerate), counts[types.RiskLevelModerate],
		ColorRiskLevel(types.RiskLevelLow), counts[types.RiskLevelLow],
	)

	if harvestThreats > 0 {
		color.Red("  Harvest-now-decrypt-later exposure: %d asset(s)\n", harvestThreats)
	}
	fmt.Println()
}

// ReportTable prints one row per asset: hostname, criticality, location,
// TLS posture and the composite risk verdict.
func ReportTable(reports []types.AssetReport) {
	if len(reports) == 0 {
		color.Yellow("No assets discovered.\n")
		return
	}

	hostWidth := len("HOSTNAME")
	for _, r := range reports {
		if len(r.Asset.Hostname) > hostWidth {
			hostWidth = len(r.Asset.Hostname)
		}
	}

	fmt.Printf("  %-*s  %-10s  %-18s  %-8s  %-5s  %s\n",
		hostWidth, "HOSTNAME", "TIER", "LOCATION", "TLS", "SCORE", "RISK")
	fmt.Printf("  %s\n", strings.Repeat("-", hostWidth+58))

	for _, r := range reports {
		location := r.Geo.Country
		if r.Geo.City != "Unknown" && r.Geo.City != "" {
			location = fmt.Sprintf("%s, %s", r.Geo.City, r.Geo.Country)
		}
		if len(location) > 18 {
			location = location[:15] + "..."
		}

		tlsState := color.RedString("invalid")
		if r.TLS.Valid {
			tlsState = color.GreenString("valid")
		}

		fmt.Printf("  %-*s  %-10s  %-18s  %-8s  %5d  %s\n",
			hostWidth, r.Asset.Hostname,
			string(r.Asset.Criticality),
			location,
			tlsState,
			r.RiskScore,
			ColorRiskLevel(r.RiskLevel),
		)
	}
	fmt.Println()
}

// TopRemediations prints the highest-scoring assets with their
// remediation guidance, limited to the given count.
func TopRemediations(reports []types.AssetReport, limit int) {
	if len(reports) == 0 {
		return
	}

	sorted := make([]types.AssetReport, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RiskScore > sorted[j].RiskScore
	})

	color.Cyan("Top remediation priorities:\n")
	count := 0
	for _, r := range sorted {
		if count >= limit {
			break
		}
		fmt.Printf("\n  %s %s (score %d)\n", ColorRiskLevel(r.RiskLevel), r.Asset.Hostname, r.RiskScore)
		for _, clause := range strings.Split(r.Remediation, " | ") {
			fmt.Printf("    • %s\n", clause)
		}
		if r.Quantum.ThreatAlgorithm != types.ThreatNone {
			fmt.Printf("    Migrate to: %s / %s (%s, %s)\n",
				r.PQC.KEMSuite, r.PQC.SignatureSuite, r.PQC.MigrationPriority, r.PQC.Timeline)
		}
		count++
	}
	fmt.Println()
}
