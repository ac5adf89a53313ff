package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/prosecnetworks/sentinel/cmd/internal/display"
	"github.com/prosecnetworks/sentinel/internal/config"
	"github.com/prosecnetworks/sentinel/internal/orchestrator"
)

var auditCmd = &cobra.Command{
	Use:   "audit <domain>",
	Short: "Run a full attack-surface audit against a domain",
	Long: `Run a full attack-surface audit against a domain.

Discovers subdomains through certificate transparency logs and wordlist
seeding, probes each asset (DNS, geolocation, TLS), assesses quantum
vulnerability, and prints a per-asset risk table.

SCAN MODES:
  standard       Recon only, quantum assessment disabled
  deep           Full analysis including quantum assessment (default)
  stealth        Passive CT-only discovery, 3s pacing, 15 asset cap
  comprehensive  Extended wordlist, 50 asset cap

Examples:
  sentinel audit example.com
  sentinel audit example.com --mode stealth
  sentinel audit example.com --mode comprehensive --max-assets 30
  sentinel audit example.com --quantum=false --timeout 60s`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().String("mode", config.ModeDeep, "scan mode (standard, deep, stealth, comprehensive)")
	auditCmd.Flags().Int("max-assets", 0, "override the mode's asset cap")
	auditCmd.Flags().Int("workers", 0, "override the mode's concurrent worker count")
	auditCmd.Flags().Duration("timeout", 0, "override the per-asset analysis timeout")
	auditCmd.Flags().Duration("delay", -1, "override the per-request pacing delay")
	auditCmd.Flags().Bool("quantum", true, "run quantum vulnerability assessment")
	auditCmd.Flags().Bool("tls", true, "probe TLS posture on port 443")
	auditCmd.Flags().Bool("geo", true, "geolocate resolved assets")

	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	domain := args[0]

	scanCfg, err := scanConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	// Ctrl+C cancels the scan; incomplete assets are dropped, completed
	// ones are already accounted for in telemetry.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		color.Yellow("\n\nReceived %s - cancelling audit...\n", sig)
		cancel()
	}()

	color.Cyan("Sentinel audit starting\n")
	color.White("  Target: %s\n", domain)
	color.White("  Mode:   %s\n\n", scanCfg.Mode)

	start := time.Now()
	orch := orchestrator.New(log, tel)
	reports, err := orch.RunAudit(ctx, domain, scanCfg)
	if err != nil {
		if ctx.Err() != nil {
			color.Yellow("Audit cancelled after %s\n", time.Since(start).Round(time.Second))
			return nil
		}
		return fmt.Errorf("audit failed: %w", err)
	}

	display.AuditSummary(domain, scanCfg.Mode, reports, time.Since(start))
	display.ReportTable(reports)
	display.TopRemediations(reports, 5)

	return nil
}

// scanConfigFromFlags builds the scan config from the mode preset, then
// applies explicit flag overrides on top.
func scanConfigFromFlags(cmd *cobra.Command) (config.ScanConfig, error) {
	mode, _ := cmd.Flags().GetString("mode")

	scanCfg, err := config.Preset(mode)
	if err != nil {
		return config.ScanConfig{}, err
	}

	if v, _ := cmd.Flags().GetInt("max-assets"); v > 0 {
		scanCfg.MaxAssets = v
	}
	if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
		scanCfg.Workers = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		scanCfg.Timeout = v
	}
	if v, _ := cmd.Flags().GetDuration("delay"); v >= 0 {
		scanCfg.RequestDelay = v
	}
	if cmd.Flags().Changed("quantum") {
		scanCfg.EnableQuantum, _ = cmd.Flags().GetBool("quantum")
	}
	if cmd.Flags().Changed("tls") {
		scanCfg.EnableTLSCheck, _ = cmd.Flags().GetBool("tls")
	}
	if cmd.Flags().Changed("geo") {
		scanCfg.EnableGeo, _ = cmd.Flags().GetBool("geo")
	}

	return scanCfg, nil
}
