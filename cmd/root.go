package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prosecnetworks/sentinel/internal/config"
	"github.com/prosecnetworks/sentinel/internal/logger"
	"github.com/prosecnetworks/sentinel/internal/telemetry"
)

var (
	cfg *config.Config
	log *logger.Logger
	tel telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "External attack surface audit with quantum-risk scoring",
	Long: `Sentinel - Quantum-Aware Attack Surface Reconnaissance

Maps the externally visible attack surface of a domain and scores every
discovered asset for quantum-cryptographic risk.

Pipeline per audit:
  1. Subdomain discovery (certificate transparency logs + wordlists)
  2. Per-asset probing (DNS resolution, geolocation, TLS posture)
  3. Quantum vulnerability assessment (Shor/Grover threat timelines)
  4. Post-quantum migration recommendations (ML-KEM, ML-DSA, SHA-3)
  5. Composite 0-100 risk scoring with remediation guidance

COMMANDS:
  sentinel audit <domain>      - Run a full audit against a domain
  sentinel version             - Show version information`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// version and help need no logger or telemetry.
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		if err := initConfig(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		var err error
		log, err = logger.New(cfg.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		tel, err = telemetry.New(cmd.Context(), cfg.Telemetry)
		if err != nil {
			// Telemetry is best effort; the audit runs without it.
			log.Warnw("Failed to initialize telemetry, continuing without it", "error", err)
			tel = telemetry.Noop()
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tel != nil {
			if err := tel.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to flush telemetry: %v\n", err)
			}
		}
		if log != nil {
			// Sync errors on stdout/stderr are expected on Linux and can be
			// safely ignored.
			if err := log.Sync(); err != nil {
				if err.Error() != "sync /dev/stdout: invalid argument" && err.Error() != "sync /dev/stderr: invalid argument" {
					fmt.Fprintf(os.Stderr, "Warning: failed to sync logger: %v\n", err)
				}
			}
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (json, console)")
	viper.BindPFlag("logger.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logger.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindEnv("logger.level", "SENTINEL_LOG_LEVEL")
	viper.BindEnv("logger.format", "SENTINEL_LOG_FORMAT")

	rootCmd.PersistentFlags().Bool("telemetry", false, "enable OpenTelemetry export")
	rootCmd.PersistentFlags().String("telemetry-endpoint", "localhost:4318", "OTLP HTTP endpoint")
	viper.BindPFlag("telemetry.enabled", rootCmd.PersistentFlags().Lookup("telemetry"))
	viper.BindPFlag("telemetry.endpoint", rootCmd.PersistentFlags().Lookup("telemetry-endpoint"))
	viper.BindEnv("telemetry.enabled", "SENTINEL_TELEMETRY_ENABLED")
	viper.BindEnv("telemetry.endpoint", "SENTINEL_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func initConfig() error {
	// Configuration comes from flags and env vars only; no YAML files.
	viper.AutomaticEnv()
	viper.SetEnvPrefix("SENTINEL")

	cfg = config.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.Format == "" {
		cfg.Logger.Format = "console"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "sentinel"
	}
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = 1.0
	}

	return nil
}
