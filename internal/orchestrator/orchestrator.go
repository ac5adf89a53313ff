// Package orchestrator runs the audit: discovery once, then the
// per-asset analysis pipeline fanned out over a bounded worker pool.
package orchestrator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/prosecnetworks/sentinel/internal/config"
	"github.com/prosecnetworks/sentinel/internal/httpclient"
	"github.com/prosecnetworks/sentinel/internal/logger"
	"github.com/prosecnetworks/sentinel/internal/ratelimit"
	"github.com/prosecnetworks/sentinel/internal/telemetry"
	"github.com/prosecnetworks/sentinel/pkg/discovery"
	"github.com/prosecnetworks/sentinel/pkg/discovery/certlogs"
	"github.com/prosecnetworks/sentinel/pkg/probe"
	"github.com/prosecnetworks/sentinel/pkg/quantum"
	"github.com/prosecnetworks/sentinel/pkg/risk"
	"github.com/prosecnetworks/sentinel/pkg/types"
)

// Orchestrator is the audit entry point. One Orchestrator may run many
// audits; each audit acquires and releases its own network session.
type Orchestrator struct {
	logger    *logger.Logger
	telemetry telemetry.Telemetry
	params    quantum.Params

	// newProber and newRegistry are swappable seams for tests.
	newProber   func(*httpclient.Session, *ratelimit.Limiter, *logger.Logger, telemetry.Telemetry) assetProber
	newRegistry func(*httpclient.Session, *ratelimit.Limiter, *logger.Logger) assetSource
}

type assetProber interface {
	Probe(ctx context.Context, hostname string, cfg config.ScanConfig) (types.GeoRecord, types.TLSRecord)
}

type assetSource interface {
	Discover(ctx context.Context, domain string, cfg config.ScanConfig) ([]string, error)
}

// New creates an orchestrator with the default probe and discovery
// wiring.
func New(log *logger.Logger, tel telemetry.Telemetry) *Orchestrator {
	return &Orchestrator{
		logger:    log.WithComponent("orchestrator"),
		telemetry: tel,
		params:    quantum.DefaultParams(),
		newProber: func(s *httpclient.Session, l *ratelimit.Limiter, log *logger.Logger, tel telemetry.Telemetry) assetProber {
			return probe.NewProber(s, l, log, tel)
		},
		newRegistry: func(s *httpclient.Session, l *ratelimit.Limiter, log *logger.Logger) assetSource {
			return discovery.NewRegistry(certlogs.NewClient(s, l, log), log)
		},
	}
}

// WithQuantumParams overrides the assessment table for this orchestrator.
func (o *Orchestrator) WithQuantumParams(params quantum.Params) *Orchestrator {
	o.params = params
	return o
}

// RunAudit is the sole entry point of the core: discover the domain's
// assets, analyze each concurrently, and return the report table sorted
// by hostname. The audit never fails because one asset failed; it fails
// only on invalid configuration or scan-level cancellation.
func (o *Orchestrator) RunAudit(ctx context.Context, domain string, cfg config.ScanConfig) ([]types.AssetReport, error) {
	start := time.Now()

	// Fatal configuration errors surface before any network activity.
	domain, err := config.NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scanID := uuid.New().String()
	log := o.logger.WithScanID(scanID).WithTarget(domain)

	ctx, span := o.telemetry.Tracer().Start(ctx, "audit.run")
	defer span.End()

	// The session is the scan's scoped network resource: one connection
	// pool, capped per host, released on every exit path.
	sessionCfg := httpclient.DefaultConfig()
	sessionCfg.Timeout = cfg.Timeout
	session := httpclient.NewSession(sessionCfg)
	defer session.Close()

	limiterCfg := ratelimit.DefaultConfig()
	limiterCfg.RequestDelay = cfg.RequestDelay
	limiter := ratelimit.NewLimiter(limiterCfg)

	registry := o.newRegistry(session, limiter, log)
	hostnames, err := registry.Discover(ctx, domain, cfg)
	if err != nil {
		return nil, err
	}

	log.Infow("Starting asset analysis",
		"mode", cfg.Mode,
		"assets", len(hostnames),
		"workers", cfg.Workers)

	prober := o.newProber(session, limiter, log, o.telemetry)
	assessor := quantum.NewAssessor(o.params)

	var mu sync.Mutex
	reports := make([]types.AssetReport, 0, len(hostnames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, hostname := range hostnames {
		hostname := hostname
		g.Go(func() error {
			// Each asset gets its own cancellable budget so a stalled
			// probe bounds that asset, not the scan.
			assetCtx, cancel := context.WithTimeout(gctx, cfg.Timeout)
			defer cancel()

			report := o.analyzeAsset(assetCtx, hostname, cfg, prober, assessor, scanID)

			// A scan-level cancellation drops the asset entirely rather
			// than emitting a half-populated report.
			if gctx.Err() != nil {
				return nil
			}

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()

			o.telemetry.RecordAssetReport(report.RiskLevel)
			return nil
		})
	}

	// Workers return nil errors; Wait only surfaces group cancellation.
	_ = g.Wait()

	if ctx.Err() != nil {
		log.Warnw("Audit cancelled", "completed_assets", len(reports))
		o.telemetry.RecordAudit(cfg.Mode, time.Since(start).Seconds(), len(reports), false)
		return nil, ctx.Err()
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Asset.Hostname < reports[j].Asset.Hostname
	})

	log.LogDuration(ctx, "audit.run", start,
		"assets", len(reports),
		"mode", cfg.Mode)
	o.telemetry.RecordAudit(cfg.Mode, time.Since(start).Seconds(), len(reports), true)

	return reports, nil
}

// analyzeAsset runs the full per-asset pipeline: probe, assess,
// recommend, score. It never fails; probe failures arrive as sentinel
// records and flow into the score.
func (o *Orchestrator) analyzeAsset(ctx context.Context, hostname string, cfg config.ScanConfig, prober assetProber, assessor *quantum.Assessor, scanID string) types.AssetReport {
	asset := types.NewAsset(hostname)

	geo, tlsRec := prober.Probe(ctx, hostname, cfg)

	var assessment types.QuantumAssessment
	if cfg.EnableQuantum {
		// Live cipher analysis is out of scope: the assessment uses the
		// configured assumed deployment, and says so.
		assessment = assessor.Assess(cfg.AssumedCrypto, cfg.AssumedKeySize, time.Now().Year())
		assessment.Assumed = true
	} else {
		assessment = types.QuantumAssessment{
			ThreatAlgorithm: types.ThreatNone,
			QuantumSpeedup:  "None",
		}
	}

	recommendation := quantum.Recommend(asset.Criticality)

	report := risk.Score(asset, geo, tlsRec, assessment, recommendation, cfg)
	report.ScanID = scanID
	return report
}
