// Package probe performs the per-asset network probes: DNS resolution,
// geolocation lookup with provider fallback, and TLS posture inspection.
// Probe failures are converted to sentinel records at this boundary and
// never propagate as errors.
package probe

import (
	"context"

	"github.com/prosecnetworks/sentinel/internal/config"
	"github.com/prosecnetworks/sentinel/internal/httpclient"
	"github.com/prosecnetworks/sentinel/internal/logger"
	"github.com/prosecnetworks/sentinel/internal/ratelimit"
	"github.com/prosecnetworks/sentinel/internal/telemetry"
	"github.com/prosecnetworks/sentinel/pkg/types"
)

// Prober runs the network probes for one asset at a time. It is safe for
// concurrent use across assets; all shared state lives in the session's
// connection pool.
type Prober struct {
	resolver  *Resolver
	session   *httpclient.Session
	limiter   *ratelimit.Limiter
	providers []geoProvider
	logger    *logger.Logger
	telemetry telemetry.Telemetry
}

// NewProber creates a prober on the scan session.
func NewProber(session *httpclient.Session, limiter *ratelimit.Limiter, log *logger.Logger, tel telemetry.Telemetry) *Prober {
	return &Prober{
		resolver:  NewResolver(),
		session:   session,
		limiter:   limiter,
		providers: defaultGeoProviders(),
		logger:    log.WithComponent("probe"),
		telemetry: tel,
	}
}

// WithResolver overrides the DNS resolver. Used by tests.
func (p *Prober) WithResolver(r *Resolver) *Prober {
	p.resolver = r
	return p
}

// WithGeoProviders overrides the geolocation chain. Used by tests.
func (p *Prober) WithGeoProviders(providers []geoProvider) *Prober {
	p.providers = providers
	return p
}

// TestProvider builds a geoProvider for a test server. Only the ip-api
// and ipapi.co decoders exist; pick with primary.
func TestProvider(name, baseURL string, primary bool) geoProvider {
	fn := lookupIPAPICo
	if primary {
		fn = lookupIPAPI
	}
	return geoProvider{name: name, host: name, base: baseURL, lookup: fn}
}

// Probe resolves and inspects one hostname. A DNS miss short-circuits to
// sentinel records: an unresolvable host gets no further outbound
// traffic.
func (p *Prober) Probe(ctx context.Context, hostname string, cfg config.ScanConfig) (types.GeoRecord, types.TLSRecord) {
	if err := p.limiter.WaitForHost(ctx, hostname); err != nil {
		return types.UnknownGeo(), types.FailedTLS()
	}

	ip, err := p.resolver.ResolveA(ctx, hostname)
	if err != nil {
		p.logger.LogProbeFailure(ctx, "dns", hostname, err)
		p.telemetry.RecordProbeFailure("dns")
		return types.UnknownGeo(), types.FailedTLS()
	}

	geo := p.lookupGeo(ctx, hostname, ip, cfg)

	tlsRecord := types.FailedTLS()
	if cfg.EnableTLSCheck {
		if err := p.limiter.WaitForHost(ctx, hostname); err != nil {
			return geo, tlsRecord
		}
		tlsRecord = CheckTLS(ctx, hostname)
		if !tlsRecord.Valid {
			p.telemetry.RecordProbeFailure("tls")
		}
	}

	return geo, tlsRecord
}

// lookupGeo walks the provider chain strictly in sequence. Both providers
// failing yields the sentinel record with the resolved IP retained.
func (p *Prober) lookupGeo(ctx context.Context, hostname, ip string, cfg config.ScanConfig) types.GeoRecord {
	if !cfg.EnableGeo {
		// Lookup skipped, not failed: keep the IP and report resolved so
		// the aggregator does not penalize a disabled stage.
		geo := types.UnknownGeo()
		geo.IP = ip
		geo.Resolved = true
		return geo
	}

	for _, provider := range p.providers {
		if ctx.Err() != nil {
			break
		}
		if err := p.limiter.WaitForHost(ctx, provider.host); err != nil {
			break
		}

		geo, err := provider.lookup(ctx, p.session, provider.base, ip)
		if err != nil {
			p.logger.LogProbeFailure(ctx, "geo/"+provider.name, hostname, err)
			p.telemetry.RecordProbeFailure("geo")
			continue
		}
		return geo
	}

	geo := types.UnknownGeo()
	geo.IP = ip
	return geo
}
