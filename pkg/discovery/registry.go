// Package discovery assembles the candidate asset set for a scan from
// its configured subdomain sources.
package discovery

import (
	"context"
	"sort"
	"strings"

	"github.com/prosecnetworks/sentinel/internal/config"
	"github.com/prosecnetworks/sentinel/internal/logger"
	"github.com/prosecnetworks/sentinel/pkg/types"
)

// CTSource is the certificate-transparency lookup consumed by the
// registry. Implemented by certlogs.Client.
type CTSource interface {
	DiscoverSubdomains(ctx context.Context, domain string) ([]string, error)
}

// Registry produces candidate hostnames from the configured sources. It
// holds no network state of its own; the CT source carries the session.
type Registry struct {
	ct     CTSource
	logger *logger.Logger
}

// NewRegistry creates a source registry.
func NewRegistry(ct CTSource, log *logger.Logger) *Registry {
	return &Registry{
		ct:     ct,
		logger: log.WithComponent("discovery"),
	}
}

// Discover returns the deduplicated, lexicographically sorted candidate
// set for domain, truncated to cfg.MaxAssets. The root domain is always
// present. CT failure degrades to the remaining sources; it is one
// signal, not a dependency.
func (r *Registry) Discover(ctx context.Context, domain string, cfg config.ScanConfig) ([]string, error) {
	seen := map[string]bool{domain: true}

	for _, source := range cfg.Sources {
		switch source {
		case types.SourceCTLog:
			names, err := r.ct.DiscoverSubdomains(ctx, domain)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				r.logger.Warnw("CT log source failed, continuing with remaining sources",
					"domain", domain, "error", err)
				continue
			}
			for _, name := range names {
				seen[name] = true
			}
		case types.SourceWordlistCommon:
			for _, name := range CommonWordlist(domain) {
				seen[name] = true
			}
		case types.SourceWordlistExtended:
			for _, name := range ExtendedWordlist(domain) {
				seen[name] = true
			}
		default:
			r.logger.Warnw("Unknown subdomain source skipped", "source", source)
		}
	}

	hostnames := make([]string, 0, len(seen))
	for name := range seen {
		hostnames = append(hostnames, strings.ToLower(name))
	}

	// Lexicographic order keeps truncation stable: the same domain and
	// config yield the same asset set across runs, modulo CT drift.
	sort.Strings(hostnames)

	if len(hostnames) > cfg.MaxAssets {
		hostnames = hostnames[:cfg.MaxAssets]
	}

	// Truncation must never evict the root domain.
	if !contains(hostnames, domain) {
		hostnames[len(hostnames)-1] = domain
		sort.Strings(hostnames)
	}

	r.logger.Infow("Asset discovery completed",
		"domain", domain,
		"candidates", len(seen),
		"selected", len(hostnames))

	return hostnames, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
