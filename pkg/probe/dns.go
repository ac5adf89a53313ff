package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// dnsTimeout bounds a single resolution attempt. DNS misses short-circuit
// the rest of an asset's pipeline, so the bound is tight.
const dnsTimeout = 5 * time.Second

var defaultResolvers = []string{
	"8.8.8.8:53",
	"1.1.1.1:53",
	"8.8.4.4:53",
	"1.0.0.1:53",
}

// Resolver resolves hostnames to IPv4 addresses against a fixed set of
// public resolvers, tried in order.
type Resolver struct {
	resolvers []string
	client    *dns.Client
}

// NewResolver creates a resolver with the default public resolver set.
func NewResolver() *Resolver {
	return &Resolver{
		resolvers: defaultResolvers,
		client: &dns.Client{
			Timeout: dnsTimeout,
		},
	}
}

// WithResolvers overrides the resolver addresses. Used by tests.
func (r *Resolver) WithResolvers(addrs []string) *Resolver {
	r.resolvers = addrs
	return r
}

// ResolveA returns the first A record for hostname. All resolvers failing
// is an error for the caller to convert into sentinel records.
func (r *Resolver) ResolveA(ctx context.Context, hostname string) (string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(hostname), dns.TypeA)
	msg.RecursionDesired = true

	var lastErr error
	for _, resolver := range r.resolvers {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		in, _, err := r.client.ExchangeContext(ctx, msg, resolver)
		if err != nil {
			lastErr = err
			continue
		}
		if in.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("resolver %s returned %s for %s", resolver, dns.RcodeToString[in.Rcode], hostname)
			continue
		}

		for _, ans := range in.Answer {
			if a, ok := ans.(*dns.A); ok {
				return a.A.String(), nil
			}
		}
		lastErr = fmt.Errorf("no A records for %s", hostname)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no resolvers configured")
	}
	return "", lastErr
}
