// Package certlogs queries Certificate Transparency logs for hostnames
// issued under a domain.
package certlogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/prosecnetworks/sentinel/internal/httpclient"
	"github.com/prosecnetworks/sentinel/internal/logger"
	"github.com/prosecnetworks/sentinel/internal/ratelimit"
)

// maxEntries bounds how many CT entries one response may contribute.
// crt.sh can return tens of thousands of rows for large domains.
const maxEntries = 100

// Client queries crt.sh, which aggregates multiple CT logs behind one
// JSON API.
type Client struct {
	session *httpclient.Session
	limiter *ratelimit.Limiter
	logger  *logger.Logger
	baseURL string
}

// NewClient creates a CT log client on the scan session.
func NewClient(session *httpclient.Session, limiter *ratelimit.Limiter, log *logger.Logger) *Client {
	return &Client{
		session: session,
		limiter: limiter,
		logger:  log.WithComponent("certlogs"),
		baseURL: "https://crt.sh",
	}
}

// WithBaseURL overrides the crt.sh endpoint. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// entry is the subset of a crt.sh row we consume. The feed is untrusted;
// anything beyond name_value is ignored and rows that fail to decode are
// dropped, not fatal.
type entry struct {
	NameValue string `json:"name_value"`
}

// DiscoverSubdomains returns hostnames under domain found in CT logs.
// Entries are lowercased, wildcard prefixes stripped, multi-name rows
// split, and names not containing the domain discarded.
func (c *Client) DiscoverSubdomains(ctx context.Context, domain string) ([]string, error) {
	if err := c.limiter.WaitForHost(ctx, "crt.sh"); err != nil {
		return nil, err
	}

	apiURL := fmt.Sprintf("%s/?q=%s&output=json", c.baseURL, url.QueryEscape("%."+domain))

	resp, err := c.session.Get(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("crt.sh query failed: %w", err)
	}
	defer httpclient.CloseBody(resp)

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("crt.sh returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read crt.sh response: %w", err)
	}

	var entries []entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse crt.sh response: %w", err)
	}

	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}

	seen := make(map[string]bool)
	var subdomains []string
	for _, e := range entries {
		// name_value packs SANs as newline-separated names, possibly
		// wildcarded.
		for _, name := range strings.Split(strings.ToLower(e.NameValue), "\n") {
			name = strings.TrimPrefix(strings.TrimSpace(name), "*.")
			if name == "" || !strings.Contains(name, domain) {
				continue
			}
			if strings.ContainsAny(name, " @") {
				continue
			}
			if !seen[name] {
				seen[name] = true
				subdomains = append(subdomains, name)
			}
		}
	}

	c.logger.Debugw("CT log search completed",
		"domain", domain,
		"entries", len(entries),
		"unique_names", len(subdomains))

	return subdomains, nil
}
