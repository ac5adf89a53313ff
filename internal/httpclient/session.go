// Package httpclient provides the per-scan HTTP session used by all
// outbound probes.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// SessionConfig configures a scan session's HTTP client.
type SessionConfig struct {
	Timeout time.Duration

	// MaxConnsPerHost caps concurrent connections to any single host so a
	// scan never resembles abusive traffic to the target domain or a
	// lookup provider.
	MaxConnsPerHost int
	MaxIdleConns    int
	FollowRedirects bool
	MaxRedirects    int
}

// DefaultConfig returns the session defaults used by audits.
func DefaultConfig() SessionConfig {
	return SessionConfig{
		Timeout:         30 * time.Second,
		MaxConnsPerHost: 5,
		MaxIdleConns:    10,
		FollowRedirects: true,
		MaxRedirects:    5,
	}
}

// Session is the scoped network resource of one scan: acquired at scan
// start, closed on every exit path.
type Session struct {
	client    *http.Client
	transport *http.Transport
}

// NewSession builds a Session with a pooled, context-aware transport.
func NewSession(cfg SessionConfig) *Session {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			var dialer net.Dialer
			return dialer.DialContext(ctx, network, addr)
		},
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}

	if !cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if cfg.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		}
	}

	return &Session{client: client, transport: transport}
}

// Client returns the session's HTTP client.
func (s *Session) Client() *http.Client {
	return s.client
}

// Close releases pooled connections. Safe to call on every exit path,
// including after cancellation.
func (s *Session) Close() {
	s.transport.CloseIdleConnections()
}

// Get performs a GET with the session client under ctx. Callers close
// the body via CloseBody.
func (s *Session) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, err
	}
	return resp, nil
}

// CloseBody drains and closes a response body so the underlying
// connection can be reused. Unclosed bodies leak pool connections.
func CloseBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
