package certlogs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosecnetworks/sentinel/internal/config"
	"github.com/prosecnetworks/sentinel/internal/httpclient"
	"github.com/prosecnetworks/sentinel/internal/logger"
	"github.com/prosecnetworks/sentinel/internal/ratelimit"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := httpclient.NewSession(httpclient.DefaultConfig())
	t.Cleanup(session.Close)

	log, err := logger.New(config.LoggerConfig{Level: "error", Format: "json"})
	require.NoError(t, err)

	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	return NewClient(session, limiter, log).WithBaseURL(server.URL)
}

func TestDiscoverSubdomains(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "%.example.com", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("output"))
		w.Write([]byte(`[
			{"name_value": "vault.example.com"},
			{"name_value": "*.api.example.com"},
			{"name_value": "WWW.Example.com\nmail.example.com"},
			{"name_value": "vault.example.com"},
			{"name_value": "unrelated.other.org"},
			{"name_value": "admin @example.com"}
		]`))
	})

	names, err := client.DiscoverSubdomains(context.Background(), "example.com")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"vault.example.com",
		"api.example.com",
		"www.example.com",
		"mail.example.com",
	}, names)
}

func TestDiscoverSubdomainsBoundsEntries(t *testing.T) {
	// 500 distinct rows; only the first 100 may contribute.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rows := make([]string, 500)
		for i := range rows {
			rows[i] = fmt.Sprintf(`{"name_value": "host%03d.example.com"}`, i)
		}
		w.Write([]byte("[" + strings.Join(rows, ",") + "]"))
	})

	names, err := client.DiscoverSubdomains(context.Background(), "example.com")
	require.NoError(t, err)

	assert.Len(t, names, 100)
}

func TestDiscoverSubdomainsServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.DiscoverSubdomains(context.Background(), "example.com")
	assert.ErrorContains(t, err, "status 503")
}

func TestDiscoverSubdomainsMalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>rate limited</html>`))
	})

	_, err := client.DiscoverSubdomains(context.Background(), "example.com")
	assert.Error(t, err)
}
