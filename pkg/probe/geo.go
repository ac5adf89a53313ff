package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/prosecnetworks/sentinel/internal/httpclient"
	"github.com/prosecnetworks/sentinel/pkg/types"
)

// providerTimeout bounds one geolocation provider attempt; the chain as a
// whole is additionally bounded by the asset context.
const providerTimeout = 10 * time.Second

// geoProvider is one strategy in the geolocation fallback chain: a name
// for logging, a host for pacing, and a lookup that either fills a
// GeoRecord or reports failure.
type geoProvider struct {
	name   string
	host   string
	lookup func(ctx context.Context, session *httpclient.Session, baseURL, ip string) (types.GeoRecord, error)
	base   string
}

// defaultGeoProviders returns the ordered provider chain. Providers are
// tried strictly in sequence, never in parallel, so a scan issues at most
// one lookup per asset at a time.
func defaultGeoProviders() []geoProvider {
	return []geoProvider{
		{
			name:   "ip-api.com",
			host:   "ip-api.com",
			base:   "http://ip-api.com",
			lookup: lookupIPAPI,
		},
		{
			name:   "ipapi.co",
			host:   "ipapi.co",
			base:   "https://ipapi.co",
			lookup: lookupIPAPICo,
		},
	}
}

// lookupIPAPI queries ip-api.com. Its payload carries an explicit status
// field; anything but "success" counts as provider failure.
func lookupIPAPI(ctx context.Context, session *httpclient.Session, baseURL, ip string) (types.GeoRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	resp, err := session.Get(ctx, fmt.Sprintf("%s/json/%s", baseURL, ip))
	if err != nil {
		return types.GeoRecord{}, err
	}
	defer httpclient.CloseBody(resp)

	if resp.StatusCode != 200 {
		return types.GeoRecord{}, fmt.Errorf("ip-api.com returned status %d", resp.StatusCode)
	}

	var payload struct {
		Status   string  `json:"status"`
		Lat      float64 `json:"lat"`
		Lon      float64 `json:"lon"`
		Country  string  `json:"country"`
		City     string  `json:"city"`
		ISP      string  `json:"isp"`
		Timezone string  `json:"timezone"`
	}
	if err := decodeJSON(resp.Body, &payload); err != nil {
		return types.GeoRecord{}, err
	}
	if payload.Status != "success" {
		return types.GeoRecord{}, fmt.Errorf("ip-api.com status %q for %s", payload.Status, ip)
	}

	return types.GeoRecord{
		IP:        ip,
		Latitude:  payload.Lat,
		Longitude: payload.Lon,
		Country:   orUnknown(payload.Country),
		City:      orUnknown(payload.City),
		ISP:       orUnknown(payload.ISP),
		Timezone:  orUnknown(payload.Timezone),
		Resolved:  true,
	}, nil
}

// lookupIPAPICo queries ipapi.co, which uses a different schema
// (latitude/longitude/country_name/org) and signals failure via an error
// flag instead of a status string.
func lookupIPAPICo(ctx context.Context, session *httpclient.Session, baseURL, ip string) (types.GeoRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	resp, err := session.Get(ctx, fmt.Sprintf("%s/%s/json/", baseURL, ip))
	if err != nil {
		return types.GeoRecord{}, err
	}
	defer httpclient.CloseBody(resp)

	if resp.StatusCode != 200 {
		return types.GeoRecord{}, fmt.Errorf("ipapi.co returned status %d", resp.StatusCode)
	}

	var payload struct {
		Error       bool    `json:"error"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		CountryName string  `json:"country_name"`
		City        string  `json:"city"`
		Org         string  `json:"org"`
		Timezone    string  `json:"timezone"`
	}
	if err := decodeJSON(resp.Body, &payload); err != nil {
		return types.GeoRecord{}, err
	}
	if payload.Error {
		return types.GeoRecord{}, fmt.Errorf("ipapi.co reported lookup error for %s", ip)
	}

	return types.GeoRecord{
		IP:        ip,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		Country:   orUnknown(payload.CountryName),
		City:      orUnknown(payload.City),
		ISP:       orUnknown(payload.Org),
		Timezone:  orUnknown(payload.Timezone),
		Resolved:  true,
	}, nil
}

func decodeJSON(body io.Reader, v interface{}) error {
	data, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed provider payload: %w", err)
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
