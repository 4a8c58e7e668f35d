// Package earthengine talks to an Earth Engine compute gateway: a thin
// service that exposes catalog reductions as plain JSON over HTTP.
package earthengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"sundarban-extract/internal/extract"
	"sundarban-extract/internal/region"
)

// Options configure the gateway client.
type Options struct {
	// BaseURL of the compute gateway.
	BaseURL string

	// AccessToken is a static bearer token, used when no token URL is
	// configured.
	AccessToken string

	// TokenURL switches the client to the OAuth2 client-credentials flow;
	// tokens are fetched and refreshed automatically.
	TokenURL     string
	ClientID     string
	ClientSecret string

	// Timeout bounds each gateway call. Zero means no timeout: a compute
	// call then blocks until the gateway answers or the context is
	// cancelled.
	Timeout time.Duration
}

// Client is the gateway-backed implementation of extract.Catalog.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

// NewClient returns a Client for the gateway at opts.BaseURL.
func NewClient(opts Options, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	if opts.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = cc.Client(ctx)
		httpClient.Timeout = opts.Timeout
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.AccessToken,
		http:    httpClient,
		log:     log,
	}
}

// Authenticate verifies the session against the gateway's health endpoint.
// Call it once per process before selecting data.
func (c *Client) Authenticate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway health check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway health check: %s", resp.Status)
	}

	c.log.Debug("authenticated with earth engine gateway", "base_url", c.baseURL)
	return nil
}

// computeMean posts one temporal-mean, spatial-mean reduction and returns
// the per-band values. Bands the gateway reports as null are dropped.
func (c *Client) computeMean(ctx context.Context, q query, r region.Region, scaleMeters, maxPixels float64) (extract.BandValues, error) {
	payload := computeRequest{
		Collection: computeCollection{
			ID:         q.dataset,
			Bands:      q.bands,
			DateRanges: q.dateRanges,
			Bounds:     q.bounds,
		},
		Composite:   "mean",
		Reducer:     "mean",
		Geometry:    r.GeoJSON(),
		ScaleMeters: scaleMeters,
		MaxPixels:   maxPixels,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal compute request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/value:compute", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build compute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	c.log.Debug("gateway compute", "dataset", q.dataset, "ranges", len(q.dateRanges))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway compute call: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read compute response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("gateway non-2xx: %s, body: %s", resp.Status, snippet(data))
	}

	var out computeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode compute response: %w", err)
	}

	values := make(extract.BandValues, len(out.Values))
	for band, v := range out.Values {
		if v == nil {
			continue
		}
		values[band] = *v
	}
	return values, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// snippet trims a response body for error messages.
func snippet(body []byte) string {
	const maxLen = 200
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

type computeRequest struct {
	Collection  computeCollection `json:"collection"`
	Composite   string            `json:"composite"`
	Reducer     string            `json:"reducer"`
	Geometry    *geojson.Geometry `json:"geometry"`
	ScaleMeters float64           `json:"scaleMeters"`
	MaxPixels   float64           `json:"maxPixels"`
}

type computeCollection struct {
	ID         string            `json:"id"`
	Bands      []string          `json:"bands,omitempty"`
	DateRanges []dateRange       `json:"dateRanges,omitempty"`
	Bounds     *geojson.Geometry `json:"bounds,omitempty"`
}

type dateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type computeResponse struct {
	Values map[string]*float64 `json:"values"`
}
