// Package geocode resolves place names to coordinates via a Nominatim-style
// search service.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/schlagwetter/internal/model"
)

// DefaultURLTemplate is the OpenStreetMap Nominatim search endpoint. The
// place name replaces {location}.
const DefaultURLTemplate = "https://nominatim.openstreetmap.org/search/'{location}'"

const placeholder = "{location}"

// Client geocodes place names.
type Client interface {
	// Geocode looks up a single place name. A miss (non-200 status or no
	// results) is not an error; transport and decoding failures are.
	Geocode(ctx context.Context, location string) (*Result, error)
}

// Result holds the lookup output for a place name.
type Result struct {
	Location   string
	Coordinate *model.Coordinate
	StatusCode int
	Matched    bool
}

// searchResult is one entry of the service's JSON array.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithURLTemplate sets the search URL. It must contain {location}.
func WithURLTemplate(tmpl string) Option {
	return func(g *geocoder) {
		if tmpl != "" {
			g.urlTemplate = tmpl
		}
	}
}

// WithUserAgent sets the User-Agent header. Nominatim rejects requests
// without an identifying agent.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		if ua != "" {
			g.userAgent = ua
		}
	}
}

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *geocoder) {
		g.httpClient.Timeout = d
	}
}

type geocoder struct {
	httpClient  *http.Client
	urlTemplate string
	userAgent   string
}

// NewClient creates a new geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient:  &http.Client{},
		urlTemplate: DefaultURLTemplate,
		userAgent:   "schlagwetter/1.0",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// searchURL interpolates location into the path and asks for JSON.
func (g *geocoder) searchURL(location string) string {
	u := strings.ReplaceAll(g.urlTemplate, placeholder, url.PathEscape(location))
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + url.Values{"format": {"json"}}.Encode()
}

// Geocode implements Client.
func (g *geocoder) Geocode(ctx context.Context, location string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.searchURL(location), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "geocode: request %q", location)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Result{Location: location, StatusCode: resp.StatusCode}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read body")
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, eris.Wrapf(err, "geocode: parse response for %q", location)
	}

	if len(results) == 0 {
		return &Result{Location: location, StatusCode: resp.StatusCode}, nil
	}

	first := results[0]
	return &Result{
		Location:   location,
		Coordinate: &model.Coordinate{Lat: first.Lat, Lon: first.Lon},
		StatusCode: resp.StatusCode,
		Matched:    true,
	}, nil
}
