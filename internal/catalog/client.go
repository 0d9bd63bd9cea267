package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/echozyr2001/BrewDeck/internal/errdefs"
	"github.com/echozyr2001/BrewDeck/internal/logging"
)

// DefaultBaseURL is the public formulae.brew.sh API root.
const DefaultBaseURL = "https://formulae.brew.sh/api"

// requestTimeout bounds every catalog request.
const requestTimeout = 30 * time.Second

const userAgent = "BrewDeck/1.0"

// Client fetches and decodes the remote package catalog. It is stateless
// apart from its HTTP client and safe for concurrent use. Failures are
// classified through errdefs so the resilience layer can tell transient
// network trouble from malformed data.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a catalog client. An empty baseURL selects the public
// API; tests point it at an httptest server.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		log:     logging.ComponentLogger(logger, "catalog"),
	}
}

// SetTimeout overrides the per-request timeout. Call before first use.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

// FetchAll returns every catalog record of the given kind.
func (c *Client) FetchAll(ctx context.Context, kind Kind) ([]Record, error) {
	var records []Record
	if err := c.fetchJSON(ctx, fmt.Sprintf("%s/%s.json", c.baseURL, kind), &records); err != nil {
		return nil, err
	}

	c.log.Debug().
		Ctx(ctx).
		Str("kind", string(kind)).
		Int("records", len(records)).
		Msg("fetched full catalog listing")
	return records, nil
}

// FetchOne returns the record for a single named package. A 404 maps to a
// NotFound error, distinct from network failure, because a missing package
// is not worth retrying.
func (c *Client) FetchOne(ctx context.Context, name string, kind Kind) (Record, error) {
	var record Record
	url := fmt.Sprintf("%s/%s/%s.json", c.baseURL, kind, name)
	if err := c.fetchJSON(ctx, url, &record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// Ping checks catalog reachability with a single cheap request. Used by the
// doctor command, not the data path.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/formula/wget.json", c.baseURL), nil)
	if err != nil {
		return errdefs.Networkf("building catalog request: %v", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp.StatusCode, "ping")
	}
	return nil
}

// fetchJSON performs one GET and decodes the body into out.
func (c *Client) fetchJSON(ctx context.Context, url string, out any) error {
	c.log.Debug().Ctx(ctx).Str("url", url).Msg("fetching from catalog API")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errdefs.Networkf("building catalog request: %v", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return classifyStatus(resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errdefs.Parsingf("decoding catalog response from %s: %v", url, err)
	}
	return nil
}

// classifyTransportError maps a transport-level failure onto the error
// taxonomy: deadline expiry is a Timeout, everything else a network failure.
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return errdefs.Timeoutf("catalog request timed out: %v", err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errdefs.Timeoutf("catalog request timed out: %v", err)
	}
	return errdefs.Networkf("catalog request failed: %v", err)
}

// classifyStatus maps a non-200 response onto the error taxonomy. 429 is
// kept distinct so callers can back off longer.
func classifyStatus(status int, url string) error {
	switch {
	case status == http.StatusNotFound:
		return errdefs.NotFoundf("catalog has no entry at %s", url)
	case status == http.StatusTooManyRequests:
		return errdefs.RateLimitedf("catalog rate limited request to %s", url)
	default:
		return errdefs.Networkf("catalog request to %s returned status %d", url, status)
	}
}
