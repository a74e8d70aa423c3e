package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Provider is one upstream music catalog.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Track, error)
	Track(ctx context.Context, nativeID string) (Track, error)
	// Chart returns the provider's current top tracks. Providers without a
	// chart endpoint return an empty slice.
	Chart(ctx context.Context, limit int) ([]Track, error)
}

// ClientOptions tune the HTTP behaviour shared by all providers.
type ClientOptions struct {
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	HTTP      *http.Client
}

// client is the JSON-over-HTTP plumbing embedded by every provider.
type client struct {
	name    string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func newClient(name, baseURL string, opts ClientOptions) client {
	hc := opts.HTTP
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	var lim *rate.Limiter
	if opts.RateLimit > 0 {
		lim = rate.NewLimiter(rate.Limit(opts.RateLimit), int(opts.RateLimit)+1)
	}
	return client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		limiter: lim,
	}
}

func (c client) Name() string { return c.name }

// getJSON issues a GET against baseURL+path and decodes the body into out.
// Every failure is wrapped in ErrProviderFailure, except a 404 which maps to
// ErrTrackNotFound.
func (c client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	return c.doJSON(ctx, path, q, nil, out)
}

func (c client) doJSON(ctx context.Context, path string, q url.Values, header http.Header, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			providerRequests.WithLabelValues(c.name, "throttled").Inc()
			return fmt.Errorf("%w: %s: %v", ErrProviderFailure, c.name, err)
		}
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrProviderFailure, c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	timer := prometheus.NewTimer(providerDuration.WithLabelValues(c.name))
	resp, err := c.http.Do(req)
	timer.ObserveDuration()
	if err != nil {
		providerRequests.WithLabelValues(c.name, "error").Inc()
		return fmt.Errorf("%w: %s: %v", ErrProviderFailure, c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		providerRequests.WithLabelValues(c.name, "not_found").Inc()
		return fmt.Errorf("%w: %s", ErrTrackNotFound, c.name)
	}
	if resp.StatusCode != http.StatusOK {
		providerRequests.WithLabelValues(c.name, "error").Inc()
		return fmt.Errorf("%w: %s: status %d", ErrProviderFailure, c.name, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		providerRequests.WithLabelValues(c.name, "malformed").Inc()
		return fmt.Errorf("%w: %s: decode: %v", ErrProviderFailure, c.name, err)
	}
	providerRequests.WithLabelValues(c.name, "ok").Inc()
	return nil
}
