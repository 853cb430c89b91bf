// Package swapi is the transport collaborator for the SWAPI planets
// endpoints. It performs the HTTP calls and decodes the wire shape; it
// does no normalization.
package swapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public SWAPI endpoint.
const DefaultBaseURL = "https://swapi.dev/api/"

const maxErrorBody = 512

// Service is the contract the repository depends on.
type Service interface {
	GetPlanets(ctx context.Context, page int) (PlanetPage, error)
	GetPlanet(ctx context.Context, id int) (PlanetDTO, error)
}

// Observer receives one callback per completed HTTP call.
type Observer interface {
	ObserveRequest(endpoint string, d time.Duration, err error)
}

// Client is an HTTP implementation of Service. It is safe for concurrent
// use and is meant to be shared process-wide.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	observer   Observer

	timeout    time.Duration
	timeoutSet bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.timeoutSet = true
	}
}

// WithRateLimit caps outbound requests per second. Zero or less disables
// limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithObserver registers an observer for request outcomes.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient creates a Client for the given base URL. An empty base URL
// selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		userAgent:  "planetexplorer",
	}
	for _, opt := range opts {
		opt(c)
	}
	// Apply the timeout to a copy so a caller-supplied client is never mutated.
	if c.timeoutSet {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// GetPlanets fetches one page of planets. Pages are 1-indexed.
func (c *Client) GetPlanets(ctx context.Context, page int) (PlanetPage, error) {
	ref := &url.URL{Path: "planets/", RawQuery: url.Values{"page": {strconv.Itoa(page)}}.Encode()}

	var out PlanetPage
	if err := c.getJSON(ctx, "planets", ref, &out); err != nil {
		return PlanetPage{}, err
	}
	return out, nil
}

// GetPlanet fetches a single planet by ID.
func (c *Client) GetPlanet(ctx context.Context, id int) (PlanetDTO, error) {
	ref := &url.URL{Path: "planets/" + strconv.Itoa(id) + "/"}

	var out PlanetDTO
	if err := c.getJSON(ctx, "planet", ref, &out); err != nil {
		return PlanetDTO{}, err
	}
	return out, nil
}

// Ping checks that the API root is reachable.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, "root", c.baseURL)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, ref *url.URL, v interface{}) error {
	resp, err := c.do(ctx, endpoint, c.baseURL.ResolveReference(ref))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// do performs a GET and returns the response only for 2xx status codes.
func (c *Client) do(ctx context.Context, endpoint string, u *url.URL) (resp *http.Response, err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveRequest(endpoint, time.Since(start), err)
		}
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err = c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request to %s: %w", u, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			URL:        u.String(),
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return resp, nil
}
