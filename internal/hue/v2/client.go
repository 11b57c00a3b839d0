package v2

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ResourceClient performs requests against CLIP v2 resource paths and
// returns the raw response body. It does not retry and does not interpret
// the envelope's errors list.
type ResourceClient interface {
	SendRequest(ctx context.Context, method, path string) ([]byte, error)
}

// StatusError is returned when the bridge answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hue bridge %s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client provides access to Hue V2 API (CLIP API).
// This client is HTTP-only with no caching - pure transport layer.
type Client struct {
	address    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new V2 API client.
// The httpClient should have TLS verification disabled for Hue bridge's self-signed cert.
// A rateLimitRPS of zero or less disables request throttling.
func NewClient(address, token string, httpClient *http.Client, rateLimitRPS float64) *Client {
	var limiter *rate.Limiter
	if rateLimitRPS > 0 {
		burst := int(rateLimitRPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rateLimitRPS), burst)
	}

	return &Client{
		address:    address,
		token:      token,
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// NewHTTPClient creates an HTTP client that ignores TLS verification
// (Hue bridge uses self-signed cert).
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Address returns the bridge address
func (c *Client) Address() string {
	return c.address
}

// Close closes idle connections
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Connect tests connectivity to the V2 API
func (c *Client) Connect(ctx context.Context) error {
	if _, err := c.SendRequest(ctx, http.MethodGet, "resource"); err != nil {
		return fmt.Errorf("failed to connect to Hue bridge V2 API: %w", err)
	}
	return nil
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("https://%s/clip/v2/%s", c.address, path)
}

// Request performs an HTTP request to the V2 API
func (c *Client) Request(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("hue-application-key", c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

// SendRequest performs a body-less request and returns the response body.
// Non-2xx responses are returned as *StatusError.
func (c *Client) SendRequest(ctx context.Context, method, path string) ([]byte, error) {
	resp, err := c.Request(ctx, method, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("bytes", len(body)).
		Msg("Hue request completed")

	return body, nil
}

// Fetch GETs a resource path and decodes its envelope.
func Fetch[T any](ctx context.Context, rc ResourceClient, path string) (*Envelope[T], error) {
	body, err := rc.SendRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var env Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &env, nil
}

// CollectionPath returns the path of a resource collection, e.g. "resource/room".
func CollectionPath(t ResourceType) string {
	return "resource/" + string(t)
}

// ResourcePath returns the path of a single resource, e.g. "resource/room/<id>".
func ResourcePath(t ResourceType, id string) string {
	return fmt.Sprintf("resource/%s/%s", t, id)
}
