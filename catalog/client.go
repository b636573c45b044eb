package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ModelsPath is the catalog route relative to the API base URL.
const ModelsPath = "/models"

// Client issues credentialed catalog requests. The zero value is not usable;
// construct one with NewClient.
type Client struct {
	httpClient *http.Client
	origin     *url.URL
	username   string
	password   string
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A client without a
// cookie jar gets one attached so session cookies are sent.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithOrigin sets the origin used to resolve relative catalog URLs, which is
// what an empty base URL produces.
func WithOrigin(origin *url.URL) ClientOption {
	return func(c *Client) {
		c.origin = origin
	}
}

// WithBasicAuth attaches HTTP basic credentials to every request.
func WithBasicAuth(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a catalog client. No request timeout is configured: a
// hung request blocks until its context is cancelled.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.httpClient.Jar == nil {
		jar, _ := cookiejar.New(nil) // never fails with nil options
		hc := *c.httpClient
		hc.Jar = jar
		c.httpClient = &hc
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Jar returns the cookie jar holding the client's session cookies.
func (c *Client) Jar() http.CookieJar {
	return c.httpClient.Jar
}

// FetchCatalog issues GET {baseURL}/models and parses the models envelope.
// Non-2xx statuses and network failures return a *TransportError; a 2xx body
// that is not a models envelope returns a *FormatError.
func (c *Client) FetchCatalog(ctx context.Context, baseURL string) ([]Entry, error) {
	endpoint, err := c.endpoint(baseURL)
	if err != nil {
		return nil, &TransportError{Wrapped: fmt.Errorf("building catalog URL: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Wrapped: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug("fetching model catalog", zap.String("url", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Wrapped: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Wrapped: fmt.Errorf("reading catalog response: %w", err)}
	}

	entries, err := ParseEnvelope(body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("model catalog fetched", zap.Int("models", len(entries)))
	return entries, nil
}

func (c *Client) endpoint(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + ModelsPath)
	if err != nil {
		return "", err
	}
	if u.IsAbs() || c.origin == nil {
		return u.String(), nil
	}
	return c.origin.ResolveReference(u).String(), nil
}

// statusText extracts the reason phrase from the response status line,
// falling back to the canonical text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// ParseEnvelope parses a GET /models body. The envelope is strict: it must be
// a JSON object whose "models" field is an array. Elements are permissive:
// fields that are not JSON strings are left empty.
func ParseEnvelope(body []byte) ([]Entry, error) {
	if !gjson.ValidBytes(body) {
		return nil, &FormatError{}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &FormatError{}
	}
	models := root.Get("models")
	if !models.IsArray() {
		return nil, &FormatError{}
	}

	items := models.Array()
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{
			ID:       stringField(item, "id"),
			Name:     stringField(item, "name"),
			Provider: stringField(item, "provider"),
		})
	}
	return entries, nil
}

func stringField(item gjson.Result, key string) string {
	if !item.IsObject() {
		return ""
	}
	v := item.Get(key)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}
