// Package orchestration is the client for the fish exports orchestration API,
// which owns every document the exporter works on.
package orchestration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/DEFRA/fes-frontend/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Journey identifies a document type on the orchestration API
type Journey string

const (
	CatchCertificate    Journey = "catchCertificate"
	ProcessingStatement Journey = "processingStatement"
	StorageDocument     Journey = "storageDocument"
)

var (
	// ErrUnauthorised is returned for 401 and 403 responses
	ErrUnauthorised = errors.New("orchestration: unauthorised")
	// ErrNotFound is returned for 404 responses
	ErrNotFound = errors.New("orchestration: not found")
)

// APIError is a non-2xx response. Errors is populated when the body carried
// field keyed validation errors.
type APIError struct {
	Method string
	Path   string
	Status int
	Errors []models.FieldError
	Body   string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("orchestration: %s %s returned %d with %d field errors", e.Method, e.Path, e.Status, len(e.Errors))
	}
	return fmt.Sprintf("orchestration: %s %s returned %d", e.Method, e.Path, e.Status)
}

// Client talks JSON to the orchestration API on behalf of the signed in exporter
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the overall timeout of each request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTransport sets the round tripper requests are sent through. It is
// still wrapped with OpenTelemetry instrumentation.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = otelhttp.NewTransport(rt)
	}
}

// New returns a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenKey struct{}

// WithToken returns a context whose requests are authorised with token
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorised)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode >= 300:
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: string(raw)}
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity {
			apiErr.Errors = decodeFieldErrors(raw)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeFieldErrors accepts both error shapes the API produces: a list of
// {key, message} pairs or an object of field to message. Object values that
// are not translation keys are dropped.
func decodeFieldErrors(raw []byte) []models.FieldError {
	var list []models.FieldError
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var wrapped struct {
		Errors []models.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Errors) > 0 {
		return wrapped.Errors
	}

	var keyed map[string]string
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.HasPrefix(keyed[k], "error.") {
			list = append(list, models.FieldError{Key: k, Message: keyed[k]})
		}
	}
	return list
}

// FieldErrors unwraps the field errors carried by err, if any
func FieldErrors(err error) ([]models.FieldError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && len(apiErr.Errors) > 0 {
		return apiErr.Errors, true
	}
	return nil, false
}

func draftQuery(draft bool) url.Values {
	if !draft {
		return nil
	}
	return url.Values{"draft": []string{"true"}}
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
