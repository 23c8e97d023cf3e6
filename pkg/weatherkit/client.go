package weatherkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL  = "https://weatherkit.apple.com/api/v1"
	DefaultCountry  = "US"
	DefaultLanguage = "en"
	DefaultTimeout  = 10 * time.Second

	opAvailability = "availability"
	opForecast     = "forecast"

	maxResponseBytes = 16 << 20
)

// HTTPDoer is the subset of *http.Client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the WeatherKit REST API. It keeps no per-call state and is
// safe for concurrent use; tokens are supplied on every call.
type Client struct {
	baseURL  string
	http     HTTPDoer
	language string
	logger   *zap.Logger
	tracer   trace.Tracer
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("weatherkit: invalid base URL: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("weatherkit: invalid base URL %q: scheme and host required", raw)
		}
		c.baseURL = strings.TrimSuffix(raw, "/")
		return nil
	}
}

// WithHTTPClient replaces the transport. Combined with WithTimeout the doer must be
// an *http.Client; it is copied, not modified.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) error {
		if doer == nil {
			return errors.New("weatherkit: nil HTTP client")
		}
		c.http = doer
		return nil
	}
}

// WithTimeout sets the overall per-request timeout. It applies to the default
// transport or to an *http.Client given through WithHTTPClient, in either order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("weatherkit: invalid timeout %s", d)
		}
		c.timeout = d
		return nil
	}
}

// WithLanguage sets the language path segment of weather queries.
func WithLanguage(lang string) Option {
	return func(c *Client) error {
		if lang == "" {
			return errors.New("weatherkit: empty language")
		}
		c.language = lang
		return nil
	}
}

// WithLogger sets the logger for per-request debug output. Tokens are never logged.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithTracer sets the tracer used for the availability and forecast spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) error {
		if tracer != nil {
			c.tracer = tracer
		}
		return nil
	}
}

// NewClient returns a client for DefaultBaseURL with a DefaultTimeout transport,
// adjusted by opts.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:  DefaultBaseURL,
		http:     &http.Client{Timeout: DefaultTimeout},
		language: DefaultLanguage,
		logger:   zap.NewNop(),
		tracer:   noop.NewTracerProvider().Tracer("weatherkit"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.timeout > 0 {
		hc, ok := c.http.(*http.Client)
		if !ok {
			return nil, fmt.Errorf("weatherkit: WithTimeout needs an *http.Client, got %T", c.http)
		}
		clone := *hc
		clone.Timeout = c.timeout
		c.http = &clone
	}
	return c, nil
}

// Availability returns the data sets WeatherKit can serve for coord.
// An empty country defaults to DefaultCountry. Names are returned as sent by the service.
func (c *Client) Availability(ctx context.Context, token string, coord Coordinate, country string) (DataSets, error) {
	if country == "" {
		country = DefaultCountry
	}

	ctx, span := c.tracer.Start(ctx, "weatherkit.Availability", trace.WithAttributes(
		attribute.Float64("lat", coord.Latitude),
		attribute.Float64("lng", coord.Longitude),
		attribute.String("country", country),
	))
	defer span.End()

	lat, lng := coord.pathSegments()
	u, err := url.Parse(fmt.Sprintf("%s/availability/%s/%s/", c.baseURL, lat, lng))
	if err != nil {
		return nil, c.fail(span, &RequestError{Op: opAvailability, Err: fmt.Errorf("build URL: %w", err)})
	}
	q := u.Query()
	q.Set("country", country)
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, opAvailability, u, token)
	if err != nil {
		return nil, c.fail(span, err)
	}

	if !startsWith(body, '[') {
		return nil, c.fail(span, &ParseError{Op: opAvailability, Body: body, Err: errors.New("expected a JSON array")})
	}
	var sets DataSets
	if err := json.Unmarshal(body, &sets); err != nil {
		return nil, c.fail(span, &ParseError{Op: opAvailability, Body: body, Err: err})
	}

	span.SetAttributes(attribute.Int("datasets_count", len(sets)))
	return sets, nil
}

// Forecast requests the given data sets for coord. With no data sets it asks for
// DefaultForecastDataSets. Data sets missing from the reply are nil in the result.
func (c *Client) Forecast(ctx context.Context, token string, coord Coordinate, dataSets DataSets) (*WeatherResponse, error) {
	if len(dataSets) == 0 {
		dataSets = DefaultForecastDataSets
	}

	ctx, span := c.tracer.Start(ctx, "weatherkit.Forecast", trace.WithAttributes(
		attribute.Float64("lat", coord.Latitude),
		attribute.Float64("lng", coord.Longitude),
		attribute.String("datasets", dataSets.String()),
	))
	defer span.End()

	lat, lng := coord.pathSegments()
	u, err := url.Parse(fmt.Sprintf("%s/weather/%s/%s/%s/", c.baseURL, url.PathEscape(c.language), lat, lng))
	if err != nil {
		return nil, c.fail(span, &RequestError{Op: opForecast, Err: fmt.Errorf("build URL: %w", err)})
	}
	u.RawQuery = "dataSets=" + encodeDataSets(dataSets)

	body, err := c.get(ctx, opForecast, u, token)
	if err != nil {
		return nil, c.fail(span, err)
	}

	if !startsWith(body, '{') {
		return nil, c.fail(span, &ParseError{Op: opForecast, Body: body, Err: errors.New("expected a JSON object")})
	}
	var weather WeatherResponse
	if err := json.Unmarshal(body, &weather); err != nil {
		return nil, c.fail(span, &ParseError{Op: opForecast, Body: body, Err: err})
	}

	span.SetAttributes(attribute.String("datasets_returned", weather.DataSets().String()))
	return &weather, nil
}

func (c *Client) get(ctx context.Context, op string, u *url.URL, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("WeatherKit request failed",
			zap.String("op", op),
			zap.String("url", u.String()),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return nil, &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("WeatherKit response",
		zap.String("op", op),
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_size", len(body)),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Body: body, Err: readErr}
	}
	if readErr != nil {
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", readErr)}
	}
	return body, nil
}

func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// encodeDataSets escapes each name but keeps the separating commas literal.
func encodeDataSets(ds DataSets) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = url.QueryEscape(string(d))
	}
	return strings.Join(parts, ",")
}

func startsWith(body []byte, c byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == c
}
