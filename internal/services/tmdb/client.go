package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amaumene/reeldle/internal/config"
	"github.com/amaumene/reeldle/internal/metrics"
	"github.com/amaumene/reeldle/internal/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	imageBaseURL = "https://image.tmdb.org/t/p/w500"
	userAgent    = "reeldle/1.0"
	maxBodySize  = 5 * 1024 * 1024
)

var tracer = otel.Tracer("github.com/amaumene/reeldle/internal/services/tmdb")

// Client handles communication with the TMDB API
type Client struct {
	baseURL       string
	apiKey        string
	maxRetries    int
	retryInterval time.Duration
	httpClient    *http.Client
	cache         *cache.Cache
	metrics       *metrics.Metrics
	logger        *logrus.Logger
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}
	if _, err := url.Parse(cfg.TMDBBaseURL); err != nil {
		return nil, fmt.Errorf("invalid TMDB base URL: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	if m == nil {
		m = metrics.New(nil)
	}

	return &Client{
		baseURL:       strings.TrimSuffix(cfg.TMDBBaseURL, "/"),
		apiKey:        cfg.TMDBAPIKey,
		maxRetries:    cfg.TMDBMaxRetries,
		retryInterval: 500 * time.Millisecond,
		httpClient:    &http.Client{Timeout: cfg.TMDBTimeout},
		cache:         cache.New(ttl, 2*ttl),
		metrics:       m,
		logger:        logger,
	}, nil
}

// FlushCache drops every cached search and record
func (c *Client) FlushCache() {
	c.cache.Flush()
}

// statusError carries a non-2xx response
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("TMDB API returned status %d: %s", e.code, e.body)
}

// doRequest performs a GET against the TMDB API with retries on network
// errors, 429 and 5xx responses, decoding the JSON body into result
func (c *Client) doRequest(ctx context.Context, operation, path string, params url.Values, result interface{}) error {
	ctx, span := tracer.Start(ctx, "tmdb."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("tmdb.path", path)),
	)
	defer span.End()

	start := time.Now()
	err := c.retry(ctx, func() error {
		return c.attempt(ctx, path, params, result)
	})
	c.metrics.ProviderLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.ProviderRequests.WithLabelValues(operation, "error").Inc()
		return classify(err)
	}

	c.metrics.ProviderRequests.WithLabelValues(operation, "ok").Inc()
	return nil
}

func (c *Client) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	b.MaxElapsedTime = 0

	var policy backoff.BackOff = b
	if c.maxRetries >= 0 {
		policy = backoff.WithMaxRetries(b, uint64(c.maxRetries))
	}

	return backoff.RetryNotify(op, backoff.WithContext(policy, ctx), func(err error, wait time.Duration) {
		c.logger.WithError(err).WithField("retry_in", wait).Debug("TMDB request failed, retrying")
	})
}

// attempt performs one HTTP round trip. Errors that must not be retried are
// wrapped with backoff.Permanent.
func (c *Client) attempt(ctx context.Context, path string, params url.Values, result interface{}) error {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	bearer := strings.HasPrefix(c.apiKey, "eyJ")
	if !bearer {
		query.Set("api_key", c.apiKey)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	c.logger.WithFields(logrus.Fields{
		"method": http.MethodGet,
		"path":   path,
	}).Debug("Making TMDB API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if bearer {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		statusErr := &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return statusErr
		}
		return backoff.Permanent(statusErr)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(result); err != nil {
		return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}

// classify maps transport failures onto the provider error taxonomy
func classify(err error) error {
	var statusErr *statusError
	if errors.As(err, &statusErr) && statusErr.code == http.StatusNotFound {
		return fmt.Errorf("%w: %w", models.ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", models.ErrProviderUnavailable, err)
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + path
}
