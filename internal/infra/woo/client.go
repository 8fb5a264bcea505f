// Package woo provides a client for the WooCommerce REST API
// (wc/v3 resources + wc-analytics stats endpoints).
package woo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wooinsight/wooinsight-go/internal/domain"
	"github.com/wooinsight/wooinsight-go/internal/infra/observability"
	"github.com/wooinsight/wooinsight-go/internal/infra/resilience"
	"github.com/wooinsight/wooinsight-go/internal/port"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("woo")

const (
	apiBaseV3        = "wp-json/wc/v3"
	apiBaseAnalytics = "wp-json/wc-analytics"
)

// TTLConfig holds the suggested cache lifetime per endpoint class.
type TTLConfig struct {
	Orders  time.Duration
	Catalog time.Duration
	Stats   time.Duration
}

// Client wraps authenticated HTTP calls to a WooCommerce store.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authHeader string
	perPage    int
	maxPages   int
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	bulkhead   *resilience.Bulkhead
	cache      port.Cache[json.RawMessage]
	ttl        TTLConfig
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a WooCommerce client. The Basic auth header is built
// once from the consumer key/secret pair and sent unchanged on every
// request.
func NewClient(
	httpClient *http.Client,
	storeURL, consumerKey, consumerSecret string,
	perPage, maxPages int,
	cb *gobreaker.CircuitBreaker,
	cfg resilience.Config,
	cache port.Cache[json.RawMessage],
	ttl TTLConfig,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Client {
	credentials := base64.StdEncoding.EncodeToString([]byte(consumerKey + ":" + consumerSecret))

	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(storeURL, "/"),
		authHeader: "Basic " + credentials,
		perPage:    perPage,
		maxPages:   maxPages,
		cb:         cb,
		cfg:        cfg,
		bulkhead:   resilience.NewBulkhead(maxConcurrency),
		cache:      cache,
		ttl:        ttl,
		metrics:    metrics,
		logger:     logger,
	}
}

// buildURL assembles the request URL with params encoded in sorted order,
// so the URL doubles as a deterministic cache key.
func (c *Client) buildURL(apiBase, endpoint string, params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, apiBase, endpoint)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// doRequest executes one authenticated GET and returns the raw body.
// Non-success statuses become ErrUpstreamStatus carrying the endpoint name.
func (c *Client) doRequest(ctx context.Context, endpoint, fullURL string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("woo: request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("woo: non-2xx response",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &domain.ErrUpstreamStatus{Endpoint: endpoint, Status: resp.StatusCode}
	}

	c.logger.Debug("woo: request OK",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
	)

	return body, nil
}

// get fetches one URL through cache, circuit breaker and retry.
func (c *Client) get(ctx context.Context, endpoint, fullURL string, ttl time.Duration) (json.RawMessage, error) {
	if cached, ok := c.cache.Get(fullURL); ok {
		c.metrics.IncrCacheHit("woo")
		return cached, nil
	}
	c.metrics.IncrCacheMiss("woo")

	// The bulkhead caps in-flight store requests across all concurrent
	// fetch plans hitting one client.
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer c.bulkhead.Release()

	var body json.RawMessage

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			b, err := c.doRequest(ctx, endpoint, fullURL)
			if err != nil {
				return err
			}
			body = b
			return nil
		})
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "woocommerce/" + endpoint, Err: err}
	}

	c.cache.SetFor(fullURL, body, ttl)
	return body, nil
}

// Get issues a single-page GET against a wc/v3 endpoint. Caller params are
// the full query; merging over defaults happens in the typed operations.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string, ttl time.Duration) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "Woo.Get")
	defer span.End()
	span.SetAttributes(attribute.String("woo.endpoint", endpoint))

	return c.get(ctx, endpoint, c.buildURL(apiBaseV3, endpoint, params), ttl)
}

// GetAnalytics issues a single GET against a wc-analytics endpoint.
func (c *Client) GetAnalytics(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "Woo.GetAnalytics")
	defer span.End()
	span.SetAttributes(attribute.String("woo.endpoint", endpoint))

	return c.get(ctx, endpoint, c.buildURL(apiBaseAnalytics, endpoint, params), c.ttl.Stats)
}

// GetAll fetches every page of a wc/v3 collection endpoint: page 1..N with
// the configured page size, stopping at the first short (or empty) page and
// concatenating results in arrival order. The page count is capped at
// maxPages; hitting the cap logs a warning and returns what was collected
// so a misbehaving upstream cannot grow memory without bound.
func (c *Client) GetAll(ctx context.Context, endpoint string, params map[string]string, ttl time.Duration) ([]json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "Woo.GetAll")
	defer span.End()
	span.SetAttributes(attribute.String("woo.endpoint", endpoint))

	var all []json.RawMessage

	for page := 1; ; page++ {
		if page > c.maxPages {
			c.logger.Warn("woo: page cap reached, result truncated",
				zap.String("endpoint", endpoint),
				zap.Int("max_pages", c.maxPages),
				zap.Int("records", len(all)),
			)
			break
		}

		merged := make(map[string]string, len(params)+2)
		for k, v := range params {
			merged[k] = v
		}
		merged["per_page"] = strconv.Itoa(c.perPage)
		merged["page"] = strconv.Itoa(page)

		body, err := c.get(ctx, endpoint, c.buildURL(apiBaseV3, endpoint, merged), ttl)
		if err != nil {
			return nil, err
		}

		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode %s page %d: %w", endpoint, page, err)
		}

		all = append(all, items...)

		if len(items) < c.perPage {
			break
		}
	}

	return all, nil
}

// mergeParams overlays caller params on per-call defaults; caller wins.
func mergeParams(defaults, params map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(params))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}
