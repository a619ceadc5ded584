package arr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/brauni/hydrarr/internal/metrics"
	"github.com/brauni/hydrarr/internal/services"
)

const (
	// DefaultTimeout bounds every upstream call
	DefaultTimeout = 8 * time.Second

	// DefaultBreakerFailures is the number of consecutive failures that opens a breaker
	DefaultBreakerFailures = 5

	maxBodyBytes = 32 << 20
)

// Options configures a Client
type Options struct {
	// Origin is the page origin used for mixed-content checks
	Origin Origin

	// Timeout is the per-call deadline (defaults to DefaultTimeout if zero)
	Timeout time.Duration

	// BreakerFailures opens an endpoint's breaker after that many consecutive
	// failures. Zero disables breakers.
	BreakerFailures uint32

	// BreakerCooldown is how long an open breaker rejects calls (defaults to 30s)
	BreakerCooldown time.Duration

	// RequestsPerSecond caps the call rate per endpoint. Zero means unlimited.
	RequestsPerSecond float64

	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client

	Metrics *metrics.Metrics
}

// Client performs authenticated, bounded calls against configured endpoints
type Client struct {
	origin     Origin
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics

	breakerFailures uint32
	breakerCooldown time.Duration
	breakers        map[string]*gobreaker.CircuitBreaker[[]byte]

	rateLimit rate.Limit
	limiters  map[string]*rate.Limiter

	mutex sync.Mutex
}

// NewClient creates a new access-layer client
func NewClient(opts Options, logger *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cooldown := opts.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	hc := opts.HTTPClient
	if hc == nil {
		// Deadlines come from the per-call context
		hc = &http.Client{}
	}

	origin := opts.Origin
	if origin.Scheme == "" {
		origin = ParseOrigin("")
	}

	return &Client{
		origin:          origin,
		timeout:         timeout,
		httpClient:      hc,
		logger:          logger,
		metrics:         opts.Metrics,
		breakerFailures: opts.BreakerFailures,
		breakerCooldown: cooldown,
		breakers:        make(map[string]*gobreaker.CircuitBreaker[[]byte]),
		rateLimit:       rate.Limit(opts.RequestsPerSecond),
		limiters:        make(map[string]*rate.Limiter),
	}
}

// Timeout returns the per-call deadline
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Fetch performs a GET against endpoint and returns the raw JSON body.
// An empty body is returned as "{}".
func (c *Client) Fetch(ctx context.Context, endpoint services.Endpoint, path string) ([]byte, error) {
	req, err := BuildRequest(c.origin, endpoint.URL, path, Credentials{
		APIKey:   endpoint.APIKey,
		Username: endpoint.Username,
		Password: endpoint.Password,
	})
	if err != nil {
		return nil, withProvider(err, endpoint)
	}

	start := time.Now()

	// The deadline covers the rate-limit wait and the request itself
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if limiter := c.limiterFor(endpoint); limiter != nil {
		if err := limiter.Wait(callCtx); err != nil {
			apiErr := newTimeoutError(c.timeout.Seconds(), err)
			c.metrics.ObserveRequest(string(endpoint.Type), apiErr.Kind.String(), time.Since(start))
			c.logger.Warn("Rate limit wait aborted",
				zap.String("service", endpoint.Name),
				zap.Error(err))
			return nil, withProvider(apiErr, endpoint)
		}
	}

	var body []byte
	if cb := c.breakerFor(endpoint); cb != nil {
		body, err = cb.Execute(func() ([]byte, error) {
			return c.do(callCtx, req)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = newCircuitOpenError(err)
		}
	} else {
		body, err = c.do(callCtx, req)
	}
	elapsed := time.Since(start)

	if err != nil {
		outcome := "error"
		if kind, ok := KindOf(err); ok {
			outcome = kind.String()
		}
		c.metrics.ObserveRequest(string(endpoint.Type), outcome, elapsed)
		c.logger.Warn("Upstream request failed",
			zap.String("service", endpoint.Name),
			zap.String("type", string(endpoint.Type)),
			zap.String("url", redactURL(req.URL)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, withProvider(err, endpoint)
	}

	c.metrics.ObserveRequest(string(endpoint.Type), "success", elapsed)
	c.logger.Debug("Upstream request succeeded",
		zap.String("service", endpoint.Name),
		zap.String("url", redactURL(req.URL)),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", elapsed))
	return body, nil
}

// do issues one request with its own deadline and classifies the outcome
func (c *Client) do(callCtx context.Context, req *Request) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, newNetworkError(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header = req.Header.Clone()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classifyTransportError(callCtx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, newAuthError(resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, newHTTPError(resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.classifyTransportError(callCtx, err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []byte("{}"), nil
	}

	if !json.Valid(body) {
		return nil, newDecodeError(errors.New("body is not valid JSON"))
	}

	return body, nil
}

func (c *Client) classifyTransportError(callCtx context.Context, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return newTimeoutError(c.timeout.Seconds(), err)
	}
	return newNetworkError(err)
}

// breakerFor returns the breaker guarding endpoint's base URL
func (c *Client) breakerFor(endpoint services.Endpoint) *gobreaker.CircuitBreaker[[]byte] {
	if c.breakerFailures == 0 {
		return nil
	}

	key := NormalizeBaseURL(endpoint.URL)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if cb, ok := c.breakers[key]; ok {
		return cb
	}

	threshold := c.breakerFailures
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        key,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     c.breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not the endpoint's fault
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Info("Circuit breaker state transition",
				zap.String("endpoint", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			c.metrics.SetBreakerState(name, breakerStateValue(to))
		},
	})
	c.breakers[key] = cb
	c.metrics.SetBreakerState(key, 0)
	return cb
}

// limiterFor returns the rate limiter of endpoint's base URL
func (c *Client) limiterFor(endpoint services.Endpoint) *rate.Limiter {
	if c.rateLimit <= 0 {
		return nil
	}

	key := NormalizeBaseURL(endpoint.URL)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	limiter, ok := c.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(c.rateLimit, 1)
		c.limiters[key] = limiter
	}
	return limiter
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func withProvider(err error, endpoint services.Endpoint) error {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Provider == "" {
		apiErr.Provider = endpoint.Name
		if apiErr.Provider == "" {
			apiErr.Provider = string(endpoint.Type)
		}
	}
	return err
}
