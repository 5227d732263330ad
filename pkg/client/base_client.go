package client

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// BaseClient issues outbound GETs with a bounded retry policy and a circuit
// breaker. With MaxRetries set to 0 every request is a single attempt, which
// is the default for this service.
type BaseClient struct {
	client         HTTPClient
	logger         *zap.Logger
	circuitBreaker *gobreaker.CircuitBreaker
	maxRetries     int
	retryDelay     time.Duration
	multiplier     float64
}

type ClientConfig struct {
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	Multiplier     float64
	Threshold      int
	BreakerTimeout time.Duration
}

func NewBaseClient(name string, config ClientConfig, logger *zap.Logger) *BaseClient {
	httpClient := &http.Client{
		Timeout: config.Timeout,
	}

	breakerSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("client", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &BaseClient{
		client:         httpClient,
		logger:         logger,
		circuitBreaker: gobreaker.NewCircuitBreaker(breakerSettings),
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
		multiplier:     config.Multiplier,
	}
}

// Get fetches url and returns the response body. Any failure comes back as a
// *TransportError; endpoint is only used to label logs and errors.
func (c *BaseClient) Get(ctx context.Context, endpoint, url string) ([]byte, error) {
	var response []byte
	var err error

	_, execErr := c.circuitBreaker.Execute(func() (interface{}, error) {
		response, err = c.doGetWithRetry(ctx, endpoint, url)
		return response, err
	})

	if execErr != nil {
		var terr *TransportError
		if errors.As(execErr, &terr) {
			return nil, execErr
		}
		// Breaker rejections (open state) never reached the network.
		return nil, &TransportError{Kind: KindNetwork, Endpoint: endpoint, Err: execErr}
	}

	return response, err
}

func (c *BaseClient) doGetWithRetry(ctx context.Context, endpoint, url string) ([]byte, error) {
	var lastErr *TransportError

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(c.retryDelay) * math.Pow(c.multiplier, float64(attempt-1)))
			c.logger.Debug("Retrying request",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))

			select {
			case <-ctx.Done():
				return nil, &TransportError{Kind: KindNetwork, Endpoint: endpoint, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, &TransportError{Kind: KindNetwork, Endpoint: endpoint, Err: err}
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = &TransportError{Kind: KindNetwork, Endpoint: endpoint, Err: err}
			c.logger.Warn("HTTP request failed",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()

			if err != nil {
				lastErr = &TransportError{Kind: KindNetwork, Endpoint: endpoint, Err: err}
				continue
			}

			c.logger.Debug("Request successful",
				zap.String("endpoint", endpoint),
				zap.Int("status", resp.StatusCode),
				zap.Int("body_size", len(body)))

			return body, nil
		}

		resp.Body.Close()
		lastErr = &TransportError{Kind: KindHTTPStatus, Endpoint: endpoint, StatusCode: resp.StatusCode}

		// Don't retry on client errors (4xx) except 429 (rate limiting).
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != 429 {
			break
		}
	}

	return nil, lastErr
}

// CloseIdleConnections releases the pooled connections. Called once at
// process shutdown.
func (c *BaseClient) CloseIdleConnections() {
	if hc, ok := c.client.(*http.Client); ok {
		hc.CloseIdleConnections()
	}
}
