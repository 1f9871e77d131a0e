// Package financehub provides a client for the FinanceHub REST API
// (users, submissions and reference tables).
package financehub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/observability"
	"github.com/boddenberg/financehub-onboarding-bff/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("financehub")

// Client wraps HTTP calls to the FinanceHub API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	bulkhead   *resilience.Bulkhead
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a FinanceHub client.
func NewClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cb:         cb,
		cfg:        cfg,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		metrics:    metrics,
		logger:     logger,
	}
}

// doRequest executes one request. 4xx responses are marked permanent so
// they are not retried. Transport failures and non-2xx responses are
// counted per service.
func (c *Client) doRequest(ctx context.Context, service, method, path string, payload any) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "financehub."+service)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer c.bulkhead.Release()

	fail := func(err error) error {
		c.metrics.IncrExternalError("financehub/" + service)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, resilience.Permanent(fmt.Errorf("encode %s body: %w", path, err))
		}
		body = bytes.NewReader(b)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		c.logger.Error("financehub: failed to create request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, resilience.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("financehub: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fail(err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("financehub: failed to read response body",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fail(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("financehub: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		statusErr := fmt.Errorf("financehub %s %s returned status %d", method, path, resp.StatusCode)
		if resp.StatusCode < 500 {
			return nil, resilience.Permanent(fail(statusErr))
		}
		return nil, fail(statusErr)
	}

	c.logger.Debug("financehub: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)
	return respBody, nil
}

// getJSON runs a GET through the breaker with retries and decodes into out.
func (c *Client) getJSON(ctx context.Context, service, path string, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doRequest(ctx, service, http.MethodGet, path, nil)
			if err != nil {
				return err
			}
			if len(bytes.TrimSpace(body)) == 0 {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return resilience.Permanent(fmt.Errorf("decode %s: %w", service, err))
			}
			return nil
		})
	})
	return c.wrapErr(service, err)
}

// postJSON runs a POST through the breaker. It is never retried here: a
// duplicate POST would create a duplicate record.
func (c *Client) postJSON(ctx context.Context, service, path string, payload, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		body, err := c.doRequest(ctx, service, http.MethodPost, path, payload)
		if err != nil {
			return nil, err
		}
		if out != nil && len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, out); err != nil {
				return nil, resilience.Permanent(fmt.Errorf("decode %s: %w", service, err))
			}
		}
		return nil, nil
	})
	return c.wrapErr(service, err)
}

func (c *Client) wrapErr(service string, err error) error {
	if err == nil {
		return nil
	}
	if resilience.IsOpen(err) {
		return &domain.ErrCircuitOpen{Service: "financehub/" + service}
	}
	return &domain.ErrExternalService{Service: "financehub/" + service, Err: err}
}
