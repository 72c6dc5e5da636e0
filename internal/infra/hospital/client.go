// Package hospital is the integration layer for the upstream hospital
// REST API. It owns the three concerns the rest of the BFF must never
// deal with: executing requests resiliently (probe gate, bounded retry
// with exponential backoff, circuit breaker, bulkhead), normalizing the
// upstream's inconsistent JSON shapes into canonical records, and
// classifying failures into user-facing categories. Every operation
// returns exactly one result envelope; no error escapes as a Go error.
package hospital

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
	"github.com/hospvida/hospital-admin-bff/internal/infra/observability"
	"github.com/hospvida/hospital-admin-bff/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("hospital")

// Client executes operations against the hospital REST API.
// Safe for concurrent use; the only shared state is read-only
// configuration plus the circuit breaker and probe, which manage their
// own synchronization. Retries for one logical operation are always
// sequential.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	policy     resilience.RetryPolicy
	bulkhead   *resilience.Bulkhead
	probe     *Probe
	sleep     resilience.SleepFunc
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithSleepFunc replaces the backoff sleep, letting tests run the retry
// schedule against a fake clock.
func WithSleepFunc(fn resilience.SleepFunc) Option {
	return func(c *Client) { c.sleep = fn }
}

// NewClient creates a hospital API client.
func NewClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, policy resilience.RetryPolicy, bulkhead *resilience.Bulkhead, probe *Probe, metrics *observability.Metrics, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		policy:     policy,
		bulkhead:   bulkhead,
		probe:      probe,
		sleep:      resilience.Sleep,
		metrics:    metrics,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// operation describes one logical call against the upstream API.
// bodies is empty for reads/deletes, holds a single payload for
// scheduling writes, and holds the ordered naming variants for patient
// writes.
type operation struct {
	name     string
	method   string
	path     string
	bodies   [][]byte
	resource resourceKind
}

// httpResult is a fully-read upstream response.
type httpResult struct {
	status     int
	statusText string
	body       []byte
}

// run executes an operation end to end: connectivity gate, bounded
// retry with exponential backoff, then normalization into an envelope.
// It never returns an error; every failure mode becomes a classified
// envelope.
func (c *Client) run(ctx context.Context, op operation) *domain.Envelope {
	ctx, span := tracer.Start(ctx, "Hospital."+op.name)
	defer span.End()
	span.SetAttributes(attribute.String("hospital.operation", op.name))

	start := time.Now()
	env := c.execute(ctx, op)
	outcome := "failure"
	if env.Success {
		outcome = "success"
	}
	c.metrics.RecordUpstream(op.name, outcome, time.Since(start))
	if !env.Success && env.Details != nil {
		c.metrics.IncrErrorKind(env.Details.Kind)
	}
	return env
}

func (c *Client) execute(ctx context.Context, op operation) *domain.Envelope {
	// Connectivity gate: a failed probe costs zero upstream attempts.
	if err := c.probe.Check(ctx); err != nil {
		mode := "unreachable"
		var off *domain.ErrOffline
		if errors.As(err, &off) {
			mode = "offline"
		}
		c.metrics.IncrProbeFailure(mode)
		c.logger.Warn("hospital: operation blocked by connectivity gate",
			zap.String("operation", op.name),
			zap.String("mode", mode),
		)
		return normalizeFailure(0, nil, "", Classify(err, 0, op.name))
	}

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return normalizeFailure(0, nil, "", Classify(err, 0, op.name))
	}
	defer c.bulkhead.Release()

	var (
		lastRes *httpResult
		lastErr error
	)

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			c.metrics.IncrRetry(op.name)
			c.logger.Info("hospital: retrying",
				zap.String("operation", op.name),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.policy.MaxAttempts),
			)
		}

		res, err := c.attempt(ctx, op)
		lastRes, lastErr = res, err

		if err == nil && !retryable(nil, res.status) {
			return c.normalize(op, res)
		}

		status := 0
		if res != nil {
			status = res.status
		}
		if !retryable(err, status) {
			break
		}
		if attempt == c.policy.MaxAttempts {
			break
		}

		delay := c.policy.Delay(attempt)
		c.logger.Debug("hospital: backing off",
			zap.String("operation", op.name),
			zap.Duration("delay", delay),
		)
		if serr := c.sleep(ctx, delay); serr != nil {
			lastErr = serr
			break
		}
	}

	if lastErr != nil {
		c.logger.Warn("hospital: operation failed",
			zap.String("operation", op.name),
			zap.Error(lastErr),
		)
		return normalizeFailure(0, nil, "", Classify(lastErr, 0, op.name))
	}
	return c.normalize(op, lastRes)
}

// attempt issues the HTTP request(s) for one retry attempt. With body
// variants, each is tried in order: a 400 means the variant was
// rejected and the next one is tried; any other status ends the
// attempt. When every variant is rejected the last 400 is surfaced.
func (c *Client) attempt(ctx context.Context, op operation) (*httpResult, error) {
	if len(op.bodies) == 0 {
		return c.do(ctx, op.method, op.path, nil)
	}

	var last *httpResult
	for i, body := range op.bodies {
		c.metrics.IncrVariantTried(op.name)
		res, err := c.do(ctx, op.method, op.path, body)
		if err != nil {
			return res, err
		}
		if res.status != http.StatusBadRequest {
			return res, nil
		}
		c.logger.Debug("hospital: write variant rejected",
			zap.String("operation", op.name),
			zap.Int("variant", i+1),
		)
		last = res
	}
	return last, nil
}

// do performs a single HTTP exchange through the circuit breaker and
// reads the full body. 5xx responses count as breaker failures but are
// returned as results, not errors, so the retry loop can see the status.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*httpResult, error) {
	out, err := c.cb.Execute(func() (any, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		res := &httpResult{status: resp.StatusCode, statusText: resp.Status, body: b}
		if resp.StatusCode >= 500 {
			return nil, &serverStatusError{res: res}
		}
		return res, nil
	})

	if err != nil {
		var srv *serverStatusError
		if errors.As(err, &srv) {
			return srv.res, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &domain.ErrCircuitOpen{Service: "hospital-api"}
		}
		return nil, err
	}
	return out.(*httpResult), nil
}

// normalize hands a terminal response to the response normalizer.
func (c *Client) normalize(op operation, res *httpResult) *domain.Envelope {
	if res == nil {
		return normalizeFailure(0, nil, "", Classify(nil, 0, op.name))
	}
	if res.status == http.StatusOK || res.status == http.StatusCreated {
		return normalizeSuccess(res.status, res.body, res.statusText, op.resource)
	}
	cls := Classify(nil, res.status, op.name)
	return normalizeFailure(res.status, res.body, res.statusText, cls)
}

// serverStatusError carries a 5xx result through the circuit breaker so
// the breaker records it as a failure.
type serverStatusError struct {
	res *httpResult
}

func (e *serverStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.res.status)
}
