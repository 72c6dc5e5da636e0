package hospital

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/hospvida/hospital-admin-bff/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Probe answers "is the upstream reachable right now" with a cheap HEAD
// request, distinguishing a dead local network from an unreachable
// server. Probe frequency is rate limited; between probes the last
// result is reused, so concurrent operations do not stampede the
// upstream with HEAD requests.
type Probe struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *zap.Logger

	mu      sync.Mutex
	lastErr error
}

// NewProbe creates a connectivity probe. interval controls how often a
// real HEAD request is issued; timeout bounds each probe.
func NewProbe(httpClient *http.Client, baseURL string, timeout, interval time.Duration, logger *zap.Logger) *Probe {
	return &Probe{
		httpClient: httpClient,
		baseURL:    baseURL,
		timeout:    timeout,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		logger:     logger,
	}
}

// Check returns nil when the upstream answered the probe (any HTTP
// status counts as reachable), *domain.ErrOffline when name resolution
// failed, or *domain.ErrUnreachable otherwise. When the rate limiter
// denies a fresh probe the previous result is returned.
func (p *Probe) Check(ctx context.Context) error {
	if !p.limiter.Allow() {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.lastErr
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var result error
	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, p.baseURL, nil)
	if err != nil {
		result = &domain.ErrUnreachable{Err: err}
	} else if resp, err := p.httpClient.Do(req); err != nil {
		if isDNSFailure(err) {
			result = &domain.ErrOffline{Err: err}
		} else {
			result = &domain.ErrUnreachable{Err: err}
		}
		p.logger.Warn("hospital: connectivity probe failed", zap.Error(err))
	} else {
		resp.Body.Close()
	}

	p.mu.Lock()
	p.lastErr = result
	p.mu.Unlock()
	return result
}

func isDNSFailure(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
