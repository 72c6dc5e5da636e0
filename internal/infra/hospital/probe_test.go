package hospital

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hospvida/hospital-admin-bff/internal/domain"

	"go.uber.org/zap"
)

func TestProbe_ReachableOnAnyStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// even an error status proves the server is there
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProbe(http.DefaultClient, srv.URL, 2*time.Second, time.Minute, zap.NewNop())

	if err := p.Check(context.Background()); err != nil {
		t.Fatalf("expected reachable, got %v", err)
	}
}

func TestProbe_OfflineOnDNSFailure(t *testing.T) {
	p := NewProbe(http.DefaultClient, "http://hospital-api.invalid:3000", 2*time.Second, time.Minute, zap.NewNop())

	err := p.Check(context.Background())

	var offline *domain.ErrOffline
	if !errors.As(err, &offline) {
		t.Fatalf("expected ErrOffline, got %v", err)
	}
}

func TestProbe_RateLimitReusesLastResult(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	p := NewProbe(http.DefaultClient, srv.URL, 2*time.Second, time.Minute, zap.NewNop())

	for i := 0; i < 5; i++ {
		if err := p.Check(context.Background()); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected a single probe request within the interval, got %d", got)
	}
}
