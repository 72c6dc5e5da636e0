package hospital

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/hospvida/hospital-admin-bff/internal/domain"

	"github.com/sony/gobreaker"
)

func TestClassify_StatusTaxonomy(t *testing.T) {
	tests := []struct {
		status    int
		kind      domain.ErrorKind
		retryable bool
	}{
		{400, domain.KindValidation, false},
		{409, domain.KindValidation, false},
		{422, domain.KindValidation, false},
		{401, domain.KindAuthentication, false},
		{403, domain.KindAuthorization, false},
		{404, domain.KindAPI, false},
		{429, domain.KindAPI, true},
		{500, domain.KindAPI, true},
		{502, domain.KindAPI, true},
		{503, domain.KindAPI, true},
		{418, domain.KindAPI, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			c := Classify(nil, tt.status, "patients.list")
			if c.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, c.Kind)
			}
			if c.Retryable != tt.retryable {
				t.Errorf("expected retryable=%v, got %v", tt.retryable, c.Retryable)
			}
			if c.Message == "" || len(c.Suggestions) == 0 {
				t.Error("every classification needs a message and suggestions")
			}
		})
	}
}

func TestClassify_TransportErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind domain.ErrorKind
	}{
		{"offline", &domain.ErrOffline{Err: errors.New("no such host")}, domain.KindNetwork},
		{"cors", errors.New("blocked by CORS policy: no Access-Control-Allow-Origin header"), domain.KindCORS},
		{"deadline", context.DeadlineExceeded, domain.KindTimeout},
		{"url error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}, domain.KindNetwork},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, domain.KindNetwork},
		{"breaker open", gobreaker.ErrOpenState, domain.KindAPI},
		{"nothing known", nil, domain.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.err, 0, "patients.list")
			if c.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, c.Kind)
			}
		})
	}
}

func TestClassify_TimeoutBeatsNetwork(t *testing.T) {
	// a deadline error wrapped in a url.Error is a timeout, not a
	// generic network failure
	err := &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}
	c := Classify(err, 0, "patients.list")
	if c.Kind != domain.KindTimeout {
		t.Errorf("expected TIMEOUT, got %s", c.Kind)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   bool
	}{
		{"500", nil, 500, true},
		{"429", nil, 429, true},
		{"400", nil, 400, false},
		{"404", nil, 404, false},
		{"200", nil, 200, false},
		{"cors never", errors.New("CORS policy rejected the request"), 0, false},
		{"offline never", &domain.ErrOffline{}, 0, false},
		{"timeout", context.DeadlineExceeded, 0, true},
		{"network", &net.OpError{Op: "dial", Err: errors.New("refused")}, 0, true},
		{"breaker open", gobreaker.ErrTooManyRequests, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryable(tt.err, tt.status); got != tt.want {
				t.Errorf("retryable(%v, %d) = %v, want %v", tt.err, tt.status, got, tt.want)
			}
		})
	}
}
