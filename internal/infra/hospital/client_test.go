package hospital

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
	"github.com/hospvida/hospital-admin-bff/internal/infra/observability"
	"github.com/hospvida/hospital-admin-bff/internal/infra/resilience"

	"go.uber.org/zap"
)

// newTestClient builds a client against baseURL with the production
// retry policy but a fake sleep that records the requested delays.
func newTestClient(t *testing.T, baseURL string, sleeps *[]time.Duration) *Client {
	t.Helper()
	policy := resilience.RetryPolicy{
		MaxAttempts:       3,
		BaseDelay:         1 * time.Second,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
	}
	probe := NewProbe(http.DefaultClient, baseURL, 2*time.Second, time.Minute, zap.NewNop())
	return NewClient(
		http.DefaultClient,
		baseURL,
		resilience.NewCircuitBreaker("test"),
		policy,
		resilience.NewBulkhead(4),
		probe,
		observability.NewMetrics(),
		zap.NewNop(),
		WithSleepFunc(func(ctx context.Context, d time.Duration) error {
			*sleeps = append(*sleeps, d)
			return nil
		}),
	)
}

func TestClient_RetriesServerErrorsWithBackoff(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(t, srv.URL, &sleeps)

	env := c.ListPatients(context.Background())

	if env.Success {
		t.Fatal("expected failure envelope")
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("expected %d backoff sleeps, got %v", len(want), sleeps)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d: expected %v, got %v", i+1, want[i], sleeps[i])
		}
	}
	if env.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", env.Status)
	}
	if env.Details == nil || env.Details.Kind != domain.KindAPI {
		t.Errorf("expected API error kind, got %+v", env.Details)
	}
}

func TestClient_RetryThenSuccess(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "p-1", "nomeCompleto": "Maria Souza", "cpfNumero": "39053344705", "idadePaciente": 41, "sexo": "F", "planoSaude": "Unimed"},
		})
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(t, srv.URL, &sleeps)

	env := c.ListPatients(context.Background())

	if !env.Success {
		t.Fatalf("expected success after retries, got error %q", env.Error)
	}
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %v", sleeps)
	}
	patients, ok := env.Data.([]domain.Patient)
	if !ok {
		t.Fatalf("expected []domain.Patient, got %T", env.Data)
	}
	if len(patients) != 1 || patients[0].Name != "Maria Souza" || patients[0].Age != 41 {
		t.Errorf("unexpected normalized patients: %+v", patients)
	}
}

func TestClient_TooManyRequestsRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(t, srv.URL, &sleeps)

	env := c.ListExams(context.Background())

	if !env.Success {
		t.Fatalf("expected success, got %q", env.Error)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestClient_ValidationNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"dados inválidos","errors":[{"field":"cpf","message":"CPF inválido"}]}`))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(t, srv.URL, &sleeps)

	env := c.CreateConsultation(context.Background(), domain.Consultation{Patient: "João", CPF: "123"})

	if env.Success {
		t.Fatal("expected failure envelope")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
	if len(sleeps) != 0 {
		t.Fatalf("expected no backoff, got %v", sleeps)
	}
	if env.Details.Kind != domain.KindValidation {
		t.Errorf("expected VALIDATION kind, got %s", env.Details.Kind)
	}
	if msgs := env.Details.ValidationErrors["cpf"]; len(msgs) != 1 || msgs[0] != "CPF inválido" {
		t.Errorf("unexpected validation errors: %v", env.Details.ValidationErrors)
	}
}

func TestClient_VariantFallback(t *testing.T) {
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json content type, got %q", ct)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		bodies = append(bodies, body)

		// only the canonical English field names are accepted
		if _, ok := body["name"]; !ok {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"schema desconhecido"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id": "p-9", "name": "Ana Lima", "cpf": "39053344705", "age": 29, "gender": "F", "plan": "Particular",
		})
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(t, srv.URL, &sleeps)

	env := c.CreatePatient(context.Background(), domain.Patient{
		Name: "Ana Lima", CPF: "39053344705", Age: 29, Gender: "F", Plan: "Particular",
	})

	if !env.Success {
		t.Fatalf("expected success after variant fallback, got %q", env.Error)
	}
	if len(bodies) != 3 {
		t.Fatalf("expected 3 variant submissions, got %d", len(bodies))
	}
	if _, ok := bodies[0]["nomeCompleto"]; !ok {
		t.Error("first variant should use long Portuguese field names")
	}
	if _, ok := bodies[1]["nome"]; !ok {
		t.Error("second variant should use short Portuguese field names")
	}
	if len(sleeps) != 0 {
		t.Fatalf("variant fallback must not trigger backoff, got %v", sleeps)
	}
	p, ok := env.Data.(domain.Patient)
	if !ok || p.ID != "p-9" {
		t.Errorf("unexpected created patient: %+v", env.Data)
	}
}

func TestClient_AllVariantsRejected(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"payload não reconhecido"}`))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(t, srv.URL, &sleeps)

	env := c.CreatePatient(context.Background(), domain.Patient{Name: "Ana", CPF: "39053344705", Age: 29})

	if env.Success {
		t.Fatal("expected failure envelope")
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Fatalf("expected all 3 variants tried once, got %d requests", got)
	}
	if len(sleeps) != 0 {
		t.Fatalf("a 400 is terminal, got backoff %v", sleeps)
	}
	if env.Details.Kind != domain.KindValidation {
		t.Errorf("expected VALIDATION kind, got %s", env.Details.Kind)
	}
	if env.Details.ServerMessage != "payload não reconhecido" {
		t.Errorf("unexpected server message: %q", env.Details.ServerMessage)
	}
}

func TestClient_OfflineShortCircuits(t *testing.T) {
	var sleeps []time.Duration
	c := newTestClient(t, "http://hospital-api.invalid:3000", &sleeps)

	env := c.ListPatients(context.Background())

	if env.Success {
		t.Fatal("expected failure envelope")
	}
	if env.Status != 0 {
		t.Errorf("expected status 0 for connectivity failure, got %d", env.Status)
	}
	if env.Details.Kind != domain.KindNetwork {
		t.Errorf("expected NETWORK kind, got %s", env.Details.Kind)
	}
	if len(sleeps) != 0 {
		t.Fatalf("connectivity failures must not be retried, got %v", sleeps)
	}
	if env.RequestID == "" || env.Timestamp == "" {
		t.Error("failure envelopes must still carry requestId and timestamp")
	}
}

func TestClient_CreatedWithNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("Paciente cadastrado com sucesso"))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(t, srv.URL, &sleeps)

	env := c.CreatePatient(context.Background(), domain.Patient{Name: "Ana", CPF: "39053344705", Age: 29})

	if !env.Success {
		t.Fatalf("a 201 with a plain-text body is still a success, got %q", env.Error)
	}
	p, ok := env.Data.(domain.Patient)
	if !ok {
		t.Fatalf("expected a synthesized patient record, got %T", env.Data)
	}
	if p.ID == "" {
		t.Error("synthesized record must carry a generated id")
	}
}

func TestClient_DeleteNotFound(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"consulta não encontrada"}`))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	c := newTestClient(t, srv.URL, &sleeps)

	env := c.DeleteConsultation(context.Background(), "c-404")

	if env.Success {
		t.Fatal("expected failure envelope")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("404 must not be retried, got %d attempts", got)
	}
	if env.Details.Kind != domain.KindAPI || env.Details.Retryable {
		t.Errorf("expected non-retryable API error, got %+v", env.Details)
	}
}
