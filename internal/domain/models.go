// Package domain holds the canonical data shapes used throughout the BFF.
// The upstream hospital API is inconsistent about field naming; everything
// past the integration layer speaks only these types.
package domain

// Patient is the canonical patient record. The upstream service may use
// alternate field names (nomeCompleto/nome, cpfNumero, idadePaciente,
// sexo/genero, planoSaude/plano) depending on endpoint and direction;
// the normalizer maps all of them onto this shape.
type Patient struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	CPF    string `json:"cpf"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Plan   string `json:"plan"`
}

// Consultation is a scheduled medical consultation.
type Consultation struct {
	ID        string `json:"id"`
	Patient   string `json:"patient"`
	CPF       string `json:"cpf,omitempty"`
	Specialty string `json:"specialty"`
	Date      string `json:"date"`
	Notes     string `json:"notes,omitempty"`
}

// Exam is a scheduled lab exam.
type Exam struct {
	ID      string `json:"id"`
	Patient string `json:"patient"`
	CPF     string `json:"cpf,omitempty"`
	Type    string `json:"type"`
	Date    string `json:"date"`
	Notes   string `json:"notes,omitempty"`
}

// Envelope is the uniform result wrapper returned by every API operation.
// Data is present only on success; Error only on failure. RequestID and
// Timestamp are assigned when the response is handled, not when the
// request is issued.
type Envelope struct {
	Success   bool          `json:"success"`
	Data      any           `json:"data,omitempty"`
	Error     string        `json:"error,omitempty"`
	Status    int           `json:"status"`
	RequestID string        `json:"requestId"`
	Timestamp string        `json:"timestamp"`
	Details   *ErrorDetails `json:"details,omitempty"`
}

// ErrorDetails carries structured failure information for the frontend,
// so field-level validation errors can be highlighted separately from
// general server errors.
type ErrorDetails struct {
	ValidationErrors map[string][]string `json:"validationErrors,omitempty"`
	ServerMessage    string              `json:"serverMessage,omitempty"`
	StatusText       string              `json:"statusText,omitempty"`
	Kind             ErrorKind           `json:"kind,omitempty"`
	Suggestions      []string            `json:"suggestions,omitempty"`
	Retryable        bool                `json:"retryable,omitempty"`
}

// ErrorKind is the user-facing failure category produced by the
// error classifier. A failure is classified exactly once.
type ErrorKind string

const (
	KindNetwork        ErrorKind = "NETWORK"
	KindAPI            ErrorKind = "API"
	KindValidation     ErrorKind = "VALIDATION"
	KindAuthentication ErrorKind = "AUTHENTICATION"
	KindAuthorization  ErrorKind = "AUTHORIZATION"
	KindTimeout        ErrorKind = "TIMEOUT"
	KindCORS           ErrorKind = "CORS"
	KindUnknown        ErrorKind = "UNKNOWN"
)

// Classification is the outcome of classifying a low-level failure:
// one category, a user-facing message, suggestions and an explicit
// retryability flag, independent of whether the executor already
// retried internally.
type Classification struct {
	Kind             ErrorKind `json:"kind"`
	Message          string    `json:"message"`
	TechnicalMessage string    `json:"technicalMessage,omitempty"`
	Suggestions      []string  `json:"suggestions"`
	Retryable        bool      `json:"retryable"`
	Context          string    `json:"context"`
}

// Overview aggregates counts across the three upstream resources.
type Overview struct {
	Patients      int `json:"patients"`
	Consultations int `json:"consultations"`
	Exams         int `json:"exams"`
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the admin session token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// IntegrationSnapshot summarizes integration-layer health for the
// admin panel. Values are cumulative since process start.
type IntegrationSnapshot struct {
	UpstreamRequests float64 `json:"upstreamRequests"`
	UpstreamErrors   float64 `json:"upstreamErrors"`
	Retries          float64 `json:"retries"`
	ProbeFailures    float64 `json:"probeFailures"`
	CacheHitRate     float64 `json:"cacheHitRate"`
	ErrorRate        float64 `json:"errorRate"`
}
