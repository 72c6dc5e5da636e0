package hospital

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/hospvida/hospital-admin-bff/internal/domain"

	"github.com/sony/gobreaker"
)

// Classify turns a low-level failure (transport error and/or HTTP status)
// into exactly one user-facing category with a pt-BR message, suggestions
// and a retryability flag. First matching rule wins; a failure is
// classified once and never re-classified.
func Classify(err error, status int, opCtx string) *domain.Classification {
	c := &domain.Classification{Context: opCtx, Suggestions: []string{}}
	if err != nil {
		c.TechnicalMessage = err.Error()
	}

	switch {
	case isOffline(err):
		c.Kind = domain.KindNetwork
		c.Message = "Você está sem conexão com a internet."
		c.Suggestions = []string{"Verifique sua conexão de rede", "Tente novamente quando estiver online"}
		c.Retryable = true

	case isCORS(err):
		// CORS misconfiguration never self-resolves; fail fast.
		c.Kind = domain.KindCORS
		c.Message = "O servidor recusou a origem da requisição."
		c.Suggestions = []string{"Contate o administrador do sistema"}
		c.Retryable = false

	case isTimeout(err):
		c.Kind = domain.KindTimeout
		c.Message = "A operação demorou demais e foi cancelada."
		c.Suggestions = []string{"Tente novamente", "Verifique a qualidade da sua conexão"}
		c.Retryable = true

	case isNetwork(err):
		c.Kind = domain.KindNetwork
		c.Message = "Não foi possível comunicar com o servidor."
		c.Suggestions = []string{"Verifique sua conexão de rede", "Tente novamente em instantes"}
		c.Retryable = true

	case isCircuitOpen(err):
		c.Kind = domain.KindAPI
		c.Message = "O serviço está temporariamente indisponível."
		c.Suggestions = []string{"Aguarde alguns segundos e tente novamente"}
		c.Retryable = true

	case status > 0:
		classifyStatus(c, status)

	default:
		c.Kind = domain.KindUnknown
		c.Message = "Ocorreu um erro inesperado."
		c.Suggestions = []string{"Tente novamente"}
		c.Retryable = true
	}

	return c
}

func classifyStatus(c *domain.Classification, status int) {
	switch {
	case status == 400 || status == 409 || status == 422:
		c.Kind = domain.KindValidation
		c.Message = "Os dados enviados são inválidos."
		c.Suggestions = []string{"Confira os campos destacados e corrija os valores"}
		c.Retryable = false
	case status == 401:
		c.Kind = domain.KindAuthentication
		c.Message = "Sessão expirada ou credenciais inválidas."
		c.Suggestions = []string{"Faça login novamente"}
		c.Retryable = false
	case status == 403:
		c.Kind = domain.KindAuthorization
		c.Message = "Você não tem permissão para esta operação."
		c.Suggestions = []string{"Contate o administrador do sistema"}
		c.Retryable = false
	case status == 404:
		c.Kind = domain.KindAPI
		c.Message = "O recurso solicitado não foi encontrado."
		c.Suggestions = []string{"Atualize a lista e tente novamente"}
		c.Retryable = false
	case status == 429:
		c.Kind = domain.KindAPI
		c.Message = "Muitas requisições em sequência."
		c.Suggestions = []string{"Aguarde alguns segundos e tente novamente"}
		c.Retryable = true
	case status >= 500:
		c.Kind = domain.KindAPI
		c.Message = "O servidor encontrou um erro interno."
		c.Suggestions = []string{"Tente novamente em instantes"}
		c.Retryable = true
	default:
		c.Kind = domain.KindAPI
		c.Message = "O servidor retornou uma resposta inesperada."
		c.Suggestions = []string{"Tente novamente"}
		c.Retryable = false
	}
}

// retryable reports whether a failed attempt may be retried: transport
// errors, timeouts, HTTP 5xx and 429. CORS failures are never retried.
func retryable(err error, status int) bool {
	if isCORS(err) {
		return false
	}
	if isOffline(err) {
		// The probe already gated connectivity; an offline error mid-flight
		// will not resolve within the retry window.
		return false
	}
	if err != nil {
		return isTimeout(err) || isNetwork(err) || isCircuitOpen(err)
	}
	return status >= 500 || status == 429
}

func isOffline(err error) bool {
	var off *domain.ErrOffline
	return errors.As(err, &off)
}

// isCORS sniffs the transport error text for a cross-origin rejection.
// Upstream sits behind a proxy that reports CORS failures in the error
// string rather than a status code.
func isCORS(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cors") ||
		strings.Contains(msg, "access-control-allow-origin") ||
		strings.Contains(msg, "cross-origin")
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetwork(err error) bool {
	if err == nil {
		return false
	}
	var unreachable *domain.ErrUnreachable
	if errors.As(err, &unreachable) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func isCircuitOpen(err error) bool {
	if err == nil {
		return false
	}
	var open *domain.ErrCircuitOpen
	return errors.As(err, &open) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests)
}
