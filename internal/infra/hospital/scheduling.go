package hospital

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
)

// ListConsultations fetches every scheduled consultation.
func (c *Client) ListConsultations(ctx context.Context) *domain.Envelope {
	return c.run(ctx, operation{
		name:     "consultations.list",
		method:   http.MethodGet,
		path:     "/main/consultas",
		resource: resConsultationList,
	})
}

// CreateConsultation schedules a consultation. The upstream only
// accepts the Portuguese field names for this resource.
func (c *Client) CreateConsultation(ctx context.Context, cons domain.Consultation) *domain.Envelope {
	body, _ := json.Marshal(map[string]any{
		"paciente":      cons.Patient,
		"cpf":           cons.CPF,
		"especialidade": cons.Specialty,
		"dataConsulta":  cons.Date,
		"observacoes":   cons.Notes,
	})
	return c.run(ctx, operation{
		name:     "consultations.create",
		method:   http.MethodPost,
		path:     "/main/consulta",
		bodies:   [][]byte{body},
		resource: resConsultation,
	})
}

// DeleteConsultation cancels a scheduled consultation.
func (c *Client) DeleteConsultation(ctx context.Context, id string) *domain.Envelope {
	return c.run(ctx, operation{
		name:     "consultations.delete",
		method:   http.MethodDelete,
		path:     "/main/consultas/" + id,
		resource: resNone,
	})
}

// ListExams fetches every scheduled exam.
func (c *Client) ListExams(ctx context.Context) *domain.Envelope {
	return c.run(ctx, operation{
		name:     "exams.list",
		method:   http.MethodGet,
		path:     "/main/exames",
		resource: resExamList,
	})
}

// CreateExam schedules an exam.
func (c *Client) CreateExam(ctx context.Context, exam domain.Exam) *domain.Envelope {
	body, _ := json.Marshal(map[string]any{
		"paciente":    exam.Patient,
		"cpf":         exam.CPF,
		"tipoExame":   exam.Type,
		"dataExame":   exam.Date,
		"observacoes": exam.Notes,
	})
	return c.run(ctx, operation{
		name:     "exams.create",
		method:   http.MethodPost,
		path:     "/main/exame",
		bodies:   [][]byte{body},
		resource: resExam,
	})
}

// DeleteExam cancels a scheduled exam.
func (c *Client) DeleteExam(ctx context.Context, id string) *domain.Envelope {
	return c.run(ctx, operation{
		name:     "exams.delete",
		method:   http.MethodDelete,
		path:     "/main/exames/" + id,
		resource: resNone,
	})
}
