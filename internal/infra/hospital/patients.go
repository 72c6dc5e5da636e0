package hospital

import (
	"context"
	"net/http"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
)

// ListPatients fetches every registered patient.
func (c *Client) ListPatients(ctx context.Context) *domain.Envelope {
	return c.run(ctx, operation{
		name:     "patients.list",
		method:   http.MethodGet,
		path:     "/main/pacientes",
		resource: resPatientList,
	})
}

// CreatePatient registers a patient, trying each field-naming variant
// until the upstream accepts one.
func (c *Client) CreatePatient(ctx context.Context, p domain.Patient) *domain.Envelope {
	return c.run(ctx, operation{
		name:     "patients.create",
		method:   http.MethodPost,
		path:     "/main/paciente",
		bodies:   encodeWriteVariants(p),
		resource: resPatient,
	})
}

// UpdatePatient rewrites a patient record, with the same variant
// fallback as CreatePatient.
func (c *Client) UpdatePatient(ctx context.Context, id string, p domain.Patient) *domain.Envelope {
	return c.run(ctx, operation{
		name:     "patients.update",
		method:   http.MethodPut,
		path:     "/main/paciente/" + id,
		bodies:   encodeWriteVariants(p),
		resource: resPatient,
	})
}

// DeletePatient removes a patient record.
func (c *Client) DeletePatient(ctx context.Context, id string) *domain.Envelope {
	return c.run(ctx, operation{
		name:     "patients.delete",
		method:   http.MethodDelete,
		path:     "/main/paciente/" + id,
		resource: resNone,
	})
}
