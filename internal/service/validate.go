package service

import (
	"strings"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
)

// normalizeCPF strips mask characters so "390.533.447-05" and
// "39053344705" validate the same way.
func normalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validCPF(cpf string) bool {
	return len(cpf) == 11
}

func validatePatient(p *domain.Patient) map[string][]string {
	errs := map[string][]string{}

	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = append(errs["name"], "Nome é obrigatório")
	}
	p.CPF = normalizeCPF(p.CPF)
	if !validCPF(p.CPF) {
		errs["cpf"] = append(errs["cpf"], "CPF deve conter 11 dígitos")
	}
	if p.Age < 0 || p.Age > 130 {
		errs["age"] = append(errs["age"], "Idade deve estar entre 0 e 130")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateConsultation(c *domain.Consultation) map[string][]string {
	errs := map[string][]string{}

	if strings.TrimSpace(c.Patient) == "" {
		errs["patient"] = append(errs["patient"], "Paciente é obrigatório")
	}
	if c.CPF != "" {
		c.CPF = normalizeCPF(c.CPF)
		if !validCPF(c.CPF) {
			errs["cpf"] = append(errs["cpf"], "CPF deve conter 11 dígitos")
		}
	}
	if strings.TrimSpace(c.Specialty) == "" {
		errs["specialty"] = append(errs["specialty"], "Especialidade é obrigatória")
	}
	if strings.TrimSpace(c.Date) == "" {
		errs["date"] = append(errs["date"], "Data é obrigatória")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateExam(e *domain.Exam) map[string][]string {
	errs := map[string][]string{}

	if strings.TrimSpace(e.Patient) == "" {
		errs["patient"] = append(errs["patient"], "Paciente é obrigatório")
	}
	if e.CPF != "" {
		e.CPF = normalizeCPF(e.CPF)
		if !validCPF(e.CPF) {
			errs["cpf"] = append(errs["cpf"], "CPF deve conter 11 dígitos")
		}
	}
	if strings.TrimSpace(e.Type) == "" {
		errs["type"] = append(errs["type"], "Tipo de exame é obrigatório")
	}
	if strings.TrimSpace(e.Date) == "" {
		errs["date"] = append(errs["date"], "Data é obrigatória")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
