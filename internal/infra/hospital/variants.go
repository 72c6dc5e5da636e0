package hospital

import (
	"encoding/json"

	"github.com/hospvida/hospital-admin-bff/internal/domain"
)

// The upstream contract for patient writes is undocumented and the
// accepted field naming differs between deployments. A write is
// attempted once per naming strategy, in a fixed order, until one is
// accepted. Each strategy is a pure function from the canonical record
// to one wire payload.
//
// TODO: drop the fallback once the upstream team publishes the schema
// for POST /main/paciente.
type namingStrategy struct {
	name  string
	build func(p domain.Patient) map[string]any
}

func writeStrategies() []namingStrategy {
	return []namingStrategy{
		{
			name: "portuguese-long",
			build: func(p domain.Patient) map[string]any {
				return map[string]any{
					"nomeCompleto":  p.Name,
					"cpfNumero":     p.CPF,
					"idadePaciente": p.Age,
					"sexo":          p.Gender,
					"planoSaude":    p.Plan,
				}
			},
		},
		{
			name: "portuguese-short",
			build: func(p domain.Patient) map[string]any {
				return map[string]any{
					"nome":  p.Name,
					"cpf":   p.CPF,
					"idade": p.Age,
					"sexo":  p.Gender,
					"plano": p.Plan,
				}
			},
		},
		{
			name: "canonical",
			build: func(p domain.Patient) map[string]any {
				return map[string]any{
					"name":   p.Name,
					"cpf":    p.CPF,
					"age":    p.Age,
					"gender": p.Gender,
					"plan":   p.Plan,
				}
			},
		},
	}
}

// encodeWriteVariants returns the ordered request bodies for a patient
// create/update.
func encodeWriteVariants(p domain.Patient) [][]byte {
	strategies := writeStrategies()
	bodies := make([][]byte, 0, len(strategies))
	for _, s := range strategies {
		b, err := json.Marshal(s.build(p))
		if err != nil {
			continue
		}
		bodies = append(bodies, b)
	}
	return bodies
}
