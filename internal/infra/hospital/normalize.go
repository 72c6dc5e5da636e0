package hospital

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/hospvida/hospital-admin-bff/internal/domain"

	"github.com/google/uuid"
)

// resourceKind tells the normalizer how to shape the Data field of a
// successful envelope.
type resourceKind int

const (
	resNone resourceKind = iota
	resPatient
	resPatientList
	resConsultation
	resConsultationList
	resExam
	resExamList
)

// newEnvelope stamps the shared envelope fields. RequestID and Timestamp
// are assigned here, at response-handling time, never at request-issue
// time.
func newEnvelope(status int) *domain.Envelope {
	return &domain.Envelope{
		Status:    status,
		RequestID: uuid.New().String(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// normalizeSuccess reconciles a 200/201 body into a canonical envelope.
// Non-JSON bodies do not fail the call: the raw text becomes a message,
// and for a 201 patient creation a minimal placeholder record is
// synthesized so the caller's happy path has all fields present.
func normalizeSuccess(status int, body []byte, statusText string, kind resourceKind) *domain.Envelope {
	env := newEnvelope(status)
	env.Success = true

	var raw any
	if len(body) > 0 && json.Unmarshal(body, &raw) == nil {
		env.Data = shapeData(raw, kind)
		return env
	}

	// Non-JSON success body.
	text := strings.TrimSpace(string(body))
	if status == 201 && (kind == resPatient || kind == resConsultation || kind == resExam) {
		env.Data = placeholderRecord(kind)
		if text != "" {
			env.Details = &domain.ErrorDetails{ServerMessage: text, StatusText: statusText}
		}
		return env
	}
	env.Data = map[string]any{"message": text}
	return env
}

func placeholderRecord(kind resourceKind) any {
	id := uuid.New().String()
	switch kind {
	case resPatient:
		return domain.Patient{ID: id}
	case resConsultation:
		return domain.Consultation{ID: id}
	case resExam:
		return domain.Exam{ID: id}
	}
	return nil
}

func shapeData(raw any, kind resourceKind) any {
	switch kind {
	case resPatient:
		if m, ok := raw.(map[string]any); ok {
			return patientFromMap(m)
		}
	case resPatientList:
		return patientsFromAny(raw)
	case resConsultation:
		if m, ok := raw.(map[string]any); ok {
			return consultationFromMap(m)
		}
	case resConsultationList:
		if list, ok := raw.([]any); ok {
			out := make([]domain.Consultation, 0, len(list))
			for _, item := range list {
				if m, ok := item.(map[string]any); ok {
					out = append(out, consultationFromMap(m))
				}
			}
			return out
		}
	case resExam:
		if m, ok := raw.(map[string]any); ok {
			return examFromMap(m)
		}
	case resExamList:
		if list, ok := raw.([]any); ok {
			out := make([]domain.Exam, 0, len(list))
			for _, item := range list {
				if m, ok := item.(map[string]any); ok {
					out = append(out, examFromMap(m))
				}
			}
			return out
		}
	}
	return raw
}

func patientsFromAny(raw any) []domain.Patient {
	list, ok := raw.([]any)
	if !ok {
		// some endpoints wrap the array: {"pacientes": [...]} or {"data": [...]}
		if m, ok := raw.(map[string]any); ok {
			for _, key := range []string{"pacientes", "data", "patients"} {
				if inner, ok := m[key].([]any); ok {
					list = inner
					break
				}
			}
		}
	}
	out := make([]domain.Patient, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, patientFromMap(m))
		}
	}
	return out
}

// Alternate-language key priority per canonical patient field. The first
// present key wins; absent fields default to "" / 0, never null.
var patientAliases = map[string][]string{
	"id":     {"id", "_id", "codigo"},
	"name":   {"nomeCompleto", "nome", "name"},
	"cpf":    {"cpfNumero", "cpf"},
	"age":    {"idadePaciente", "idade", "age"},
	"gender": {"sexo", "genero", "gender"},
	"plan":   {"planoSaude", "plano", "plan"},
}

// alternateKeys are the Portuguese key names whose presence marks an
// object as needing remapping. Objects already in canonical form are
// passed through untouched to avoid corrupting them.
var alternateKeys = []string{
	"nomeCompleto", "nome", "cpfNumero", "idadePaciente", "idade",
	"sexo", "genero", "planoSaude", "plano",
}

func hasAlternateKeys(m map[string]any) bool {
	for _, k := range alternateKeys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

func patientFromMap(m map[string]any) domain.Patient {
	if !hasAlternateKeys(m) {
		return domain.Patient{
			ID:     stringField(m, "id", "_id"),
			Name:   stringField(m, "name"),
			CPF:    stringField(m, "cpf"),
			Age:    intField(m, "age"),
			Gender: stringField(m, "gender"),
			Plan:   stringField(m, "plan"),
		}
	}
	return domain.Patient{
		ID:     stringField(m, patientAliases["id"]...),
		Name:   stringField(m, patientAliases["name"]...),
		CPF:    stringField(m, patientAliases["cpf"]...),
		Age:    intField(m, patientAliases["age"]...),
		Gender: stringField(m, patientAliases["gender"]...),
		Plan:   stringField(m, patientAliases["plan"]...),
	}
}

func consultationFromMap(m map[string]any) domain.Consultation {
	return domain.Consultation{
		ID:        stringField(m, "id", "_id", "codigo"),
		Patient:   stringField(m, "paciente", "nomePaciente", "patient"),
		CPF:       stringField(m, "cpfPaciente", "cpf"),
		Specialty: stringField(m, "especialidade", "specialty"),
		Date:      stringField(m, "dataConsulta", "data", "date"),
		Notes:     stringField(m, "observacoes", "notes"),
	}
}

func examFromMap(m map[string]any) domain.Exam {
	return domain.Exam{
		ID:      stringField(m, "id", "_id", "codigo"),
		Patient: stringField(m, "paciente", "nomePaciente", "patient"),
		CPF:     stringField(m, "cpfPaciente", "cpf"),
		Type:    stringField(m, "tipoExame", "tipo", "type"),
		Date:    stringField(m, "dataExame", "data", "date"),
		Notes:   stringField(m, "observacoes", "notes"),
	}
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return ""
}

func intField(m map[string]any, keys ...string) int {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return n
			}
		}
	}
	return 0
}

// normalizeFailure builds the envelope for a failed operation. The body,
// when present, is mined for a server message and field-level
// validation errors; an unparseable body degrades to "HTTP <status>".
func normalizeFailure(status int, body []byte, statusText string, cls *domain.Classification) *domain.Envelope {
	env := newEnvelope(status)
	env.Success = false

	details := &domain.ErrorDetails{
		StatusText:  statusText,
		Kind:        cls.Kind,
		Suggestions: cls.Suggestions,
		Retryable:   cls.Retryable,
	}

	msg := cls.Message
	if status > 0 {
		serverMsg, validation := parseErrorBody(body)
		if serverMsg == "" {
			serverMsg = "HTTP " + strconv.Itoa(status)
		}
		details.ServerMessage = serverMsg
		details.ValidationErrors = validation
		if cls.Kind == domain.KindValidation && serverMsg != "" {
			msg = serverMsg
		}
	} else if cls.TechnicalMessage != "" {
		details.ServerMessage = cls.TechnicalMessage
	}

	env.Error = msg
	env.Details = details
	return env
}

// parseErrorBody probes the error payload for a human message and
// field-level validation errors. The server reports validation failures
// in one of three known shapes, handled as an explicit tagged union:
//  1. a direct map of field → message(s)
//  2. an array of {field, message} objects
//  3. a single {field, message} pair at the top level
func parseErrorBody(body []byte) (string, map[string][]string) {
	if len(body) == 0 {
		return "", nil
	}
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return strings.TrimSpace(string(body)), nil
	}

	msg := stringField(m, "message", "error", "detail", "msg")

	for _, key := range []string{"errors", "validationErrors"} {
		if v, ok := m[key]; ok {
			if ve := validationFromAny(v); len(ve) > 0 {
				return msg, ve
			}
		}
	}
	// shape 3: {field, message} at the top level
	if field := stringField(m, "field", "campo"); field != "" {
		if fm := stringField(m, "message", "mensagem"); fm != "" {
			return msg, map[string][]string{field: {fm}}
		}
	}
	return msg, nil
}

func validationFromAny(v any) map[string][]string {
	out := map[string][]string{}
	switch t := v.(type) {
	case map[string]any:
		// shape 1: field → message or field → [messages]
		for field, val := range t {
			switch fv := val.(type) {
			case string:
				out[field] = append(out[field], fv)
			case []any:
				for _, item := range fv {
					if s, ok := item.(string); ok {
						out[field] = append(out[field], s)
					}
				}
			}
		}
	case []any:
		// shape 2: [{field, message}, ...]
		for _, item := range t {
			pair, ok := item.(map[string]any)
			if !ok {
				continue
			}
			field := stringField(pair, "field", "campo")
			msg := stringField(pair, "message", "mensagem")
			if field != "" && msg != "" {
				out[field] = append(out[field], msg)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
