// Package apierror holds the JSON envelopes returned on every 4xx/5xx.
// Internal details (SQL, stack traces, upstream messages) never reach them.
package apierror

// Machine-readable codes for the cases a client is expected to branch on.
const (
	CodigoConflicto    = "conflicto_version"
	CodigoNoEncontrado = "no_encontrado"
	CodigoNoAutorizado = "no_autorizado"
	CodigoValidacion   = "validacion"
	CodigoInterno      = "interno"
)

// APIError is the canonical error envelope.
type APIError struct {
	Detail    string `json:"detail"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// WithCode returns a copy tagged with code.
func (e *APIError) WithCode(code string) *APIError {
	cp := *e
	cp.Code = code
	return &cp
}

// Conflicto answers a write rejected because the source balance moved; the
// client must recompute its projection and resubmit.
func Conflicto(msg string) *APIError {
	return &APIError{Detail: msg, Code: CodigoConflicto}
}

// Interno is the only body a 500 ever carries.
func Interno(requestID string) *APIError {
	return &APIError{Detail: "Error interno del servidor", Code: CodigoInterno, RequestID: requestID}
}

// ValidationError maps field names, as the client sent them, to messages.
type ValidationError struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Code: CodigoValidacion, Fields: fields}
}
