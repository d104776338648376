package domain

import "fmt"

// ErrorKind enumerates the failure classes of a simulation attempt.
type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindAuth
	KindSchema
	KindEmptyResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindSchema:
		return "schema"
	case KindEmptyResponse:
		return "empty_response"
	default:
		return "transport"
	}
}

// SimulationError is the single error type surfaced by a simulation attempt.
// Message is shown to the user verbatim.
type SimulationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SimulationError) Error() string { return e.Message }

// Unwrap exposes the underlying cause.
func (e *SimulationError) Unwrap() error { return e.Err }

// Is matches any SimulationError of the same kind, so callers can write
// errors.Is(err, domain.ErrAuth).
func (e *SimulationError) Is(target error) bool {
	t, ok := target.(*SimulationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrTransport     = &SimulationError{Kind: KindTransport, Message: "inference request failed"}
	ErrAuth          = &SimulationError{Kind: KindAuth, Message: "credential missing, invalid or rejected"}
	ErrSchema        = &SimulationError{Kind: KindSchema, Message: "response does not match the result schema"}
	ErrEmptyResponse = &SimulationError{Kind: KindEmptyResponse, Message: "Null response from the simulation engine."}
)

// NewTransportError keeps the raw failure text as the message.
func NewTransportError(cause error) *SimulationError {
	return &SimulationError{Kind: KindTransport, Message: cause.Error(), Err: cause}
}

// NewEmptyResponseError reports a call that returned no body.
func NewEmptyResponseError() *SimulationError {
	return &SimulationError{Kind: KindEmptyResponse, Message: ErrEmptyResponse.Message}
}

// NewSchemaError reports a malformed or incomplete response.
func NewSchemaError(format string, args ...any) *SimulationError {
	return &SimulationError{Kind: KindSchema, Message: fmt.Sprintf("schema: "+format, args...)}
}

// WithKind returns a copy of e reclassified to kind. The message is kept.
func (e *SimulationError) WithKind(kind ErrorKind) *SimulationError {
	return &SimulationError{Kind: kind, Message: e.Message, Err: e.Err}
}
