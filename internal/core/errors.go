package core

// Error codes for protocol errors surfaced to clients. Authorization and
// not-found failures on message mutations are deliberately silent no-ops
// so callers cannot probe for message existence.
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeUnknownType = "invalid_message"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}
