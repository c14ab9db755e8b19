package errors

import "errors"

// Kind tells a caller what to do with a failure: retry it, drop it, or back off.
type Kind int

const (
	KindUnknown Kind = iota
	// worth retrying as-is (broker down, connection reset, deadline)
	KindTransient
	// retrying will fail the same way (bad payload, missing file, constraint violation)
	KindPermanent
	// a dependency is out of capacity or unavailable (model not loaded, too many connections)
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	case KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

// failure categories
var (
	ErrTransport         = errors.New("broker transport failure")
	ErrMalformedMessage  = errors.New("malformed message")
	ErrSourceNotFound    = errors.New("source not found")
	ErrEmbedding         = errors.New("embedding failure")
	ErrStore             = errors.New("store failure")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrNotFound          = errors.New("not found")
)

// Error attaches a Kind and the failing operation to an underlying error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}

	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorResponse is the body returned by the query endpoint on failure
type ErrorResponse struct {
	Error string `json:"error"`
}

type ErrorInfo struct {
	category  string
	sanitized string
}
