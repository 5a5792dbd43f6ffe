package tichu

import "fmt"

// ErrorKind classifies a core rejection so the dispatcher can pick the
// right outbound event without parsing error strings.
type ErrorKind string

const (
	ErrNotFound        ErrorKind = "NotFound"
	ErrWrongPhase      ErrorKind = "WrongPhase"
	ErrNotYourTurn     ErrorKind = "NotYourTurn"
	ErrIllegalTrick    ErrorKind = "IllegalTrick"
	ErrIllegalBeat     ErrorKind = "IllegalBeat"
	ErrNotYourCards    ErrorKind = "NotYourCards"
	ErrTeamFull        ErrorKind = "TeamFull"
	ErrExchangeInvalid ErrorKind = "ExchangeInvalid"
)

// CoreError is the one error type every core operation returns. It is
// total: every operation returns a value or a CoreError, never a panic or
// an ambiguous generic error (except for genuine programmer-error
// invariant violations, which are documented as such and panic).
type CoreError struct {
	Kind ErrorKind
	msg  string
}

func (e *CoreError) Error() string {
	if e.msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func newErr(kind ErrorKind, format string, args ...any) *CoreError {
	return &CoreError{Kind: kind, msg: fmt.Sprintf(format, args...)}
}
