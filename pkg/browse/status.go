// Package browse implements the BrowseState threaded through every
// navigation and evaluation operation, and the structured error model
// (§4.1, §4.7) that rides on top of it.
package browse

// Status is the error-kind enum carried by every BrowseState operation
// (§4.7), verbatim.
type Status int

// The Status values, in the order the error model's §4.7 lists them.
const (
	Ok Status = iota
	Error
	InvalidParam
	InvalidState
	NoItem
	NotContainer
	DataError
	OutOfBounds
	NotImplemented
)

// String implements fmt.Stringer; Pretty is the public-facing equivalent of
// the C API's status_pretty (§6).
func (s Status) String() string { return Pretty(s) }

// Pretty renders a Status as the short human-readable name used in error
// messages and CLI output (implements the `status_pretty` façade operation,
// §6).
func Pretty(s Status) string {
	switch s {
	case Ok:
		return "ok"
	case Error:
		return "error"
	case InvalidParam:
		return "invalid parameter"
	case InvalidState:
		return "invalid state"
	case NoItem:
		return "no item"
	case NotContainer:
		return "not a container"
	case DataError:
		return "data error"
	case OutOfBounds:
		return "out of bounds"
	case NotImplemented:
		return "not implemented"
	default:
		return "unknown status"
	}
}
