package location

import "fmt"

const (
	MsgNotSupported = "Geolocation not supported"
	MsgUnavailable  = "Unable to retrieve location"
)

// UnavailableError is returned when no coordinate can be determined.
// Message is meant to be shown to the user as-is.
type UnavailableError struct {
	Message string
	Err     error
}

func (e *UnavailableError) Error() string {
	return e.Message
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// PositionErrorCode classifies a failed device position attempt
type PositionErrorCode int

const (
	PermissionDenied PositionErrorCode = iota + 1
	PositionUnavailable
	Timeout
)

func (c PositionErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "permission denied"
	case PositionUnavailable:
		return "position unavailable"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("code %d", int(c))
	}
}

// PositionError is reported by a Device when it cannot produce a position
type PositionError struct {
	Code PositionErrorCode
	Err  error
}

func (e *PositionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("device position %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("device position %s", e.Code)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}
