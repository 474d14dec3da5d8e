package datasource

const (
	MsgNoLocation      = "No location available"
	MsgFetchFailed     = "Failed to fetch weather data"
	MsgUnexpectedError = "An unexpected error occurred"
)

// FetchFailedError is returned for every failure of the forecast fetch stage.
// Message is meant to be shown to the user as-is.
type FetchFailedError struct {
	Message    string
	StatusCode int // HTTP status, 0 when no response was received
	Err        error
}

func (e *FetchFailedError) Error() string {
	return e.Message
}

func (e *FetchFailedError) Unwrap() error {
	return e.Err
}

func fetchFailed(message string, status int, err error) *FetchFailedError {
	return &FetchFailedError{Message: message, StatusCode: status, Err: err}
}
