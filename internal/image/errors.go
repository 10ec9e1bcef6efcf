package image

import "fmt"

// ApiError is a non-200 response from the generation endpoint.
type ApiError struct {
	StatusCode int
	Body       string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("API Error %d: %s", e.StatusCode, e.Body)
}

// TransportError covers connection failures, timeouts and cancellation.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "request failed: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError covers malformed response JSON, missing artifacts and bad image data.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "invalid response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }
