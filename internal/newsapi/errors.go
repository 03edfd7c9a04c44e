package newsapi

import (
	"fmt"
	"net/http"
)

// TransportError reports that no HTTP response was received: connectivity,
// DNS, TLS, timeout or cancellation.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RequestFailedError reports a non-2xx HTTP status. The body is not decoded.
type RequestFailedError struct {
	StatusCode int
}

func (e *RequestFailedError) Error() string {
	text := http.StatusText(e.StatusCode)
	if text == "" {
		return fmt.Sprintf("request failed: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed: HTTP %d %s", e.StatusCode, text)
}

// DecodingError reports a response body that does not have the expected shape.
type DecodingError struct {
	Err error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decoding error: %v", e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }
