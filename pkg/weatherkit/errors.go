package weatherkit

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrUnsupportedKey    = errors.New("unsupported key: ES256 requires an ECDSA P-256 private key")
	ErrInvalidExpiry     = errors.New("token expiry must be at least one second")
)

// SigningError is returned when a token cannot be produced from the supplied credentials.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("weatherkit: sign token: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// RequestError is returned for transport failures and non-2xx responses.
// StatusCode is zero when no response was received.
type RequestError struct {
	Op         string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("weatherkit: %s: request failed: %v", e.Op, e.Err)
	}
	if len(e.Body) > 0 {
		return fmt.Sprintf("weatherkit: %s: HTTP %d: %s", e.Op, e.StatusCode, truncate(e.Body, 256))
	}
	return fmt.Sprintf("weatherkit: %s: HTTP %d", e.Op, e.StatusCode)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a 2xx response body does not decode into the expected shape.
type ParseError struct {
	Op   string
	Body []byte
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("weatherkit: %s: parse response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
