package client

import "fmt"

// TransportErrorKind distinguishes the ways a request to the upstream API
// can fail before we ever see a usable payload.
type TransportErrorKind int

const (
	// KindHTTPStatus means the upstream answered with a non-2xx status.
	KindHTTPStatus TransportErrorKind = iota
	// KindNetwork covers DNS, connection and timeout failures.
	KindNetwork
	// KindDecode means the response body was not valid JSON.
	KindDecode
)

func (k TransportErrorKind) String() string {
	switch k {
	case KindHTTPStatus:
		return "http_status"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// TransportError is returned for any failure while reaching the upstream API.
// The routing layer maps it to a gateway error.
type TransportError struct {
	Kind       TransportErrorKind
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("upstream request failed (%s, endpoint=%s): HTTP %d", e.Kind, e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("upstream request failed (%s, endpoint=%s): %v", e.Kind, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
