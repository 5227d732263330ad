package services

import "fmt"

// UpstreamAPIError means the KMA API answered, but with a non-success result
// code in the payload header. The routing layer maps it to a gateway error
// and preserves the upstream message.
type UpstreamAPIError struct {
	Code    string
	Message string
}

func (e *UpstreamAPIError) Error() string {
	return fmt.Sprintf("KMA API error %s: %s", e.Code, e.Message)
}
