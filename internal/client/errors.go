package client

import "fmt"

// UpstreamError carries a provider's non-2xx status and JSON error body so the
// gateway and handlers can relay them unchanged.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API request failed with status %d: %s", e.Provider, e.StatusCode, string(e.Body))
}
