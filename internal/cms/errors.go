package cms

import "fmt"

// NotFoundError signals that the upstream CMS has no record for the
// requested resource. Callers branch on it to render an absent result
// instead of a transport failure.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// TransportError carries a non-2xx upstream status or a network-level
// failure. StatusCode is 0 when the request never produced a response.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cms request failed: %v", e.Err)
	}
	return fmt.Sprintf("cms request failed with status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
