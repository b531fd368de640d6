package scraper

import (
	"errors"
	"fmt"
)

// TransportError reports a non-success HTTP status from the upstream API.
type TransportError struct {
	StatusCode int
	Resource   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Resource, e.StatusCode)
}

// IsTransportError reports whether err wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
