package access

import "fmt"

// DeniedError carries an authorization denial out of the service layer.
// The API error handler maps it to a 403 with the reason attached, so
// callers can render precise errors instead of a bare "forbidden".
type DeniedError struct {
	Reason Reason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

// Denied builds a DeniedError for the given reason.
func Denied(r Reason) error {
	return &DeniedError{Reason: r}
}

// Err converts a decision into an error: nil when allowed, a
// DeniedError otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Reason: d.Reason}
}
