package httpx

import "fmt"

// AuthError indicates missing or rejected credentials. It is always fatal
// for the run that hits it: no partial credential state is usable.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// TransientHTTPError carries the status and endpoint of a non-success
// response. Callers decide per call whether to abort or skip and continue.
type TransientHTTPError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *TransientHTTPError) Error() string {
	return fmt.Sprintf("HTTP error from %s: %s", e.Endpoint, e.Status)
}

// NotFoundError indicates the remote target no longer exists, e.g. a
// deleted post. Never a reason to delete the local record.
type NotFoundError struct {
	Endpoint string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Endpoint)
}
