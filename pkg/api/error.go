package api

import "fmt"

// Error is returned for any transport-level failure: a non-2xx status, a
// body carrying ok:false, or a body that could not be decoded. Status is the
// HTTP status code (0 when the failure happened before a response arrived)
// and Body holds whatever JSON the server sent back, when parseable.
type Error struct {
	Status int
	Msg    string
	Body   map[string]any
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("api: %s (HTTP %d)", e.Msg, e.Status)
	}
	return fmt.Sprintf("api: HTTP %d", e.Status)
}

// Unauthorized reports whether the error is an authorization failure that a
// credential reload may fix.
func (e *Error) Unauthorized() bool {
	return e.Status == 401
}
