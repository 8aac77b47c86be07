package invoke

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNoAction        = errors.New("invoke: context has no action")
	ErrHandlerNotFound = errors.New("invoke: handler not found")
	ErrFilterNotFound  = errors.New("invoke: filter not found")
	ErrUnknownCodec    = errors.New("invoke: unknown codec")
)

// StatusError carries the HTTP status a handler asked for alongside its error.
type StatusError struct {
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s: %v", e.Status, http.StatusText(e.Status), e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// StatusOf returns the status carried by err, or def.
func StatusOf(err error, def int) int {
	var se *StatusError
	if errors.As(err, &se) && se.Status > 0 {
		return se.Status
	}
	return def
}
