package fetch

import (
	"errors"
	"fmt"
)

var ErrNoUploads = errors.New("no uploads collection")

// FetchError is returned when retrieving the catalog or the video details
// failed. The run cannot continue after one.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
