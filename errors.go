package strata

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by container operations. Match with errors.Is;
// returned values usually wrap these with additional context.
var (
	// ErrNotFound is returned when setting or updating a row that doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrIDOverflow is returned by Column pushes once the id space is exhausted.
	ErrIDOverflow = errors.New("id overflow")

	// ErrInconsistentState signals a missing bookkeeping counter, i.e. prior
	// corruption or misuse of the underlying storage. Callers must not ignore it.
	ErrInconsistentState = errors.New("inconsistent state")

	// ErrInvalidKeyLength is returned when decoding a key of the wrong size.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrInvalidUTF8 is returned when decoding a string key that isn't valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// DataError reports malformed stored bytes along with the data itself.
type DataError struct {
	Data []byte
	Err  error
	Msg  string
}

func dataErrf(data []byte, err error, format string, args ...any) error {
	return &DataError{Data: data, Err: err, Msg: fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x", e.Msg, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("%s: (%d) %x", e.Msg, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x...%x", e.Msg, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("%s: (%d) %x...%x", e.Msg, n, p, s)
		}
	}
}
