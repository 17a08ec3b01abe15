package wiki

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	ErrNetwork       = errors.New("network error")
	ErrNotFound      = errors.New("not found")
	ErrMalformedData = errors.New("malformed structured data")
	ErrExport        = errors.New("export failed")
)

// NetworkError reports an unreachable host, timeout or non-2xx status.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is matches ErrNetwork.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// NotFoundError reports that a query resolved to no article.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no article found for %q", e.Query)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// MalformedDataError reports a structured-data block that failed to decode.
type MalformedDataError struct {
	Index int
	Err   error
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("structured data block %d: %v", e.Index, e.Err)
}

func (e *MalformedDataError) Unwrap() error { return e.Err }

// Is matches ErrMalformedData.
func (e *MalformedDataError) Is(target error) bool { return target == ErrMalformedData }

// ExportError reports a rendering or file sink failure.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Is matches ErrExport.
func (e *ExportError) Is(target error) bool { return target == ErrExport }
