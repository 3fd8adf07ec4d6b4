package api

import "fmt"

// FetchError reports exhaustion of every endpoint and attempt for one
// calendar year. Err holds the last underlying error.
type FetchError struct {
	Year int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch prayer times for year %d: %v", e.Year, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
