package domain

import "fmt"

// MalformedDateError reports a date field that could not be parsed. It is
// fatal: without a parseable date the year/month/day derivation and every
// grouping built on it are impossible, so the pipeline aborts.
type MalformedDateError struct {
	Value string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed observation date %q: want 2006-01-02 or 20060102", e.Value)
}
