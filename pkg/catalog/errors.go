package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFetchFailed matches every *FetchError. The previous snapshot is kept
	// when it is returned.
	ErrFetchFailed = errors.New("catalog fetch failed")
	ErrClosed      = errors.New("catalog store closed")
)

type SourceName string

const (
	SourceGroups      SourceName = "groups"
	SourceInstruments SourceName = "instruments"
	SourceGenres      SourceName = "genres"
)

type SourceError struct {
	Source SourceName
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e SourceError) Unwrap() error {
	return e.Err
}

type FetchError struct {
	Failures []SourceError
}

func (e *FetchError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%v: %s", ErrFetchFailed, strings.Join(parts, "; "))
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

func (e *FetchError) Unwrap() []error {
	ret := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		ret[i] = f
	}
	return ret
}

// Failed reports whether source is among the failures.
func (e *FetchError) Failed(source SourceName) bool {
	for _, f := range e.Failures {
		if f.Source == source {
			return true
		}
	}
	return false
}
