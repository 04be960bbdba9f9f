package types

import (
	"errors"
	"fmt"
)

type FetchError struct {
	Source string
	URL    string
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s fetch %s: %s: %v", e.Source, e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s fetch %s: %s", e.Source, e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

func NewFetchError(source, url, reason string, err error) *FetchError {
	return &FetchError{
		Source: source,
		URL:    url,
		Reason: reason,
		Err:    err,
	}
}
