package types

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestArticleIntoColumnOrder(t *testing.T) {
	a := Article{Title: "T", URL: "https://x/t", Published: "p"}
	if got := a.Into(); !reflect.DeepEqual(got, []string{"T", "https://x/t", "p"}) {
		t.Fatalf("Into() = %v", got)
	}
	if len(a.Into()) != len(Header) {
		t.Fatalf("row width %d does not match header width %d", len(a.Into()), len(Header))
	}
}

func TestFetchErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewFetchError("html", "https://x", "request failed", io.ErrUnexpectedEOF))

	if !IsFetchError(err) {
		t.Fatalf("IsFetchError should see through wrapping")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("FetchError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "https://x") {
		t.Fatalf("error text should name the url: %q", err.Error())
	}
	if IsFetchError(errors.New("plain")) {
		t.Fatalf("plain error is not a FetchError")
	}
}
