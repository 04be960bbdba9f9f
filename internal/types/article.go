package types

import "headlines/internal"

// Header is the fixed column order of every persisted article row.
var Header = []string{"Title", "URL", "Published"}

// Article is one headline collected during a run. Published is free-form
// text copied from the source and may be empty.
type Article struct {
	Title     string
	URL       string
	Published string
}

var _ internal.Into[[]string] = Article{}

func (a Article) Into() []string {
	return []string{a.Title, a.URL, a.Published}
}

type Section struct {
	Name string
	URL  string
	Page string
}
