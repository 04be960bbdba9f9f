package feed

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"headlines/internal/types"
)

var sample = []types.Article{
	{Title: "Feed story", URL: "https://x/feed", Published: "Mon, 02 Jan 2006 15:04:05 GMT"},
	{Title: "Scraped story", URL: "https://x/scraped"},
}

func newTestTarget(t *testing.T, format string) (*Target, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export", "headlines."+format)
	target := NewTarget(Config{Path: path, Format: format, Title: "Test", Link: "https://x"}, nil)
	target.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }
	if err := target.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	return target, path
}

func TestTargetWritesRSS(t *testing.T) {
	target, path := newTestTarget(t, TypeRSS)

	if err := target.Write(context.Background(), sample); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	out := string(data)
	for _, want := range []string{"<rss", "Feed story", "https://x/scraped", "02 Jan 2006"} {
		if !strings.Contains(out, want) {
			t.Fatalf("RSS output missing %q:\n%s", want, out)
		}
	}
}

func TestTargetWritesJSON(t *testing.T) {
	target, path := newTestTarget(t, TypeJSON)

	if err := target.Write(context.Background(), sample); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	data, _ := os.ReadFile(path)
	var doc struct {
		Items []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("JSON feed does not decode: %v\n%s", err, data)
	}
	if len(doc.Items) != 2 || doc.Items[1].Title != "Scraped story" {
		t.Fatalf("unexpected JSON items: %+v", doc.Items)
	}
}

func TestTargetReplacesPreviousExport(t *testing.T) {
	target, path := newTestTarget(t, TypeAtom)
	ctx := context.Background()

	if err := target.Write(ctx, sample); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := target.Write(ctx, sample[1:]); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "Feed story") {
		t.Fatalf("export should only contain the latest run")
	}
}

func TestTargetRejectsUnknownFormat(t *testing.T) {
	target := NewTarget(Config{Path: "x", Format: "csv"}, nil)
	if err := target.Initialize(context.Background()); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
