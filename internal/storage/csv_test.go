package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"headlines/internal/types"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	return rows
}

func TestCSVStoreInitializeWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "articles.csv")
	store := NewCSVStore(path, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Initialize(ctx); err != nil {
			t.Fatalf("Initialize #%d error: %v", i, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "Title,URL,Published\n" {
		t.Fatalf("file content = %q", string(data))
	}
}

func TestCSVStoreInitializeKeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.csv")
	if err := os.WriteFile(path, []byte("existing,row,here\n"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	if err := NewCSVStore(path, nil).Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "existing,row,here\n" {
		t.Fatalf("existing file was modified: %q", string(data))
	}
}

func TestCSVStoreWriteAppendsRowsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.csv")
	store := NewCSVStore(path, nil)
	ctx := context.Background()

	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("Initialize error: %v", err)
	}

	articles := []types.Article{
		{Title: "One", URL: "https://x/1", Published: "Mon, 02 Jan 2006"},
		{Title: "Two, with comma", URL: "https://x/2"},
		{Title: `Three "quoted"`, URL: "https://x/3"},
	}
	if err := store.Write(ctx, articles); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	rows := readRows(t, path)
	if len(rows) != 1+len(articles) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), 1+len(articles))
	}
	if !reflect.DeepEqual(rows[0], types.Header) {
		t.Fatalf("header = %v", rows[0])
	}
	for i, article := range articles {
		if len(rows[i+1]) != 3 {
			t.Fatalf("row %d has %d fields", i+1, len(rows[i+1]))
		}
		if !reflect.DeepEqual(rows[i+1], article.Into()) {
			t.Fatalf("row %d = %v, want %v", i+1, rows[i+1], article.Into())
		}
	}
}

func TestCSVStoreTwoRunsAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.csv")
	ctx := context.Background()

	runs := [][]types.Article{
		{{Title: "A", URL: "https://x/a"}, {Title: "B", URL: "https://x/b"}},
		{{Title: "C", URL: "https://x/c", Published: "today"}},
	}

	for _, batch := range runs {
		store := NewCSVStore(path, nil)
		if err := store.Initialize(ctx); err != nil {
			t.Fatalf("Initialize error: %v", err)
		}
		if err := store.Write(ctx, batch); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}

	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), "Title,URL,Published"); n != 1 {
		t.Fatalf("header count = %d, want 1", n)
	}

	rows := readRows(t, path)
	want := [][]string{
		types.Header,
		{"A", "https://x/a", ""},
		{"B", "https://x/b", ""},
		{"C", "https://x/c", "today"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %v, want %v", rows, want)
	}
}

func TestCSVStoreWriteEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.csv")
	store := NewCSVStore(path, nil)

	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	if err := store.Write(context.Background(), nil); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	if rows := readRows(t, path); len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want header only", len(rows))
	}
}
