package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

type OPML struct {
	XMLName xml.Name `xml:"opml"`
	Body    OPMLBody `xml:"body"`
}

type OPMLBody struct {
	Outlines []OPMLOutline `xml:"outline"`
}

type OPMLOutline struct {
	Title    string        `xml:"title,attr"`
	Text     string        `xml:"text,attr"`
	XMLURL   string        `xml:"xmlUrl,attr"`
	HTMLURL  string        `xml:"htmlUrl,attr"`
	Outlines []OPMLOutline `xml:"outline"`
}

// LoadOPMLSources reads feed outlines from an OPML file in document order.
// An outline's htmlUrl, when present, becomes the source's fallback page.
func LoadOPMLSources(path string) ([]SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OPML file: %w", err)
	}
	return ParseOPML(data)
}

func ParseOPML(data []byte) ([]SourceConfig, error) {
	var opml OPML
	if err := xml.Unmarshal(data, &opml); err != nil {
		return nil, fmt.Errorf("failed to parse OPML: %w", err)
	}

	var sources []SourceConfig
	extractSources(&sources, opml.Body.Outlines)

	return sources, nil
}

func extractSources(result *[]SourceConfig, outlines []OPMLOutline) {
	for _, outline := range outlines {
		if outline.XMLURL != "" {
			name := outline.Title
			if name == "" {
				name = outline.Text
			}
			if name == "" {
				name = outline.XMLURL
			}

			*result = append(*result, SourceConfig{
				Section: sanitizeName(name),
				URL:     outline.XMLURL,
				Page:    outline.HTMLURL,
			})
		}

		if len(outline.Outlines) > 0 {
			extractSources(result, outline.Outlines)
		}
	}
}

func sanitizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, ".", "-")
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, "&", "and")

	var result strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}

	return result.String()
}
