package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"

	"github.com/umputun/feedsync/pkg/domain"
)

// supported document formats
const (
	FormatRSS  = "rss"
	FormatAtom = "atom"
)

var atomNamespaces = map[string]bool{
	"http://www.w3.org/2005/Atom": true,
	"http://purl.org/atom/ns#":    true, // atom 0.3
}

// Parser converts raw RSS/Atom documents into normalized entries.
// It never touches the network, so the same bytes always parse the same way.
type Parser struct {
	now func() time.Time
}

// NewParser creates a new feed parser
func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// Parse detects the document format by its root element and extracts feed title and entries.
// Returns domain.ErrMalformedDocument if the document is not well-formed XML or is neither RSS nor Atom.
func (p *Parser) Parse(raw []byte) (*domain.ParsedFeed, error) {
	format, err := detectFormat(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedDocument, err)
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrMalformedDocument, format, err)
	}

	// undated entries share one fallback timestamp so repeated iteration yields identical entries
	parsedAt := p.now().UTC()
	items := parsed.Items

	return &domain.ParsedFeed{
		Title:  strings.TrimSpace(parsed.Title),
		Format: format,
		Entries: func(yield func(domain.RawEntry) bool) {
			for _, item := range items {
				if item == nil {
					continue
				}
				if !yield(toRawEntry(item, parsedAt)) {
					return
				}
			}
		},
	}, nil
}

// detectFormat walks the whole document with a strict decoder and returns the format of its root element
func detectFormat(raw []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = true
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	format := ""
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("not well-formed: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || format != "" {
			continue
		}
		switch {
		case start.Name.Local == "rss", start.Name.Local == "RDF":
			format = FormatRSS
		case start.Name.Local == "feed" && (start.Name.Space == "" || atomNamespaces[start.Name.Space]):
			format = FormatAtom
		default:
			return "", fmt.Errorf("unsupported root element %q", start.Name.Local)
		}
	}

	if format == "" {
		return "", errors.New("no root element")
	}
	return format, nil
}

// toRawEntry converts a gofeed item, preferring full content over summary and published over updated
func toRawEntry(item *gofeed.Item, parsedAt time.Time) domain.RawEntry {
	entry := domain.RawEntry{
		GUID:    strings.TrimSpace(item.GUID),
		Title:   strings.TrimSpace(item.Title),
		Link:    strings.TrimSpace(item.Link),
		Content: item.Content,
	}
	if strings.TrimSpace(entry.Content) == "" {
		entry.Content = item.Description
	}
	if entry.Link == "" && len(item.Links) > 0 {
		entry.Link = strings.TrimSpace(item.Links[0])
	}

	switch {
	case item.PublishedParsed != nil:
		entry.Published = item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		entry.Published = item.UpdatedParsed.UTC()
	default:
		entry.Published = parsedAt
		entry.Undated = true
	}
	return entry
}
