package takeout

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/umputun/feedsync/pkg/domain"
)

// maxListSize limits the subscription list extracted from a zip archive
const maxListSize = 32 * 1024 * 1024

var zipMagic = []byte("PK\x03\x04")

// Entry is one subscription declared in the list
type Entry struct {
	Title    string
	URL      string
	Category string // nearest folder, empty if none
}

type opmlDoc struct {
	XMLName xml.Name  `xml:"opml"`
	Body    []outline `xml:"body>outline"`
}

type outline struct {
	Text     string    `xml:"text,attr"`
	Title    string    `xml:"title,attr"`
	XMLURL   string    `xml:"xmlUrl,attr"`
	Category string    `xml:"category,attr"`
	Outlines []outline `xml:"outline"`
}

// ParseSubscriptions reads subscription entries from a takeout archive.
// The archive is either the subscription list itself or a zip with a *subscriptions.xml file.
// Outlines with children are folders, the rest are subscriptions, unknown elements are ignored.
func ParseSubscriptions(archive []byte) ([]Entry, error) {
	raw := archive
	if bytes.HasPrefix(archive, zipMagic) {
		var err error
		if raw, err = listFromZip(archive); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedDocument, err)
		}
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity
	var doc opmlDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode subscription list: %w", domain.ErrMalformedDocument, err)
	}

	var entries []Entry
	var walk func(outlines []outline, folder string)
	walk = func(outlines []outline, folder string) {
		for _, o := range outlines {
			if len(o.Outlines) > 0 {
				walk(o.Outlines, firstNonEmpty(o.Title, o.Text))
				continue
			}
			category := folder
			if category == "" {
				category = categoryAttr(o.Category)
			}
			entries = append(entries, Entry{
				Title:    firstNonEmpty(o.Title, o.Text),
				URL:      strings.TrimSpace(o.XMLURL),
				Category: category,
			})
		}
	}
	walk(doc.Body, "")
	return entries, nil
}

// listFromZip returns the content of the subscription list file inside the zip
func listFromZip(archive []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(path.Base(f.Name)), "subscriptions.xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxListSize+1))
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		if len(data) > maxListSize {
			return nil, fmt.Errorf("%s is larger than %d bytes", f.Name, maxListSize)
		}
		return data, nil
	}
	return nil, errors.New("no subscriptions.xml in archive")
}

// categoryAttr takes the first category of an opml category attribute, "/Tech/Go,/News" gives "Go"
func categoryAttr(v string) string {
	first, _, _ := strings.Cut(v, ",")
	first = strings.Trim(strings.TrimSpace(first), "/")
	if i := strings.LastIndex(first, "/"); i >= 0 {
		first = first[i+1:]
	}
	return strings.TrimSpace(first)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
