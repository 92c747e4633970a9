// Package chunk splits per-page source text into overlapping fixed-size word
// windows, attaching provenance metadata to each window.
package chunk

import (
	"fmt"
	"strings"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
	"github.com/techdesk-ai/go-techdesk/pkg/techdesk"
)

// Default window geometry, in words.
const (
	DefaultSize    = 200
	DefaultOverlap = 50
)

// Page is one unit of ingested source text. Number is 1-based; non-paginated
// sources (web pages) use a pseudo-page number.
type Page struct {
	Number int
	Text   string
}

// Options configures a chunking pass over one source document.
type Options struct {
	SourceName string // owning document identifier, required
	Domain     string // corpus tag inherited by every chunk
	SourceType string // provenance tag, e.g. index.SourceTypeNative
	Size       int    // words per window, defaults to DefaultSize
	Overlap    int    // words shared between consecutive windows; zero selects DefaultOverlap, negative is rejected
}

// Split turns ordered per-page text into chunk drafts.
//
// Each page is split on whitespace into words and a window of opts.Size words
// slides over them, advancing opts.Size-opts.Overlap words per step. Windows
// are joined back into text chunks that inherit the page number and the
// call's source metadata. Blank pages yield nothing; a page shorter than one
// window yields exactly one chunk holding the whole page.
//
// The returned chunks have no ID or embedding yet; both are assigned later
// by the index Manager and the embedding provider.
//
// Returns an error wrapping techdesk.ErrInvalidConfiguration when the overlap
// is negative or not smaller than the window size (the window would never
// advance).
//
// Example:
//
//	chunks, err := chunk.Split(pages, chunk.Options{
//	    SourceName: "router-manual.pdf",
//	    Domain:     "techsupport",
//	    SourceType: index.SourceTypeNative,
//	})
func Split(pages []Page, opts Options) ([]index.Chunk, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative",
			techdesk.ErrInvalidConfiguration, opts.Overlap)
	}
	if opts.Overlap == 0 {
		opts.Overlap = DefaultOverlap
	}
	if opts.Overlap >= opts.Size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			techdesk.ErrInvalidConfiguration, opts.Overlap, opts.Size)
	}
	if opts.SourceName == "" {
		return nil, fmt.Errorf("%w: source name is required", techdesk.ErrInvalidConfiguration)
	}

	step := opts.Size - opts.Overlap

	var chunks []index.Chunk
	for _, page := range pages {
		words := strings.Fields(page.Text)
		for start := 0; start < len(words); start += step {
			end := start + opts.Size
			if end > len(words) {
				end = len(words)
			}
			chunks = append(chunks, index.Chunk{
				Text: strings.Join(words[start:end], " "),
				Metadata: index.Metadata{
					SourceName: opts.SourceName,
					PageNumber: page.Number,
					Domain:     opts.Domain,
					SourceType: opts.SourceType,
				},
			})
			if end == len(words) {
				break
			}
		}
	}
	return chunks, nil
}
