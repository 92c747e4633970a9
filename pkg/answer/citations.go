package answer

import (
	"fmt"
	"strings"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
)

// Citation is a (source, page) provenance reference attached to a grounded
// answer. Derived from ranked results, never stored.
type Citation struct {
	SourceName string `json:"source_name"`
	PageNumber int    `json:"page_number"`
}

// Citations extracts the distinct citations from ranked results in
// first-seen order.
func Citations(results []index.QueryResult) []Citation {
	seen := make(map[Citation]struct{}, len(results))
	var citations []Citation
	for _, r := range results {
		c := Citation{
			SourceName: r.Chunk.Metadata.SourceName,
			PageNumber: r.Chunk.Metadata.PageNumber,
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		citations = append(citations, c)
	}
	return citations
}

// renderCitations formats the Sources block, one line per citation.
func renderCitations(citations []Citation) string {
	if len(citations) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Sources:")
	for _, c := range citations {
		fmt.Fprintf(&b, "\n- %s, Page %d", c.SourceName, c.PageNumber)
	}
	return b.String()
}
