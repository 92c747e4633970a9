package retrieve

import (
	"sort"
	"strings"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
)

// minTokenLen is the shortest query token the lexical tier considers.
const minTokenLen = 3

// suffixes stripped to catch simple morphological variants of query tokens.
var suffixes = []string{"ing", "ed", "es", "s"}

// normalize lowercases s and maps every non-alphanumeric rune to a space.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// expandTokens tokenizes normalized text, drops short tokens and adds crude
// suffix-stripped variants so "rebooting" also matches "reboot".
func expandTokens(normalized string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	for _, t := range strings.Fields(normalized) {
		if len(t) < minTokenLen {
			continue
		}
		add(t)
		for _, suffix := range suffixes {
			if strings.HasSuffix(t, suffix) && len(t)-len(suffix) >= minTokenLen {
				add(t[:len(t)-len(suffix)])
			}
		}
	}
	return tokens
}

// rankLexical scores candidates by how many expanded query tokens appear as
// substrings of the chunk's normalized text or source name, then returns the
// top k with a positive score. Ties keep candidate order (stable).
//
// Scores here are raw overlap counts on a different scale than dense cosine
// scores; results are marked Lexical so callers never compare the two.
func rankLexical(query string, candidates []index.Chunk, k int) []index.QueryResult {
	tokens := expandTokens(normalize(query))
	if len(tokens) == 0 {
		return nil
	}

	var scored []index.QueryResult
	for _, c := range candidates {
		text := normalize(c.Text)
		source := normalize(c.Metadata.SourceName)
		score := 0
		for _, t := range tokens {
			if strings.Contains(text, t) || strings.Contains(source, t) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, index.QueryResult{
				Chunk:   c,
				Score:   float64(score),
				Lexical: true,
			})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
