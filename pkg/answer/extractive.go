package answer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
)

// Extractive fallback tuning.
const (
	// DefaultMaxFallbackSentences caps how many extracted sentences form the
	// fallback answer body.
	DefaultMaxFallbackSentences = 4

	// minSentenceLength drops normalized sentences too short to carry an
	// answer.
	minSentenceLength = 20

	// minQueryTokenLen mirrors the lexical retrieval token floor.
	minQueryTokenLen = 3
)

// sentenceSplitRe splits chunk text on sentence-ending punctuation followed
// by whitespace.
var sentenceSplitRe = regexp.MustCompile(`[.!?]\s+`)

// nonAlnumRe maps everything but lowercase alphanumerics to spaces during
// normalization.
var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)

func normalizeSentence(s string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(s), " ")
}

type scoredSentence struct {
	score    int
	sentence string
}

// extractSentences builds a bullet-list answer body directly from retrieved
// chunk text when the generated answer was classified as a non-answer.
//
// Sentences are scored by how many query tokens (length >= 3) they contain,
// ranked descending with ties in encounter order, deduplicated
// case-insensitively, and the top maxSentences survive. Returns "" when
// nothing overlaps the query.
func extractSentences(query string, results []index.QueryResult, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxFallbackSentences
	}

	var queryTokens []string
	for _, t := range strings.Fields(normalizeSentence(query)) {
		if len(t) >= minQueryTokenLen {
			queryTokens = append(queryTokens, t)
		}
	}
	if len(queryTokens) == 0 {
		return ""
	}

	var candidates []scoredSentence
	for _, r := range results {
		for _, raw := range sentenceSplitRe.Split(r.Chunk.Text, -1) {
			sentence := strings.TrimSpace(raw)
			normalized := normalizeSentence(sentence)
			if len(normalized) < minSentenceLength {
				continue
			}
			score := 0
			for _, t := range queryTokens {
				if strings.Contains(normalized, t) {
					score++
				}
			}
			if score > 0 {
				candidates = append(candidates, scoredSentence{score: score, sentence: sentence})
			}
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	seen := make(map[string]struct{})
	var picked []string
	for _, c := range candidates {
		key := strings.ToLower(c.sentence)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		picked = append(picked, "- "+c.sentence)
		if len(picked) == maxSentences {
			break
		}
	}
	return strings.Join(picked, "\n")
}
