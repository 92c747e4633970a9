package answer

import (
	"strings"
	"testing"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
)

func chunkResult(text string) index.QueryResult {
	return index.QueryResult{
		Chunk: index.Chunk{
			Text:     text,
			Metadata: index.Metadata{SourceName: "manual.pdf", PageNumber: 1},
		},
	}
}

func TestExtractSentences(t *testing.T) {
	results := []index.QueryResult{
		chunkResult("To reset the router, hold the power button for ten seconds. " +
			"The toner cartridge is behind the front panel. " +
			"After the reset the router restores factory settings."),
	}

	body := extractSentences("how do I reset my router", results, 4)
	if body == "" {
		t.Fatal("extractSentences() returned nothing")
	}
	lines := strings.Split(body, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want the 2 router sentences: %q", len(lines), body)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "- ") {
			t.Errorf("line %q should be a bullet", line)
		}
		if !strings.Contains(strings.ToLower(line), "reset") {
			t.Errorf("line %q should mention the query topic", line)
		}
	}
	if strings.Contains(body, "toner") {
		t.Errorf("unrelated sentence leaked into fallback: %q", body)
	}
}

func TestExtractSentencesRankedByOverlap(t *testing.T) {
	results := []index.QueryResult{
		chunkResult("The router manual covers many topics in several chapters. " +
			"Resetting the router requires holding the reset button firmly."),
	}

	body := extractSentences("resetting the router", results, 1)
	if !strings.Contains(body, "Resetting the router requires") {
		t.Errorf("highest-overlap sentence should win: %q", body)
	}
}

func TestExtractSentencesDeduplicates(t *testing.T) {
	results := []index.QueryResult{
		chunkResult("Hold the reset button for ten seconds. hold the RESET button for ten seconds. Done now."),
	}

	body := extractSentences("reset button", results, 4)
	if body == "" {
		t.Fatal("extractSentences() returned nothing")
	}
	if n := strings.Count(body, "\n") + 1; n != 1 {
		t.Errorf("case-variant duplicates should collapse to one bullet, got %d: %q", n, body)
	}
}

func TestExtractSentencesCap(t *testing.T) {
	var parts []string
	for i := 0; i < 8; i++ {
		parts = append(parts, "The router setup step number "+strings.Repeat("x", i+1)+" goes here.")
	}
	results := []index.QueryResult{chunkResult(strings.Join(parts, " "))}

	body := extractSentences("router setup", results, 0)
	if n := strings.Count(body, "\n") + 1; n != DefaultMaxFallbackSentences {
		t.Errorf("got %d bullets, want the default cap of %d: %q", n, DefaultMaxFallbackSentences, body)
	}
}

func TestExtractSentencesNoOverlap(t *testing.T) {
	results := []index.QueryResult{
		chunkResult("The toner cartridge sits behind the front panel of the printer."),
	}
	if body := extractSentences("keyboard shortcuts", results, 4); body != "" {
		t.Errorf("no-overlap query should yield nothing, got %q", body)
	}
}

func TestExtractSentencesShortSentencesDropped(t *testing.T) {
	results := []index.QueryResult{
		chunkResult("Reset it. The full reset procedure clears every stored setting on the router."),
	}
	body := extractSentences("reset", results, 4)
	if strings.Contains(body, "- Reset it") {
		t.Errorf("sentences under the length floor should be dropped: %q", body)
	}
	if !strings.Contains(body, "full reset procedure") {
		t.Errorf("long sentence missing: %q", body)
	}
}

func TestExtractSentencesStopWordQuery(t *testing.T) {
	results := []index.QueryResult{
		chunkResult("The full reset procedure clears every stored setting on the router."),
	}
	if body := extractSentences("is it on", results, 4); body != "" {
		t.Errorf("query with only short tokens should yield nothing, got %q", body)
	}
}
