package prompt

import (
	"strings"
	"testing"

	"github.com/techdesk-ai/go-techdesk/pkg/history"
	"github.com/techdesk-ai/go-techdesk/pkg/index"
)

func result(text, source string, page int) index.QueryResult {
	return index.QueryResult{
		Chunk: index.Chunk{
			Text:     text,
			Metadata: index.Metadata{SourceName: source, PageNumber: page},
		},
	}
}

func TestBuild(t *testing.T) {
	results := []index.QueryResult{
		result("Hold the reset button for ten seconds.", "router.pdf", 4),
	}

	prompt, err := Build("how do I reset my router", results, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.HasPrefix(prompt, SystemPrompt) {
		t.Error("prompt should open with the system instructions")
	}
	if !strings.Contains(prompt, "Hold the reset button for ten seconds.") {
		t.Error("prompt missing the retrieved chunk text")
	}
	if !strings.Contains(prompt, "(Source: router.pdf, Page 4)") {
		t.Error("prompt missing the chunk source line")
	}
	if !strings.Contains(prompt, "Question:\nhow do I reset my router") {
		t.Error("prompt missing the question section")
	}
	if strings.Contains(prompt, "Recent conversation") {
		t.Error("empty history should not render a history section")
	}
	if strings.Contains(prompt, multiSourceNote) {
		t.Error("single source should not render the multi-source note")
	}
}

func TestBuildMultiSource(t *testing.T) {
	results := []index.QueryResult{
		result("Router chunk.", "router.pdf", 4),
		result("Printer chunk.", "printer.pdf", 1),
	}

	prompt, err := Build("question", results, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.Contains(prompt, multiSourceNote) {
		t.Error("two distinct sources should render the multi-source note")
	}
}

func TestBuildHistoryWindow(t *testing.T) {
	recent := []history.Exchange{
		{Query: "q1", Answer: "a1"},
		{Query: "q2", Answer: "a2"},
		{Query: "q3", Answer: "a3"},
		{Query: "q4", Answer: "a4"},
		{Query: "q5", Answer: "a5"},
	}

	prompt, err := Build("follow-up", nil, recent)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if strings.Contains(prompt, "User: q1") {
		t.Error("exchanges beyond the history window should be dropped")
	}
	for _, q := range []string{"q2", "q3", "q4", "q5"} {
		if !strings.Contains(prompt, "User: "+q) {
			t.Errorf("prompt missing history turn %s", q)
		}
	}
	if !strings.Contains(prompt, "Assistant: a5") {
		t.Error("prompt missing assistant side of the exchange")
	}
}

func TestBuildSummary(t *testing.T) {
	prompt := BuildSummary("short document text")
	if !strings.HasSuffix(prompt, "short document text") {
		t.Errorf("BuildSummary() = %q", prompt)
	}
	if !strings.Contains(prompt, "well-structured summary") {
		t.Error("summary prompt missing its guidelines")
	}
}

func TestBuildSummaryClipsInput(t *testing.T) {
	long := strings.Repeat("x", SummaryInputLimit+500)
	prompt := BuildSummary(long)
	if strings.Count(prompt, "x") != SummaryInputLimit {
		t.Errorf("input should be clipped to %d characters", SummaryInputLimit)
	}
}
