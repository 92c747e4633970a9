// Package prompt renders the grounded generation prompt from retrieved
// chunks, the user question, and recent conversation history.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/techdesk-ai/go-techdesk/pkg/history"
	"github.com/techdesk-ai/go-techdesk/pkg/index"
)

// SystemPrompt steers the generator toward grounded, cited tech-support
// answers.
const SystemPrompt = `You are a Tech Support Assistant specialized in troubleshooting software and hardware issues. Your expertise covers:
- Software installation, configuration, and troubleshooting
- Hardware setup, diagnostics, and repair
- Network connectivity and security issues
- Operating system problems and solutions
- Device drivers and compatibility issues
- Performance optimization and maintenance

Guidelines:
1. Only answer queries related to tech support, troubleshooting, software, and hardware issues.
2. If the answer is not found in the provided documents, say: "I'm sorry, I don't have information about that specific issue in my tech support knowledge base."
3. Always cite the source in your answer: (Source: DOCUMENT_NAME, Page X).
4. For non-tech support queries, politely redirect: "I'm a tech support assistant. Please ask me about software, hardware, or troubleshooting issues."
5. Keep responses clear, concise, and professional.
6. Provide step-by-step solutions when possible.`

// HistoryTurns is how many recent exchanges are included for follow-up
// context.
const HistoryTurns = 4

// multiSourceNote is appended when retrieved chunks span more than one
// source document.
const multiSourceNote = "Multiple sources retrieved. When answering, cite each source with (Source: DOCUMENT_NAME, Page X)."

var ragTemplate = template.Must(template.New("rag").Parse(`{{.System}}

Context:
{{.Context}}

Question:
{{.Question}}
{{- if .History}}

Recent conversation (for context):
{{.History}}
{{- end}}
{{- if .MultiSource}}

{{.MultiSourceNote}}
{{- end}}
`))

// Build renders the generation prompt.
//
// Each retrieved chunk contributes its text followed by a source line so the
// generator can cite provenance; the last HistoryTurns exchanges are
// included for follow-up questions.
func Build(query string, results []index.QueryResult, recent []history.Exchange) (string, error) {
	var contextParts []string
	sources := make(map[string]struct{})
	for _, r := range results {
		meta := r.Chunk.Metadata
		contextParts = append(contextParts,
			fmt.Sprintf("%s\n(Source: %s, Page %d)", r.Chunk.Text, meta.SourceName, meta.PageNumber))
		sources[meta.SourceName] = struct{}{}
	}

	if len(recent) > HistoryTurns {
		recent = recent[len(recent)-HistoryTurns:]
	}
	var turns []string
	for _, exchange := range recent {
		turns = append(turns, fmt.Sprintf("User: %s\nAssistant: %s", exchange.Query, exchange.Answer))
	}

	data := map[string]any{
		"System":          SystemPrompt,
		"Context":         strings.Join(contextParts, "\n\n"),
		"Question":        query,
		"History":         strings.Join(turns, "\n\n"),
		"MultiSource":     len(sources) > 1,
		"MultiSourceNote": multiSourceNote,
	}

	var b strings.Builder
	if err := ragTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("prompt template error: %w", err)
	}
	return b.String(), nil
}

// summaryGuidelines is the instruction block for document summarization.
const summaryGuidelines = `Your task is to create a clear, well-structured summary of the following content.

Guidelines:
1. Identify and extract the main points and key information
2. Organize the summary in a logical flow
3. Use bullet points for better readability
4. Keep technical terms and domain-specific language intact
5. Maintain a neutral, objective tone
6. Omit unnecessary details, examples, and repetitions
7. Preserve important data, statistics, and specific terminology

Content to summarize:
`

// SummaryInputLimit caps how much document text the summary prompt carries.
const SummaryInputLimit = 8000

// BuildSummary renders the summarization prompt, clipping oversized input.
func BuildSummary(text string) string {
	if len(text) > SummaryInputLimit {
		text = text[:SummaryInputLimit]
	}
	return summaryGuidelines + text
}
