package retrieve

import (
	"reflect"
	"testing"

	"github.com/techdesk-ai/go-techdesk/pkg/index"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"How do I reset?", "how do i reset "},
		{"Wi-Fi/router", "wi fi router"},
		{"ALL CAPS 42", "all caps 42"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "suffix variants added",
			in:   "rebooting routers",
			want: []string{"rebooting", "reboot", "routers", "router"},
		},
		{
			name: "short tokens dropped",
			in:   "is my tv on",
			want: nil,
		},
		{
			name: "stem shorter than minimum kept out",
			in:   "does",
			want: []string{"does", "doe"},
		},
		{
			name: "duplicates collapse",
			in:   "router router",
			want: []string{"router"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandTokens(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expandTokens(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func lexChunk(text, source string) index.Chunk {
	return index.Chunk{
		Text:     text,
		Metadata: index.Metadata{SourceName: source, PageNumber: 1},
	}
}

func TestRankLexical(t *testing.T) {
	candidates := []index.Chunk{
		lexChunk("hold the power button to reboot the router", "router-guide.pdf"),
		lexChunk("printers need toner replaced regularly", "printer-manual.pdf"),
		lexChunk("the router admin page lists firmware versions", "router-guide.pdf"),
	}

	results := rankLexical("rebooting my router", candidates, 3)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// First candidate matches both "reboot" and "router", second router
	// chunk only "router".
	if results[0].Chunk.Text != candidates[0].Text {
		t.Errorf("top result = %q", results[0].Chunk.Text)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("scores not descending: %f, %f", results[0].Score, results[1].Score)
	}
	for _, r := range results {
		if !r.Lexical {
			t.Error("lexical results must be marked Lexical")
		}
	}
}

func TestRankLexicalMatchesSourceName(t *testing.T) {
	candidates := []index.Chunk{
		lexChunk("step one: open the tray", "printer-manual.pdf"),
	}
	results := rankLexical("printer", candidates, 3)
	if len(results) != 1 {
		t.Fatalf("source-name match missed: %+v", results)
	}
}

func TestRankLexicalNoMatch(t *testing.T) {
	candidates := []index.Chunk{
		lexChunk("printers need toner", "printer-manual.pdf"),
	}
	if results := rankLexical("keyboard layout", candidates, 3); len(results) != 0 {
		t.Errorf("unrelated query should match nothing, got %+v", results)
	}
	if results := rankLexical("is on at", candidates, 3); len(results) != 0 {
		t.Errorf("all-short-token query should match nothing, got %+v", results)
	}
}

func TestRankLexicalTopK(t *testing.T) {
	var candidates []index.Chunk
	for i := 0; i < 10; i++ {
		candidates = append(candidates, lexChunk("router setup", "router.pdf"))
	}
	if results := rankLexical("router", candidates, 3); len(results) != 3 {
		t.Errorf("got %d results, want top 3", len(results))
	}
}
