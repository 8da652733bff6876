package rag

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkoukk/tiktoken-go"
)

func mustTokenizer(t *testing.T) *tiktoken.Tiktoken {
	t.Helper()
	enc, err := getTokenizer()
	if err != nil {
		t.Fatalf("tokenizer: %v", err)
	}
	return enc
}

func mustChunk(t *testing.T, text string, cfg ChunkerConfig) []Chunk {
	t.Helper()
	chunks, err := ChunkText(text, cfg)
	if err != nil {
		t.Fatalf("ChunkText: %v", err)
	}
	return chunks
}

func TestChunkText(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		cfg            ChunkerConfig
		expectedChunks []string
	}{
		{
			name:           "Empty input",
			text:           "",
			cfg:            DefaultChunkerConfig(),
			expectedChunks: nil,
		},
		{
			name:           "Whitespace only",
			text:           "   \n\t   ",
			cfg:            DefaultChunkerConfig(),
			expectedChunks: nil,
		},
		{
			name: "Single sentence fits",
			text: "Hello world.",
			cfg: ChunkerConfig{
				MaxTokens:     10,
				OverlapTokens: 0,
			},
			expectedChunks: []string{"Hello world."},
		},
		{
			name: "Two sentences fit in one chunk",
			text: "Hello world. How are you?",
			cfg: ChunkerConfig{
				MaxTokens:     10,
				OverlapTokens: 0,
			},
			expectedChunks: []string{"Hello world. How are you?"},
		},
		{
			name: "Split by sentence (No Overlap)",
			text: "First sentence. Second sentence.",
			cfg: ChunkerConfig{
				// "First sentence." is ~3 tokens: [First][ sentence][.]
				MaxTokens:     3,
				OverlapTokens: 0,
			},
			expectedChunks: []string{
				"First sentence.",
				"Second sentence.",
			},
		},
		{
			name: "Split by sentence (With Overlap)",
			text: "Sentence one. Sentence two. Sentence three.",
			cfg: ChunkerConfig{
				// "Sentence one." is ~3 tokens.
				// We want 2 sentences per chunk (6 tokens).
				MaxTokens:     6,
				OverlapTokens: 3, // Overlap by 1 sentence (3 tokens)
			},
			expectedChunks: []string{
				"Sentence one. Sentence two.",
				"Sentence two. Sentence three.",
			},
		},
		{
			name: "Long sentence forced split",
			text: "One two three four five six.",
			cfg: ChunkerConfig{
				// "One two three" is 3 tokens.
				MaxTokens:     3,
				OverlapTokens: 0,
			},
			// Tiktoken splits: [One][ two][ three] | [ four][ five][ six] | [.]
			expectedChunks: []string{
				"One two three",
				"four five six",
				".",
			},
		},
		{
			name: "Russian text (Cyrillic)",
			text: "Привет мир. Как твои дела?",
			cfg: ChunkerConfig{
				// "Привет мир." is ~5-6 tokens in cl100k_base
				// "Как твои дела?" is ~6-7 tokens
				MaxTokens:     10,
				OverlapTokens: 0,
			},
			expectedChunks: []string{
				"Привет мир.",
				"Как твои дела?",
			},
		},
		{
			name: "CJK Text (Chinese)",
			text: "你好世界。这是一个测试。",
			cfg: ChunkerConfig{
				// CJK characters are often 1-2 tokens each.
				// "你好世界。" is ~5 tokens.
				MaxTokens:     20,
				OverlapTokens: 0,
			},
			expectedChunks: []string{
				"你好世界。 这是一个测试。",
			},
		},
		{
			name: "Soft wraps inside a paragraph collapse",
			text: "Line one\nstill line one.\n\nPara two.",
			cfg: ChunkerConfig{
				MaxTokens:     20,
				OverlapTokens: 0,
			},
			expectedChunks: []string{
				"Line one still line one.\n\nPara two.",
			},
		},
		{
			name: "Paragraph handling",
			text: "Para one.\n\nPara two.",
			cfg: ChunkerConfig{
				MaxTokens:     10,
				OverlapTokens: 0,
			},
			expectedChunks: []string{
				"Para one.\n\nPara two.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := mustChunk(t, tt.text, tt.cfg)

			if len(chunks) != len(tt.expectedChunks) {
				t.Errorf("Expected %d chunks, got %d", len(tt.expectedChunks), len(chunks))
				for i, c := range chunks {
					t.Logf("Chunk %d: %q (Tokens: %d)", i, c.Text, c.TokenSize)
				}
				return
			}

			for i, chunk := range chunks {
				if chunk.Text != tt.expectedChunks[i] {
					t.Errorf("Chunk %d mismatch.\nExpected: %q\nGot:      %q", i, tt.expectedChunks[i], chunk.Text)
				}
			}
		})
	}
}

func TestCountTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Hello", 1},
		{"Hello world", 2},
		// Tiktoken counts punctuation: [Hello][,][ world][!] = 4
		{"Hello, world!", 4},
		{"", 0},
		// Cyrillic "Привет" is usually 3 tokens in cl100k_base
		{"Привет", 3},
	}

	enc := mustTokenizer(t)
	for _, tt := range tests {
		got := countTokens(enc, tt.text)
		if got != tt.want {
			t.Errorf("countTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	text := "Hello world. How are you?\n\nI am fine."
	sentences := splitSentences(text)

	expected := []string{
		"Hello world.",
		"How are you?",
		"I am fine.",
	}

	if len(sentences) != len(expected) {
		t.Fatalf("Expected %d sentences, got %d", len(expected), len(sentences))
	}

	for i, s := range sentences {
		if s.text != expected[i] {
			t.Errorf("Sentence %d mismatch. Got %q, want %q", i, s.text, expected[i])
		}
	}

	// Only the first sentence of each paragraph starts one
	wantParagraph := []bool{true, false, true}
	for i, s := range sentences {
		if s.paragraph != wantParagraph[i] {
			t.Errorf("Sentence %d paragraph = %v, want %v", i, s.paragraph, wantParagraph[i])
		}
	}
}

func TestSplitParagraphs(t *testing.T) {
	text := `
		Product Pricing Tiers:
		- Starter: $49/month
		- Professional: $149/month

		All plans include: 24/7 support.
	`
	got := splitParagraphs(text)

	expected := []string{
		"Product Pricing Tiers: - Starter: $49/month - Professional: $149/month",
		"All plans include: 24/7 support.",
	}
	if len(got) != len(expected) {
		t.Fatalf("Expected %d paragraphs, got %d: %q", len(expected), len(got), got)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("Paragraph %d mismatch. Got %q, want %q", i, got[i], expected[i])
		}
	}
}

func TestChunkText_SentenceWindowsOverlap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "Sentence number %d talks about pipeline item %d. ", i, i*7)
	}
	cfg := ChunkerConfig{MaxTokens: 40, OverlapTokens: 10}

	chunks := mustChunk(t, sb.String(), cfg)
	if len(chunks) < 2 {
		t.Fatalf("Expected several chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if c.TokenSize > cfg.MaxTokens {
			t.Errorf("Chunk %d has %d tokens, limit %d", i, c.TokenSize, cfg.MaxTokens)
		}
		if c.Index != i {
			t.Errorf("Chunk %d has index %d", i, c.Index)
		}
		if i == 0 {
			continue
		}
		first := splitSentences(c.Text)[0].text
		if !strings.Contains(chunks[i-1].Text, first) {
			t.Errorf("Chunk %d does not start with overlap from chunk %d.\nPrev: %q\nNext: %q", i, i-1, chunks[i-1].Text, c.Text)
		}
	}

	// Every sentence lands in at least one chunk
	for i := 0; i < 40; i++ {
		needle := fmt.Sprintf("Sentence number %d talks", i)
		found := false
		for _, c := range chunks {
			if strings.Contains(c.Text, needle) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Sentence %d missing from chunks", i)
		}
	}
}

func TestChunkText_LongSentenceOverlap(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet ", 40))
	cfg := ChunkerConfig{MaxTokens: 20, OverlapTokens: 5}

	n := countTokens(mustTokenizer(t), text)
	chunks := mustChunk(t, text, cfg)

	expected := 1
	if n > cfg.MaxTokens {
		step := cfg.MaxTokens - cfg.OverlapTokens
		expected += (n - cfg.MaxTokens + step - 1) / step
	}
	if len(chunks) != expected {
		t.Fatalf("Expected %d chunks for %d tokens, got %d", expected, n, len(chunks))
	}

	for i, c := range chunks {
		if c.TokenSize > cfg.MaxTokens {
			t.Errorf("Chunk %d has %d tokens, limit %d", i, c.TokenSize, cfg.MaxTokens)
		}
	}
}

func TestChunkText_ShortDocumentSingleChunk(t *testing.T) {
	text := "Average onboarding is 2 weeks.\n\nMost teams see value within the first month."
	chunks := mustChunk(t, text, DefaultChunkerConfig())

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "Average onboarding is 2 weeks.\n\nMost teams see value within the first month." {
		t.Errorf("Unexpected chunk text %q", chunks[0].Text)
	}
}

func TestChunkerConfig_Normalized(t *testing.T) {
	got := ChunkerConfig{MaxTokens: 10, OverlapTokens: 10}.normalized()
	if got.OverlapTokens != 0 {
		t.Errorf("Overlap equal to max should be dropped, got %d", got.OverlapTokens)
	}

	got = ChunkerConfig{}.normalized()
	if got.MaxTokens != DefaultChunkerConfig().MaxTokens {
		t.Errorf("Zero max should fall back to default, got %d", got.MaxTokens)
	}
}

func TestChunkText_ParagraphBreakAcrossWindows(t *testing.T) {
	text := "Alpha beta gamma.\n\nDelta epsilon zeta. Eta theta iota."
	cfg := ChunkerConfig{MaxTokens: 12, OverlapTokens: 0}

	chunks := mustChunk(t, text, cfg)
	if len(chunks) < 2 {
		t.Fatalf("Expected several chunks, got %d", len(chunks))
	}
	// A paragraph that opens a window carries no leading break
	for i, c := range chunks {
		if strings.HasPrefix(c.Text, "\n") {
			t.Errorf("Chunk %d starts with a line break: %q", i, c.Text)
		}
	}
}

func TestChunkText_TokenizerLoadFailure(t *testing.T) {
	tkMu.Lock()
	savedTk, savedLoad := tk, loadEncoding
	tk = nil
	loadEncoding = func() (*tiktoken.Tiktoken, error) {
		return nil, errors.New("bpe download refused")
	}
	tkMu.Unlock()

	t.Cleanup(func() {
		tkMu.Lock()
		tk, loadEncoding = savedTk, savedLoad
		tkMu.Unlock()
	})

	// Every call reports the failure instead of panicking
	for i := 0; i < 2; i++ {
		chunks, err := ChunkText("Pricing starts at $49.", DefaultChunkerConfig())
		if err == nil {
			t.Fatalf("Call %d: expected an error", i)
		}
		if !strings.Contains(err.Error(), "bpe download refused") {
			t.Errorf("Call %d: unexpected error %v", i, err)
		}
		if chunks != nil {
			t.Errorf("Call %d: expected no chunks, got %d", i, len(chunks))
		}
	}

	// A failed load is not remembered
	tkMu.Lock()
	loadEncoding = savedLoad
	tkMu.Unlock()

	chunks := mustChunk(t, "Pricing starts at $49.", DefaultChunkerConfig())
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk after recovery, got %d", len(chunks))
	}
}
