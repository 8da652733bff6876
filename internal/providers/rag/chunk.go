package rag

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tkMu sync.Mutex
	tk   *tiktoken.Tiktoken

	// loadEncoding is replaced in tests
	loadEncoding = func() (*tiktoken.Tiktoken, error) {
		return tiktoken.GetEncoding("cl100k_base")
	}
)

type Chunk struct {
	Text      string
	TokenSize int
	Index     int
}

type ChunkerConfig struct {
	MaxTokens     int
	OverlapTokens int
}

// DefaultChunkerConfig is roughly a 1000 character window with 200 characters of overlap.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		MaxTokens:     250,
		OverlapTokens: 50,
	}
}

func (c ChunkerConfig) normalized() ChunkerConfig {
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultChunkerConfig().MaxTokens
	}
	if c.OverlapTokens < 0 || c.OverlapTokens >= c.MaxTokens {
		c.OverlapTokens = 0
	}
	return c
}

// ChunkText splits text into token-bounded chunks. The only error is a
// tokenizer that failed to load.
func ChunkText(text string, cfg ChunkerConfig) ([]Chunk, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	cfg = cfg.normalized()

	enc, err := getTokenizer()
	if err != nil {
		return nil, err
	}

	// 1. Split into sentences (Unicode-aware)
	sentences := splitSentences(text)

	// Short documents always produce exactly one chunk
	if joined := joinSentences(sentences); countTokens(enc, joined) <= cfg.MaxTokens {
		return []Chunk{{Text: joined, TokenSize: countTokens(enc, joined)}}, nil
	}

	// 2. Build chunks
	var chunks []Chunk
	var window []sentence
	windowTokens := 0
	// pending is set once the window holds sentences not yet emitted
	pending := false

	flush := func() {
		if !pending {
			return
		}
		chunks = append(chunks, Chunk{
			Text:      strings.TrimSpace(joinSentences(window)),
			TokenSize: windowTokens,
			Index:     len(chunks),
		})
		pending = false
	}

	for _, sent := range sentences {
		sentenceTokens := countTokens(enc, sent.text)

		// Case A: Sentence is huge (larger than MaxTokens)
		if sentenceTokens > cfg.MaxTokens {
			flush()

			// Split the long sentence using token slicing with overlap
			subChunks := chunkLongText(enc, sent.text, cfg.MaxTokens, cfg.OverlapTokens)
			for _, sc := range subChunks {
				chunks = append(chunks, Chunk{
					Text:      strings.TrimSpace(sc.Text),
					TokenSize: sc.TokenSize,
					Index:     len(chunks),
				})
			}

			// Carry the tail of the last cut into the next window
			window, windowTokens = nil, 0
			if tail := tailTokens(enc, sent.text, cfg.OverlapTokens); tail != "" {
				window = []sentence{{text: tail}}
				windowTokens = countTokens(enc, tail)
			}
			continue
		}

		// Case B: Adding sentence exceeds limit -> Flush and start new chunk
		if windowTokens+sentenceTokens > cfg.MaxTokens && len(window) > 0 {
			flush()
			window, windowTokens = overlapWindow(enc, window, cfg.OverlapTokens, cfg.MaxTokens-sentenceTokens)
		}

		window = append(window, sent)
		windowTokens += sentenceTokens
		pending = true
	}

	flush()

	return chunks, nil
}

// overlapWindow keeps trailing sentences of the previous window worth about
// target tokens, dropping the oldest ones until the result fits in budget.
func overlapWindow(enc *tiktoken.Tiktoken, prev []sentence, target, budget int) ([]sentence, int) {
	if target <= 0 || budget <= 0 {
		return nil, 0
	}

	var overlap []sentence
	tokens := 0
	for i := len(prev) - 1; i >= 0 && tokens < target; i-- {
		overlap = append([]sentence{prev[i]}, overlap...)
		tokens += countTokens(enc, prev[i].text)
	}

	for len(overlap) > 0 && tokens > budget {
		tokens -= countTokens(enc, overlap[0].text)
		overlap = overlap[1:]
	}
	if len(overlap) == 0 {
		return nil, 0
	}
	return overlap, tokens
}

// chunkLongText splits a long string by encoding to tokens and slicing
// the array. Consecutive slices share overlap tokens.
func chunkLongText(enc *tiktoken.Tiktoken, text string, maxTokens, overlap int) []Chunk {
	tokens := enc.Encode(text, nil, nil)

	step := maxTokens - overlap
	if step <= 0 {
		step = maxTokens
	}

	var chunks []Chunk
	numTokens := len(tokens)

	for i := 0; i < numTokens; i += step {
		end := i + maxTokens
		if end > numTokens {
			end = numTokens
		}

		chunkTokens := tokens[i:end]
		chunks = append(chunks, Chunk{
			Text:      enc.Decode(chunkTokens),
			TokenSize: len(chunkTokens),
			// Index is handled by the caller
		})

		if end == numTokens {
			break
		}
	}

	return chunks
}

// tailTokens returns the decoded last n tokens of text.
func tailTokens(enc *tiktoken.Tiktoken, text string, n int) string {
	if n <= 0 {
		return ""
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= n {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(enc.Decode(tokens[len(tokens)-n:]))
}

type sentence struct {
	text string
	// paragraph marks the first sentence of a paragraph
	paragraph bool
}

// joinSentences keeps a blank line between paragraphs.
func joinSentences(sentences []sentence) string {
	var b strings.Builder
	for i, s := range sentences {
		if i > 0 {
			if s.paragraph {
				b.WriteString("\n\n")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(s.text)
	}
	return b.String()
}

// splitSentences splits text into sentences using Unicode rules.
func splitSentences(text string) []sentence {
	paragraphs := splitParagraphs(text)

	sentenceEnders := map[rune]bool{
		'.': true, '!': true, '?': true,
		'。': true, '！': true, '？': true, '．': true, '…': true,
	}

	var sentences []sentence

	for _, para := range paragraphs {
		var current strings.Builder
		runes := []rune(para)
		first := true

		emit := func() {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, sentence{text: s, paragraph: first})
				first = false
			}
			current.Reset()
		}

		for i, r := range runes {
			current.WriteRune(r)

			if sentenceEnders[r] {
				// Sentence ends at whitespace, end of text or a CJK character
				if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) || isCJK(runes[i+1]) {
					emit()
				}
			}
		}
		emit()
	}

	if len(sentences) == 0 && text != "" {
		return []sentence{{text: text, paragraph: true}}
	}

	return sentences
}

// splitParagraphs splits on blank lines and collapses soft wraps and
// indentation inside each paragraph.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var result []string
	var current []string
	emit := func() {
		if p := strings.Join(strings.Fields(strings.Join(current, " ")), " "); p != "" {
			result = append(result, p)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			emit()
			continue
		}
		current = append(current, line)
	}
	emit()

	return result
}

// getTokenizer loads cl100k_base once. A failed load is not cached, so a
// later call can still succeed.
func getTokenizer() (*tiktoken.Tiktoken, error) {
	tkMu.Lock()
	defer tkMu.Unlock()

	if tk != nil {
		return tk, nil
	}
	enc, err := loadEncoding()
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	tk = enc
	return tk, nil
}

func countTokens(enc *tiktoken.Tiktoken, text string) int {
	if text == "" {
		return 0
	}
	return len(enc.Encode(text, nil, nil))
}

// isCJK reports whether r is a Han, Hiragana, Katakana or Hangul character.
func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
