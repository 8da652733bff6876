package askgtm

import (
	"fmt"
	"strings"

	"github.com/sandevgo/gtmsuite/internal/core"
	"github.com/sandevgo/gtmsuite/internal/service/prompt"
)

const noContext = "No relevant information was found in the knowledge base."

var systemPrompt = prompt.MustNew("askgtm.system", `
You are AskGTM, a go-to-market assistant for a B2B sales team.

Answer the user's question using only the context below. If the context does not
contain the answer, say that no relevant information was found in the knowledge base
instead of guessing. When earlier turns of this conversation are relevant, acknowledge
them and stay consistent with what was already said. Keep answers concise and practical.

Context:
{{.context}}
`, "context")

func formatContext(chunks []core.ScoredChunk) string {
	if len(chunks) == 0 {
		return noContext
	}

	var sb strings.Builder
	for i, c := range chunks {
		fmt.Fprintf(&sb, "[%d] (source: %s, category: %s)\n%s\n\n",
			i+1, orDefault(c.Chunk.Source, core.DefaultSource), orDefault(c.Chunk.Category, core.DefaultCategory), c.Chunk.Text)
	}
	return strings.TrimSpace(sb.String())
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
