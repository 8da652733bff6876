package knowledge

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sandevgo/gtmsuite/internal/core"
)

type uploadedDocument struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// DecodeDocuments reads a JSON array of {content, metadata} objects.
func DecodeDocuments(r io.Reader) ([]core.Document, error) {
	var uploaded []uploadedDocument
	if err := json.NewDecoder(r).Decode(&uploaded); err != nil {
		return nil, core.InvalidInput("decode documents", "file must be a JSON array of {content, metadata}: %v", err)
	}
	if len(uploaded) == 0 {
		return nil, core.InvalidInput("decode documents", "no documents in file")
	}

	docs := make([]core.Document, len(uploaded))
	for i, u := range uploaded {
		docs[i] = core.Document{Text: u.Content, Metadata: StringMetadata(u.Metadata)}
	}
	return docs, nil
}

// StringMetadata flattens arbitrary JSON metadata values to strings.
func StringMetadata(m map[string]any) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out[k] = val
		default:
			b, err := json.Marshal(val)
			if err != nil {
				out[k] = fmt.Sprint(val)
				continue
			}
			out[k] = string(b)
		}
	}
	return out
}
