package structured

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/gtmsuite/internal/core"
)

var errNoObject = errors.New("no JSON object found")

// Fields is a decoded JSON object. Numbers are kept as json.Number.
type Fields map[string]any

// Parse decodes the first {...} block of raw that is a valid JSON object.
func Parse(raw string) (Fields, error) {
	candidates := FindObjects(raw)
	if len(candidates) == 0 {
		return nil, core.ParseError("extract json", errNoObject)
	}

	var lastErr error
	for _, c := range candidates {
		dec := json.NewDecoder(strings.NewReader(c))
		dec.UseNumber()

		var f Fields
		if err := dec.Decode(&f); err != nil {
			lastErr = err
			continue
		}
		return f, nil
	}
	return nil, core.ParseError("extract json", lastErr)
}

func (f Fields) Has(key string) bool {
	v, ok := f[key]
	return ok && v != nil
}

// String returns strings as-is and formats numbers and booleans.
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Float accepts numbers, numeric strings and percentages like "75%".
func (f Fields) Float(key string) (float64, bool) {
	switch v := f[key].(type) {
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
		n, err := strconv.ParseFloat(s, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// StringSlice accepts an array of scalars or a single string. It never
// returns nil.
func (f Fields) StringSlice(key string) []string {
	out := []string{}

	switch v := f[key].(type) {
	case []any:
		for _, item := range v {
			s := Fields{"v": item}.String("v")
			if s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (f Fields) Map(key string) (Fields, bool) {
	switch v := f[key].(type) {
	case map[string]any:
		return Fields(v), true
	case Fields:
		return v, true
	default:
		return nil, false
	}
}

// Maps returns the objects of an array, skipping other elements.
func (f Fields) Maps(key string) []map[string]any {
	arr, ok := f[key].([]any)
	if !ok {
		return nil
	}

	var out []map[string]any
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Require fails with the first missing key.
func (f Fields) Require(keys ...string) error {
	for _, k := range keys {
		if !f.Has(k) {
			return fmt.Errorf("missing field %q", k)
		}
	}
	return nil
}
