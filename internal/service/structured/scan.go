package structured

// FindObjects returns every balanced outermost {...} block in raw, in order.
// Braces inside JSON string literals are ignored. An opening brace that is
// never closed is skipped and scanning resumes right after it.
func FindObjects(raw string) []string {
	var out []string

	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		end := matchBrace(raw, i)
		if end < 0 {
			continue
		}
		out = append(out, raw[i:end+1])
		i = end
	}
	return out
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(raw string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
