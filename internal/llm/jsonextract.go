package llm

// ExtractJSONObject locates the first top-level JSON object in a model
// response. Models wrap JSON in prose or markdown code fences often enough
// that a plain unmarshal of the whole response is not reliable.
//
// The scan is brace-counting with string/escape awareness, so braces inside
// string values do not terminate the object early. Returns false if no
// balanced object is found.
func ExtractJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

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
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
