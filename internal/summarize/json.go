package summarize

import "errors"

// ExtractJSON returns the first balanced JSON object in s. Language models
// sometimes wrap the requested object in prose or code fences; the parser
// skips to the first '{' and tracks brace depth, honoring string literals
// and escapes so braces inside values do not end the object early.
func ExtractJSON(s string) (string, error) {
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", errors.New("no JSON object found")
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
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
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", errors.New("unbalanced JSON object")
}
