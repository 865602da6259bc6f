package query

import "unicode"

// token is one atomic span of the lowercased input. pos is the byte
// offset of the span in the original text, for error reporting.
type token struct {
	text string
	pos  int
}

// tokenize lowercases the input and splits it on whitespace, with two
// exceptions: parentheses are always their own tokens, and double-quoted
// spans are kept atomic (quotes stripped) so multi-word values survive.
func tokenize(input string) []token {
	var toks []token

	runes := []rune(input)
	i, pos := 0, 0 // rune index, byte offset

	advance := func() {
		pos += len(string(runes[i]))
		i++
	}

	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			advance()
		case r == '(' || r == ')':
			toks = append(toks, token{text: string(r), pos: pos})
			advance()
		case r == '"':
			start := pos
			advance()
			var span []rune
			for i < len(runes) && runes[i] != '"' {
				span = append(span, unicode.ToLower(runes[i]))
				advance()
			}
			if i < len(runes) {
				advance() // closing quote
			}
			toks = append(toks, token{text: string(span), pos: start})
		default:
			start := pos
			var span []rune
			for i < len(runes) {
				r := runes[i]
				if unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' {
					break
				}
				span = append(span, unicode.ToLower(r))
				advance()
			}
			toks = append(toks, token{text: string(span), pos: start})
		}
	}

	return toks
}
