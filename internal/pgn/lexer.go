package pgn

import "strings"

// resultMarkers are game termination tokens that carry no move information.
var resultMarkers = map[string]bool{
	"1-0":     true,
	"0-1":     true,
	"1/2-1/2": true,
	"*":       true,
}

// Tokenize normalizes raw movetext into a flat token stream. Comments
// ({...} and ;-to-end-of-line), NAGs ($n), move-number markers (1. and 4...),
// and result markers are dropped; trailing ! and ? glyphs are stripped from
// moves. Empty input yields an empty (non-nil) slice. Unbalanced braces are
// tolerated: an unclosed comment swallows the rest of the input.
func Tokenize(movetext string) []Token {
	tokens := []Token{}
	i := 0
	n := len(movetext)

	for i < n {
		c := movetext[i]
		switch {
		case c == '{':
			// Brace comment, no nesting per the PGN grammar.
			end := strings.IndexByte(movetext[i+1:], '}')
			if end < 0 {
				return tokens
			}
			i += end + 2

		case c == ';':
			end := strings.IndexByte(movetext[i:], '\n')
			if end < 0 {
				return tokens
			}
			i += end + 1

		case c == '(':
			tokens = append(tokens, Token{Type: TokenBranchStart, Value: "("})
			i++

		case c == ')':
			tokens = append(tokens, Token{Type: TokenBranchEnd, Value: ")"})
			i++

		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		default:
			start := i
			for i < n && !isWordBreak(movetext[i]) {
				i++
			}
			if mv, ok := normalizeWord(movetext[start:i]); ok {
				tokens = append(tokens, Token{Type: TokenMove, Value: mv})
			}
		}
	}

	return tokens
}

func isWordBreak(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '{', ';':
		return true
	}
	return false
}

// normalizeWord reduces a raw word to a SAN move, or reports that the word
// carries no move (number marker, NAG, result, bare annotation).
func normalizeWord(w string) (string, bool) {
	if w == "" || resultMarkers[w] {
		return "", false
	}
	if w[0] == '$' {
		return "", false
	}

	// Move-number prefix, possibly glued to the move ("1.e4", "4...Nf6").
	j := 0
	for j < len(w) && w[j] >= '0' && w[j] <= '9' {
		j++
	}
	if j > 0 {
		if j == len(w) {
			return "", false // bare number
		}
		if w[j] != '.' {
			return "", false // not a move: moves never start with a digit
		}
		for j < len(w) && w[j] == '.' {
			j++
		}
		w = w[j:]
	}

	w = strings.TrimRight(w, "!?")
	if w == "" {
		return "", false
	}
	return w, true
}
