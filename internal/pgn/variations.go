package pgn

import "strings"

// Mainlines expands a token stream into every distinct linear move sequence
// through the variation tree. A "(" opens a branch that replaces the most
// recent move of the enclosing line (standard PGN semantics); a ")" finalizes
// the branch line. The completed enclosing line always precedes the branch
// lines opened inside it, and the result is deduplicated by exact text with
// first-appearance order preserved.
//
// Malformed input is tolerated: a stray ")" at top level is ignored, and an
// unclosed "(" is implicitly closed at end of input.
func Mainlines(tokens []Token) []string {
	lines, _ := walk(tokens, 0, nil, false)
	return dedup(lines)
}

// ExtractMainlines is the Tokenize+Mainlines convenience used by callers that
// start from raw movetext.
func ExtractMainlines(movetext string) []string {
	return Mainlines(Tokenize(movetext))
}

// walk consumes tokens from pos until a branch end (or end of input when
// nested is false), accumulating moves on top of seed. It returns the
// finalized line followed by any branch lines, in encounter order.
func walk(tokens []Token, pos int, seed []string, nested bool) ([]string, int) {
	current := append([]string(nil), seed...)
	var branches []string

	for pos < len(tokens) {
		tok := tokens[pos]
		switch tok.Type {
		case TokenMove:
			current = append(current, tok.Value)
			pos++

		case TokenBranchStart:
			// The branch starts from the position before the last move.
			branchSeed := current
			if len(branchSeed) > 0 {
				branchSeed = branchSeed[:len(branchSeed)-1]
			}
			sub, next := walk(tokens, pos+1, branchSeed, true)
			branches = append(branches, sub...)
			pos = next

		case TokenBranchEnd:
			if nested {
				return finalize(current, seed, branches), pos + 1
			}
			// Unmatched close at top level: nothing to close, drop it.
			pos++
		}
	}

	return finalize(current, seed, branches), pos
}

// finalize prepends the accumulated line to its branch lines. A line that
// added no moves beyond its seed (an empty branch body) contributes nothing.
func finalize(current, seed []string, branches []string) []string {
	if len(current) == len(seed) {
		return branches
	}
	return append([]string{strings.Join(current, " ")}, branches...)
}

func dedup(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	out := []string{}
	for _, l := range lines {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
