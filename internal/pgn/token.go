// Package pgn turns raw PGN movetext with nested variations into flat,
// deduplicated mainlines. It deliberately covers movetext only: tag pairs,
// headers, and the rest of the PGN spec are out of scope.
package pgn

// TokenType classifies a lexical token in PGN movetext.
type TokenType int

const (
	// TokenMove is a SAN move token with annotation glyphs stripped.
	TokenMove TokenType = iota

	// TokenBranchStart marks the opening of a variation: "(".
	TokenBranchStart

	// TokenBranchEnd marks the close of a variation: ")".
	TokenBranchEnd
)

// String returns the string representation of a token type.
func (t TokenType) String() string {
	switch t {
	case TokenMove:
		return "MOVE"
	case TokenBranchStart:
		return "BRANCH_START"
	case TokenBranchEnd:
		return "BRANCH_END"
	}
	return "UNKNOWN"
}

// Token is a single semantic token from the movetext.
type Token struct {
	Type  TokenType
	Value string // SAN text for TokenMove, "(" or ")" otherwise
}
