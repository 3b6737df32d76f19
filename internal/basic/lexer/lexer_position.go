package lexer

import "github.com/google/btree"

// TokenIndex answers "which token is under this cursor" for editor requests.
// Tokens are ordered by their start position; 'NEWLINE' and 'EOF' are not indexed.
type TokenIndex struct {
	tree *btree.BTreeG[Token]
}

func lessByStart(a, b Token) bool {
	return a.Range.Start.Before(b.Range.Start)
}

// NewTokenIndex builds an index over tokens, typically the output of Tokenize().
func NewTokenIndex(tokens []Token) *TokenIndex {
	index := &TokenIndex{tree: btree.NewG(8, lessByStart)}

	for _, tok := range tokens {
		if tok.ID == Newline || tok.ID == Eof {
			continue
		}

		index.tree.ReplaceOrInsert(tok)
	}

	return index
}

// At returns the token whose range contains pos.
func (idx *TokenIndex) At(pos Position) (Token, bool) {
	var found Token
	ok := false

	pivot := Token{Range: Range{Start: pos, End: pos}}
	idx.tree.DescendLessOrEqual(pivot, func(tok Token) bool {
		if tok.Range.Contains(pos) {
			found = tok
			ok = true
		}

		return false
	})

	return found, ok
}

// Line returns the tokens starting on the given line, in source order.
func (idx *TokenIndex) Line(line int) []Token {
	var tokens []Token

	from := Token{Range: Range{Start: Position{Line: line}}}
	to := Token{Range: Range{Start: Position{Line: line + 1}}}

	idx.tree.AscendRange(from, to, func(tok Token) bool {
		tokens = append(tokens, tok)
		return true
	})

	return tokens
}

func (idx *TokenIndex) Len() int {
	return idx.tree.Len()
}

// ConvertSingleIndexToTextEditorPosition converts a byte index to a text editor position.
func ConvertSingleIndexToTextEditorPosition(buffer []byte, charIndex int) Position {
	var line, col int

	for i := range buffer {
		if i == charIndex {
			break
		}

		if buffer[i] == byte('\n') {
			line++
			col = 0
		} else {
			col++
		}
	}

	return Position{Line: line, Character: col}
}
