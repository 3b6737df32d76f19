package lexer

// ----------------------
// Lexer Types definition
// ----------------------

// Position is 0-based. Character counts UTF-16 code units.
type Position struct {
	Line      int
	Character int
}

type Range struct {
	Start Position
	End   Position
}

func (r Range) Contains(pos Position) bool {
	if r.Start.Line > pos.Line {
		return false
	}

	if r.End.Line < pos.Line {
		return false
	}

	if r.Start.Line == pos.Line && pos.Character < r.Start.Character {
		return false
	}

	if r.End.Line == pos.Line && pos.Character >= r.End.Character {
		return false
	}

	return true
}

func (r Range) IsEmpty() bool {
	return r.Start.Line == 0 && r.Start.Character == 0 && r.End.Line == 0 &&
		r.End.Character == 0
}

func EmptyRange() Range {
	return Range{}
}

// Offset returns a new Position with the character offset by delta.
func (p Position) Offset(delta int) Position {
	return Position{
		Line:      p.Line,
		Character: p.Character + delta,
	}
}

// Before reports whether p comes strictly before other in the document.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}

	return p.Character < other.Character
}

// Span returns the smallest range covering both r and other.
func (r Range) Span(other Range) Range {
	merged := r

	if other.Start.Before(merged.Start) {
		merged.Start = other.Start
	}

	if merged.End.Before(other.End) {
		merged.End = other.End
	}

	return merged
}

type Kind int

// Token is the smallest unit handed to the parser.
// Literal is the exact source text, except for compound keywords which
// are normalized to "END IF" and "END SUB".
type Token struct {
	ID      Kind
	Literal string
	Range   Range
}

func NewToken(id Kind, literal string, reach Range) Token {
	return Token{
		ID:      id,
		Literal: literal,
		Range:   reach,
	}
}

// Error is implemented by every diagnostic produced while compiling a program.
type Error interface {
	GetError() string
	GetRange() Range
	String() string
}

// Lexer is a pull-based tokenizer over one source buffer.
// A Lexer must not be shared between goroutines or reused for another program.
type Lexer struct {
	input  []byte
	offset int // index of the next unread byte
	line   int
	column int
	done   bool
	eof    Position
}

func New(content []byte) *Lexer {
	return &Lexer{input: content}
}

// Tokenize the whole source code provided by 'content'.
// The returned slice always ends with exactly one 'EOF' token.
func Tokenize(content []byte) []Token {
	l := New(content)
	tokens := make([]Token, 0, len(content)/3+1)

	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)

		if tok.ID == Eof {
			break
		}
	}

	return tokens
}
