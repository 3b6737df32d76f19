package lexer

// Keyword spellings shared by the lexer and the parser.
const (
	KeywordEnd    = "END"
	KeywordEndIf  = "END IF"
	KeywordEndSub = "END SUB"
	KeywordRem    = "REM"
)

// keywords maps reserved words, including the two-word compounds, to their kind.
// Lookup is case-sensitive.
var keywords = map[string]Kind{
	"REM":         Rem,
	"PRINT":       Print,
	"LET":         Let,
	"INPUT":       Input,
	"TRUE":        True,
	"FALSE":       False,
	"IF":          If,
	"SUB":         Sub,
	"CALL":        Call,
	"THEN":        Then,
	"ELSE":        Else,
	"GOTO":        Goto,
	KeywordEndIf:  EndIf,
	KeywordEndSub: EndSub,
}

// LookupIdent returns the keyword kind for word, or Ident.
func LookupIdent(word string) Kind {
	if kind, ok := keywords[word]; ok {
		return kind
	}

	return Ident
}

// singleCharTokens are recognized after the two-character operators have been ruled out.
var singleCharTokens = map[byte]Kind{
	'=': Assign,
	'+': Plus,
	'-': Minus,
	'!': Bang,
	'*': Asterisk,
	'/': Slash,
	'<': LessThan,
	'>': GreaterThan,
	',': Comma,
	'(': LeftParen,
	')': RightParen,
}

// twoCharTokens holds operators spelled with two characters.
// "!=" is accepted as an alternate spelling of "<>".
var twoCharTokens = map[string]Kind{
	"<=": LessEqual,
	">=": GreaterEqual,
	"<>": NotEqual,
	"!=": NotEqual,
}
