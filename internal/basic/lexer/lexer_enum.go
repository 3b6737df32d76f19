package lexer

// ----------
// Lexer Kind
// ----------

const (
	Illegal Kind = iota
	Eof
	Newline

	Ident
	Int
	StringLit

	// operators and punctuation
	Assign // '=' doubles as assignment and equality
	NotEqual
	Plus
	Minus
	Bang
	Asterisk
	Slash
	LessThan
	GreaterThan
	LessEqual
	GreaterEqual
	Comma
	LeftParen
	RightParen

	// keywords
	Rem
	Print
	Let
	Input
	True
	False
	If
	Then
	Else
	EndIf
	Sub
	EndSub
	Call
	Goto
)

var kindNames = [...]string{
	Illegal: "ILLEGAL",
	Eof:     "EOF",
	Newline: "NEWLINE",

	Ident:     "IDENT",
	Int:       "INT",
	StringLit: "STRING",

	Assign:       "=",
	NotEqual:     "<>",
	Plus:         "+",
	Minus:        "-",
	Bang:         "!",
	Asterisk:     "*",
	Slash:        "/",
	LessThan:     "<",
	GreaterThan:  ">",
	LessEqual:    "<=",
	GreaterEqual: ">=",
	Comma:        ",",
	LeftParen:    "(",
	RightParen:   ")",

	Rem:    "REM",
	Print:  "PRINT",
	Let:    "LET",
	Input:  "INPUT",
	True:   "TRUE",
	False:  "FALSE",
	If:     "IF",
	Then:   "THEN",
	Else:   "ELSE",
	EndIf:  "END IF",
	Sub:    "SUB",
	EndSub: "END SUB",
	Call:   "CALL",
	Goto:   "GOTO",
}

// String returns the name used in diagnostics: the symbol for punctuation,
// the upper-case spelling for keywords.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}

	return kindNames[k]
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool {
	return k >= Rem && k <= Goto
}

// IsOperator reports whether k is an operator or punctuation token.
func (k Kind) IsOperator() bool {
	return k >= Assign && k <= RightParen
}
