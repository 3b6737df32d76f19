package lexer

import (
	"unicode/utf16"
	"unicode/utf8"
)

// NextToken consumes input from the cursor and returns exactly one token.
// Once 'EOF' has been returned, every further call returns 'EOF' again.
// Unrecognized characters never stop the lexer, they become 'ILLEGAL' tokens.
func (l *Lexer) NextToken() Token {
	if l.done {
		return NewToken(Eof, "", Range{Start: l.eof, End: l.eof})
	}

	l.skipBlanks()

	if l.offset >= len(l.input) {
		return l.finish(l.position())
	}

	start := l.position()
	ch := l.input[l.offset]

	switch {
	case ch == '\n':
		// a trailing newline (or trailing blank lines) is the end of the program
		if l.onlyWhitespaceFrom(l.offset + 1) {
			return l.finish(start)
		}

		l.advance()
		return NewToken(Newline, "\n", Range{Start: start, End: start.Offset(1)})

	case ch == '"':
		return l.readString(start)

	case isLetter(ch):
		return l.readWord(start)

	case isDigit(ch):
		begin := l.offset
		for l.offset < len(l.input) && isDigit(l.input[l.offset]) {
			l.advance()
		}

		literal := string(l.input[begin:l.offset])
		return NewToken(Int, literal, Range{Start: start, End: l.position()})
	}

	if l.offset+1 < len(l.input) {
		pair := string(l.input[l.offset : l.offset+2])

		if kind, ok := twoCharTokens[pair]; ok {
			l.advanceBy(2)
			return NewToken(kind, pair, Range{Start: start, End: start.Offset(2)})
		}
	}

	if kind, ok := singleCharTokens[ch]; ok {
		l.advance()
		return NewToken(kind, string(ch), Range{Start: start, End: start.Offset(1)})
	}

	_, size := utf8.DecodeRune(l.input[l.offset:])
	literal := string(l.input[l.offset : l.offset+size])
	l.advance()

	return NewToken(Illegal, literal, Range{Start: start, End: l.position()})
}

// finish moves the cursor to the end of input and marks the lexer as exhausted.
func (l *Lexer) finish(at Position) Token {
	l.advanceBy(len(l.input) - l.offset)
	l.done = true
	l.eof = at

	return NewToken(Eof, "", Range{Start: at, End: at})
}

// readWord scans an identifier run and resolves keywords, including the
// compound "END IF" and "END SUB". 'REM' discards the rest of the line.
func (l *Lexer) readWord(start Position) Token {
	word := l.readIdentifierRun()

	if word == KeywordEnd {
		if kind, ok := l.readCompoundKeyword(); ok {
			return NewToken(kind, kind.String(), Range{Start: start, End: l.position()})
		}
	}

	kind := LookupIdent(word)
	tok := NewToken(kind, word, Range{Start: start, End: l.position()})

	if kind == Rem {
		for l.offset < len(l.input) && l.input[l.offset] != '\n' {
			l.advance()
		}
	}

	return tok
}

// readCompoundKeyword tries to extend a just-read "END" with the following word.
// On failure the cursor is restored right after "END".
func (l *Lexer) readCompoundKeyword() (Kind, bool) {
	savedOffset, savedLine, savedColumn := l.offset, l.line, l.column

	for l.offset < len(l.input) && isBlank(l.input[l.offset]) {
		l.advance()
	}

	if l.offset < len(l.input) && isLetter(l.input[l.offset]) {
		next := l.readIdentifierRun()

		if kind, ok := keywords[KeywordEnd+" "+next]; ok {
			return kind, true
		}
	}

	l.offset, l.line, l.column = savedOffset, savedLine, savedColumn

	return Ident, false
}

func (l *Lexer) readIdentifierRun() string {
	begin := l.offset
	for l.offset < len(l.input) && isLetter(l.input[l.offset]) {
		l.advance()
	}

	return string(l.input[begin:l.offset])
}

// readString reads a double quoted literal. A backslash escapes the next character.
// Strings cannot span lines; an unterminated one becomes an 'ILLEGAL' token.
func (l *Lexer) readString(start Position) Token {
	quote := l.offset
	l.advance()
	begin := l.offset

scan:
	for l.offset < len(l.input) {
		switch l.input[l.offset] {
		case '\\':
			l.advance()
			if l.offset < len(l.input) && l.input[l.offset] != '\n' {
				l.advance()
			}
			continue
		case '\n':
			break scan
		case '"':
			literal := string(l.input[begin:l.offset])
			l.advance()
			return NewToken(StringLit, literal, Range{Start: start, End: l.position()})
		}

		l.advance()
	}

	return NewToken(
		Illegal,
		string(l.input[quote:l.offset]),
		Range{Start: start, End: l.position()},
	)
}

func (l *Lexer) skipBlanks() {
	for l.offset < len(l.input) && isBlank(l.input[l.offset]) {
		l.advance()
	}
}

func (l *Lexer) onlyWhitespaceFrom(index int) bool {
	for _, ch := range l.input[index:] {
		if !isBlank(ch) && ch != '\n' {
			return false
		}
	}

	return true
}

// advance steps over one character. Columns count UTF-16 code units, the
// unit LSP clients use; an invalid byte counts as one.
func (l *Lexer) advance() {
	if l.offset >= len(l.input) {
		return
	}

	ch := l.input[l.offset]

	switch {
	case ch == '\n':
		l.line++
		l.column = 0
		l.offset++
	case ch < utf8.RuneSelf:
		l.column++
		l.offset++
	default:
		r, size := utf8.DecodeRune(l.input[l.offset:])
		l.column += utf16.RuneLen(r)
		l.offset += size
	}
}

func (l *Lexer) advanceBy(count int) {
	for range count {
		l.advance()
	}
}

func (l *Lexer) position() Position {
	return Position{Line: l.line, Character: l.column}
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r'
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
