package kicadsexp

import (
	"bufio"
	"fmt"
	"io"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

// Token represents a lexical token. Line and Col point at the token's
// first character, 1-based.
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// Lexer tokenizes S-expressions from an io.Reader. Board files run to
// tens of megabytes, so input is streamed rune by rune.
type Lexer struct {
	reader *bufio.Reader
	peeked *rune
	line   int
	col    int
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		line:   1,
		col:    1,
	}
}

// NextToken reads the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipSpace(); err != nil {
		if err == io.EOF {
			return l.token(TokenEOF, ""), nil
		}
		return Token{}, err
	}

	ch, err := l.peek()
	if err != nil {
		if err == io.EOF {
			return l.token(TokenEOF, ""), nil
		}
		return Token{}, err
	}

	switch ch {
	case '(':
		tok := l.token(TokenLeftParen, "(")
		l.read()
		return tok, nil

	case ')':
		tok := l.token(TokenRightParen, ")")
		l.read()
		return tok, nil

	case '"':
		return l.readString()

	default:
		return l.readSymbol()
	}
}

// skipSpace consumes whitespace up to the next token
func (l *Lexer) skipSpace() error {
	for {
		ch, err := l.peek()
		if err != nil {
			return err
		}
		if !unicode.IsSpace(ch) {
			return nil
		}
		l.read()
	}
}

// token stamps a token with the current position
func (l *Lexer) token(t TokenType, value string) Token {
	return Token{Type: t, Value: value, Line: l.line, Col: l.col}
}

// errorf builds a positioned lexical error
func (l *Lexer) errorf(format string, args ...any) error {
	return fmt.Errorf("%d:%d: %s", l.line, l.col, fmt.Sprintf(format, args...))
}

// peek looks at the next rune without consuming it
func (l *Lexer) peek() (rune, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}

	ch, _, err := l.reader.ReadRune()
	if err != nil {
		return 0, err
	}

	l.peeked = &ch
	return ch, nil
}

// read consumes and returns the next rune, tracking position
func (l *Lexer) read() (rune, error) {
	var ch rune
	if l.peeked != nil {
		ch = *l.peeked
		l.peeked = nil
	} else {
		var err error
		ch, _, err = l.reader.ReadRune()
		if err != nil {
			return 0, err
		}
	}

	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch, nil
}

// readString reads a quoted string, resolving escape sequences
func (l *Lexer) readString() (Token, error) {
	tok := l.token(TokenString, "")
	l.read() // opening quote

	var result []rune
	for {
		ch, err := l.read()
		if err != nil {
			if err == io.EOF {
				return Token{}, l.errorf("unterminated string")
			}
			return Token{}, err
		}

		if ch == '"' {
			// pcbnew doubles quotes inside strings in some versions
			next, err := l.peek()
			if err == nil && next == '"' {
				l.read()
				result = append(result, '"')
				continue
			}
			break
		}

		if ch == '\\' {
			next, err := l.read()
			if err != nil {
				return Token{}, l.errorf("unterminated escape in string")
			}
			switch next {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			case '\\':
				result = append(result, '\\')
			case '"':
				result = append(result, '"')
			default:
				// Unknown escape, keep it verbatim
				result = append(result, next)
			}
			continue
		}

		result = append(result, ch)
	}

	tok.Value = string(result)
	return tok, nil
}

// readSymbol reads an unquoted atom (identifier, keyword, number)
func (l *Lexer) readSymbol() (Token, error) {
	tok := l.token(TokenSymbol, "")

	var result []rune
	for {
		ch, err := l.peek()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Token{}, err
		}

		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			break
		}

		l.read()
		result = append(result, ch)
	}

	if len(result) == 0 {
		return Token{}, l.errorf("empty symbol")
	}

	tok.Value = string(result)
	return tok, nil
}
