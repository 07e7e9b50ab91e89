package lang

import (
	"strings"
	"unicode/utf8"
)

// Lex normalizes src and splits it into tokens. See [Tokenize].
func Lex(src string) ([]Token, error) {
	return Tokenize(Normalize(src))
}

// Tokenize splits normalized text into tokens terminated by a single
// [TokenEOF]. Token offsets refer to the source text n was produced from.
//
// The only error returned is a *[LexError].
func Tokenize(n Normalized) ([]Token, error) {
	lx := lexer{src: n.Text, norm: n}

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		lx.toks = append(lx.toks, tok)

		if tok.Kind == TokenEOF {
			return lx.toks, nil
		}
	}
}

type lexer struct {
	src  string
	norm Normalized
	pos  int
	toks []Token
}

func (lx *lexer) token(kind TokenKind, start int, lit string) Token {
	return Token{Kind: kind, Lit: lit, Offset: lx.norm.SourceOffset(start)}
}

func (lx *lexer) fail(reason *Error, at int) *LexError {
	r, _ := utf8.DecodeRuneInString(lx.src[at:])

	return &LexError{
		Err:    reason,
		Offset: lx.norm.SourceOffset(at),
		Char:   r,
	}
}

func (lx *lexer) peekByte(off int) byte {
	if lx.pos+off < len(lx.src) {
		return lx.src[lx.pos+off]
	}

	return 0
}

func (lx *lexer) skipBlankAndComments() {
	for lx.pos < len(lx.src) {
		switch c := lx.src[lx.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v':
			lx.pos++
		case c == '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		default:
			return
		}
	}
}

func (lx *lexer) next() (Token, error) {
	lx.skipBlankAndComments()

	start := lx.pos
	if start >= len(lx.src) {
		return lx.token(TokenEOF, len(lx.src), ""), nil
	}

	c := lx.src[start]

	switch {
	case isDigit(c):
		return lx.number(), nil
	case isIdentStart(c):
		return lx.ident(), nil
	case c == '"':
		return lx.text(), nil
	}

	if kind, n := lx.operator(c); n > 0 {
		lx.pos += n

		return lx.token(kind, start, lx.src[start:lx.pos]), nil
	}

	switch c {
	case '&', '|':
		return Token{}, lx.fail(ErrUndoubledOperator, start)
	case '=':
		return Token{}, lx.fail(ErrBareAssign, start)
	}

	return Token{}, lx.fail(ErrUnexpectedChar, start)
}

// operator matches punctuation and operator symbols at the current position,
// two-character symbols first.
func (lx *lexer) operator(c byte) (TokenKind, int) {
	switch pair := string([]byte{c, lx.peekByte(1)}); pair {
	case "&&":
		return TokenAnd, 2
	case "||":
		return TokenOr, 2
	case "==":
		return TokenEq, 2
	case "!=":
		return TokenNe, 2
	case "<=":
		return TokenLe, 2
	case ">=":
		return TokenGe, 2
	}

	switch c {
	case '.':
		return TokenDot, 1
	case ',':
		return TokenComma, 1
	case ':':
		return TokenColon, 1
	case '(':
		return TokenLParen, 1
	case ')':
		return TokenRParen, 1
	case '[':
		return TokenLBracket, 1
	case ']':
		return TokenRBracket, 1
	case '+':
		return TokenPlus, 1
	case '-':
		return TokenMinus, 1
	case '*':
		return TokenStar, 1
	case '/':
		return TokenSlash, 1
	case '%':
		return TokenPercent, 1
	case '<':
		return TokenLt, 1
	case '>':
		return TokenGt, 1
	case '!':
		return TokenNot, 1
	}

	return TokenEOF, 0
}

// number scans digits with at most one fractional part. A '.' not followed
// by a digit ends the number and is left for the statement terminator.
func (lx *lexer) number() Token {
	start := lx.pos

	for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}

	if lx.peekByte(0) == '.' && isDigit(lx.peekByte(1)) {
		lx.pos++

		for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
			lx.pos++
		}
	}

	return lx.token(TokenNumber, start, lx.src[start:lx.pos])
}

func (lx *lexer) ident() Token {
	start := lx.pos

	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}

	word := lx.src[start:lx.pos]
	if kind, ok := LookupKeyword(word); ok {
		return lx.token(kind, start, word)
	}

	return lx.token(TokenIdent, start, word)
}

// text scans a double-quoted literal. An unterminated literal runs to the
// end of input.
func (lx *lexer) text() Token {
	start := lx.pos
	lx.pos++

	var b strings.Builder

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		if c == '"' {
			lx.pos++

			break
		}

		if c == '\\' && lx.pos+1 < len(lx.src) {
			b.WriteByte(unescape(lx.src[lx.pos+1]))
			lx.pos += 2

			continue
		}

		b.WriteByte(c)
		lx.pos++
	}

	return lx.token(TokenText, start, b.String())
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	default:
		return c
	}
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
