package lang

import "strings"

// TokenKind identifies the lexical class of a [Token].
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenNumber
	TokenText

	// Keywords.
	TokenLet
	TokenBe
	TokenSet
	TokenTo
	TokenIf
	TokenThen
	TokenOtherwise
	TokenWhile
	TokenDo
	TokenRepeat
	TokenTimes
	TokenFor
	TokenEach
	TokenIn
	TokenReturn
	TokenSay
	TokenEnd
	TokenAppend
	TokenRemove
	TokenFrom
	TokenTrue
	TokenFalse
	TokenIncrease
	TokenDecrease
	TokenBy

	// Punctuation.
	TokenDot
	TokenComma
	TokenColon
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket

	// Operators.
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenAnd
	TokenOr
	TokenNot

	tokenKindCount
)

// tokenText holds the keyword or symbol spelling of fixed tokens.
var tokenText = [tokenKindCount]string{
	TokenLet:       "let",
	TokenBe:        "be",
	TokenSet:       "set",
	TokenTo:        "to",
	TokenIf:        "if",
	TokenThen:      "then",
	TokenOtherwise: "otherwise",
	TokenWhile:     "while",
	TokenDo:        "do",
	TokenRepeat:    "repeat",
	TokenTimes:     "times",
	TokenFor:       "for",
	TokenEach:      "each",
	TokenIn:        "in",
	TokenReturn:    "return",
	TokenSay:       "say",
	TokenEnd:       "end",
	TokenAppend:    "append",
	TokenRemove:    "remove",
	TokenFrom:      "from",
	TokenTrue:      "true",
	TokenFalse:     "false",
	TokenIncrease:  "increase",
	TokenDecrease:  "decrease",
	TokenBy:        "by",
	TokenDot:       ".",
	TokenComma:     ",",
	TokenColon:     ":",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenPercent:   "%",
	TokenEq:        "==",
	TokenNe:        "!=",
	TokenLt:        "<",
	TokenLe:        "<=",
	TokenGt:        ">",
	TokenGe:        ">=",
	TokenAnd:       "&&",
	TokenOr:        "||",
	TokenNot:       "!",
}

// keywords maps lowercase keyword spellings to their kinds.
var keywords = func() map[string]TokenKind {
	m := make(map[string]TokenKind, TokenBy-TokenLet+1)
	for k := TokenLet; k <= TokenBy; k++ {
		m[tokenText[k]] = k
	}

	return m
}()

// Keywords returns the reserved words of the language in declaration order.
func Keywords() []string {
	words := make([]string, 0, TokenBy-TokenLet+1)
	for k := TokenLet; k <= TokenBy; k++ {
		words = append(words, tokenText[k])
	}

	return words
}

// LookupKeyword returns the keyword kind for an identifier spelling, matched
// without regard to case.
func LookupKeyword(word string) (TokenKind, bool) {
	k, ok := keywords[strings.ToLower(word)]

	return k, ok
}

// IsIdentifier reports whether s is usable as a variable or function name:
// a single identifier token that is neither a keyword nor an English
// operator phrase.
func IsIdentifier(s string) bool {
	toks, err := Lex(s)

	return err == nil && len(toks) == 2 && toks[0].Kind == TokenIdent && toks[0].Lit == s
}

// IsKeyword reports whether k is a reserved word.
func (k TokenKind) IsKeyword() bool { return k >= TokenLet && k <= TokenBy }

// IsOperator reports whether k is a unary or binary operator symbol.
func (k TokenKind) IsOperator() bool { return k >= TokenPlus && k <= TokenNot }

// Symbol returns the fixed spelling of k, or "" for identifiers, literals,
// and end of input.
func (k TokenKind) Symbol() string {
	if k >= tokenKindCount {
		return ""
	}

	return tokenText[k]
}

// String returns a human-readable description of k for diagnostics.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenText:
		return "text"
	}

	if s := k.Symbol(); s != "" {
		return "'" + s + "'"
	}

	return "unknown"
}

// Token is a lexical unit. Offset is the byte offset of the token's first
// character in the original (unnormalized) source text.
type Token struct {
	// Lit is the identifier spelling, the number's digits, or the decoded
	// contents of a text literal. Fixed tokens carry their normalized spelling.
	Lit    string
	Offset int
	Kind   TokenKind
}

func (t Token) String() string {
	switch t.Kind {
	case TokenIdent, TokenNumber:
		return t.Kind.String() + " " + t.Lit
	case TokenText:
		return "text " + quote(t.Lit)
	default:
		return t.Kind.String()
	}
}
