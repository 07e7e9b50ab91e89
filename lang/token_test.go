package lang

import "testing"

func TestTokenKind_String(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenEOF, "end of input"},
		{TokenIdent, "identifier"},
		{TokenNumber, "number"},
		{TokenText, "text"},
		{TokenOtherwise, "'otherwise'"},
		{TokenGe, "'>='"},
		{tokenKindCount, "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKeywords(t *testing.T) {
	words := Keywords()
	if len(words) != int(TokenBy-TokenLet+1) {
		t.Fatalf("got %d keywords", len(words))
	}

	for _, w := range words {
		k, ok := LookupKeyword(w)
		if !ok || !k.IsKeyword() || k.Symbol() != w {
			t.Errorf("keyword %q: kind %v ok %v", w, k, ok)
		}
	}

	for _, w := range []string{"ask", "and", "nothing", "length"} {
		if _, ok := LookupKeyword(w); ok {
			t.Errorf("%q must not be a keyword", w)
		}
	}

	if _, ok := LookupKeyword("OTHERWISE"); !ok {
		t.Error("keyword lookup must ignore case")
	}
}

func TestToken_String(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: TokenIdent, Lit: "x"}, "identifier x"},
		{Token{Kind: TokenNumber, Lit: "1.5"}, "number 1.5"},
		{Token{Kind: TokenText, Lit: "a\"b"}, `text "a\"b"`},
		{Token{Kind: TokenDot, Lit: "."}, "'.'"},
	}

	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"total", true},
		{"log_level", true},
		{"_x1", true},
		{"Say", false},
		{"and", false},
		{"times", false},
		{"1abc", false},
		{" x", false},
		{"a b", false},
		{"log-level", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsIdentifier(tt.in); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
