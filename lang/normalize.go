package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// phrase is one entry of the normalization table. Words must appear in
// sequence separated by blanks.
type phrase struct {
	words  []string
	symbol string
	// beforeColon keeps the phrase verbatim when the next non-blank
	// character is ':'. This preserves "repeat N times:".
	beforeColon bool
}

// phrases is tried in order at every word boundary. A phrase that is a
// textual prefix of another must follow it.
var phrases = []phrase{
	{words: []string{"is", "greater", "than", "or", "equal", "to"}, symbol: ">="},
	{words: []string{"is", "less", "than", "or", "equal", "to"}, symbol: "<="},
	{words: []string{"is", "greater", "than"}, symbol: ">"},
	{words: []string{"is", "less", "than"}, symbol: "<"},
	{words: []string{"is", "not", "equal", "to"}, symbol: "!="},
	{words: []string{"is", "not"}, symbol: "!="},
	{words: []string{"is", "equal", "to"}, symbol: "=="},
	{words: []string{"is", "at", "least"}, symbol: ">="},
	{words: []string{"is", "at", "most"}, symbol: "<="},
	{words: []string{"plus"}, symbol: "+"},
	{words: []string{"minus"}, symbol: "-"},
	{words: []string{"multiplied", "by"}, symbol: "*"},
	{words: []string{"times"}, symbol: "*", beforeColon: true},
	{words: []string{"divided", "by"}, symbol: "/"},
	{words: []string{"modulo"}, symbol: "%"},
	{words: []string{"mod"}, symbol: "%"},
	{words: []string{"and"}, symbol: "&&"},
	{words: []string{"or"}, symbol: "||"},
	{words: []string{"not"}, symbol: "!"},
}

// edit records one phrase replacement.
type edit struct {
	at     int // offset of the symbol in the normalized text
	src    int // offset of the phrase in the source text
	srcLen int
	dstLen int
}

// Normalized is source text with English connective phrases rewritten to
// operator symbols.
type Normalized struct {
	Text  string
	edits []edit
}

// Normalize rewrites the relational, arithmetic, and logical phrases of src
// into their canonical symbols. Matching ignores case and requires a word
// boundary on both sides. Text inside double-quoted literals and comments
// is copied unchanged. Normalize never fails and is idempotent on canonical text.
func Normalize(src string) Normalized {
	var (
		b        strings.Builder
		edits    []edit
		inString bool
	)

	b.Grow(len(src))

	for i := 0; i < len(src); {
		c := src[i]

		if inString {
			switch c {
			case '\\':
				if i+1 < len(src) {
					b.WriteString(src[i : i+2])
					i += 2

					continue
				}
			case '"':
				inString = false
			}

			b.WriteByte(c)
			i++

			continue
		}

		if c == '"' {
			inString = true

			b.WriteByte(c)
			i++

			continue
		}

		if c == '#' {
			j := i
			for j < len(src) && src[j] != '\n' {
				j++
			}

			b.WriteString(src[i:j])
			i = j

			continue
		}

		if atWordStart(src, i) {
			if p, n := matchPhrase(src, i); n > 0 {
				edits = append(edits, edit{
					at:     b.Len(),
					src:    i,
					srcLen: n,
					dstLen: len(p.symbol),
				})

				b.WriteString(p.symbol)
				i += n

				continue
			}
		}

		b.WriteByte(c)
		i++
	}

	return Normalized{Text: b.String(), edits: edits}
}

// SourceOffset maps an offset in the normalized text back to the source
// text. An offset inside a replaced symbol maps to the start of its phrase.
func (n Normalized) SourceOffset(off int) int {
	delta := 0

	for _, e := range n.edits {
		if off < e.at {
			break
		}

		if off < e.at+e.dstLen {
			return e.src
		}

		delta = (e.src + e.srcLen) - (e.at + e.dstLen)
	}

	return off + delta
}

// Replacements returns the number of phrases rewritten.
func (n Normalized) Replacements() int { return len(n.edits) }

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func atWordStart(s string, i int) bool {
	r, _ := utf8.DecodeRuneInString(s[i:])
	if !isWordRune(r) {
		return false
	}

	if i == 0 {
		return true
	}

	prev, _ := utf8.DecodeLastRuneInString(s[:i])

	return !isWordRune(prev)
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// matchPhrase returns the first phrase matching at s[i:] and the number of
// source bytes it spans, or a zero length if none match.
func matchPhrase(s string, i int) (phrase, int) {
	for _, p := range phrases {
		if n := p.match(s, i); n > 0 {
			return p, n
		}
	}

	return phrase{}, 0
}

func (p phrase) match(s string, start int) int {
	i := start

	for w, word := range p.words {
		if w > 0 {
			j := i
			for j < len(s) && isBlank(s[j]) {
				j++
			}

			if j == i {
				return 0
			}

			i = j
		}

		if len(s)-i < len(word) || !equalFoldASCII(s[i:i+len(word)], word) {
			return 0
		}

		i += len(word)
	}

	if i < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[i:]); isWordRune(r) {
			return 0
		}
	}

	if p.beforeColon {
		j := i
		for j < len(s) && isBlank(s[j]) {
			j++
		}

		if j < len(s) && s[j] == ':' {
			return 0
		}
	}

	return i - start
}

// equalFoldASCII compares s to the lowercase ASCII word w without regard to
// ASCII case.
func equalFoldASCII(s, w string) bool {
	for i := range len(w) {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}

		if c != w[i] {
			return false
		}
	}

	return true
}
