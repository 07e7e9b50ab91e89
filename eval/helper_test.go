package eval

import (
	"strings"
	"testing"
	"time"

	"github.com/ardnew/reo/lang"
)

// fixedTime is the clock used by test hosts.
//
//nolint:gochecknoglobals
var fixedTime = time.Date(2024, time.March, 5, 14, 7, 9, 123456700, time.FixedZone("", -5*3600))

func tokenFor(t *testing.T, sym string) lang.TokenKind {
	t.Helper()

	toks, err := lang.Lex(sym)
	if err != nil || len(toks) == 0 {
		t.Fatalf("Lex(%q): %v", sym, err)
	}

	return toks[0].Kind
}

// run executes src with input as the host's standard input and returns
// everything said.
func run(t *testing.T, src, input string, opts ...Option) (string, error) {
	t.Helper()

	var out strings.Builder

	host := NewStdHost(strings.NewReader(input), &out).WithClock(func() time.Time { return fixedTime })

	prog, err := lang.Parse(t.Context(), src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}

	err = Run(t.Context(), prog, append([]Option{WithHost(host)}, opts...)...)

	return out.String(), err
}

func mustRun(t *testing.T, src string) string {
	t.Helper()

	out, err := run(t, src, "")
	if err != nil {
		t.Fatalf("Run(%q): %v", src, err)
	}

	return out
}
