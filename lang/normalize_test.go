package lang

import "testing"

func TestNormalize_Phrases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"greater or equal", "a is greater than or equal to b", "a >= b"},
		{"less or equal", "a is less than or equal to b", "a <= b"},
		{"greater", "a is greater than b", "a > b"},
		{"less", "a IS Less THAN b", "a < b"},
		{"not equal", "a is not equal to b", "a != b"},
		{"is not", "a is not b", "a != b"},
		{"equal", "a is equal to b", "a == b"},
		{"at least", "a is at least b", "a >= b"},
		{"at most", "a is at most b", "a <= b"},
		{"plus", "a plus b", "a + b"},
		{"minus", "a minus b", "a - b"},
		{"multiplied", "a multiplied  by b", "a * b"},
		{"times", "a times b", "a * b"},
		{"divided across lines", "a divided\n\tby b", "a / b"},
		{"modulo", "a modulo b", "a % b"},
		{"mod", "a mod b", "a % b"},
		{"logical", "not a and b or c", "! a && b || c"},
		{"repeat keyword kept", "repeat 3 times: say 1. end.", "repeat 3 times: say 1. end."},
		{"repeat keyword before spaced colon", "repeat n times :", "repeat n times :"},
		{"times then repeat", "repeat 2 times 3 times:", "repeat 2 * 3 times:"},
		{"text untouched", `say "a and b".`, `say "a and b".`},
		{"escaped quote", `say "x \" and y" and z.`, `say "x \" and y" && z.`},
		{"comment untouched", "say 1. # a and b\nsay a and b.", "say 1. # a and b\nsay a && b."},
		{"underscore identifier", "is_done and not_yet", "is_done && not_yet"},
		{"prefix of word", "orange android mode", "orange android mode"},
		{"adjacent punctuation", "(a)and(b)", "(a)&&(b)"},
		{"not followed by word", "nothing", "nothing"},
		{"is not before word", "a is nothing", "a is nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input).Text
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	canonical := []string{
		"let x be 1 + 2 * 3 >= 4 && !y || z != 5.",
		`say "is greater than" + name.`,
		"repeat n times: set total to total + 1. end repeat.",
		"to f(a, b): return a % b <= a / b. end.",
		"",
	}

	for _, src := range canonical {
		n := Normalize(src)
		if n.Text != src {
			t.Errorf("Normalize(%q) = %q, want unchanged", src, n.Text)
		}

		if n.Replacements() != 0 {
			t.Errorf("Normalize(%q) reported %d replacements", src, n.Replacements())
		}
	}
}

func TestNormalize_WordBoundary(t *testing.T) {
	src := `let android be "android". say android.`

	if got := Normalize(src).Text; got != src {
		t.Errorf("got %q, want %q", got, src)
	}
}

func TestNormalized_SourceOffset(t *testing.T) {
	src := "a is greater than b plus c"
	n := Normalize(src)

	if n.Text != "a > b + c" {
		t.Fatalf("unexpected normalized text %q", n.Text)
	}

	tests := []struct {
		norm, src int
	}{
		{0, 0},   // a
		{2, 2},   // > maps to "is"
		{4, 18},  // b
		{6, 20},  // + maps to "plus"
		{8, 25},  // c
		{9, 26},  // end of input
	}

	for _, tt := range tests {
		if got := n.SourceOffset(tt.norm); got != tt.src {
			t.Errorf("SourceOffset(%d) = %d, want %d", tt.norm, got, tt.src)
		}
	}
}
