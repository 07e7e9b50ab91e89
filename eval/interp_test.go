package eval

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/ardnew/reo/lang"
)

func TestRun_Output(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"precedence", "say 2 + 3 * 4.", "14\n"},
		{"grouping", "say (2 + 3) * 4.", "20\n"},
		{
			"literals",
			`say 1. say "hi". say true. say [1, "a", [false]]. say 2.50.`,
			"1\nhi\ntrue\n[1, a, [false]]\n2.5\n",
		},
		{"tolerance", "say (0.1 + 0.2) is equal to 0.3.", "true\n"},
		{"concat", `say 1 + "x".`, "1x\n"},
		{"text compare", `say "10" < 9.`, "true\n"},
		{"divide by zero", "say 1 / 0. say 0 / 0.", "Infinity\nNaN\n"},
		{"modulo floors", "say 7.9 % 3.", "1\n"},
		{"not", "say not 0. say -true.", "true\n-1\n"},
		{"case insensitive names", "let Total be 1. say TOTAL.", "1\n"},
		{
			"end to end",
			"let n be 5. let total be 0. repeat n times: set total to total + 1. end repeat. say total.",
			"5\n",
		},
		{
			"aliasing",
			"let a be [1,2]. let b be a. append 3 to b. say length(a).",
			"3\n",
		},
		{
			"remove every match",
			`let lst be ["x", 1, "x", "y"]. remove "x" from lst. say lst.`,
			"[1, y]\n",
		},
		{
			"remove by display form",
			`let l be [1, "1", 2]. remove "1" from l. say l.`,
			"[2]\n",
		},
		{"negative zero", "say -0. say 0 * -1 + 0.", "-0\n0\n"},
		{
			"list containing itself",
			`let a be [1]. append a to a. say length(a). say a. say to_text(a) == "[1, [...]]". say a + "!".`,
			"2\n[1, [...]]\ntrue\n[1, [...]]!\n",
		},
		{
			"remove list from itself",
			"let a be [1]. append a to a. remove a from a. say a.",
			"[1]\n",
		},
		{
			"repeat fractional count",
			"let n be 0. repeat 2.9 times: increase n by 1. end. repeat -3 times: increase n by 1. end. say n.",
			"2\n",
		},
		{"set creates", "set fresh to 2. say fresh.", "2\n"},
		{
			"index",
			"let l be [10, 20]. set l[1] to 5. say l[1]. say l[0.7].",
			"5\n10\n",
		},
		{
			"increase and decrease",
			"let l be [1]. increase l[0] by 4. let n be 10. decrease n by 3. say l. say n.",
			"[5]\n7\n",
		},
		{
			"if otherwise",
			`if 2 is greater than 1, then: say "yes". otherwise: say "no". end if.`,
			"yes\n",
		},
		{
			"while",
			"let i be 0. while i < 3, do: say i. increase i by 1. end while.",
			"0\n1\n2\n",
		},
		{
			"repeat floors once",
			`let n be 2.9. repeat n times: say n. set n to 10. end repeat.`,
			"2.9\n10\n",
		},
		{"repeat negative", `repeat -2 times: say "x". end. say "done".`, "done\n"},
		{
			"for each keeps variable",
			"let total be 0. for each v in [1, 2, 3]: increase total by v. end for each. say total. say v.",
			"6\n3\n",
		},
		{
			"for each snapshot",
			"let l be [1, 2]. for v in l: append v to l. end. say l.",
			"[1, 2, 1, 2]\n",
		},
		{
			"recursion",
			"to fact(n): if n <= 1: return 1. end if. return n * fact(n - 1). end.\nsay fact(5).",
			"120\n",
		},
		{
			"falls off end",
			"to f(): let x be 1. end. say f().",
			"nothing\n",
		},
		{
			"list by reference",
			"to push(xs): append 9 to xs. end.\nlet l be [].\npush(l).\nsay l.",
			"[9]\n",
		},
		{
			"parameters are local",
			"let x be 1. to f(x): set x to 2. return x. end. say f(5). say x.",
			"2\n1\n",
		},
		{
			"eager and",
			`to noisy(v): say "called". return v. end. say false and noisy(true).`,
			"called\nfalse\n",
		},
		{
			"eager or",
			`to noisy(v): say "called". return v. end. say true or noisy(false).`,
			"called\ntrue\n",
		},
		{
			"builtin wins",
			`to length(x): return 99. end. say length("ab").`,
			"2\n",
		},
		{
			"builtins",
			`say range(1, 3). say range(3, 1). say length("héllo"). say to_number("12") + 1. say to_text(5) + 1. say to_truth(0). say length(4).`,
			"[1, 2, 3]\n[3, 2, 1]\n5\n13\n51\nfalse\n4\n",
		},
		{
			"time",
			`say now(). say format_now("yyyy-MM-dd HH:mm").`,
			"2024-03-05T14:07:09.1234567-05:00\n2024-03-05 14:07\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.src); got != tt.want {
				t.Errorf("Run(%q)\n got %q\nwant %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestRun_Ask(t *testing.T) {
	out, err := run(t, `let name be ask("Name? "). say "Hi " + name. say ask() is equal to "".`, "Ada\r\n")
	if err != nil {
		t.Fatal(err)
	}

	if want := "Name? Hi Ada\ntrue\n"; out != want {
		t.Fatalf("output %q, want %q", out, want)
	}
}

func TestRun_Files(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")

	out, err := run(t, `let p be write_text("`+path+`", "data"). say read_text(p).`, "")
	if err != nil {
		t.Fatal(err)
	}

	if out != "data\n" {
		t.Fatalf("output %q", out)
	}
}

func TestRun_SandboxHost(t *testing.T) {
	prog, err := lang.Parse(t.Context(), `say read_text("/etc/hostname").`)
	if err != nil {
		t.Fatal(err)
	}

	err = Run(t.Context(), prog, WithHost(SandboxHost{}))
	if !errors.Is(err, ErrHost) {
		t.Fatalf("err = %v, want ErrHost", err)
	}
}

func TestRun_Faults(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   *Error
		offset int
		out    string
	}{
		{"undefined", "say missing.", ErrUndefinedVariable, 4, ""},
		{"undefined after output", "say 1. say nope + 1.", ErrUndefinedVariable, 11, "1\n"},
		{"caller locals hidden", "let secret be 1. to peek(): return secret. end. say peek().", ErrUndefinedVariable, 35, ""},
		{"index out of range", "let l be [1]. say l[1].", ErrIndex, 20, ""},
		{"negative index", "let l be [1]. set l[-1] to 0.", ErrIndex, 20, ""},
		{"index non list", `let s be "ab". say s[0].`, ErrType, 19, ""},
		{"for each non list", "for each c in 5: say c. end.", ErrType, 14, ""},
		{"append non list", "let n be 1. append 2 to n.", ErrType, 12, ""},
		{"append unbound", "append 2 to nowhere.", ErrUndefinedVariable, 0, ""},
		{"index set unbound", "set q[0] to 1.", ErrUndefinedVariable, 4, ""},
		{"remove unbound", "remove 1 from gone.", ErrUndefinedVariable, 0, ""},
		{"range infinite", "say range(1, 1 / 0).", ErrType, 4, ""},
		{"range too large", "say range(0, 20000000).", ErrIndex, 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.src, "")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}

			re, ok := AsRuntime(err)
			if !ok {
				t.Fatalf("err %T is not a *RuntimeError", err)
			}

			if re.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", re.Offset, tt.offset)
			}

			if out != tt.out {
				t.Errorf("output %q, want %q", out, tt.out)
			}
		})
	}
}

func TestRun_UndefinedNamesIdentifier(t *testing.T) {
	_, err := run(t, "say Missing_Value + 1.", "")

	re, ok := AsRuntime(err)
	if !ok || re.Name() != "Missing_Value" {
		t.Fatalf("err = %v", err)
	}

	if want := "runtime error at offset 4: undefined variable: Missing_Value"; err.Error() != want {
		t.Fatalf("message %q, want %q", err.Error(), want)
	}
}

func TestRun_BindErrors(t *testing.T) {
	src := `say "early".
to f(a): return a. end.
to F(b): return b. end.
say g(1).
say f().
say length().
return 2.`

	out, err := run(t, src, "")
	if out != "" {
		t.Errorf("statements ran before binding: %q", out)
	}

	var errs BindErrors
	if !errors.As(err, &errs) {
		t.Fatalf("err = %v, want BindErrors", err)
	}

	want := []*Error{ErrDuplicateFunction, ErrUnknownFunction, ErrArity, ErrArity, ErrReturnOutsideFunction}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors:\n%v", len(errs), err)
	}

	for i, w := range want {
		if !errors.Is(errs[i], w) {
			t.Errorf("errs[%d] = %v, want %v", i, errs[i], w)
		}
	}

	if !errors.Is(err, ErrUnknownFunction) {
		t.Error("errors.Is does not see through BindErrors")
	}
}

func TestRun_MaxDepth(t *testing.T) {
	src := "to down(n): return down(n + 1). end. say down(0)."

	_, err := run(t, src, "", WithMaxDepth(50))
	if !errors.Is(err, ErrMaxDepth) {
		t.Fatalf("err = %v, want ErrMaxDepth", err)
	}
}

func TestRun_Cancel(t *testing.T) {
	prog, err := lang.Parse(t.Context(), "let i be 0. while true: increase i by 1. end while.")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	err = Run(ctx, prog, WithHost(SandboxHost{}))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestRepeatCount(t *testing.T) {
	tests := []struct {
		in   Value
		want int64
	}{
		{Number(2.9), 2},
		{Number(-3), 0},
		{Number(math.NaN()), 0},
		{Number(math.Inf(-1)), 0},
		{Number(1 << 53), 1 << 53},
		{Number(1e300), math.MaxInt64},
		{Number(math.Inf(1)), math.MaxInt64},
		{Text("4"), 4},
	}

	for _, tt := range tests {
		if got := repeatCount(tt.in); got != tt.want {
			t.Errorf("repeatCount(%#v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRun_DoesNotMutateProgram(t *testing.T) {
	src := "let l be [1, 2]. increase l[0] by 1. to f(x): return x. end. say f(l)."

	prog, err := lang.Parse(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	before := prog.String()

	for range 2 {
		if err := Run(t.Context(), prog, WithHost(SandboxHost{})); err != nil {
			t.Fatal(err)
		}
	}

	if after := prog.String(); after != before {
		t.Fatalf("program changed:\n%s\n%s", before, after)
	}
}
