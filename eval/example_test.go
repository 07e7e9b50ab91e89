package eval_test

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ardnew/reo/eval"
)

func ExampleSession() {
	ctx := context.Background()
	s := eval.NewSession(eval.WithHost(eval.NewStdHost(nil, os.Stdout)))

	_, err := s.Eval(ctx, `
let xs be [3, 1, 2].
for each x in xs: say x times 10. end for.`)
	if err != nil {
		fmt.Println(err)

		return
	}

	v, _ := s.Eval(ctx, "length(xs) plus 1.")
	fmt.Println(v)
	// Output:
	// 30
	// 10
	// 20
	// 4
}

func Example_aliasing() {
	ctx := context.Background()

	s := eval.NewSession(eval.WithHost(eval.NewStdHost(nil, os.Stdout)))
	_, _ = s.Eval(ctx, `
to grow(items): append "more" to items. end.
let a be ["one"].
let b be a.
grow(b).
say a.`)
	// Output:
	// [one, more]
}

func ExampleFormatTime() {
	ts := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

	fmt.Println(eval.FormatTime(ts, "dddd, MMM d yyyy h:mm tt"))
	fmt.Println(eval.FormatTime(ts, "o"))
	// Output:
	// Tuesday, Jan 2 2024 3:04 AM
	// 2024-01-02T03:04:05.0000000Z
}

func ExampleRuntimeError() {
	src := "let n be 1.\nsay n + missing."

	_, err := eval.NewSession(eval.WithHost(eval.SandboxHost{})).Eval(context.Background(), src)
	fmt.Println(err)
	// Output:
	// runtime error at offset 20: undefined variable: missing
}
