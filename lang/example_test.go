package lang_test

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/reo/lang"
)

func ExampleNormalize() {
	n := lang.Normalize(`if score is at least 10 and name is not "and": say "ok". end.`)
	fmt.Println(n.Text)
	// Output:
	// if score >= 10 && name != "and": say "ok". end.
}

func ExampleParse() {
	prog, err := lang.Parse(context.Background(), `
to double(x): return x times 2. end.
let total be double(3) plus 1.
say total.`)
	if err != nil {
		fmt.Println(err)

		return
	}

	_ = prog.Format(context.Background(), os.Stdout, 2)
	// Output:
	// to double(x):
	//   return x * 2.
	// end.
	//
	// let total be double(3) + 1.
	// say total.
}

func ExampleDescribe() {
	src := "let x be 1.\nset x[0][1] to 2."

	_, err := lang.Parse(context.Background(), src)
	fmt.Print(lang.Describe(err, src))
	// Output:
	// parse error at offset 20: unsupported assignment target: found '['
	//   at line 2, column 9:
	//   2 | set x[0][1] to 2.
	//               ^
}
