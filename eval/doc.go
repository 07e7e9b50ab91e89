// Package eval executes parsed Reo programs.
//
// Every value is one of five kinds: nothing, number, text, truth, or list.
// Conversions between kinds never fail (see [ToNumber], [ToTruth], and
// [ToText]), so operators accept operands of any kind:
//
//	1 + "x"      is "1x"        text wins for +, ==, and ordering
//	"3" * 2      is 6           arithmetic converts to numbers
//	0.1 + 0.2 == 0.3            numbers within 1e-12 are equal
//
// Both operands of && and || are always evaluated.
//
// A list value refers to a shared sequence. Assigning a list or passing it
// to a function aliases the sequence, so append, remove, and index
// assignment through any alias are visible through all of them.
//
// Top-level statements share one global scope. Each function call runs in a
// new scope holding only its parameters. Names are compared without regard
// to case.
//
// Before running, calls are bound: unknown functions, wrong argument
// counts, duplicate declarations, and return outside a function are all
// reported together as [BindErrors]. Faults during execution are reported
// as [*RuntimeError] and end the run.
//
// Effects outside the program go through a [Host]: say, ask, the clock,
// and file access. [StdHost] uses real streams and files; [SandboxHost] has
// no effects.
package eval
