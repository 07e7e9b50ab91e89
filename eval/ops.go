package eval

import (
	"math"
	"strings"

	"github.com/ardnew/reo/lang"
)

// Tolerance is the largest difference between two numbers that still
// compare equal.
const Tolerance = 1e-12

type (
	binaryFunc func(x, y Value) Value
	unaryFunc  func(x Value) Value
)

//nolint:gochecknoglobals
var binaryOps = map[lang.TokenKind]binaryFunc{
	lang.TokenPlus:    add,
	lang.TokenMinus:   arith(func(a, b float64) float64 { return a - b }),
	lang.TokenStar:    arith(func(a, b float64) float64 { return a * b }),
	lang.TokenSlash:   arith(func(a, b float64) float64 { return a / b }),
	lang.TokenPercent: arith(func(a, b float64) float64 { return math.Mod(math.Floor(a), math.Floor(b)) }),
	lang.TokenEq:      func(x, y Value) Value { return Truth(Equal(x, y)) },
	lang.TokenNe:      func(x, y Value) Value { return Truth(!Equal(x, y)) },
	lang.TokenLt:      order(func(c int) bool { return c < 0 }, func(a, b float64) bool { return a < b }),
	lang.TokenLe:      order(func(c int) bool { return c <= 0 }, func(a, b float64) bool { return a <= b }),
	lang.TokenGt:      order(func(c int) bool { return c > 0 }, func(a, b float64) bool { return a > b }),
	lang.TokenGe:      order(func(c int) bool { return c >= 0 }, func(a, b float64) bool { return a >= b }),
	lang.TokenAnd:     func(x, y Value) Value { return Truth(ToTruth(x) && ToTruth(y)) },
	lang.TokenOr:      func(x, y Value) Value { return Truth(ToTruth(x) || ToTruth(y)) },
}

//nolint:gochecknoglobals
var unaryOps = map[lang.TokenKind]unaryFunc{
	lang.TokenNot:   func(x Value) Value { return Truth(!ToTruth(x)) },
	lang.TokenMinus: func(x Value) Value { return Number(-ToNumber(x)) },
	lang.TokenPlus:  func(x Value) Value { return x },
}

// Binary applies an infix operator to two evaluated operands. ok is false
// if op is not a binary operator.
func Binary(op lang.TokenKind, x, y Value) (v Value, ok bool) {
	fn, ok := binaryOps[op]
	if !ok {
		return Nothing, false
	}

	return fn(x, y), true
}

// Unary applies a prefix operator. ok is false if op is not a unary
// operator.
func Unary(op lang.TokenKind, x Value) (v Value, ok bool) {
	fn, ok := unaryOps[op]
	if !ok {
		return Nothing, false
	}

	return fn(x), true
}

// Equal compares by display form if either side is text, else by truth if
// either side is a truth value, else numerically within [Tolerance].
func Equal(x, y Value) bool {
	switch {
	case x.kind == KindText || y.kind == KindText:
		return ToText(x) == ToText(y)
	case x.kind == KindTruth || y.kind == KindTruth:
		return ToTruth(x) == ToTruth(y)
	}

	a, b := ToNumber(x), ToNumber(y)

	return a == b || math.Abs(a-b) < Tolerance
}

func add(x, y Value) Value {
	if x.kind == KindText || y.kind == KindText {
		return Text(ToText(x) + ToText(y))
	}

	return Number(ToNumber(x) + ToNumber(y))
}

func arith(fn func(a, b float64) float64) binaryFunc {
	return func(x, y Value) Value {
		return Number(fn(ToNumber(x), ToNumber(y)))
	}
}

// order compares display forms byte-wise if either side is text, else
// numbers.
func order(text func(int) bool, num func(a, b float64) bool) binaryFunc {
	return func(x, y Value) Value {
		if x.kind == KindText || y.kind == KindText {
			return Truth(text(strings.Compare(ToText(x), ToText(y))))
		}

		return Truth(num(ToNumber(x), ToNumber(y)))
	}
}
