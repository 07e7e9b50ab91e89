package eval

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ToNumber converts v to a number. Text that does not parse as a decimal
// number converts to 0. It never fails.
func ToNumber(v Value) float64 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return parseNumber(v.text)
	case KindTruth:
		if v.truth {
			return 1
		}

		return 0
	case KindList:
		return float64(v.list.Len())
	default:
		return 0
	}
}

// ToTruth converts v to a truth value. It never fails.
func ToTruth(v Value) bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0
	case KindText:
		return v.text != ""
	case KindTruth:
		return v.truth
	case KindList:
		return v.list.Len() > 0
	default:
		return false
	}
}

// ToText returns the display form of v. It never fails. A list that
// contains itself shows [...] where it recurs.
func ToText(v Value) string {
	var b strings.Builder

	writeText(&b, v, nil)

	return b.String()
}

// cycleMark stands in for a list reached again while it is being rendered.
const cycleMark = "[...]"

// writeText writes the display form of v. open holds the lists enclosing v.
func writeText(b *strings.Builder, v Value, open []*List) {
	switch v.kind {
	case KindNumber:
		b.WriteString(FormatNumber(v.num))
	case KindText:
		b.WriteString(v.text)
	case KindTruth:
		b.WriteString(strconv.FormatBool(v.truth))
	case KindList:
		if slices.Contains(open, v.list) {
			b.WriteString(cycleMark)

			return
		}

		open = append(open, v.list)

		b.WriteByte('[')

		for i, e := range v.list.elems {
			if i > 0 {
				b.WriteString(", ")
			}

			writeText(b, e, open)
		}

		b.WriteByte(']')
	default:
		b.WriteString("nothing")
	}
}

// FormatNumber renders f in the shortest form that parses back to the same
// value. Magnitudes of 1e15 and above, or below 1e-4, use an exponent
// written as E+XX or E-XX.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0"
		}

		return "0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(sci, "e")

	e, _ := strconv.Atoi(exp)
	if e < -4 || e >= 15 {
		sign := "+"
		if e < 0 {
			sign, e = "-", -e
		}

		digits := strconv.Itoa(e)
		if len(digits) < 2 {
			digits = "0" + digits
		}

		return mant + "E" + sign + digits
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseNumber reads a decimal number with optional surrounding space,
// sign, fraction, exponent, and comma group separators. Anything else
// yields 0.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	digits := false

	for i := range len(s) {
		switch c := s[i]; {
		case '0' <= c && c <= '9':
			digits = true
		case c == '+' || c == '-' || c == '.' || c == 'e' || c == 'E' || c == ',':
		default:
			return 0
		}
	}

	if !digits {
		return 0
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return f
		}

		return 0
	}

	return f
}

// toIndex floors v to an integer index. ok is false when the result is not
// finite or does not fit in an int.
func toIndex(v Value) (int, bool) {
	f := math.Floor(ToNumber(v))
	if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}

	return int(f), true
}
