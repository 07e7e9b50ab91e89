package eval

import (
	"strconv"
	"strings"
	"time"
)

// standardFormats expands single-character format names to custom
// patterns using invariant culture conventions.
//
//nolint:gochecknoglobals
var standardFormats = map[string]string{
	"d": "MM/dd/yyyy",
	"D": "dddd, dd MMMM yyyy",
	"f": "dddd, dd MMMM yyyy HH:mm",
	"F": "dddd, dd MMMM yyyy HH:mm:ss",
	"g": "MM/dd/yyyy HH:mm",
	"G": "MM/dd/yyyy HH:mm:ss",
	"m": "MMMM dd",
	"M": "MMMM dd",
	"o": "yyyy'-'MM'-'dd'T'HH':'mm':'ss'.'fffffffK",
	"O": "yyyy'-'MM'-'dd'T'HH':'mm':'ss'.'fffffffK",
	"r": "ddd, dd MMM yyyy HH':'mm':'ss 'GMT'",
	"R": "ddd, dd MMM yyyy HH':'mm':'ss 'GMT'",
	"s": "yyyy'-'MM'-'dd'T'HH':'mm':'ss",
	"t": "HH:mm",
	"T": "HH:mm:ss",
	"u": "yyyy'-'MM'-'dd HH':'mm':'ss'Z'",
	"y": "yyyy MMMM",
	"Y": "yyyy MMMM",
}

// FormatTime renders t using a date and time format pattern of the kind
// accepted by format_now. A single character selects a standard pattern
// ("o" is the ISO 8601 round-trip form, "s" sortable, "u" universal, "r"
// RFC 1123, "d" and "D" dates, "t" and "T" times, "g", "G", "f", and "F"
// both). Otherwise the pattern is read as custom specifiers:
//
//	yyyy yy y     year          MMMM MMM MM M  month
//	dddd ddd dd d day or weekday HH H hh h      hour
//	mm m          minute        ss s           second
//	f... F...     fraction      tt t           AM/PM designator
//	zzz zz z      UTC offset    K              offset or Z for UTC
//
// Text in single or double quotes is copied literally, as is any character
// following a backslash. A leading % marks a lone specifier as custom.
func FormatTime(t time.Time, format string) string {
	if format == "" {
		format = "G"
	}

	if p, ok := standardFormats[format]; ok {
		if format == "r" || format == "R" || format == "u" {
			t = t.UTC()
		}

		format = p
	}

	var b strings.Builder

	for i := 0; i < len(format); {
		c := format[i]

		switch c {
		case '\'', '"':
			j := strings.IndexByte(format[i+1:], c)
			if j < 0 {
				b.WriteString(format[i+1:])

				return b.String()
			}

			b.WriteString(format[i+1 : i+1+j])
			i += j + 2

			continue
		case '\\':
			if i+1 < len(format) {
				b.WriteByte(format[i+1])
			}

			i += 2

			continue
		case '%':
			i++

			continue
		}

		n := 1
		for i+n < len(format) && format[i+n] == c {
			n++
		}

		if !writeSpecifier(&b, t, c, n) {
			b.WriteString(format[i : i+n])
		}

		i += n
	}

	return b.String()
}

// writeSpecifier writes the run of n copies of the specifier c. It reports
// false if c is not a specifier.
func writeSpecifier(b *strings.Builder, t time.Time, c byte, n int) bool {
	switch c {
	case 'y':
		year := t.Year()
		switch n {
		case 1:
			b.WriteString(strconv.Itoa(year % 100))
		case 2:
			b.WriteString(pad(year%100, 2))
		default:
			b.WriteString(pad(year, n))
		}
	case 'M':
		switch n {
		case 1:
			b.WriteString(strconv.Itoa(int(t.Month())))
		case 2:
			b.WriteString(pad(int(t.Month()), 2))
		case 3:
			b.WriteString(t.Month().String()[:3])
		default:
			b.WriteString(t.Month().String())
		}
	case 'd':
		switch n {
		case 1:
			b.WriteString(strconv.Itoa(t.Day()))
		case 2:
			b.WriteString(pad(t.Day(), 2))
		case 3:
			b.WriteString(t.Weekday().String()[:3])
		default:
			b.WriteString(t.Weekday().String())
		}
	case 'H':
		b.WriteString(padN(t.Hour(), n))
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}

		b.WriteString(padN(h, n))
	case 'm':
		b.WriteString(padN(t.Minute(), n))
	case 's':
		b.WriteString(padN(t.Second(), n))
	case 'f', 'F':
		n = min(n, 7)
		frac := pad(t.Nanosecond()/100, 7)[:n]

		if c == 'F' {
			frac = strings.TrimRight(frac, "0")
		}

		b.WriteString(frac)
	case 't':
		ampm := "AM"
		if t.Hour() >= 12 {
			ampm = "PM"
		}

		if n == 1 {
			ampm = ampm[:1]
		}

		b.WriteString(ampm)
	case 'z':
		_, off := t.Zone()

		sign := "+"
		if off < 0 {
			sign, off = "-", -off
		}

		h, m := off/3600, off%3600/60

		switch n {
		case 1:
			b.WriteString(sign + strconv.Itoa(h))
		case 2:
			b.WriteString(sign + pad(h, 2))
		default:
			b.WriteString(sign + pad(h, 2) + ":" + pad(m, 2))
		}
	case 'K':
		if t.Location() == time.UTC {
			b.WriteString(strings.Repeat("Z", n))

			break
		}

		for range n {
			writeSpecifier(b, t, 'z', 3)
		}
	default:
		return false
	}

	return true
}

func pad(v, width int) string {
	s := strconv.Itoa(v)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}

	return s
}

// padN pads to two digits when n is at least two.
func padN(v, n int) string {
	if n >= 2 {
		return pad(v, 2)
	}

	return strconv.Itoa(v)
}
