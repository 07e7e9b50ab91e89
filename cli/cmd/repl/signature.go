package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/reo/eval"
)

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	extraParamStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string
	argIndex int  // current argument index (0-based)
	inCall   bool // true if cursor is inside parameter list
}

func isNameRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's argument list. It returns the function name, current
// argument index, and whether we're inside a call. Parentheses and commas
// inside text literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Record the open parenthesis of every unclosed call before the cursor,
	// with the count of top-level commas seen since.
	type open struct{ pos, commas int }

	var (
		stack  []open
		quoted bool
	)

	for i := 0; i < cursor; i++ {
		switch c := input[i]; {
		case quoted && c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(' || c == '[':
			stack = append(stack, open{pos: i})
		case c == ')' || c == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case c == ',':
			if len(stack) > 0 {
				stack[len(stack)-1].commas++
			}
		}
	}

	if len(stack) == 0 || input[stack[len(stack)-1].pos] != '(' {
		return functionCall{inCall: false}
	}

	top := stack[len(stack)-1]

	// Extract the function name before the '('.
	nameEnd := top.pos
	for nameEnd > 0 && (input[nameEnd-1] == ' ' || input[nameEnd-1] == '\t') {
		nameEnd--
	}

	nameStart := nameEnd

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])
		if !isNameRune(r) {
			break
		}

		nameStart -= size
	}

	funcName := input[nameStart:nameEnd]
	if funcName == "" {
		return functionCall{inCall: false}
	}

	return functionCall{
		name:     funcName,
		argIndex: top.commas,
		inCall:   true,
	}
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted. Optional parameters are bracketed. An argument
// index past the last parameter highlights the closing parenthesis as an
// error.
func renderSignatureHint(sig eval.Signature, currentArgIdx int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(sig.Name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range sig.Params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		if i >= sig.MinArgs() {
			param = "[" + param + "]"
		}

		if i == currentArgIdx {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	if currentArgIdx >= sig.MaxArgs() && currentArgIdx > 0 {
		b.WriteString(extraParamStyle.Render(")"))
	} else {
		b.WriteString(signatureStyle.Render(")"))
	}

	if sig.Doc != "" {
		b.WriteString(signatureStyle.Render("  " + sig.Doc))
	}

	return b.String()
}
