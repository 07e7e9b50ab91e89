package lang

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program as canonical source text. Operators are
// written as symbols and every block is closed with its echo keyword.
// Statements are placed one per line, indented by indent spaces per level,
// with blank lines between functions and before the first statement. An
// indent of zero or less writes the whole program on one line.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	bw := bufio.NewWriter(w)
	f := formatter{w: bw, indent: indent}

	for i, fn := range p.Funcs {
		if i > 0 && indent > 0 {
			f.newline()
		}

		f.funcDecl(fn)
	}

	if len(p.Funcs) > 0 && len(p.Stmts) > 0 && indent > 0 {
		f.newline()
	}

	f.stmts(p.Stmts, 0)

	if f.started {
		f.newline()
	}

	return bw.Flush()
}

// String returns the canonical source of p indented by four spaces.
func (p *Program) String() string {
	var b strings.Builder

	_ = p.Format(context.Background(), &b, 4) //nolint:errcheck

	return b.String()
}

// FormatJSON writes the program tree as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the program tree as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// FormatExpr returns the canonical source text of an expression.
func FormatExpr(e Expr) string {
	var b strings.Builder

	bw := bufio.NewWriter(&b)
	f := formatter{w: bw}
	f.expr(e, 0)
	_ = bw.Flush()

	return b.String()
}

type formatter struct {
	w       *bufio.Writer
	indent  int
	started bool
}

// line starts a new statement at the given depth.
func (f *formatter) line(depth int) {
	if f.started {
		if f.indent > 0 {
			f.newline()
		} else {
			f.w.WriteByte(' ')
		}
	}

	f.started = true

	if f.indent > 0 {
		f.w.WriteString(strings.Repeat(" ", depth*f.indent))
	}
}

func (f *formatter) newline() { f.w.WriteByte('\n') }

func (f *formatter) funcDecl(fn *FuncDecl) {
	f.line(0)
	f.w.WriteString("to " + fn.Name + "(" + strings.Join(fn.Params, ", ") + "):")
	f.stmts(fn.Body, 1)
	f.line(0)
	f.w.WriteString("end.")
}

func (f *formatter) stmts(list []Stmt, depth int) {
	for _, s := range list {
		f.stmt(s, depth)
	}
}

func (f *formatter) block(head string, body []Stmt, depth int, echo string) {
	f.w.WriteString(head + ":")
	f.stmts(body, depth+1)
	f.line(depth)
	f.w.WriteString("end " + echo + ".")
}

func (f *formatter) stmt(s Stmt, depth int) {
	f.line(depth)

	switch s := s.(type) {
	case *LetStmt:
		f.w.WriteString("let " + s.Name + " be ")
		f.expr(s.Value, 0)
	case *SetStmt:
		f.w.WriteString("set ")
		f.expr(s.Target, 0)
		f.w.WriteString(" to ")
		f.expr(s.Value, 0)
	case *SayStmt:
		f.w.WriteString("say ")
		f.expr(s.Value, 0)
	case *AppendStmt:
		f.w.WriteString("append ")
		f.expr(s.Value, 0)
		f.w.WriteString(" to " + s.List)
	case *RemoveStmt:
		f.w.WriteString("remove ")
		f.expr(s.Value, 0)
		f.w.WriteString(" from " + s.List)
	case *ReturnStmt:
		f.w.WriteString("return ")
		f.expr(s.Value, 0)
	case *ExprStmt:
		f.expr(s.X, 0)
	case *IfStmt:
		f.w.WriteString("if " + FormatExpr(s.Cond) + ":")
		f.stmts(s.Then, depth+1)

		if len(s.Else) > 0 {
			f.line(depth)
			f.w.WriteString("otherwise:")
			f.stmts(s.Else, depth+1)
		}

		f.line(depth)
		f.w.WriteString("end if.")

		return
	case *WhileStmt:
		f.block("while "+FormatExpr(s.Cond), s.Body, depth, "while")

		return
	case *RepeatStmt:
		f.block("repeat "+FormatExpr(s.Count)+" times", s.Body, depth, "repeat")

		return
	case *ForEachStmt:
		f.block("for each "+s.Var+" in "+FormatExpr(s.Seq), s.Body, depth, "for")

		return
	}

	f.w.WriteByte('.')
}

// expr writes e, parenthesized when its binding power is below prec.
func (f *formatter) expr(e Expr, prec int) {
	switch e := e.(type) {
	case *NumberLit:
		f.w.WriteString(formatNumberLit(e))
	case *TextLit:
		f.w.WriteString(quote(e.Value))
	case *TruthLit:
		f.w.WriteString(strconv.FormatBool(e.Value))
	case *NameExpr:
		f.w.WriteString(e.Name)
	case *UnaryExpr:
		f.w.WriteString(e.Op.Symbol())
		f.expr(e.X, binaryPrec(TokenStar)+1)
	case *BinaryExpr:
		p := binaryPrec(e.Op)
		if p < prec {
			f.w.WriteByte('(')
		}

		f.expr(e.X, p)
		f.w.WriteString(" " + e.Op.Symbol() + " ")
		f.expr(e.Y, p+1)

		if p < prec {
			f.w.WriteByte(')')
		}
	case *CallExpr:
		f.w.WriteString(e.Name + "(")
		f.list(e.Args)
		f.w.WriteByte(')')
	case *IndexExpr:
		f.expr(e.X, binaryPrec(TokenStar)+1)
		f.w.WriteByte('[')
		f.expr(e.Index, 0)
		f.w.WriteByte(']')
	case *ListLit:
		f.w.WriteByte('[')
		f.list(e.Elems)
		f.w.WriteByte(']')
	}
}

func (f *formatter) list(list []Expr) {
	for i, e := range list {
		if i > 0 {
			f.w.WriteString(", ")
		}

		f.expr(e, 0)
	}
}

func formatNumberLit(n *NumberLit) string {
	if n.Lit != "" {
		return n.Lit
	}

	s := strconv.FormatFloat(n.Value, 'f', -1, 64)
	if n.Value < 0 {
		return "(" + s + ")"
	}

	return s
}

// quote returns s as a double-quoted literal using only the escapes the
// lexer understands.
func quote(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for i := range len(s) {
		switch c := s[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}

	b.WriteByte('"')

	return b.String()
}

// Fprint writes an indented outline of the tree rooted at n, one node per
// line with its source offset.
func Fprint(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)
	depth := 0

	var walk func(Node)

	walk = func(n Node) {
		if n == nil {
			return
		}

		bw.WriteString(strings.Repeat("  ", depth))
		bw.WriteString(describeNode(n))
		bw.WriteString(" @")
		bw.WriteString(strconv.Itoa(n.Pos()))
		bw.WriteByte('\n')

		depth++
		children(n, walk)
		depth--
	}

	if p, ok := n.(*Program); ok {
		for _, fn := range p.Funcs {
			walk(fn)
		}

		for _, s := range p.Stmts {
			walk(s)
		}
	} else {
		walk(n)
	}

	return bw.Flush()
}

// children calls fn for each direct child of n.
func children(n Node, fn func(Node)) {
	first := true

	Inspect(n, func(c Node) bool {
		if first {
			first = false

			return true
		}

		fn(c)

		return false
	})
}

func describeNode(n Node) string {
	switch n := n.(type) {
	case *NumberLit:
		return "Number " + formatNumberLit(n)
	case *TextLit:
		return "Text " + quote(n.Value)
	case *TruthLit:
		return "Truth " + strconv.FormatBool(n.Value)
	case *NameExpr:
		return "Name " + n.Name
	case *UnaryExpr:
		return "Unary " + n.Op.Symbol()
	case *BinaryExpr:
		return "Binary " + n.Op.Symbol()
	case *CallExpr:
		return "Call " + n.Name
	case *LetStmt:
		return "Let " + n.Name
	case *ForEachStmt:
		return "ForEach " + n.Var
	case *AppendStmt:
		return "Append " + n.List
	case *RemoveStmt:
		return "Remove " + n.List
	case *FuncDecl:
		return "Func " + n.Name + "(" + strings.Join(n.Params, ", ") + ")"
	default:
		return nodeName(n)
	}
}
