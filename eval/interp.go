package eval

import (
	"context"
	"log/slog"
	"math"

	"github.com/ardnew/reo/lang"
)

// Run binds prog and executes its top-level statements in a new global
// scope. The first fault ends the run.
func Run(ctx context.Context, prog *lang.Program, opts ...Option) error {
	s := NewSession(opts...)

	_, err := s.EvalProgram(ctx, prog)

	return err
}

// machine executes bound programs. Its global scope and function table
// outlive a single program when owned by a [Session].
type machine struct {
	cfg     config
	globals *Scope
	funcs   funcTable
	depth   int
}

// frame is the scope statements execute in. Function calls get a fresh
// frame; top-level statements share the global one.
type frame struct {
	scope *Scope
}

// flow reports whether a statement returned from the enclosing function.
type flow struct {
	value    Value
	returned bool
}

func (m *machine) execBlock(ctx context.Context, f *frame, stmts []lang.Stmt) (flow, error) {
	for _, s := range stmts {
		fl, err := m.exec(ctx, f, s)
		if err != nil || fl.returned {
			return fl, err
		}
	}

	return flow{}, nil
}

//nolint:cyclop,funlen,gocyclo
func (m *machine) exec(ctx context.Context, f *frame, s lang.Stmt) (flow, error) {
	switch s := s.(type) {
	case *lang.LetStmt:
		v, err := m.eval(ctx, f, s.Value)
		if err != nil {
			return flow{}, err
		}

		f.scope.Define(s.Name, v)

	case *lang.SetStmt:
		return flow{}, m.set(ctx, f, s)

	case *lang.SayStmt:
		v, err := m.eval(ctx, f, s.Value)
		if err != nil {
			return flow{}, err
		}

		if err := m.cfg.host.Say(ctx, ToText(v)); err != nil {
			return flow{}, hostFault("say", s.Pos(), err)
		}

	case *lang.IfStmt:
		cond, err := m.eval(ctx, f, s.Cond)
		if err != nil {
			return flow{}, err
		}

		if ToTruth(cond) {
			return m.execBlock(ctx, f, s.Then)
		}

		return m.execBlock(ctx, f, s.Else)

	case *lang.WhileStmt:
		for {
			if err := ctx.Err(); err != nil {
				return flow{}, err
			}

			cond, err := m.eval(ctx, f, s.Cond)
			if err != nil {
				return flow{}, err
			}

			if !ToTruth(cond) {
				break
			}

			if fl, err := m.execBlock(ctx, f, s.Body); err != nil || fl.returned {
				return fl, err
			}
		}

	case *lang.RepeatStmt:
		v, err := m.eval(ctx, f, s.Count)
		if err != nil {
			return flow{}, err
		}

		n := repeatCount(v)

		for i := int64(0); i < n; i++ {
			if err := ctx.Err(); err != nil {
				return flow{}, err
			}

			if fl, err := m.execBlock(ctx, f, s.Body); err != nil || fl.returned {
				return fl, err
			}
		}

	case *lang.ForEachStmt:
		seq, err := m.eval(ctx, f, s.Seq)
		if err != nil {
			return flow{}, err
		}

		list, ok := seq.List()
		if !ok {
			return flow{}, fault(ErrType, s.Seq.Pos(), "for each requires a list, found "+seq.Kind().String(),
				slog.String("kind", seq.Kind().String()))
		}

		for v := range list.All() {
			if err := ctx.Err(); err != nil {
				return flow{}, err
			}

			f.scope.Define(s.Var, v)

			if fl, err := m.execBlock(ctx, f, s.Body); err != nil || fl.returned {
				return fl, err
			}
		}

	case *lang.AppendStmt:
		list, err := m.listVar(f, s.List, s.Pos())
		if err != nil {
			return flow{}, err
		}

		v, err := m.eval(ctx, f, s.Value)
		if err != nil {
			return flow{}, err
		}

		list.Append(v)

	case *lang.RemoveStmt:
		list, err := m.listVar(f, s.List, s.Pos())
		if err != nil {
			return flow{}, err
		}

		v, err := m.eval(ctx, f, s.Value)
		if err != nil {
			return flow{}, err
		}

		text := ToText(v)
		list.RemoveFunc(func(e Value) bool { return ToText(e) == text })

	case *lang.ReturnStmt:
		v, err := m.eval(ctx, f, s.Value)
		if err != nil {
			return flow{}, err
		}

		return flow{value: v, returned: true}, nil

	case *lang.ExprStmt:
		_, err := m.eval(ctx, f, s.X)

		return flow{}, err

	default:
		return flow{}, fault(ErrType, s.Pos(), "unsupported statement")
	}

	return flow{}, nil
}

func (m *machine) set(ctx context.Context, f *frame, s *lang.SetStmt) error {
	switch t := s.Target.(type) {
	case *lang.NameExpr:
		v, err := m.eval(ctx, f, s.Value)
		if err != nil {
			return err
		}

		f.scope.Define(t.Name, v)

		return nil

	case *lang.IndexExpr:
		name, ok := t.X.(*lang.NameExpr)
		if !ok {
			return fault(ErrType, t.Pos(), "assignment target must name a list")
		}

		list, err := m.listVar(f, name.Name, name.Pos())
		if err != nil {
			return err
		}

		iv, err := m.eval(ctx, f, t.Index)
		if err != nil {
			return err
		}

		v, err := m.eval(ctx, f, s.Value)
		if err != nil {
			return err
		}

		i, err := checkIndex(list, iv, t.Index.Pos())
		if err != nil {
			return err
		}

		list.Set(i, v)

		return nil

	default:
		return fault(ErrType, s.Target.Pos(), "unsupported assignment target")
	}
}

// repeatCount floors v to a loop count. Counts that are not positive run
// zero times and counts past the int64 range are clamped.
func repeatCount(v Value) int64 {
	n := math.Floor(ToNumber(v))

	switch {
	case math.IsNaN(n) || n <= 0:
		return 0
	case n >= math.MaxInt64:
		return math.MaxInt64
	default:
		return int64(n)
	}
}

// listVar returns the list bound to name.
func (m *machine) listVar(f *frame, name string, at int) (*List, error) {
	v, ok := f.scope.Lookup(name)
	if !ok {
		return nil, undefined(name, at)
	}

	list, ok := v.List()
	if !ok {
		return nil, fault(ErrType, at, name+" is "+v.Kind().String()+", not a list",
			slog.String("name", name),
			slog.String("kind", v.Kind().String()))
	}

	return list, nil
}

func undefined(name string, at int) *RuntimeError {
	return fault(ErrUndefinedVariable, at, name, slog.String("name", name))
}

func checkIndex(list *List, iv Value, at int) (int, error) {
	i, ok := toIndex(iv)
	if !ok || i < 0 || i >= list.Len() {
		return 0, fault(ErrIndex, at, "index "+ToText(iv)+" of list with length "+FormatNumber(float64(list.Len())),
			slog.String("index", ToText(iv)),
			slog.Int("length", list.Len()))
	}

	return i, nil
}

//nolint:cyclop
func (m *machine) eval(ctx context.Context, f *frame, e lang.Expr) (Value, error) {
	switch e := e.(type) {
	case *lang.NumberLit:
		return Number(e.Value), nil

	case *lang.TextLit:
		return Text(e.Value), nil

	case *lang.TruthLit:
		return Truth(e.Value), nil

	case *lang.NameExpr:
		v, ok := f.scope.Lookup(e.Name)
		if !ok {
			return Nothing, undefined(e.Name, e.Pos())
		}

		return v, nil

	case *lang.UnaryExpr:
		x, err := m.eval(ctx, f, e.X)
		if err != nil {
			return Nothing, err
		}

		v, ok := Unary(e.Op, x)
		if !ok {
			return Nothing, fault(ErrType, e.Pos(), "unsupported operator "+e.Op.String())
		}

		return v, nil

	case *lang.BinaryExpr:
		// Both operands are evaluated, including for && and ||.
		x, err := m.eval(ctx, f, e.X)
		if err != nil {
			return Nothing, err
		}

		y, err := m.eval(ctx, f, e.Y)
		if err != nil {
			return Nothing, err
		}

		v, ok := Binary(e.Op, x, y)
		if !ok {
			return Nothing, fault(ErrType, e.Pos(), "unsupported operator "+e.Op.String())
		}

		return v, nil

	case *lang.CallExpr:
		return m.call(ctx, f, e)

	case *lang.IndexExpr:
		x, err := m.eval(ctx, f, e.X)
		if err != nil {
			return Nothing, err
		}

		list, ok := x.List()
		if !ok {
			return Nothing, fault(ErrType, e.X.Pos(), "cannot index "+x.Kind().String(),
				slog.String("kind", x.Kind().String()))
		}

		iv, err := m.eval(ctx, f, e.Index)
		if err != nil {
			return Nothing, err
		}

		i, err := checkIndex(list, iv, e.Index.Pos())
		if err != nil {
			return Nothing, err
		}

		return list.At(i), nil

	case *lang.ListLit:
		elems := make([]Value, len(e.Elems))

		for i, el := range e.Elems {
			v, err := m.eval(ctx, f, el)
			if err != nil {
				return Nothing, err
			}

			elems[i] = v
		}

		return ListOf(&List{elems: elems}), nil

	default:
		return Nothing, fault(ErrType, e.Pos(), "unsupported expression")
	}
}

func (m *machine) call(ctx context.Context, f *frame, e *lang.CallExpr) (Value, error) {
	if err := ctx.Err(); err != nil {
		return Nothing, err
	}

	args := make([]Value, len(e.Args))

	for i, a := range e.Args {
		v, err := m.eval(ctx, f, a)
		if err != nil {
			return Nothing, err
		}

		args[i] = v
	}

	if b, ok := lookupBuiltin(e.Name); ok {
		if !b.sig.Accepts(len(args)) {
			return Nothing, fault(ErrArity, e.Pos(), b.sig.String())
		}

		return b.call(ctx, m.cfg.host, args, e.Pos())
	}

	fn, ok := m.funcs.lookup(e.Name)
	if !ok {
		return Nothing, fault(ErrUnknownFunction, e.Pos(), e.Name, slog.String("name", e.Name))
	}

	if len(args) != len(fn.Params) {
		return Nothing, fault(ErrArity, e.Pos(), userSignature(fn).String())
	}

	if m.cfg.maxDepth > 0 && m.depth >= m.cfg.maxDepth {
		return Nothing, fault(ErrMaxDepth, e.Pos(), fn.Name,
			slog.String("name", fn.Name),
			slog.Int("max_depth", m.cfg.maxDepth))
	}

	m.depth++
	defer func() { m.depth-- }()

	m.cfg.logger.TraceContext(ctx, "call",
		slog.String("name", fn.Name),
		slog.Int("depth", m.depth),
		slog.Int("offset", e.Pos()),
	)

	callee := &frame{scope: NewScope()}
	for i, p := range fn.Params {
		callee.scope.Define(p, args[i])
	}

	fl, err := m.execBlock(ctx, callee, fn.Body)
	if err != nil {
		return Nothing, err
	}

	return fl.value, nil
}
