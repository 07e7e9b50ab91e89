package eval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/reo/lang"
	"github.com/ardnew/reo/log"
)

// funcTable maps lower-cased names to user function declarations.
type funcTable map[string]*lang.FuncDecl

func (t funcTable) lookup(name string) (*lang.FuncDecl, bool) {
	f, ok := t[strings.ToLower(name)]

	return f, ok
}

// bind resolves every call of prog against the builtins, the functions
// already in known, and the functions prog declares. It returns the
// combined function table, or [BindErrors] listing every fault in source
// order. known is not modified.
func bind(
	ctx context.Context,
	logger log.Logger,
	prog *lang.Program,
	known funcTable,
) (funcTable, error) {
	var errs BindErrors

	funcs := make(funcTable, len(known)+len(prog.Funcs))
	for k, f := range known {
		funcs[k] = f
	}

	declared := make(map[string]bool, len(prog.Funcs))

	for _, f := range prog.Funcs {
		key := strings.ToLower(f.Name)

		if declared[key] {
			errs = append(errs, &BindError{
				Err:    ErrDuplicateFunction.With(slog.String("name", f.Name)),
				Detail: f.Name,
				Offset: f.Pos(),
			})

			continue
		}

		declared[key] = true
		funcs[key] = f

		if IsBuiltin(f.Name) {
			logger.WarnContext(ctx, "function shadowed by builtin",
				slog.String("name", f.Name),
				slog.Int("offset", f.Pos()),
			)
		}
	}

	checkCalls := func(n lang.Node) bool {
		call, ok := n.(*lang.CallExpr)
		if !ok {
			return true
		}

		if err := checkCall(funcs, call); err != nil {
			errs = append(errs, err)
		}

		return true
	}

	for _, f := range prog.Funcs {
		lang.Inspect(f, checkCalls)
	}

	for _, s := range prog.Stmts {
		lang.Inspect(s, func(n lang.Node) bool {
			if r, ok := n.(*lang.ReturnStmt); ok {
				errs = append(errs, &BindError{
					Err:    ErrReturnOutsideFunction,
					Offset: r.Pos(),
				})
			}

			return checkCalls(n)
		})
	}

	logger.TraceContext(ctx, "bound",
		slog.Int("function_count", len(funcs)),
		slog.Int("error_count", len(errs)),
	)

	if len(errs) > 0 {
		return nil, errs
	}

	return funcs, nil
}

func checkCall(funcs funcTable, call *lang.CallExpr) *BindError {
	var sig Signature

	if b, ok := lookupBuiltin(call.Name); ok {
		sig = b.sig
	} else if f, ok := funcs.lookup(call.Name); ok {
		sig = userSignature(f)
	} else {
		return &BindError{
			Err:    ErrUnknownFunction.With(slog.String("name", call.Name)),
			Detail: call.Name,
			Offset: call.Pos(),
		}
	}

	if !sig.Accepts(len(call.Args)) {
		return &BindError{
			Err: ErrArity.With(
				slog.String("name", call.Name),
				slog.Int("want", sig.MaxArgs()),
				slog.Int("got", len(call.Args)),
			),
			Detail: sig.String(),
			Offset: call.Pos(),
		}
	}

	return nil
}

func userSignature(f *lang.FuncDecl) Signature {
	return Signature{Name: f.Name, Params: f.Params}
}
