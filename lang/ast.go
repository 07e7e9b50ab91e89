package lang

import (
	"iter"
	"strings"
)

// Node is any element of the syntax tree.
type Node interface {
	// Pos returns the source offset of the node's leading token.
	Pos() int
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// At is the source offset of a node's leading token. It is embedded by every
// node type.
type At int

// Pos returns the offset.
func (a At) Pos() int { return int(a) }

// Expressions.
type (
	// NumberLit is a decimal number literal.
	NumberLit struct {
		At
		Lit   string
		Value float64
	}

	// TextLit is a double-quoted text literal with escapes decoded.
	TextLit struct {
		At
		Value string
	}

	// TruthLit is true or false.
	TruthLit struct {
		At
		Value bool
	}

	// NameExpr references a variable.
	NameExpr struct {
		At
		Name string
	}

	// UnaryExpr applies [TokenNot], [TokenMinus], or [TokenPlus] to X.
	UnaryExpr struct {
		At
		X  Expr
		Op TokenKind
	}

	// BinaryExpr applies an infix operator. Offset is that of the operator.
	BinaryExpr struct {
		At
		X, Y Expr
		Op   TokenKind
	}

	// CallExpr calls a builtin or user function by name.
	CallExpr struct {
		At
		Name string
		Args []Expr
	}

	// IndexExpr selects element Index of the list X.
	IndexExpr struct {
		At
		X, Index Expr
	}

	// ListLit constructs a new list.
	ListLit struct {
		At
		Elems []Expr
	}
)

// Statements.
type (
	// LetStmt binds Name in the current scope.
	LetStmt struct {
		At
		Value Expr
		Name  string
	}

	// SetStmt assigns to a *NameExpr or an *IndexExpr of a *NameExpr.
	SetStmt struct {
		At
		Target Expr
		Value  Expr
	}

	// SayStmt writes the display form of Value as one line.
	SayStmt struct {
		At
		Value Expr
	}

	// IfStmt runs Then when Cond holds, else Else. Else is never nil.
	IfStmt struct {
		At
		Cond Expr
		Then []Stmt
		Else []Stmt
	}

	// WhileStmt runs Body while Cond holds.
	WhileStmt struct {
		At
		Cond Expr
		Body []Stmt
	}

	// RepeatStmt runs Body Count times.
	RepeatStmt struct {
		At
		Count Expr
		Body  []Stmt
	}

	// ForEachStmt runs Body once per element of Seq with Var bound to it.
	ForEachStmt struct {
		At
		Seq  Expr
		Var  string
		Body []Stmt
	}

	// AppendStmt adds Value to the end of the list named List.
	AppendStmt struct {
		At
		Value Expr
		List  string
	}

	// RemoveStmt deletes every element of List displayed like Value.
	RemoveStmt struct {
		At
		Value Expr
		List  string
	}

	// ReturnStmt ends the enclosing function call with Value.
	ReturnStmt struct {
		At
		Value Expr
	}

	// ExprStmt evaluates X for its effects.
	ExprStmt struct {
		At
		X Expr
	}
)

func (*NumberLit) exprNode()  {}
func (*TextLit) exprNode()    {}
func (*TruthLit) exprNode()   {}
func (*NameExpr) exprNode()   {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*CallExpr) exprNode()   {}
func (*IndexExpr) exprNode()  {}
func (*ListLit) exprNode()    {}

func (*LetStmt) stmtNode()     {}
func (*SetStmt) stmtNode()     {}
func (*SayStmt) stmtNode()     {}
func (*IfStmt) stmtNode()      {}
func (*WhileStmt) stmtNode()   {}
func (*RepeatStmt) stmtNode()  {}
func (*ForEachStmt) stmtNode() {}
func (*AppendStmt) stmtNode()  {}
func (*RemoveStmt) stmtNode()  {}
func (*ReturnStmt) stmtNode()  {}
func (*ExprStmt) stmtNode()    {}

// FuncDecl declares a function: to NAME(PARAMS): BODY end.
type FuncDecl struct {
	At
	Name   string
	Params []string
	Body   []Stmt
}

// Program is a parsed source unit.
type Program struct {
	Funcs []*FuncDecl
	Stmts []Stmt
}

// Pos returns zero, the start of the source.
func (p *Program) Pos() int { return 0 }

// Func returns the first function declared with name, compared without
// regard to case.
func (p *Program) Func(name string) (*FuncDecl, bool) {
	for _, f := range p.Funcs {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}

	return nil, false
}

// All returns an iterator over every node of the program in depth-first
// order, functions first.
func (p *Program) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		ok := true
		visit := func(n Node) bool {
			ok = ok && yield(n)

			return ok
		}

		for _, f := range p.Funcs {
			if Inspect(f, visit); !ok {
				return
			}
		}

		for _, s := range p.Stmts {
			if Inspect(s, visit); !ok {
				return
			}
		}
	}
}

// Inspect traverses the tree rooted at n in depth-first order, calling fn
// for each node. Children of a node are skipped when fn returns false.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	exprs := func(list []Expr) {
		for _, e := range list {
			Inspect(e, fn)
		}
	}

	stmts := func(list []Stmt) {
		for _, s := range list {
			Inspect(s, fn)
		}
	}

	switch n := n.(type) {
	case *UnaryExpr:
		Inspect(n.X, fn)
	case *BinaryExpr:
		Inspect(n.X, fn)
		Inspect(n.Y, fn)
	case *CallExpr:
		exprs(n.Args)
	case *IndexExpr:
		Inspect(n.X, fn)
		Inspect(n.Index, fn)
	case *ListLit:
		exprs(n.Elems)
	case *LetStmt:
		Inspect(n.Value, fn)
	case *SetStmt:
		Inspect(n.Target, fn)
		Inspect(n.Value, fn)
	case *SayStmt:
		Inspect(n.Value, fn)
	case *IfStmt:
		Inspect(n.Cond, fn)
		stmts(n.Then)
		stmts(n.Else)
	case *WhileStmt:
		Inspect(n.Cond, fn)
		stmts(n.Body)
	case *RepeatStmt:
		Inspect(n.Count, fn)
		stmts(n.Body)
	case *ForEachStmt:
		Inspect(n.Seq, fn)
		stmts(n.Body)
	case *AppendStmt:
		Inspect(n.Value, fn)
	case *RemoveStmt:
		Inspect(n.Value, fn)
	case *ReturnStmt:
		Inspect(n.Value, fn)
	case *ExprStmt:
		Inspect(n.X, fn)
	case *FuncDecl:
		stmts(n.Body)
	}
}

// Clone returns a deep copy of the expression tree rooted at e.
func Clone(e Expr) Expr {
	switch e := e.(type) {
	case *NumberLit:
		c := *e

		return &c
	case *TextLit:
		c := *e

		return &c
	case *TruthLit:
		c := *e

		return &c
	case *NameExpr:
		c := *e

		return &c
	case *UnaryExpr:
		return &UnaryExpr{At: e.At, Op: e.Op, X: Clone(e.X)}
	case *BinaryExpr:
		return &BinaryExpr{At: e.At, Op: e.Op, X: Clone(e.X), Y: Clone(e.Y)}
	case *CallExpr:
		return &CallExpr{At: e.At, Name: e.Name, Args: cloneExprs(e.Args)}
	case *IndexExpr:
		return &IndexExpr{At: e.At, X: Clone(e.X), Index: Clone(e.Index)}
	case *ListLit:
		return &ListLit{At: e.At, Elems: cloneExprs(e.Elems)}
	default:
		return e
	}
}

func cloneExprs(list []Expr) []Expr {
	if list == nil {
		return nil
	}

	out := make([]Expr, len(list))
	for i, e := range list {
		out[i] = Clone(e)
	}

	return out
}
