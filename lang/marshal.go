package lang

import "encoding/json"

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to nested maps and slices of native Go values.
func (p *Program) ToMap() map[string]any {
	funcs := make([]any, len(p.Funcs))
	for i, f := range p.Funcs {
		funcs[i] = ToNative(f)
	}

	return map[string]any{
		"functions":  funcs,
		"statements": stmtsToNative(p.Stmts),
	}
}

// ToNative converts a node to a map describing its kind, offset, and
// fields.
func ToNative(n Node) any {
	if n == nil {
		return nil
	}

	m := map[string]any{
		"node":   nodeName(n),
		"offset": n.Pos(),
	}

	switch n := n.(type) {
	case *NumberLit:
		m["value"] = n.Value
	case *TextLit:
		m["value"] = n.Value
	case *TruthLit:
		m["value"] = n.Value
	case *NameExpr:
		m["name"] = n.Name
	case *UnaryExpr:
		m["op"] = n.Op.Symbol()
		m["x"] = ToNative(n.X)
	case *BinaryExpr:
		m["op"] = n.Op.Symbol()
		m["x"] = ToNative(n.X)
		m["y"] = ToNative(n.Y)
	case *CallExpr:
		m["name"] = n.Name
		m["args"] = exprsToNative(n.Args)
	case *IndexExpr:
		m["x"] = ToNative(n.X)
		m["index"] = ToNative(n.Index)
	case *ListLit:
		m["elems"] = exprsToNative(n.Elems)
	case *LetStmt:
		m["name"] = n.Name
		m["value"] = ToNative(n.Value)
	case *SetStmt:
		m["target"] = ToNative(n.Target)
		m["value"] = ToNative(n.Value)
	case *SayStmt:
		m["value"] = ToNative(n.Value)
	case *IfStmt:
		m["cond"] = ToNative(n.Cond)
		m["then"] = stmtsToNative(n.Then)
		m["else"] = stmtsToNative(n.Else)
	case *WhileStmt:
		m["cond"] = ToNative(n.Cond)
		m["body"] = stmtsToNative(n.Body)
	case *RepeatStmt:
		m["count"] = ToNative(n.Count)
		m["body"] = stmtsToNative(n.Body)
	case *ForEachStmt:
		m["var"] = n.Var
		m["seq"] = ToNative(n.Seq)
		m["body"] = stmtsToNative(n.Body)
	case *AppendStmt:
		m["list"] = n.List
		m["value"] = ToNative(n.Value)
	case *RemoveStmt:
		m["list"] = n.List
		m["value"] = ToNative(n.Value)
	case *ReturnStmt:
		m["value"] = ToNative(n.Value)
	case *ExprStmt:
		m["x"] = ToNative(n.X)
	case *FuncDecl:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = p
		}

		m["name"] = n.Name
		m["params"] = params
		m["body"] = stmtsToNative(n.Body)
	case *Program:
		return n.ToMap()
	}

	return m
}

func exprsToNative(list []Expr) []any {
	out := make([]any, len(list))
	for i, e := range list {
		out[i] = ToNative(e)
	}

	return out
}

func stmtsToNative(list []Stmt) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = ToNative(s)
	}

	return out
}

// nodeName returns the grammar name of a node's variant.
func nodeName(n Node) string {
	switch n.(type) {
	case *NumberLit:
		return "Number"
	case *TextLit:
		return "Text"
	case *TruthLit:
		return "Truth"
	case *NameExpr:
		return "Name"
	case *UnaryExpr:
		return "Unary"
	case *BinaryExpr:
		return "Binary"
	case *CallExpr:
		return "Call"
	case *IndexExpr:
		return "Index"
	case *ListLit:
		return "List"
	case *LetStmt:
		return "Let"
	case *SetStmt:
		return "Set"
	case *SayStmt:
		return "Say"
	case *IfStmt:
		return "If"
	case *WhileStmt:
		return "While"
	case *RepeatStmt:
		return "Repeat"
	case *ForEachStmt:
		return "ForEach"
	case *AppendStmt:
		return "Append"
	case *RemoveStmt:
		return "Remove"
	case *ReturnStmt:
		return "Return"
	case *ExprStmt:
		return "Expression"
	case *FuncDecl:
		return "Function"
	case *Program:
		return "Program"
	default:
		return "Unknown"
	}
}
