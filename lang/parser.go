package lang

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
)

// Parse normalizes, tokenizes, and parses src into a [Program].
//
// Errors are returned as *[LexError], *[ParseError], or
// *[AssignmentTargetError]. The first error aborts the parse.
func Parse(ctx context.Context, src string, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	norm := Normalize(src)

	cfg.logger.TraceContext(
		ctx,
		"normalized",
		slog.Int("source_bytes", len(src)),
		slog.Int("normalized_bytes", len(norm.Text)),
		slog.Int("replacements", norm.Replacements()),
	)

	toks, err := Tokenize(norm)
	if err != nil {
		return nil, err
	}

	cfg.logger.TraceContext(ctx, "tokenized", slog.Int("token_count", len(toks)))

	p := parser{toks: toks, maxDepth: cfg.maxDepth}

	prog, err := p.program()
	if err != nil {
		return nil, err
	}

	cfg.logger.TraceContext(
		ctx,
		"parsed",
		slog.Int("function_count", len(prog.Funcs)),
		slog.Int("statement_count", len(prog.Stmts)),
	)

	return prog, nil
}

// ParseTokens parses a token sequence produced by [Tokenize].
func ParseTokens(toks []Token, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEOF {
		off := 0
		if len(toks) > 0 {
			off = toks[len(toks)-1].Offset
		}

		toks = append(toks[:len(toks):len(toks)], Token{Kind: TokenEOF, Offset: off})
	}

	p := parser{toks: toks, maxDepth: cfg.maxDepth}

	return p.program()
}

// binaryPrec returns the binding power of an infix operator, or zero.
func binaryPrec(k TokenKind) int {
	switch k {
	case TokenOr:
		return 1
	case TokenAnd:
		return 2
	case TokenEq, TokenNe:
		return 3
	case TokenLt, TokenLe, TokenGt, TokenGe:
		return 4
	case TokenPlus, TokenMinus:
		return 5
	case TokenStar, TokenSlash, TokenPercent:
		return 6
	default:
		return 0
	}
}

type parser struct {
	toks     []Token
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) cur() Token { return p.toks[p.pos] }

func (p *parser) peek(k int) Token {
	if p.pos+k < len(p.toks) {
		return p.toks[p.pos+k]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Kind != TokenEOF {
		p.pos++
	}

	return t
}

func (p *parser) accept(k TokenKind) bool {
	if p.cur().Kind == k {
		p.advance()

		return true
	}

	return false
}

func (p *parser) expect(k TokenKind) (Token, error) {
	if t := p.cur(); t.Kind == k {
		return p.advance(), nil
	}

	return Token{}, p.unexpected(k)
}

func (p *parser) unexpected(expected ...TokenKind) *ParseError {
	t := p.cur()

	return &ParseError{
		Err:      ErrUnexpectedToken,
		Expected: expected,
		Found:    t,
		Offset:   t.Offset,
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		t := p.cur()

		return &ParseError{
			Err:    ErrMaxDepth.With(slog.Int("max_depth", p.maxDepth)),
			Found:  t,
			Offset: t.Offset,
		}
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) program() (*Program, error) {
	prog := &Program{}

	for p.cur().Kind != TokenEOF {
		if p.cur().Kind == TokenTo &&
			p.peek(1).Kind == TokenIdent &&
			p.peek(2).Kind == TokenLParen {
			fn, err := p.funcDecl()
			if err != nil {
				return nil, err
			}

			prog.Funcs = append(prog.Funcs, fn)

			continue
		}

		s, err := p.stmt()
		if err != nil {
			return nil, err
		}

		prog.Stmts = append(prog.Stmts, s)
	}

	return prog, nil
}

func (p *parser) funcDecl() (*FuncDecl, error) {
	start := p.advance()

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	params := []string{}

	if p.cur().Kind != TokenRParen {
		for {
			t, err := p.expect(TokenIdent)
			if err != nil {
				return nil, err
			}

			params = append(params, t.Lit)

			if !p.accept(TokenComma) {
				break
			}
		}
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	if err := p.closeBlock(); err != nil {
		return nil, err
	}

	return &FuncDecl{
		At:     At(start.Offset),
		Name:   name.Lit,
		Params: params,
		Body:   body,
	}, nil
}

// block parses ':' followed by statements up to, but not including, 'end'
// or any of the stop kinds.
func (p *parser) block(stop ...TokenKind) ([]Stmt, error) {
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	body := []Stmt{}

	for {
		k := p.cur().Kind
		if k == TokenEnd || k == TokenEOF || slices.Contains(stop, k) {
			return body, nil
		}

		s, err := p.stmt()
		if err != nil {
			return nil, err
		}

		body = append(body, s)
	}
}

// closeBlock consumes 'end', any of the optional echo keywords in order,
// and the terminating '.'.
func (p *parser) closeBlock(echo ...TokenKind) error {
	if _, err := p.expect(TokenEnd); err != nil {
		return err
	}

	for _, k := range echo {
		p.accept(k)
	}

	return p.terminate()
}

func (p *parser) terminate() error {
	_, err := p.expect(TokenDot)

	return err
}

func (p *parser) stmt() (Stmt, error) {
	t := p.cur()
	at := At(t.Offset)

	switch t.Kind {
	case TokenLet:
		p.advance()

		name, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenBe); err != nil {
			return nil, err
		}

		val, err := p.exprTerminated()
		if err != nil {
			return nil, err
		}

		return &LetStmt{At: at, Name: name.Lit, Value: val}, nil

	case TokenSet:
		p.advance()

		target, err := p.assignable()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenTo); err != nil {
			return nil, err
		}

		val, err := p.exprTerminated()
		if err != nil {
			return nil, err
		}

		return &SetStmt{At: at, Target: target, Value: val}, nil

	case TokenIncrease, TokenDecrease:
		p.advance()

		target, err := p.assignable()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenBy); err != nil {
			return nil, err
		}

		delta, err := p.exprTerminated()
		if err != nil {
			return nil, err
		}

		op := TokenPlus
		if t.Kind == TokenDecrease {
			op = TokenMinus
		}

		return &SetStmt{
			At:     at,
			Target: target,
			Value:  &BinaryExpr{At: at, Op: op, X: Clone(target), Y: delta},
		}, nil

	case TokenSay:
		p.advance()

		val, err := p.exprTerminated()
		if err != nil {
			return nil, err
		}

		return &SayStmt{At: at, Value: val}, nil

	case TokenAppend, TokenRemove:
		return p.listStmt()

	case TokenIf:
		return p.ifStmt()

	case TokenWhile:
		p.advance()

		cond, err := p.expr()
		if err != nil {
			return nil, err
		}

		p.accept(TokenComma)
		p.accept(TokenDo)

		body, err := p.block()
		if err != nil {
			return nil, err
		}

		if err := p.closeBlock(TokenWhile); err != nil {
			return nil, err
		}

		return &WhileStmt{At: at, Cond: cond, Body: body}, nil

	case TokenRepeat:
		p.advance()

		count, err := p.expr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenTimes); err != nil {
			return nil, err
		}

		body, err := p.block()
		if err != nil {
			return nil, err
		}

		if err := p.closeBlock(TokenRepeat); err != nil {
			return nil, err
		}

		return &RepeatStmt{At: at, Count: count, Body: body}, nil

	case TokenFor:
		p.advance()
		p.accept(TokenEach)

		name, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenIn); err != nil {
			return nil, err
		}

		seq, err := p.expr()
		if err != nil {
			return nil, err
		}

		body, err := p.block()
		if err != nil {
			return nil, err
		}

		if err := p.closeBlock(TokenFor, TokenEach); err != nil {
			return nil, err
		}

		return &ForEachStmt{At: at, Var: name.Lit, Seq: seq, Body: body}, nil

	case TokenReturn:
		p.advance()

		val, err := p.exprTerminated()
		if err != nil {
			return nil, err
		}

		return &ReturnStmt{At: at, Value: val}, nil

	default:
		x, err := p.exprTerminated()
		if err != nil {
			return nil, err
		}

		return &ExprStmt{At: at, X: x}, nil
	}
}

func (p *parser) ifStmt() (Stmt, error) {
	at := At(p.advance().Offset)

	cond, err := p.expr()
	if err != nil {
		return nil, err
	}

	p.accept(TokenComma)
	p.accept(TokenThen)

	then, err := p.block(TokenOtherwise)
	if err != nil {
		return nil, err
	}

	els := []Stmt{}

	if p.accept(TokenOtherwise) {
		if els, err = p.block(); err != nil {
			return nil, err
		}
	}

	if err := p.closeBlock(TokenIf); err != nil {
		return nil, err
	}

	return &IfStmt{At: at, Cond: cond, Then: then, Else: els}, nil
}

// listStmt parses "append EXPR to NAME." and "remove EXPR from NAME.".
func (p *parser) listStmt() (Stmt, error) {
	t := p.advance()

	val, err := p.expr()
	if err != nil {
		return nil, err
	}

	sep := TokenTo
	if t.Kind == TokenRemove {
		sep = TokenFrom
	}

	if _, err := p.expect(sep); err != nil {
		return nil, err
	}

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	if err := p.terminate(); err != nil {
		return nil, err
	}

	if t.Kind == TokenRemove {
		return &RemoveStmt{At: At(t.Offset), Value: val, List: name.Lit}, nil
	}

	return &AppendStmt{At: At(t.Offset), Value: val, List: name.Lit}, nil
}

// assignable parses NAME or NAME[EXPR].
func (p *parser) assignable() (Expr, error) {
	t := p.cur()
	if t.Kind != TokenIdent {
		return nil, p.badTarget(t)
	}

	p.advance()

	var target Expr = &NameExpr{At: At(t.Offset), Name: t.Lit}

	if p.accept(TokenLBracket) {
		idx, err := p.expr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}

		target = &IndexExpr{At: At(t.Offset), X: target, Index: idx}
	}

	if k := p.cur().Kind; k == TokenLBracket || k == TokenLParen {
		return nil, p.badTarget(p.cur())
	}

	return target, nil
}

func (p *parser) badTarget(t Token) *AssignmentTargetError {
	return &AssignmentTargetError{
		ParseError: ParseError{
			Err:    ErrAssignmentTarget,
			Found:  t,
			Offset: t.Offset,
		},
	}
}

func (p *parser) exprTerminated() (Expr, error) {
	x, err := p.expr()
	if err != nil {
		return nil, err
	}

	if err := p.terminate(); err != nil {
		return nil, err
	}

	return x, nil
}

func (p *parser) expr() (Expr, error) { return p.binary(1) }

// binary climbs operator precedence. Operators binding at least minPrec are
// folded left to right.
func (p *parser) binary(minPrec int) (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	x, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		op := p.cur()

		prec := binaryPrec(op.Kind)
		if prec == 0 || prec < minPrec {
			return x, nil
		}

		p.advance()

		y, err := p.binary(prec + 1)
		if err != nil {
			return nil, err
		}

		x = &BinaryExpr{At: At(op.Offset), Op: op.Kind, X: x, Y: y}
	}
}

func (p *parser) unary() (Expr, error) {
	switch t := p.cur(); t.Kind {
	case TokenNot, TokenMinus, TokenPlus:
		p.advance()

		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		x, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{At: At(t.Offset), Op: t.Kind, X: x}, nil
	}

	return p.postfix()
}

func (p *parser) postfix() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch t := p.cur(); t.Kind {
		case TokenLParen:
			name, ok := x.(*NameExpr)
			if !ok {
				return nil, &ParseError{
					Err:    ErrCallTarget,
					Found:  t,
					Offset: t.Offset,
				}
			}

			p.advance()

			args, err := p.exprList(TokenRParen)
			if err != nil {
				return nil, err
			}

			x = &CallExpr{At: name.At, Name: name.Name, Args: args}

		case TokenLBracket:
			p.advance()

			idx, err := p.expr()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(TokenRBracket); err != nil {
				return nil, err
			}

			x = &IndexExpr{At: At(x.Pos()), X: x, Index: idx}

		default:
			return x, nil
		}
	}
}

// exprList parses comma-separated expressions up to and including end.
func (p *parser) exprList(end TokenKind) ([]Expr, error) {
	list := []Expr{}

	if p.accept(end) {
		return list, nil
	}

	for {
		x, err := p.expr()
		if err != nil {
			return nil, err
		}

		list = append(list, x)

		if !p.accept(TokenComma) {
			break
		}
	}

	if _, err := p.expect(end); err != nil {
		return nil, err
	}

	return list, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.cur()
	at := At(t.Offset)

	switch t.Kind {
	case TokenNumber:
		p.advance()

		v, err := strconv.ParseFloat(t.Lit, 64)
		if err != nil {
			return nil, &ParseError{
				Err:    ErrUnexpectedToken.Wrap(err),
				Found:  t,
				Offset: t.Offset,
			}
		}

		return &NumberLit{At: at, Lit: t.Lit, Value: v}, nil

	case TokenText:
		p.advance()

		return &TextLit{At: at, Value: t.Lit}, nil

	case TokenTrue, TokenFalse:
		p.advance()

		return &TruthLit{At: at, Value: t.Kind == TokenTrue}, nil

	case TokenIdent:
		p.advance()

		return &NameExpr{At: at, Name: t.Lit}, nil

	case TokenLParen:
		p.advance()

		x, err := p.expr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}

		return x, nil

	case TokenLBracket:
		p.advance()

		elems, err := p.exprList(TokenRBracket)
		if err != nil {
			return nil, err
		}

		return &ListLit{At: at, Elems: elems}, nil
	}

	return nil, p.unexpected(slices.Clone(exprStart)...)
}
