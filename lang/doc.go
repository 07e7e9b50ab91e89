// Package lang turns Reo source text into a syntax tree.
//
// Reo is an English-flavored imperative scripting language. Source passes
// through three stages, each depending only on the one before it:
//
//  1. [Normalize] rewrites connective phrases such as "is greater than" or
//     "divided by" into operator symbols. Double-quoted text and comments
//     are left alone.
//  2. [Tokenize] splits the normalized text into [Token] values whose
//     offsets refer back to the original source.
//  3. [Parse] builds a [Program] by recursive descent, with operator
//     precedence climbing for expressions.
//
// # Grammar
//
// Informal EBNF, after normalization:
//
//	Program    → (FuncDecl | Stmt)* EOF
//	FuncDecl   → 'to' Ident '(' Params? ')' ':' Stmt* 'end' '.'
//	Stmt       → 'let' Ident 'be' Expr '.'
//	           | 'set' Target 'to' Expr '.'
//	           | ('increase' | 'decrease') Target 'by' Expr '.'
//	           | 'say' Expr '.'
//	           | 'if' Expr ','? 'then'? ':' Stmt* ('otherwise' ':' Stmt*)? 'end' 'if'? '.'
//	           | 'while' Expr ','? 'do'? ':' Stmt* 'end' 'while'? '.'
//	           | 'repeat' Expr 'times' ':' Stmt* 'end' 'repeat'? '.'
//	           | 'for' 'each'? Ident 'in' Expr ':' Stmt* 'end' 'for'? 'each'? '.'
//	           | 'append' Expr 'to' Ident '.'
//	           | 'remove' Expr 'from' Ident '.'
//	           | 'return' Expr '.'
//	           | Expr '.'
//	Target     → Ident ('[' Expr ']')?
//	Expr       → Unary (BinOp Unary)*
//	Unary      → ('!' | '-' | '+') Unary | Postfix
//	Postfix    → Primary ('(' Args? ')' | '[' Expr ']')*
//	Primary    → Number | Text | 'true' | 'false' | Ident | '(' Expr ')' | '[' Args? ']'
//
// Binary operators from loosest to tightest: ||, &&, == !=, < <= > >=,
// + -, * / %. All are left-associative.
//
// # Example
//
//	to double(x):
//	    return x times 2.
//	end.
//
//	let scores be [3, 5, 8].
//	for each s in scores:
//	    if double(s) is greater than 10 then:
//	        say "big: " plus s.
//	    end if.
//	end for.
//
// # Errors
//
// Failures carry the byte offset of the offending character or token in
// the original source. [Describe] renders any of them with a line, column,
// and caret snippet.
package lang
