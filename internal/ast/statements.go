package ast

import (
	"bytes"

	"github.com/cwbudde/go-twlang/internal/token"
)

// PrintStmt is `print E` or `println E`.
type PrintStmt struct {
	Token   token.Token
	Value   Expression
	Newline bool
}

func (s *PrintStmt) statementNode()       {}
func (s *PrintStmt) TokenLiteral() string { return s.Token.Literal }
func (s *PrintStmt) String() string {
	if s.Newline {
		return "println " + s.Value.String()
	}
	return "print " + s.Value.String()
}
func (s *PrintStmt) Pos() token.Position { return s.Token.Pos }

// LetStmt is `let target := value` — the resolver reserves target's slot at
// this declaration point and rejects a duplicate in the same scope.
type LetStmt struct {
	Token token.Token
	Name  *Identifier
	Value Expression
}

func (s *LetStmt) statementNode()       {}
func (s *LetStmt) TokenLiteral() string { return s.Token.Literal }
func (s *LetStmt) String() string       { return "let " + s.Name.String() + " := " + s.Value.String() }
func (s *LetStmt) Pos() token.Position  { return s.Token.Pos }

// ExprStmt wraps an expression used for its side effect (e.g. a bare
// assignment or call).
type ExprStmt struct {
	Token token.Token
	Expr  Expression
}

func (s *ExprStmt) statementNode()       {}
func (s *ExprStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ExprStmt) String() string       { return s.Expr.String() }
func (s *ExprStmt) Pos() token.Position  { return s.Token.Pos }

// IfStmt is `if (cond) { then } [else { alt }]`.
type IfStmt struct {
	Token     token.Token
	Condition Expression
	Then      *BlockStmt
	Else      *BlockStmt // nil if absent
}

func (s *IfStmt) statementNode()       {}
func (s *IfStmt) TokenLiteral() string { return s.Token.Literal }
func (s *IfStmt) String() string {
	var out bytes.Buffer
	out.WriteString("if (" + s.Condition.String() + ") " + s.Then.String())
	if s.Else != nil {
		out.WriteString(" else " + s.Else.String())
	}
	return out.String()
}
func (s *IfStmt) Pos() token.Position { return s.Token.Pos }

// WhileStmt is `while (cond) { body }`.
type WhileStmt struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStmt
}

func (s *WhileStmt) statementNode()       {}
func (s *WhileStmt) TokenLiteral() string { return s.Token.Literal }
func (s *WhileStmt) String() string {
	return "while (" + s.Condition.String() + ") " + s.Body.String()
}
func (s *WhileStmt) Pos() token.Position { return s.Token.Pos }

// ReturnStmt evaluates Value and unwinds to the enclosing function body via
// the bailout mechanism; it must not escape past a function boundary.
type ReturnStmt struct {
	Token token.Token
	Value Expression // nil for a bare `return`
}

func (s *ReturnStmt) statementNode()       {}
func (s *ReturnStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}
func (s *ReturnStmt) Pos() token.Position { return s.Token.Pos }

// FuncDefStmt is a named function declaration: `func name(params) { body }`.
type FuncDefStmt struct {
	Token      token.Token
	Name       *Identifier
	Params     []*Identifier
	Body       []Statement
	LocalCount int // not set by the resolver or compiler; always 0
}

func (s *FuncDefStmt) statementNode()       {}
func (s *FuncDefStmt) TokenLiteral() string { return s.Token.Literal }
func (s *FuncDefStmt) String() string {
	var out bytes.Buffer
	out.WriteString("func " + s.Name.String() + "(")
	params := make([]Expression, len(s.Params))
	for i, p := range s.Params {
		params[i] = p
	}
	out.WriteString(joinStrings(params, ", "))
	out.WriteString(") { ... }")
	return out.String()
}
func (s *FuncDefStmt) Pos() token.Position { return s.Token.Pos }

// StructField is one `name;` member declaration inside a struct type.
type StructField struct {
	Name *Identifier
}

// StructDefStmt registers a struct type template: every field initialized
// to Null.
type StructDefStmt struct {
	Token  token.Token
	Name   string
	Fields []*StructField
}

func (s *StructDefStmt) statementNode()       {}
func (s *StructDefStmt) TokenLiteral() string { return s.Token.Literal }
func (s *StructDefStmt) String() string {
	var out bytes.Buffer
	out.WriteString("struct " + s.Name + " { ")
	for _, f := range s.Fields {
		out.WriteString(f.Name.Value + "; ")
	}
	out.WriteString("}")
	return out.String()
}
func (s *StructDefStmt) Pos() token.Position { return s.Token.Pos }

// BlockStmt is `{ statements... }`, opening and closing its own scope.
type BlockStmt struct {
	Token      token.Token
	Statements []Statement
}

func (s *BlockStmt) statementNode()       {}
func (s *BlockStmt) TokenLiteral() string { return s.Token.Literal }
func (s *BlockStmt) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, st := range s.Statements {
		out.WriteString(st.String())
		out.WriteString("; ")
	}
	out.WriteString("}")
	return out.String()
}
func (s *BlockStmt) Pos() token.Position { return s.Token.Pos }
