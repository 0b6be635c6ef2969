package ast

import (
	"bytes"

	"github.com/cwbudde/go-twlang/internal/token"
)

// IntLiteral is an integer constant.
type IntLiteral struct {
	Token token.Token
	Value int64
}

func (e *IntLiteral) expressionNode()      {}
func (e *IntLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *IntLiteral) String() string       { return e.Token.Literal }
func (e *IntLiteral) Pos() token.Position  { return e.Token.Pos }

// RealLiteral is a floating-point constant.
type RealLiteral struct {
	Token token.Token
	Value float64
}

func (e *RealLiteral) expressionNode()      {}
func (e *RealLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *RealLiteral) String() string       { return e.Token.Literal }
func (e *RealLiteral) Pos() token.Position  { return e.Token.Pos }

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (e *BoolLiteral) expressionNode()      {}
func (e *BoolLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *BoolLiteral) String() string       { return e.Token.Literal }
func (e *BoolLiteral) Pos() token.Position  { return e.Token.Pos }

// CharLiteral is a `#NN` character literal.
type CharLiteral struct {
	Token token.Token
	Value rune
}

func (e *CharLiteral) expressionNode()      {}
func (e *CharLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *CharLiteral) String() string       { return "#" + e.Token.Literal }
func (e *CharLiteral) Pos() token.Position  { return e.Token.Pos }

// NilLiteral is the `nil` literal.
type NilLiteral struct {
	Token token.Token
}

func (e *NilLiteral) expressionNode()      {}
func (e *NilLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *NilLiteral) String() string       { return "nil" }
func (e *NilLiteral) Pos() token.Position  { return e.Token.Pos }

// StringLiteral is a `"..."` / `'...'` string constant.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (e *StringLiteral) expressionNode()      {}
func (e *StringLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *StringLiteral) String() string       { return "\"" + e.Value + "\"" }
func (e *StringLiteral) Pos() token.Position  { return e.Token.Pos }

// ListLiteral is a `[ a, b, c ]` list construction expression.
type ListLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (e *ListLiteral) expressionNode()      {}
func (e *ListLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *ListLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("[")
	out.WriteString(joinStrings(e.Elements, ", "))
	out.WriteString("]")
	return out.String()
}
func (e *ListLiteral) Pos() token.Position { return e.Token.Pos }

// UnaryExpr covers prefix `-`, `!`, and postfix `++`/`--`.
type UnaryExpr struct {
	Token    token.Token
	Operator string
	Operand  Expression
	Postfix  bool
}

func (e *UnaryExpr) expressionNode()      {}
func (e *UnaryExpr) TokenLiteral() string { return e.Token.Literal }
func (e *UnaryExpr) String() string {
	if e.Postfix {
		return "(" + e.Operand.String() + e.Operator + ")"
	}
	return "(" + e.Operator + e.Operand.String() + ")"
}
func (e *UnaryExpr) Pos() token.Position { return e.Token.Pos }

// BinaryExpr covers arithmetic and relational operators.
type BinaryExpr struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (e *BinaryExpr) expressionNode()      {}
func (e *BinaryExpr) TokenLiteral() string { return e.Token.Literal }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}
func (e *BinaryExpr) Pos() token.Position { return e.Token.Pos }

// LogicalExpr covers `&&` and `||`, which short-circuit.
type LogicalExpr struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (e *LogicalExpr) expressionNode()      {}
func (e *LogicalExpr) TokenLiteral() string { return e.Token.Literal }
func (e *LogicalExpr) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}
func (e *LogicalExpr) Pos() token.Position { return e.Token.Pos }

// TernaryExpr is `cond ? then : else` — short-circuiting, evaluates exactly
// one branch. Supplements spec.md's grammar summary (§6), which names the
// operator without giving it a dedicated AST node; grounded on the original
// source's ternary precedence level (see SPEC_FULL.md §4).
type TernaryExpr struct {
	Token token.Token
	Cond  Expression
	Then  Expression
	Else  Expression
}

func (e *TernaryExpr) expressionNode()      {}
func (e *TernaryExpr) TokenLiteral() string { return e.Token.Literal }
func (e *TernaryExpr) String() string {
	return "(" + e.Cond.String() + " ? " + e.Then.String() + " : " + e.Else.String() + ")"
}
func (e *TernaryExpr) Pos() token.Position { return e.Token.Pos }

// AssignExpr is `target := value`. Target is either an *Identifier or a
// *SubscriptExpr.
type AssignExpr struct {
	Token  token.Token
	Target Expression
	Value  Expression
}

func (e *AssignExpr) expressionNode()      {}
func (e *AssignExpr) TokenLiteral() string { return e.Token.Literal }
func (e *AssignExpr) String() string {
	return "(" + e.Target.String() + " := " + e.Value.String() + ")"
}
func (e *AssignExpr) Pos() token.Position { return e.Token.Pos }

// SubscriptExpr is `container[index]`. When Container evaluates to a Struct,
// Index must be an *Identifier naming a field literally (§9 Open Question:
// "field-name is a literal identifier token under subscript of a Struct").
type SubscriptExpr struct {
	Token     token.Token
	Container Expression
	Index     Expression
}

func (e *SubscriptExpr) expressionNode()      {}
func (e *SubscriptExpr) TokenLiteral() string { return e.Token.Literal }
func (e *SubscriptExpr) String() string {
	return e.Container.String() + "[" + e.Index.String() + "]"
}
func (e *SubscriptExpr) Pos() token.Position { return e.Token.Pos }

// CallExpr is a function invocation, `callee(args...)`. Callee is either an
// *Identifier (named function) or any Expression yielding a Function value
// (e.g. a lambda or another call's result).
type CallExpr struct {
	Token  token.Token
	Callee Expression
	Args   []Expression
}

func (e *CallExpr) expressionNode()      {}
func (e *CallExpr) TokenLiteral() string { return e.Token.Literal }
func (e *CallExpr) String() string {
	var out bytes.Buffer
	out.WriteString(e.Callee.String())
	out.WriteString("(")
	out.WriteString(joinStrings(e.Args, ", "))
	out.WriteString(")")
	return out.String()
}
func (e *CallExpr) Pos() token.Position { return e.Token.Pos }

// LambdaExpr is an anonymous function literal: `&(params) -> expr` or
// `&(params) { block }`.
type LambdaExpr struct {
	Token      token.Token
	Params     []*Identifier
	Body       []Statement // for block-bodied lambdas
	ExprBody   Expression  // for expression-bodied lambdas (-> E); nil if Body is used
	LocalCount int         // not set by the resolver or compiler; always 0
}

func (e *LambdaExpr) expressionNode()      {}
func (e *LambdaExpr) TokenLiteral() string { return e.Token.Literal }
func (e *LambdaExpr) String() string {
	var out bytes.Buffer
	out.WriteString("&(")
	params := make([]Expression, len(e.Params))
	for i, p := range e.Params {
		params[i] = p
	}
	out.WriteString(joinStrings(params, ", "))
	out.WriteString(") ")
	if e.ExprBody != nil {
		out.WriteString("-> " + e.ExprBody.String())
	} else {
		out.WriteString("{ ... }")
	}
	return out.String()
}
func (e *LambdaExpr) Pos() token.Position { return e.Token.Pos }

// ListOp names the builtin list operators recognized by *ListOpExpr.
type ListOp int

const (
	OpSize ListOp = iota
	OpEmpty
	OpAppend
	OpPush
	OpFirst
	OpRest
	OpMap
	OpFilter
	OpReduce
	OpSort
)

// ListOpExpr is one of the builtin list operators: size, empty, append,
// push, first, rest, map, filter, reduce, sort.
type ListOpExpr struct {
	Token token.Token
	Op    ListOp
	Args  []Expression
}

func (e *ListOpExpr) expressionNode()      {}
func (e *ListOpExpr) TokenLiteral() string { return e.Token.Literal }
func (e *ListOpExpr) String() string {
	var out bytes.Buffer
	out.WriteString(e.Token.Literal)
	out.WriteString("(")
	out.WriteString(joinStrings(e.Args, ", "))
	out.WriteString(")")
	return out.String()
}
func (e *ListOpExpr) Pos() token.Position { return e.Token.Pos }

// RangeExpr is `a..b`, an inclusive integer range materialized as a List.
type RangeExpr struct {
	Token token.Token
	Low   Expression
	High  Expression
}

func (e *RangeExpr) expressionNode()      {}
func (e *RangeExpr) TokenLiteral() string { return e.Token.Literal }
func (e *RangeExpr) String() string {
	return e.Low.String() + ".." + e.High.String()
}
func (e *RangeExpr) Pos() token.Position { return e.Token.Pos }

// ComprehensionExpr (the "ZF expression") is `source | mapper [| predicate]`.
type ComprehensionExpr struct {
	Token     token.Token
	Source    Expression
	Mapper    Expression
	Predicate Expression // nil if absent
}

func (e *ComprehensionExpr) expressionNode()      {}
func (e *ComprehensionExpr) TokenLiteral() string { return e.Token.Literal }
func (e *ComprehensionExpr) String() string {
	s := "(" + e.Source.String() + " | " + e.Mapper.String()
	if e.Predicate != nil {
		s += " | " + e.Predicate.String()
	}
	return s + ")"
}
func (e *ComprehensionExpr) Pos() token.Position { return e.Token.Pos }

// RegexExpr delegates to the external `matches(text, pattern) -> bool`
// oracle, surfaced in source as `matchre(text, pattern)`.
type RegexExpr struct {
	Token   token.Token
	Text    Expression
	Pattern Expression
}

func (e *RegexExpr) expressionNode()      {}
func (e *RegexExpr) TokenLiteral() string { return e.Token.Literal }
func (e *RegexExpr) String() string {
	return "matchre(" + e.Text.String() + ", " + e.Pattern.String() + ")"
}
func (e *RegexExpr) Pos() token.Position { return e.Token.Pos }

// BlessExpr constructs a fresh Struct instance from a registered type
// template.
type BlessExpr struct {
	Token    token.Token
	TypeName string
}

func (e *BlessExpr) expressionNode()      {}
func (e *BlessExpr) TokenLiteral() string { return e.Token.Literal }
func (e *BlessExpr) String() string       { return "bless " + e.TypeName }
func (e *BlessExpr) Pos() token.Position  { return e.Token.Pos }

// TypeofExpr returns the runtime type name of its operand as a String.
// Supplements spec.md's grammar summary with the semantics from
// original_source/ (see SPEC_FULL.md §4).
type TypeofExpr struct {
	Token   token.Token
	Operand Expression
}

func (e *TypeofExpr) expressionNode()      {}
func (e *TypeofExpr) TokenLiteral() string { return e.Token.Literal }
func (e *TypeofExpr) String() string       { return "typeof(" + e.Operand.String() + ")" }
func (e *TypeofExpr) Pos() token.Position  { return e.Token.Pos }
