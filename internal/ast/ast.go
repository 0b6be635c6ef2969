// Package ast defines the abstract syntax tree node types produced by the
// parser and consumed by the scope resolver, tree-walking evaluator, and
// bytecode compiler.
package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/go-twlang/internal/token"
)

// Node is the common interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Statement is a Node that appears in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that yields a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: an ordered list of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{}
}

// Identifier is both a primary expression and the name slot used by LET /
// parameter lists / struct field names. Depth is filled in by the resolver:
// -1 means global, >= 0 is a walk count of access links from the current
// activation.
type Identifier struct {
	Token token.Token
	Value string
	Depth int
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }

// joinStrings renders a slice of String()-able nodes with sep between them.
func joinStrings[T Node](nodes []T, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}
