// Package stmt defines the statement/expression tree the orchestrator
// emits. Node definitions only; the pretty printer that turns them
// into concrete syntax is a downstream consumer.
package stmt

import "recoil/internal/metadata"

// Statement is a node at statement level.
type Statement interface{ isStatement() }

// Expression is a node at expression level.
type Expression interface{ isExpression() }

// Block is an ordered statement list.
type Block struct {
	Statements []Statement
}

func (*Block) isStatement() {}

// Insert places s at index i, shifting later statements right.
func (b *Block) Insert(i int, s Statement) {
	b.Statements = append(b.Statements, nil)
	copy(b.Statements[i+1:], b.Statements[i:])
	b.Statements[i] = s
}

// Return exits the method; Value is nil for void returns.
type Return struct {
	Value Expression
}

func (*Return) isStatement() {}

// Throw raises Value.
type Throw struct {
	Value Expression
}

func (*Throw) isStatement() {}

// ExprStatement evaluates an expression for its side effect.
type ExprStatement struct {
	Expr Expression
}

func (*ExprStatement) isStatement() {}

// Assignment stores Value into Target.
type Assignment struct {
	Target Expression
	Value  Expression
}

func (*Assignment) isStatement() {}

// Comment is a free-text comment node, used to surface translation
// warnings inside the emitted body.
type Comment struct {
	Text string
}

func (*Comment) isStatement() {}

// Identifier names a local or parameter.
type Identifier struct {
	Name string
}

func (*Identifier) isExpression() {}

// This is the receiver reference.
type This struct{}

func (*This) isExpression() {}

// Base is the base-type receiver in a base-initializer call.
type Base struct{}

func (*Base) isExpression() {}

// Member accesses a named member of Target.
type Member struct {
	Target Expression
	Name   string
}

func (*Member) isExpression() {}

// DefaultValue is default(T) for an already-substituted type.
type DefaultValue struct {
	Type metadata.TypeRef
}

func (*DefaultValue) isExpression() {}

// NewObject constructs an instance of Type.
type NewObject struct {
	Type metadata.TypeRef
	Args []Expression
}

func (*NewObject) isExpression() {}

// Invocation calls Method on Target with Args.
type Invocation struct {
	Target Expression
	Method *metadata.MethodDef
	Args   []Expression
}

func (*Invocation) isExpression() {}

// Warning is one translation warning emitted by the builder.
type Warning string

// Builder translates a transformed function body into a statement
// tree. External collaborator; warnings come back as a side channel
// in emission order.
type Builder interface {
	BuildBlock(body any) (*Block, []Warning, error)
}
