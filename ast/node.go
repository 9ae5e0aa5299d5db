// Package ast models the Language's abstract syntax tree as a tagged-variant
// sum type: a single Node interface carrying a human-readable Kind tag,
// consumed via exhaustive type switches in the printer, the debug evaluator,
// and the code generator. A visitor is unnecessary when the match is
// exhaustive (spec.md §9's mandatory REDESIGN FLAG away from an
// inheritance/visitor AST).
//
// Nodes carry no ownership between themselves: children are plain Go values
// or pointers borrowed from the same Arena, which owns every node allocated
// for one compilation and is dropped as a unit when that compilation ends.
package ast

import (
	"github.com/jorisshh/testlang/token"
)

// Node is implemented by every AST variant.
type Node interface {
	// Kind returns this node's variant tag, e.g. "Number", "Binary", "If".
	Kind() string
}

// NumberType is the concrete numeric type a Number literal carries.
type NumberType string

const (
	NumI32 NumberType = "I32"
	NumI64 NumberType = "I64"
	NumF32 NumberType = "F32"
	NumF64 NumberType = "F64"
)

// Number is a tagged numeric literal.
type Number struct {
	Type  NumberType
	Text  string // original lexeme, kept for diagnostics and the printer
	Int   int64  // valid when Type is NumI32 or NumI64
	Float float64
}

func (Number) Kind() string { return "Number" }

// StringLiteral is a UTF-8 string literal; Value is the lexeme with
// surrounding quotes already stripped by the lexer.
type StringLiteral struct {
	Value string
}

func (StringLiteral) Kind() string { return "StringLiteral" }

// Variable is a declaration, a binding use-site, or a constant (true/false).
// Type is the declared type name and may be empty when Variable refers to an
// existing binding rather than introducing one. Init is the optional
// initializer expression.
type Variable struct {
	Type       string
	Name       string
	Init       Node
	IsConstant bool
}

func (Variable) Kind() string { return "Variable" }

// ArgumentList is an ordered sequence of expressions — either actual call
// arguments or formal parameter declarations, depending on context.
type ArgumentList struct {
	Items []Node
}

func (ArgumentList) Kind() string { return "ArgumentList" }

// Binary is a two-operand operator expression built by the parser's
// post-fix-attach rule (spec.md §4.2): the operator is read only after its
// left operand has already been parsed.
type Binary struct {
	Operator token.Kind
	Left     Node
	Right    Node
}

func (Binary) Kind() string { return "Binary" }

// Call is a named function invocation.
type Call struct {
	Callee    string
	Arguments ArgumentList
}

func (Call) Kind() string { return "Call" }

// Return optionally carries a value expression.
type Return struct {
	Value Node // nil when bare `return`
}

func (Return) Kind() string { return "Return" }

// CodeBlock is an ordered body of expressions with an optional trailing
// return expression lifted off the end by code_block() (spec.md §4.2).
type CodeBlock struct {
	Body          []Node
	TrailingReturn *Return // nil when the block has no trailing return
}

func (CodeBlock) Kind() string { return "CodeBlock" }

// FunctionSignature names a function, its formal ArgumentList, and an
// optional return ArgumentList (spec.md §3: at most one element in the
// current design; codegen asserts this).
type FunctionSignature struct {
	Name         string
	Formals      ArgumentList
	ReturnList   *ArgumentList // nil when no return type was declared
	IsExternal   bool
}

func (FunctionSignature) Kind() string { return "FunctionSignature" }

// Function pairs a signature with its body. Body is nil iff the signature is
// external.
type Function struct {
	Signature FunctionSignature
	Body      *CodeBlock
}

func (Function) Kind() string { return "Function" }

// IfArm is one (condition, body) pair in an If's chain: index 0 is the `if`,
// indices 1+ are `else if`.
type IfArm struct {
	Condition Node
	Body      CodeBlock
}

// If is an ordered, non-empty chain of arms plus an optional trailing else
// body.
type If struct {
	Chain    []IfArm
	ElseBody *CodeBlock
}

func (If) Kind() string { return "If" }

// Struct declares a named aggregate type as a CodeBlock of field
// declarations. Codegen intentionally ignores Body and always lowers to three
// float members (preserved known simplification); the printer and debug
// evaluator still see the real fields.
type Struct struct {
	Name string
	Body CodeBlock
}

func (Struct) Kind() string { return "Struct" }
