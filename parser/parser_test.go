package parser

import (
	"testing"

	"github.com/jorisshh/testlang/ast"
	"github.com/jorisshh/testlang/lexer"
	"github.com/jorisshh/testlang/token"
)

func parseSource(t *testing.T, src string) []ast.Node {
	t.Helper()
	tokens := lexer.New(src).Scan()
	roots, err := New(tokens).Parse()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return roots
}

func TestSimpleFunctionWithReturn(t *testing.T) {
	roots := parseSource(t, "fn main() i32 { return 0 }")
	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	fn, ok := roots[0].(*ast.Function)
	if !ok {
		t.Fatalf("root is %T, want *ast.Function", roots[0])
	}
	if fn.Signature.Name != "main" {
		t.Errorf("name = %q, want main", fn.Signature.Name)
	}
	if fn.Signature.IsExternal {
		t.Error("signature marked external")
	}
	if fn.Signature.ReturnList == nil || len(fn.Signature.ReturnList.Items) != 1 {
		t.Fatalf("expected a one-element return list")
	}
	if fn.Body == nil {
		t.Fatal("non-external function has nil body")
	}
	if fn.Body.TrailingReturn == nil {
		t.Fatal("expected a lifted trailing return")
	}
	num, ok := fn.Body.TrailingReturn.Value.(*ast.Number)
	if !ok || num.Int != 0 {
		t.Errorf("return value = %#v, want Number{Int:0}", fn.Body.TrailingReturn.Value)
	}
}

func TestFunctionWithFormalsAndBinaryReturn(t *testing.T) {
	roots := parseSource(t, "fn add(i32 a, i32 b) i32 { return a + b }")
	fn := roots[0].(*ast.Function)
	if len(fn.Signature.Formals.Items) != 2 {
		t.Fatalf("got %d formals, want 2", len(fn.Signature.Formals.Items))
	}
	a := fn.Signature.Formals.Items[0].(*ast.Variable)
	if a.Type != "i32" || a.Name != "a" {
		t.Errorf("first formal = %+v", a)
	}
	bin, ok := fn.Body.TrailingReturn.Value.(*ast.Binary)
	if !ok {
		t.Fatalf("return value is %T, want *ast.Binary", fn.Body.TrailingReturn.Value)
	}
	if bin.Operator != token.PLUS {
		t.Errorf("operator = %s, want +", bin.Operator)
	}
}

func TestExternFunctionHasNoBody(t *testing.T) {
	roots := parseSource(t, `extern fn puts(string s) i32`)
	fn := roots[0].(*ast.Function)
	if !fn.Signature.IsExternal {
		t.Error("expected external signature")
	}
	if fn.Body != nil {
		t.Error("external function must have a nil body")
	}
}

func TestCallExpression(t *testing.T) {
	roots := parseSource(t, `fn greet() { puts("hi") }`)
	fn := roots[0].(*ast.Function)
	if len(fn.Body.Body) != 1 {
		t.Fatalf("got %d body statements, want 1", len(fn.Body.Body))
	}
	call, ok := fn.Body.Body[0].(*ast.Call)
	if !ok {
		t.Fatalf("body[0] is %T, want *ast.Call", fn.Body.Body[0])
	}
	if call.Callee != "puts" {
		t.Errorf("callee = %q, want puts", call.Callee)
	}
	if len(call.Arguments.Items) != 1 {
		t.Fatalf("got %d args, want 1", len(call.Arguments.Items))
	}
	str, ok := call.Arguments.Items[0].(*ast.StringLiteral)
	if !ok || str.Value != "hi" {
		t.Errorf("argument = %#v, want StringLiteral{hi}", call.Arguments.Items[0])
	}
}

func TestIfWithComparisonCondition(t *testing.T) {
	roots := parseSource(t, `fn choose(i32 a, i32 b) i32 { if a < b { return a } return b }`)
	fn := roots[0].(*ast.Function)
	if len(fn.Body.Body) != 1 {
		t.Fatalf("got %d body statements, want 1 (the if)", len(fn.Body.Body))
	}
	ifNode, ok := fn.Body.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("body[0] is %T, want *ast.If", fn.Body.Body[0])
	}
	if len(ifNode.Chain) != 1 {
		t.Fatalf("got %d chain entries, want 1", len(ifNode.Chain))
	}
	if ifNode.ElseBody != nil {
		t.Error("expected no else body")
	}
	cond, ok := ifNode.Chain[0].Condition.(*ast.Binary)
	if !ok || cond.Operator != token.LESS {
		t.Fatalf("condition = %#v, want Binary{<}", ifNode.Chain[0].Condition)
	}
	if ifNode.Chain[0].Body.TrailingReturn == nil {
		t.Fatal("expected the then-block's return to be lifted")
	}
	if fn.Body.TrailingReturn == nil {
		t.Fatal("expected the function body's trailing return (return b) to be lifted")
	}
}

func TestStructDeclarationRegistersKnownType(t *testing.T) {
	roots := parseSource(t, `struct V3 { f32 x f32 y f32 z } fn zero() V3 { }`)
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	st, ok := roots[0].(*ast.Struct)
	if !ok || st.Name != "V3" {
		t.Fatalf("roots[0] = %#v, want Struct{Name:V3}", roots[0])
	}
	fn, ok := roots[1].(*ast.Function)
	if !ok {
		t.Fatalf("roots[1] is %T, want *ast.Function", roots[1])
	}
	if fn.Signature.ReturnList == nil {
		t.Fatal("expected struct V3 to be recognized in return-type position")
	}
	ret := fn.Signature.ReturnList.Items[0].(*ast.Variable)
	if ret.Type != "V3" {
		t.Errorf("return type = %q, want V3", ret.Type)
	}
}

func TestBooleanConstant(t *testing.T) {
	roots := parseSource(t, `var b = true`)
	v, ok := roots[0].(*ast.Variable)
	if !ok {
		t.Fatalf("root is %T, want *ast.Variable", roots[0])
	}
	init, ok := v.Init.(*ast.Variable)
	if !ok || !init.IsConstant || init.Name != "1" {
		t.Fatalf("init = %#v, want constant bool Variable{Name:1}", v.Init)
	}
}

func TestPostfixAttachDuplicatesLeftOperandInBlockBody(t *testing.T) {
	// A binary expression written as a standalone block-level statement: the
	// postfix-attach pop only touches the arena's flat/roots lists, never a
	// CodeBlock already under construction, so the left operand appears twice
	// — once as its own statement, once nested inside the Binary. This test
	// pins that documented, preserved quirk rather than "fixing" it.
	roots := parseSource(t, `fn f() { a + b }`)
	fn := roots[0].(*ast.Function)
	if len(fn.Body.Body) != 2 {
		t.Fatalf("got %d body statements, want 2 (duplicated left operand)", len(fn.Body.Body))
	}
	left, ok := fn.Body.Body[0].(*ast.Variable)
	if !ok || left.Name != "a" {
		t.Fatalf("body[0] = %#v, want Variable{a}", fn.Body.Body[0])
	}
	bin, ok := fn.Body.Body[1].(*ast.Binary)
	if !ok {
		t.Fatalf("body[1] = %#v, want *ast.Binary", fn.Body.Body[1])
	}
	if bin.Left != ast.Node(left) {
		t.Error("expected the Binary's left operand to be the same node as body[0]")
	}
}

func TestKeywordGreedyPrefixMatchAffectsParsing(t *testing.T) {
	// "ifoo" lexes as `if` followed by identifier `oo` (see lexer tests). The
	// resulting dangling `if` condition runs the cursor off the end of the
	// token stream; per the end-of-stream sentinel's semantics that unwinds
	// silently to Parse's top-level loop with whatever roots were built so
	// far — here, none. This is the documented non-fatal exit path, not an
	// error.
	tokens := lexer.New("ifoo").Scan()
	roots, err := New(tokens).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots) != 0 {
		t.Errorf("got %d roots, want 0 (the dangling if never completed)", len(roots))
	}
}
