package codegen

import (
	"strings"
	"testing"

	"github.com/jorisshh/testlang/ast"
	"github.com/jorisshh/testlang/lexer"
	"github.com/jorisshh/testlang/parser"
)

func generateSource(t *testing.T, src string) *Context {
	t.Helper()
	toks := lexer.New(src).Scan()
	p := parser.New(toks)
	roots, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	c := New("test")
	if err := Generate(c, roots); err != nil {
		t.Fatalf("codegen error: %v", err)
	}
	return c
}

func TestGenerateSimpleFunctionReturningConstant(t *testing.T) {
	c := generateSource(t, "fn answer() i32 { return 42i32 }")
	defer c.Dispose()

	fn := c.Module.NamedFunction("answer")
	if fn.IsNil() {
		t.Fatal("expected function 'answer' to be declared")
	}
	ir := c.String()
	if !strings.Contains(ir, "define") {
		t.Fatalf("expected a function definition in IR, got:\n%s", ir)
	}
	if !strings.Contains(ir, "ret i32") {
		t.Fatalf("expected an i32 return in IR, got:\n%s", ir)
	}
}

func TestGenerateBinaryAddReturnsFAdd(t *testing.T) {
	c := generateSource(t, "fn add(i32 a, i32 b) i32 { return a + b }")
	defer c.Dispose()

	ir := c.String()
	if !strings.Contains(ir, "fadd") {
		t.Fatalf("expected fadd in IR per the known float-arithmetic simplification, got:\n%s", ir)
	}
}

func TestGenerateComparisonUsesSignedICmp(t *testing.T) {
	c := generateSource(t, "fn cmp(i32 a, i32 b) i32 { if a < b { return a } return b }")
	defer c.Dispose()

	ir := c.String()
	if !strings.Contains(ir, "icmp slt") {
		t.Fatalf("expected 'icmp slt' in IR per the signed-comparison simplification, got:\n%s", ir)
	}
}

func TestGenerateExternalFunctionIsDeclarationOnly(t *testing.T) {
	c := generateSource(t, "extern fn puts(string s) i32")
	defer c.Dispose()

	fn := c.Module.NamedFunction("puts")
	if fn.IsNil() {
		t.Fatal("expected puts to be declared")
	}
	if fn.BasicBlocksCount() != 0 {
		t.Fatalf("extern function must have no basic blocks, got %d", fn.BasicBlocksCount())
	}
}

func TestGenerateStructTypeIsAlwaysThreeFloats(t *testing.T) {
	c := generateSource(t, "struct V3 { f32 x f32 y f32 z } fn zero() V3 { }")
	defer c.Dispose()

	st, ok := c.StructTypes["V3"]
	if !ok {
		t.Fatal("expected V3 to be registered as a struct type")
	}
	if st.StructElementTypesCount() != 3 {
		t.Fatalf("expected 3 struct elements (known simplification), got %d", st.StructElementTypesCount())
	}
}

func TestGenerateCallToUnknownFunctionFails(t *testing.T) {
	c := New("test")
	defer c.Dispose()

	call := &ast.Call{Callee: "nope", Arguments: ast.ArgumentList{}}
	if _, err := genCall(c, call); err == nil {
		t.Fatal("expected an error calling an undeclared function")
	}
}

func TestFormalLLVMTypeRejectsUnknownName(t *testing.T) {
	c := New("test")
	defer c.Dispose()

	if _, err := formalLLVMType(c, "nonsense"); err == nil {
		t.Fatal("expected an error for an unrecognized formal type name")
	}
}
