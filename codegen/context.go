// Package codegen lowers a parsed AST into LLVM IR via tinygo.org/x/go-llvm.
// Every module-scoped singleton the original design would reach for as a
// global — the LLVM context, module, builder, and the named-values/
// known-struct-types tables — lives instead on one Context value threaded
// through every emission function (the REDESIGN FLAG replacing "global
// mutable singletons" with an explicit, scoped context).
package codegen

import "tinygo.org/x/go-llvm"

// Context owns every piece of LLVM state for one compilation. Its lifetime
// is exactly one Generate call; callers must Dispose it afterward.
type Context struct {
	llctx llvm.Context

	Module  llvm.Module
	Builder llvm.Builder

	// NamedValues maps an identifier to its IR value within the function
	// currently being generated. Cleared on entry to every function.
	NamedValues map[string]llvm.Value

	// StructTypes maps a struct name to its registered LLVM type. Lives for
	// the duration of module construction.
	StructTypes map[string]llvm.Type

	// voidFunctions records which declared functions return void, so a Call
	// site knows whether to name its result.
	voidFunctions map[string]bool

	// funcTypes maps a declared function's name to its llvm.FunctionType.
	// Needed at every call site: this go-llvm release targets opaque
	// pointers, so CreateCall takes the callee's function type explicitly
	// rather than deriving it from the (now opaque) function pointer value.
	funcTypes map[string]llvm.Type

	// currentFunction is the function whose body is presently being emitted
	// into, needed by If to append basic blocks to the right function.
	currentFunction llvm.Value
}

// New constructs a Context with a fresh LLVM context, module, and builder.
func New(moduleName string) *Context {
	llctx := llvm.NewContext()
	return &Context{
		llctx:         llctx,
		Module:        llctx.NewModule(moduleName),
		Builder:       llctx.NewBuilder(),
		NamedValues:   map[string]llvm.Value{},
		StructTypes:   map[string]llvm.Type{},
		voidFunctions: map[string]bool{},
		funcTypes:     map[string]llvm.Type{},
	}
}

// Dispose releases the builder, module, and context, in that order.
func (c *Context) Dispose() {
	c.Builder.Dispose()
	c.Module.Dispose()
	c.llctx.Dispose()
}

// String returns the module's textual LLVM IR — what gets written to the IR
// sink.
func (c *Context) String() string {
	return c.Module.String()
}
