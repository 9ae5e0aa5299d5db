package codegen

import "fmt"

// Error is an unrecoverable codegen failure: unknown operator, missing
// callee, missing struct type, argument arity mismatch, unknown variable
// name (spec's error taxonomy, category 4). The offending node's kind tag is
// kept alongside the message since the AST carries no source position past
// parsing.
type Error struct {
	NodeKind string
	Message  string
}

func newError(nodeKind, message string) *Error {
	return &Error{NodeKind: nodeKind, Message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("codegen: %s: %s", e.NodeKind, e.Message)
}
