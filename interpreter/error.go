package interpreter

import "fmt"

// RuntimeError is raised for any failure the debug evaluator hits while
// walking a node it cannot make sense of: an unknown identifier, an
// unsupported operator, a call to an unregistered function.
type RuntimeError struct {
	NodeKind string
	Message  string
}

func CreateRuntimeError(nodeKind, message string) RuntimeError {
	return RuntimeError{NodeKind: nodeKind, Message: message}
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %s: %s", e.NodeKind, e.Message)
}
