package ast

import (
	"encoding/json"
	"fmt"
	"os"
)

// toJSON converts a single node into a JSON-friendly map/slice tree via an
// exhaustive type switch — the REDESIGN FLAG's replacement for a
// visitor-pattern printer (spec.md §9).
func toJSON(n Node) any {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *Number:
		return map[string]any{"type": "Number", "numberType": v.Type, "text": v.Text}
	case *StringLiteral:
		return map[string]any{"type": "StringLiteral", "value": v.Value}
	case *Variable:
		return map[string]any{
			"type":       "Variable",
			"varType":    v.Type,
			"name":       v.Name,
			"init":       toJSON(v.Init),
			"isConstant": v.IsConstant,
		}
	case *ArgumentList:
		items := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			items = append(items, toJSON(item))
		}
		return map[string]any{"type": "ArgumentList", "items": items}
	case *Binary:
		return map[string]any{
			"type":     "Binary",
			"operator": string(v.Operator),
			"left":     toJSON(v.Left),
			"right":    toJSON(v.Right),
		}
	case *Call:
		return map[string]any{
			"type":      "Call",
			"callee":    v.Callee,
			"arguments": toJSON(&v.Arguments),
		}
	case *Return:
		return map[string]any{"type": "Return", "value": toJSON(v.Value)}
	case *CodeBlock:
		body := make([]any, 0, len(v.Body))
		for _, stmt := range v.Body {
			body = append(body, toJSON(stmt))
		}
		var trailing any
		if v.TrailingReturn != nil {
			trailing = toJSON(v.TrailingReturn)
		}
		return map[string]any{"type": "CodeBlock", "body": body, "trailingReturn": trailing}
	case *FunctionSignature:
		var returnList any
		if v.ReturnList != nil {
			returnList = toJSON(v.ReturnList)
		}
		return map[string]any{
			"type":       "FunctionSignature",
			"name":       v.Name,
			"formals":    toJSON(&v.Formals),
			"returnList": returnList,
			"isExternal": v.IsExternal,
		}
	case *Function:
		var body any
		if v.Body != nil {
			body = toJSON(v.Body)
		}
		return map[string]any{
			"type":      "Function",
			"signature": toJSON(&v.Signature),
			"body":      body,
		}
	case *If:
		chain := make([]any, 0, len(v.Chain))
		for _, arm := range v.Chain {
			chain = append(chain, map[string]any{
				"condition": toJSON(arm.Condition),
				"body":      toJSON(&arm.Body),
			})
		}
		var elseBody any
		if v.ElseBody != nil {
			elseBody = toJSON(v.ElseBody)
		}
		return map[string]any{"type": "If", "chain": chain, "elseBody": elseBody}
	case *Struct:
		return map[string]any{"type": "Struct", "name": v.Name, "body": toJSON(&v.Body)}
	default:
		return map[string]any{"type": n.Kind()}
	}
}

// PrintJSON renders roots as prettified JSON and returns it; it does not
// print anything itself — grounded on the teacher's parser/printer.go
// PrintASTJSON, moved here since the printer now operates on ast.Node
// directly rather than via a Visitor, and left pure so callers control
// where (and whether) the dump is printed.
func PrintJSON(roots []Node) (string, error) {
	out := make([]any, 0, len(roots))
	for _, n := range roots {
		out = append(out, toJSON(n))
	}
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WriteJSONToFile writes the prettified AST JSON for roots to path.
func WriteJSONToFile(roots []Node, path string) error {
	s, err := PrintJSON(roots)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}
	defer f.Close()
	if _, err := f.Write([]byte(s)); err != nil {
		return fmt.Errorf("error writing AST to file: %s", err.Error())
	}
	return nil
}
