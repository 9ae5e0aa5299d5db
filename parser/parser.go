// Package parser turns a token sequence into an AST, allocating every node
// into a single arena owned by the Parser. There is no operator precedence:
// infix operators are attached to whatever was most recently parsed, a
// deliberately preserved quirk of the language this parser implements (see
// Parser.expression's binary-operator case).
package parser

import (
	"fmt"
	"os"

	"github.com/jorisshh/testlang/ast"
	"github.com/jorisshh/testlang/token"
)

// errEndOfStream is the parser's sole non-fatal exit path: the cursor ran off
// the end of the token sequence while expression() was looking for its next
// token. Parse catches it and returns the roots accumulated so far — the
// REDESIGN FLAG's explicit sentinel replacing the source's exception-based
// unwind.
var errEndOfStream = fmt.Errorf("end of token stream")

// Parser is a cursor over a fixed token sequence plus the arena it allocates
// every node into. A Parser is single-use: construct one per compilation.
type Parser struct {
	tokens []token.Token
	pos    int

	arena      *ast.Arena
	scopeDepth int

	// knownStructTypes records struct names seen so far, so parseFunction can
	// recognize a struct name in return-type position.
	knownStructTypes map[string]bool
}

// New constructs a Parser over tokens, which must end in an EOF token (as
// produced by lexer.Scan).
func New(tokens []token.Token) *Parser {
	return &Parser{
		tokens:           tokens,
		arena:            ast.NewArena(),
		knownStructTypes: map[string]bool{},
	}
}

// Arena returns the arena every parsed node was allocated into.
func (p *Parser) Arena() *ast.Arena {
	return p.arena
}

// Parse runs the parser to completion and returns the top-level nodes in
// source order. A SyntaxError aborts with whatever roots were accumulated
// before the failure; the caller (cmd_compile.go, cmd_repl.go) decides
// whether that is fatal.
func (p *Parser) Parse() ([]ast.Node, error) {
	for {
		n, err := p.expression()
		if err == errEndOfStream {
			return p.arena.Roots(), nil
		}
		if err != nil {
			return p.arena.Roots(), err
		}
		if n != nil {
			p.arena.AddRoot(n)
		}
	}
}

func (p *Parser) current() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) syntaxErrorHere(message string) error {
	t := p.current()
	return newSyntaxError(t.Span.Line, t.Span.From, t.Span.To, message)
}

func (p *Parser) alloc(n ast.Node) ast.Node {
	p.arena.Alloc(n)
	return n
}

// attachTrailingOperators lets a binary operator bind to value immediately,
// for the handful of productions (return's value, an initializer, a call
// argument) that capture a single expression() result and wrap it in a
// larger node before control returns to the statement-level dispatch loop.
// Without this, the operator would instead be picked up by the next
// statement-level expression() call and wrongly attach to whatever the
// wrapping node turns out to be (e.g. `return a + b` attaching `+ b` to the
// Return itself rather than to `a`) — a plain top-level `a + b` statement
// still gets the documented duplicate-left-operand treatment in
// postfixAttach, since that path never goes through here.
func (p *Parser) attachTrailingOperators(value ast.Node) (ast.Node, error) {
	for token.BinaryOperators[p.current().Kind] {
		op := p.advance()
		right, err := p.expression()
		if err != nil {
			return nil, err
		}
		value = p.alloc(&ast.Binary{Operator: op.Kind, Left: value, Right: right})
	}
	return value, nil
}

// expression is the central dispatch, driven by the kind of the current
// token.
func (p *Parser) expression() (ast.Node, error) {
	if p.current().IsEOF() {
		return nil, errEndOfStream
	}
	cur := p.current()

	switch {
	case cur.Kind == token.IDENTIFIER:
		return p.identifier()
	case token.TypeKeywords[cur.Kind]:
		return p.variableDecl()
	case cur.Kind == token.COMMENT:
		p.advance()
		return p.expression()
	case cur.Kind == token.RETURN:
		return p.returnExpr()
	case cur.Kind == token.TRUE || cur.Kind == token.FALSE:
		return p.booleanConstant()
	case token.BinaryOperators[cur.Kind]:
		return p.postfixAttach()
	case cur.Kind == token.IF:
		return p.ifExpr()
	case cur.Kind == token.EXTERN:
		p.advance()
		if p.current().Kind != token.FN {
			return nil, p.syntaxErrorHere("expected 'fn' after 'extern'")
		}
		return p.parseFunction(true)
	case cur.Kind == token.FN:
		return p.parseFunction(false)
	case cur.Kind == token.STRUCT:
		return p.structDecl()
	case isLiteralKind(cur.Kind):
		return p.identifier()
	default:
		fmt.Fprintf(os.Stderr, "undefined token type: %s\n", cur.Kind)
		p.advance()
		return nil, nil
	}
}

func isLiteralKind(k token.Kind) bool {
	switch k {
	case token.INTEGER32, token.INTEGER64, token.FLOAT32, token.FLOAT64, token.STRING:
		return true
	}
	return false
}

// identifier consumes one token. A literal becomes a Number or
// StringLiteral. An IDENTIFIER followed by '(' becomes a Call; otherwise it
// becomes a Variable use-site, optionally carrying an '=' initializer.
func (p *Parser) identifier() (ast.Node, error) {
	tok := p.advance()

	if node := literalNode(tok); node != nil {
		return p.alloc(node), nil
	}

	if p.current().Kind == token.LPAREN {
		p.advance()
		args, err := p.argumentsList(token.RPAREN)
		if err != nil {
			return nil, err
		}
		return p.alloc(&ast.Call{Callee: tok.Lexeme, Arguments: args}), nil
	}

	v := &ast.Variable{Name: tok.Lexeme}
	if p.current().Kind == token.ASSIGN {
		p.advance()
		init, err := p.expression()
		if err != nil {
			return nil, err
		}
		init, err = p.attachTrailingOperators(init)
		if err != nil {
			return nil, err
		}
		v.Init = init
	}
	return p.alloc(v), nil
}

// literalNode builds the Number or StringLiteral matching tok's kind, or nil
// if tok is not a literal.
func literalNode(tok token.Token) ast.Node {
	switch tok.Kind {
	case token.INTEGER32:
		return &ast.Number{Type: ast.NumI32, Text: tok.Lexeme, Int: parseInt(tok.Lexeme)}
	case token.INTEGER64:
		return &ast.Number{Type: ast.NumI64, Text: tok.Lexeme, Int: parseInt(tok.Lexeme)}
	case token.FLOAT32:
		return &ast.Number{Type: ast.NumF32, Text: tok.Lexeme, Float: parseFloat(tok.Lexeme)}
	case token.FLOAT64:
		return &ast.Number{Type: ast.NumF64, Text: tok.Lexeme, Float: parseFloat(tok.Lexeme)}
	case token.STRING:
		return &ast.StringLiteral{Value: tok.Lexeme}
	}
	return nil
}

// variableDecl consumes a type token, then optionally an identifier token
// (absent in return-type-only positions), then optionally an '=' initializer.
func (p *Parser) variableDecl() (ast.Node, error) {
	typeTok := p.advance()
	v := &ast.Variable{Type: typeTok.Lexeme}
	if p.current().Kind == token.IDENTIFIER {
		v.Name = p.advance().Lexeme
	}
	if p.current().Kind == token.ASSIGN {
		p.advance()
		init, err := p.expression()
		if err != nil {
			return nil, err
		}
		init, err = p.attachTrailingOperators(init)
		if err != nil {
			return nil, err
		}
		v.Init = init
	}
	return p.alloc(v), nil
}

// returnExpr builds a Return, including a value expression only if the token
// right after 'return' starts on the same source line.
func (p *Parser) returnExpr() (ast.Node, error) {
	kw := p.advance()
	var value ast.Node
	if !p.current().IsEOF() && p.current().Span.Line == kw.Span.Line {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		v, err = p.attachTrailingOperators(v)
		if err != nil {
			return nil, err
		}
		value = v
	}
	return p.alloc(&ast.Return{Value: value}), nil
}

func (p *Parser) booleanConstant() (ast.Node, error) {
	tok := p.advance()
	name := "0"
	if tok.Kind == token.TRUE {
		name = "1"
	}
	return p.alloc(&ast.Variable{Type: "bool", Name: name, IsConstant: true}), nil
}

// postfixAttach implements the language's defining quirk: a binary operator
// is recognized only after its left operand has already been parsed and
// allocated. Attaching it means popping that operand back off the arena
// rather than having looked ahead for the operator up front. The pop only
// ever touches the arena's flat/roots lists, never a CodeBlock body already
// under construction — so a binary expression written as a standalone
// block-level statement leaves its left operand duplicated in that block's
// body (once standalone, once nested inside the Binary). This is a known,
// preserved consequence of the algorithm, not a bug to work around here.
func (p *Parser) postfixAttach() (ast.Node, error) {
	left, _ := p.arena.PopLast()
	op := p.advance()
	right, err := p.expression()
	if err != nil {
		return nil, err
	}
	return p.alloc(&ast.Binary{Operator: op.Kind, Left: left, Right: right}), nil
}

// ifExpr consumes 'if', a Binary condition read up to the opening '{', and a
// CodeBlock body. Only a single chain entry with no else is ever produced —
// the source has no else-handling to adapt.
func (p *Parser) ifExpr() (ast.Node, error) {
	p.advance() // 'if'
	cond, err := p.ifCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.codeBlock()
	if err != nil {
		return nil, err
	}
	return p.alloc(&ast.If{Chain: []ast.IfArm{{Condition: cond, Body: *body}}}), nil
}

// ifCondition parses a left expression and, if the next token isn't the
// block's opening '{', an operator and a right expression.
func (p *Parser) ifCondition() (ast.Node, error) {
	left, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.current().Kind == token.LBRACE {
		return left, nil
	}
	op := p.advance()
	right, err := p.expression()
	if err != nil {
		return nil, err
	}
	return p.alloc(&ast.Binary{Operator: op.Kind, Left: left, Right: right}), nil
}

// structDecl consumes 'struct', a name, and a CodeBlock body, then registers
// the name so later return-type positions can recognize it.
func (p *Parser) structDecl() (ast.Node, error) {
	p.advance() // 'struct'
	if p.current().Kind != token.IDENTIFIER {
		return nil, p.syntaxErrorHere("expected struct name")
	}
	name := p.advance().Lexeme
	body, err := p.codeBlock()
	if err != nil {
		return nil, err
	}
	p.knownStructTypes[name] = true
	return p.alloc(&ast.Struct{Name: name, Body: *body}), nil
}

// parseFunction consumes 'fn', a name, a formal parameter list, an optional
// return-type token, and — unless isExternal — a body CodeBlock.
func (p *Parser) parseFunction(isExternal bool) (ast.Node, error) {
	p.advance() // 'fn'
	if p.current().Kind != token.IDENTIFIER {
		return nil, p.syntaxErrorHere("expected function name")
	}
	name := p.advance().Lexeme

	if p.current().Kind != token.LPAREN {
		return nil, p.syntaxErrorHere("expected '(' after function name")
	}
	p.advance()
	formals, err := p.argumentsDefinitionList(token.RPAREN)
	if err != nil {
		return nil, err
	}

	var returnList *ast.ArgumentList
	if p.isRecognizedTypeIdentifier(p.current()) {
		retTok := p.advance()
		v := &ast.Variable{Type: retTok.Lexeme, Name: retTok.Lexeme}
		p.arena.Alloc(v)
		rl := &ast.ArgumentList{Items: []ast.Node{v}}
		p.arena.Alloc(rl)
		returnList = rl
	}

	sig := ast.FunctionSignature{Name: name, Formals: formals, ReturnList: returnList, IsExternal: isExternal}
	if isExternal {
		return p.alloc(&ast.Function{Signature: sig}), nil
	}

	body, err := p.codeBlock()
	if err != nil {
		return nil, err
	}
	return p.alloc(&ast.Function{Signature: sig, Body: body}), nil
}

func (p *Parser) isRecognizedTypeIdentifier(tok token.Token) bool {
	if token.TypeKeywords[tok.Kind] {
		return true
	}
	return tok.Kind == token.IDENTIFIER && p.knownStructTypes[tok.Lexeme]
}

// argumentsList parses comma-separated expressions up to terminator. The
// caller has already consumed the opening '('.
func (p *Parser) argumentsList(terminator token.Kind) (ast.ArgumentList, error) {
	var items []ast.Node
	if p.current().Kind == terminator {
		p.advance()
		return ast.ArgumentList{}, nil
	}
	for {
		item, err := p.expression()
		if err != nil {
			return ast.ArgumentList{}, err
		}
		item, err = p.attachTrailingOperators(item)
		if err != nil {
			return ast.ArgumentList{}, err
		}
		items = append(items, item)
		if p.current().Kind == token.COMMA {
			p.advance()
			continue
		}
		if p.current().Kind == terminator {
			p.advance()
			break
		}
		return ast.ArgumentList{}, p.syntaxErrorHere(fmt.Sprintf("expected ',' or %q", terminator))
	}
	return ast.ArgumentList{Items: items}, nil
}

// argumentsDefinitionList is argumentsList's counterpart for formal
// parameters: each element is a variableDecl instead of a generic expression.
func (p *Parser) argumentsDefinitionList(terminator token.Kind) (ast.ArgumentList, error) {
	var items []ast.Node
	if p.current().Kind == terminator {
		p.advance()
		return ast.ArgumentList{}, nil
	}
	for {
		item, err := p.variableDecl()
		if err != nil {
			return ast.ArgumentList{}, err
		}
		items = append(items, item)
		if p.current().Kind == token.COMMA {
			p.advance()
			continue
		}
		if p.current().Kind == terminator {
			p.advance()
			break
		}
		return ast.ArgumentList{}, p.syntaxErrorHere(fmt.Sprintf("expected ',' or %q", terminator))
	}
	return ast.ArgumentList{Items: items}, nil
}

// codeBlock requires a '{', increments the shared scope depth, then
// repeatedly parses expression() until scope depth returns to its entry
// value. A trailing Return is lifted off the body into TrailingReturn.
func (p *Parser) codeBlock() (*ast.CodeBlock, error) {
	if p.current().Kind != token.LBRACE {
		return nil, p.syntaxErrorHere("expected '{' to start a code block")
	}
	before := p.scopeDepth
	p.advance()
	p.scopeDepth++

	var body []ast.Node
	for p.scopeDepth != before {
		if p.current().IsEOF() {
			return nil, p.syntaxErrorHere("unterminated code block")
		}
		if p.current().Kind == token.RBRACE {
			p.scopeDepth--
			p.advance()
			continue
		}
		n, err := p.expression()
		if err != nil {
			return nil, err
		}
		if n != nil {
			body = append(body, n)
		}
	}

	var trailing *ast.Return
	if len(body) > 0 {
		if ret, ok := body[len(body)-1].(*ast.Return); ok {
			trailing = ret
			body = body[:len(body)-1]
		}
	}
	cb := &ast.CodeBlock{Body: body, TrailingReturn: trailing}
	p.arena.Alloc(cb)
	return cb, nil
}
