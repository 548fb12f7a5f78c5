package parser

import (
	"strings"

	"github.com/clayne/papyrus-parser/pkg/ast"
	"github.com/clayne/papyrus-parser/pkg/lexer"
)

func identifier(tok lexer.Token) *ast.Identifier {
	return &ast.Identifier{
		BaseNode: ast.BaseNode{NodeType: "Identifier", StartPos: tok.Start, EndPos: tok.End},
		Name:     tok.Val,
	}
}

// parseScriptNameStatement parses "ScriptName Name [extends Name] [flags...]"
// (spec §4.3.2). Only one may appear per program; a second one, or a
// name that does not match the filename, is an error when the
// corresponding Option is enabled.
func (p *Parser) parseScriptNameStatement() ast.Node {
	start := p.cur().Start
	p.advance() // consume ScriptName

	if p.scriptName != nil {
		p.failAt(ScriptNameError, "duplicate ScriptName statement", start, p.cur().End)
	}

	nameTok := p.expect(lexer.Name)
	stmt := &ast.ScriptNameStatement{
		BaseNode: ast.BaseNode{NodeType: "ScriptNameStatement", StartPos: start},
		ID:       identifier(nameTok),
	}

	if p.at(lexer.Extends) {
		exStart := p.cur().Start
		p.advance()
		parentTok := p.expect(lexer.Name)
		stmt.Extends = &ast.ExtendsDeclaration{
			BaseNode: ast.BaseNode{NodeType: "ExtendsDeclaration", StartPos: exStart, EndPos: parentTok.End},
			Extended: identifier(parentTok),
		}
	}

	for {
		switch p.cur().Kind {
		case lexer.Conditional:
			stmt.Flags = append(stmt.Flags, ast.ScriptNameConditional)
			p.advance()
		case lexer.Hidden:
			stmt.Flags = append(stmt.Flags, ast.ScriptNameHidden)
			p.advance()
		default:
			stmt.EndPos = p.cur().Start
			p.scriptName = stmt
			p.checkScriptName(stmt)
			return stmt
		}
	}
}

// checkScriptName enforces the filename/name agreement described in
// spec §6.1's ThrowScriptnameMismatch.
func (p *Parser) checkScriptName(stmt *ast.ScriptNameStatement) {
	if !p.options.ThrowScriptnameMismatch || p.filename == "" {
		return
	}
	base := p.filename
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		base = base[:idx]
	}
	if !strings.EqualFold(base, stmt.ID.Name) {
		p.failAt(ScriptNameError, "ScriptName \""+stmt.ID.Name+"\" does not match filename \""+p.filename+"\"", stmt.ID.Start(), stmt.ID.End())
	}
}

// requireScriptName is checked the first time a non-ScriptName,
// non-Import top-level statement is parsed, enforcing
// ThrowScriptnameMissing (spec §6.1). Since the parser aborts on its
// first error (spec §7), this can only ever fire once per parse.
func (p *Parser) requireScriptName(start, end int) {
	if p.scriptName != nil || !p.options.ThrowScriptnameMissing {
		return
	}
	p.failAt(ScriptNameError, "script is missing a ScriptName statement", start, end)
}

// parseImportStatement parses "Import Name" (spec §4.3.2).
func (p *Parser) parseImportStatement() ast.Node {
	start := p.cur().Start
	p.advance()
	nameTok := p.expect(lexer.Name)
	return &ast.ImportStatement{
		BaseNode: ast.BaseNode{NodeType: "ImportStatement", StartPos: start, EndPos: nameTok.End},
		ID:       identifier(nameTok),
	}
}

// parsePropertyDeclaration parses the property forms described in
// spec §4.3.6, given that kind/isArray/start have already been
// recognized by the Name-dispatch in statements.go. The Property
// keyword is the current token on entry.
func (p *Parser) parsePropertyDeclaration(kind string, isArray bool, start int) ast.Node {
	p.advance() // consume Property
	nameTok := p.expect(lexer.Name)

	if isArray {
		kind += "[]"
	}

	decl := ast.PropertyDeclaration{
		BaseNode: ast.BaseNode{NodeType: "PropertyDeclaration", StartPos: start},
		ID:       identifier(nameTok),
		Kind:     kind,
	}

	if p.at(lexer.Assign) {
		p.advance()
		init := p.parseExpression()
		if _, ok := init.(*ast.Literal); !ok {
			p.failAt(PropertyError, "property initializer must be a constant literal", init.Start(), init.End())
		}
		decl.Init = init
	}

	for {
		switch p.cur().Kind {
		case lexer.Auto:
			decl.Flags = append(decl.Flags, ast.PropertyAuto)
			p.advance()
		case lexer.AutoReadOnly:
			decl.Flags = append(decl.Flags, ast.PropertyAutoReadOnly)
			p.advance()
		case lexer.Conditional:
			decl.Flags = append(decl.Flags, ast.PropertyConditional)
			p.advance()
		case lexer.Hidden:
			decl.Flags = append(decl.Flags, ast.PropertyHidden)
			p.advance()
		default:
			goto flagsDone
		}
	}
flagsDone:

	if p.scriptName != nil && p.scriptName.IsConditional() && !decl.IsConditional() {
		p.failAt(PropertyError, "property must be Conditional because its ScriptName is Conditional", decl.ID.Start(), decl.ID.End())
	}
	if decl.IsAutoReadOnly() && decl.Init == nil {
		p.failAt(PropertyError, "AutoReadOnly property requires an initializer", decl.ID.Start(), decl.ID.End())
	}
	if decl.IsConditional() && !decl.IsAuto() && !decl.IsAutoReadOnly() {
		p.failAt(PropertyError, "Conditional requires Auto or AutoReadOnly", decl.ID.Start(), decl.ID.End())
	}
	if decl.IsConditional() && decl.Init == nil {
		p.failAt(PropertyError, "Conditional property requires an initializer", decl.ID.Start(), decl.ID.End())
	}
	if decl.HasNoFlags() {
		p.failAt(PropertyError, "Missing Hidden flag for Full Property", decl.ID.Start(), decl.ID.End())
	}

	if decl.IsAuto() || decl.IsAutoReadOnly() {
		decl.EndPos = p.cur().Start
		return &decl
	}

	// No Auto/AutoReadOnly flag: this is a full property with Get/Set
	// bodies terminated by EndProperty. The terminator is required to
	// exist somewhere in the remaining source before we commit to
	// parsing the body (spec §4.3.6); absence is fatal up front rather
	// than discovered only after running off the end of the file.
	if !strings.Contains(strings.ToLower(p.lexer.Cursor().Source()[p.cur().Start:]), "endproperty") {
		p.failAt(PropertyError, "unterminated Property body: no EndProperty found", decl.ID.Start(), decl.ID.End())
	}

	full := &ast.PropertyFullDeclaration{PropertyDeclaration: decl}
	for !p.at(lexer.EndProperty) {
		switch p.cur().Kind {
		case lexer.Function:
			// A Set accessor is conventionally declared with no return
			// type: "Function Set(<Kind> value) ... EndFunction".
			fn := p.parseFunctionStatement()
			p.classifyPropertyAccessor(full, &decl, fn)
		case lexer.Bool, lexer.Int, lexer.Float, lexer.StringKw, lexer.Name:
			typeStart := p.cur().Start
			kind := p.cur().Val
			p.advance() // consume accessor return type
			fn := p.parseFunctionStatementWithType(kind, typeStart)
			p.classifyPropertyAccessor(full, &decl, fn)
		default:
			p.fail(PropertyError, "expected Get, Set, or EndProperty")
		}
	}
	if full.Getter == nil && full.Setter == nil {
		p.failAt(PropertyError, "full property body must contain a getter or a setter", full.Start(), p.cur().End)
	}
	full.EndPos = p.cur().End
	p.advance() // consume EndProperty
	return full
}

// classifyPropertyAccessor files a parsed accessor function as full's
// Getter or Setter, validating its shape against decl's own kind (spec
// §4.3.6: "a FunctionStatement whose id is exactly Get with no params is
// the getter; Set with exactly one param is the setter").
func (p *Parser) classifyPropertyAccessor(full *ast.PropertyFullDeclaration, decl *ast.PropertyDeclaration, fn ast.Node) {
	accessor, ok := fn.(*ast.FunctionStatement)
	if !ok {
		p.fail(PropertyError, "malformed property accessor")
		return
	}
	switch strings.ToLower(accessor.ID.Name) {
	case "get":
		if accessor.Kind != decl.Kind || len(accessor.Params) != 0 {
			p.failAt(PropertyError, "Get accessor must return "+decl.Kind+" and take no parameters", accessor.Start(), accessor.End())
		}
		full.Getter = accessor
	case "set":
		if len(accessor.Params) != 1 {
			p.failAt(PropertyError, "Set accessor must take exactly one parameter", accessor.Start(), accessor.End())
		}
		full.Setter = accessor
	default:
		p.failAt(PropertyError, "property body must contain only Get/Set functions", accessor.Start(), accessor.End())
	}
}

// parseFunctionStatement parses a function with no explicit return type
// (a "void" function): the current token is Function.
func (p *Parser) parseFunctionStatement() ast.Node {
	return p.parseFunctionStatementWithType("", p.cur().Start)
}

// parseFunctionStatementWithType parses "[Function] Name(params) flags...
// [body] EndFunction", given that an optional return-type identifier
// kind has already been consumed by the caller (the Name-dispatch in
// statements.go, or a bare "Function" keyword with kind=="").
func (p *Parser) parseFunctionStatementWithType(kind string, start int) ast.Node {
	p.expect(lexer.Function)
	nameTok := p.expect(lexer.Name)

	fn := &ast.FunctionStatement{
		BaseNode: ast.BaseNode{NodeType: "FunctionStatement", StartPos: start},
		ID:       identifier(nameTok),
		Kind:     kind,
	}
	fn.Params = p.parseParameterList()

	// Global/Native must appear on the same source line as the closing
	// ')' of the parameter list; a newline before one, or a repeated
	// flag, is a FunctionFlag error (spec §4.3.3).
	for p.at(lexer.Global) || p.at(lexer.Native) {
		if p.lexer.HasNewlineBeforeCurrent() {
			p.fail(FunctionFlagErr, "function flags must appear on the same line as the parameter list")
		}
		if p.at(lexer.Global) {
			if fn.IsGlobal() {
				p.fail(FunctionFlagErr, "duplicate Global flag")
			}
			fn.Flags = append(fn.Flags, ast.FunctionGlobal)
		} else {
			if fn.IsNative() {
				p.fail(FunctionFlagErr, "duplicate Native flag")
			}
			fn.Flags = append(fn.Flags, ast.FunctionNative)
		}
		p.advance()
	}

	if fn.IsNative() {
		// Native functions have no body; §4.3.3 says EndFunction is
		// omitted entirely in well-formed source, but a stray one
		// immediately following is still consumed as the function's
		// terminator rather than left dangling for the enclosing block.
		if p.at(lexer.EndFunction) {
			fn.EndPos = p.cur().End
			p.advance()
			return fn
		}
		fn.EndPos = p.cur().Start
		return fn
	}

	wasFn, wasEv, wasSt := p.inFunction, p.inEvent, p.inState
	p.inFunction, p.inEvent = true, false
	fn.Body = p.parseBlock(lexer.EndFunction)
	p.inFunction, p.inEvent, p.inState = wasFn, wasEv, wasSt

	fn.EndPos = p.cur().End
	p.expect(lexer.EndFunction)
	return fn
}

// parseEventStatement parses "Event Name(params) [Native] ... EndEvent"
// (spec §4.3.4).
func (p *Parser) parseEventStatement() ast.Node {
	start := p.cur().Start
	p.advance() // consume Event
	nameTok := p.expect(lexer.Name)

	ev := &ast.EventStatement{
		BaseNode: ast.BaseNode{NodeType: "EventStatement", StartPos: start},
		ID:       identifier(nameTok),
	}
	ev.Params = p.parseParameterList()

	for p.at(lexer.Native) {
		if p.lexer.HasNewlineBeforeCurrent() {
			p.fail(EventFlagErr, "event flags must appear on the same line as the parameter list")
		}
		if ev.IsNative() {
			p.fail(EventFlagErr, "duplicate Native flag")
		}
		ev.Flags = append(ev.Flags, ast.EventNative)
		p.advance()
	}

	if ev.IsNative() {
		if p.at(lexer.EndEvent) {
			ev.EndPos = p.cur().End
			p.advance()
			return ev
		}
		ev.EndPos = p.cur().Start
		return ev
	}

	wasFn, wasEv, wasSt := p.inFunction, p.inEvent, p.inState
	p.inFunction, p.inEvent = false, true
	ev.Body = p.parseBlock(lexer.EndEvent)
	p.inFunction, p.inEvent, p.inState = wasFn, wasEv, wasSt

	ev.EndPos = p.cur().End
	p.expect(lexer.EndEvent)
	return ev
}

// parseStateStatement parses "[Auto] State Name ... EndState" (spec
// §4.3.5). start is the position of "Auto" if present, else of "State"
// itself; the current token on entry is always State.
func (p *Parser) parseStateStatement(auto bool, start int) ast.Node {
	p.advance() // consume State
	nameTok := p.expect(lexer.Name)

	st := &ast.StateStatement{
		BaseNode: ast.BaseNode{NodeType: "StateStatement", StartPos: start},
		ID:       identifier(nameTok),
		Auto:     auto,
	}

	wasFn, wasEv, wasSt := p.inFunction, p.inEvent, p.inState
	p.inFunction, p.inEvent, p.inState = false, false, true
	st.Body = p.parseBlock(lexer.EndState)
	p.inFunction, p.inEvent, p.inState = wasFn, wasEv, wasSt

	for _, n := range st.Body.Body {
		switch n.(type) {
		case *ast.FunctionStatement, *ast.EventStatement:
		default:
			p.failAt(StateStatementErr, "State bodies may only contain Function and Event declarations", n.Start(), n.End())
		}
	}

	st.EndPos = p.cur().End
	p.expect(lexer.EndState)
	return st
}

// parseParameterList parses "(Type [[]] Name [= expr], ...)" (spec
// §4.3.8), reusing VariableDeclaration as the parameter shape.
func (p *Parser) parseParameterList() []*ast.VariableDeclaration {
	p.expect(lexer.ParenL)
	var params []*ast.VariableDeclaration
	for !p.at(lexer.ParenR) {
		if len(params) > 0 {
			p.expect(lexer.Comma)
		}
		params = append(params, p.parseParameter())
	}
	p.advance() // consume ParenR
	return params
}

func (p *Parser) parseParameter() *ast.VariableDeclaration {
	start := p.cur().Start
	var kind string
	switch p.cur().Kind {
	case lexer.Bool, lexer.Int, lexer.Float, lexer.StringKw:
		kind = p.cur().Val
		p.advance()
	case lexer.Name:
		kind = p.cur().Val
		p.advance()
	default:
		p.fail(UnexpectedToken, "expected a parameter type")
	}

	isArray := false
	if p.at(lexer.BracketL) {
		p.advance()
		p.expect(lexer.BracketR)
		isArray = true
	}

	nameTok := p.expect(lexer.Name)
	decl := &ast.VariableDeclaration{
		BaseNode: ast.BaseNode{NodeType: "VariableDeclaration", StartPos: start},
		Variable: ast.Variable{
			ID:      identifier(nameTok),
			Kind:    kind,
			IsArray: isArray,
		},
	}

	if p.at(lexer.Assign) {
		p.advance()
		decl.Variable.Init = p.parseExpression()
		decl.EndPos = decl.Variable.Init.End()
	} else {
		decl.EndPos = nameTok.End
	}
	return decl
}
