package parser

import (
	"strings"

	"github.com/clayne/papyrus-parser/pkg/ast"
	"github.com/clayne/papyrus-parser/pkg/lexer"
)

// parseStatement dispatches on the current token per spec §4.3.1. It is
// used both at the top level (Program.Body) and inside parseBlock.
func (p *Parser) parseStatement() ast.Node {
	switch p.cur().Kind {
	case lexer.ScriptName:
		return p.parseScriptNameStatement()
	case lexer.Import:
		return p.parseImportStatement()
	case lexer.Function:
		p.requireScriptName(p.cur().Start, p.cur().End)
		return p.parseFunctionStatement()
	case lexer.Event:
		p.requireScriptName(p.cur().Start, p.cur().End)
		return p.parseEventStatement()
	case lexer.State:
		p.requireScriptName(p.cur().Start, p.cur().End)
		return p.parseStateStatement(false, p.cur().Start)
	case lexer.Auto:
		start, end := p.cur().Start, p.cur().End
		p.advance() // consume Auto
		if p.at(lexer.State) {
			return p.parseStateStatement(true, start)
		}
		// "auto" used bare is not otherwise meaningful at statement
		// position; treat it as an identifier-led expression statement.
		return p.finishExpressionStatement(p.continueExpressionFrom(&ast.Identifier{
			BaseNode: ast.BaseNode{NodeType: "Identifier", StartPos: start, EndPos: end},
			Name:     p.source[start:end],
		}))
	case lexer.If:
		p.checkOutsideContext(p.options.ThrowIfOutside, "If", p.cur().Start, p.cur().End)
		return p.parseIfStatement()
	case lexer.While:
		p.checkOutsideContext(p.options.ThrowWhileOutside, "While", p.cur().Start, p.cur().End)
		return p.parseWhileStatement()
	case lexer.Return:
		p.checkOutsideContext(p.options.ThrowReturnOutside, "Return", p.cur().Start, p.cur().End)
		return p.parseReturnStatement()
	case lexer.Bool, lexer.Int, lexer.Float, lexer.StringKw:
		p.requireScriptName(p.cur().Start, p.cur().End)
		return p.parseTypedDeclarationAfterBuiltin()
	case lexer.Name:
		p.requireScriptName(p.cur().Start, p.cur().End)
		return p.parseNameDispatch()
	default:
		return p.finishExpressionStatement(p.parseExpression())
	}
}

func (p *Parser) checkOutsideContext(enabled bool, what string, start, end int) {
	if enabled && !p.inFunction && !p.inEvent {
		p.failAt(BlockStatementErr, what+" is not allowed outside a Function or Event body", start, end)
	}
}

// parseBlock parses statements until the current token matches one of
// closers, leaving that token unconsumed for the caller to expect().
// Reaching Eof first is a BlockStatement error naming every terminator
// this block could have ended on (spec §4.3.9).
func (p *Parser) parseBlock(closers ...lexer.TokenKind) *ast.BlockStatement {
	start := p.cur().Start
	block := &ast.BlockStatement{BaseNode: ast.BaseNode{NodeType: "BlockStatement", StartPos: start}}
	for !p.atAnyOf(closers) {
		if p.at(lexer.Eof) {
			p.failAt(BlockStatementErr, "unexpected end of file, expected "+closerList(closers), p.cur().Start, p.cur().End)
		}
		block.Body = append(block.Body, p.parseStatement())
	}
	block.EndPos = p.cur().Start
	return block
}

func (p *Parser) atAnyOf(kinds []lexer.TokenKind) bool {
	for _, k := range kinds {
		if p.cur().Kind == k {
			return true
		}
	}
	return false
}

func closerList(kinds []lexer.TokenKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " or ")
}

// parseIfStatement parses "If (test) ... [ElseIf ...]* [Else ...] EndIf"
// (spec §4.3.1, §3.2). An ElseIf chain becomes nested IfStatement nodes
// in Alternate; only the outermost call consumes the final EndIf.
func (p *Parser) parseIfStatement() ast.Node {
	start := p.cur().Start
	p.advance() // consume If
	p.expect(lexer.ParenL)
	test := p.parseExpression()
	p.expect(lexer.ParenR)

	stmt := &ast.IfStatement{
		BaseNode: ast.BaseNode{NodeType: "IfStatement", StartPos: start},
		Test:     test,
	}
	stmt.Consequent = p.parseBlock(lexer.EndIf, lexer.ElseIf, lexer.Else)
	stmt.Alternate = p.parseElseTail()

	stmt.EndPos = p.cur().End
	p.expect(lexer.EndIf)
	return stmt
}

// parseElseTail handles the Else/ElseIf continuation that may follow an
// If or ElseIf clause, without consuming the final EndIf.
func (p *Parser) parseElseTail() ast.Node {
	switch p.cur().Kind {
	case lexer.ElseIf:
		start := p.cur().Start
		p.advance()
		p.expect(lexer.ParenL)
		test := p.parseExpression()
		p.expect(lexer.ParenR)
		elif := &ast.IfStatement{
			BaseNode: ast.BaseNode{NodeType: "IfStatement", StartPos: start},
			Test:     test,
		}
		elif.Consequent = p.parseBlock(lexer.EndIf, lexer.ElseIf, lexer.Else)
		elif.Alternate = p.parseElseTail()
		elif.EndPos = p.cur().Start
		return elif
	case lexer.Else:
		p.advance()
		return p.parseBlock(lexer.EndIf)
	default:
		return nil
	}
}

func (p *Parser) parseWhileStatement() ast.Node {
	start := p.cur().Start
	p.advance() // consume While
	p.expect(lexer.ParenL)
	test := p.parseExpression()
	p.expect(lexer.ParenR)

	stmt := &ast.WhileStatement{
		BaseNode: ast.BaseNode{NodeType: "WhileStatement", StartPos: start},
		Test:     test,
	}
	stmt.Consequent = p.parseBlock(lexer.EndWhile)
	stmt.EndPos = p.cur().End
	p.expect(lexer.EndWhile)
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Node {
	start := p.cur().Start
	end := p.cur().End
	p.advance() // consume Return
	stmt := &ast.ReturnStatement{BaseNode: ast.BaseNode{NodeType: "ReturnStatement", StartPos: start, EndPos: end}}
	if !p.lexer.HasNewlineBeforeCurrent() && p.canStartExpression() {
		stmt.Argument = p.parseExpression()
		stmt.EndPos = stmt.Argument.End()
	}
	return stmt
}

// canStartExpression reports whether the current token can begin an
// expression, used to tell a bare "Return" from "Return <expr>" given
// Papyrus's newline-as-separator rule.
func (p *Parser) canStartExpression() bool {
	switch p.cur().Kind {
	case lexer.Name, lexer.Num, lexer.String, lexer.Char, lexer.ParenL,
		lexer.New, lexer.Self, lexer.Parent, lexer.None, lexer.True, lexer.False,
		lexer.PlusMinus, lexer.Prefix:
		return true
	default:
		return false
	}
}

// parseTypedDeclarationAfterBuiltin handles a builtin value type
// (Bool/Int/Float/String) at statement position: it consumes the type
// keyword and an optional "[]" suffix without the raw cursor peek the
// Name-dispatch uses, then hands off to parseTypedDeclarationAfterType.
func (p *Parser) parseTypedDeclarationAfterBuiltin() ast.Node {
	start := p.cur().Start
	kind := p.cur().Val
	nameEnd := p.cur().End
	p.advance() // consume the builtin type keyword

	isArray := false
	if p.at(lexer.BracketL) {
		p.advance()
		p.expect(lexer.BracketR)
		isArray = true
	}
	return p.parseTypedDeclarationAfterType(kind, isArray, start, nameEnd)
}

// parseNameDispatch implements spec §4.3.1's Name-token lookahead: an
// identifier at statement position may be starting a type-prefixed
// declaration (Function/Property/variable) or may simply be the start
// of an expression statement (assignment, call, member access). The
// raw cursor peek below decides which, without needing a second
// buffered token in the Lexer itself.
func (p *Parser) parseNameDispatch() ast.Node {
	nameTok := p.cur()
	typeName := nameTok.Val

	cursor := p.lexer.Cursor()
	peekPos, ok := cursor.SkipSpace(nameTok.End)
	if !ok {
		p.failAt(UnexpectedToken, "unterminated comment", peekPos, peekPos+1)
	}
	ch := cursor.CodeUnit(peekPos)

	switch ch {
	case '=', '+', '-', '*', '/', '%', '.', '(':
		return p.finishExpressionStatement(p.parseExpression())
	case '[':
		closePos, ok := cursor.SkipSpace(peekPos + 1)
		if ok && cursor.CodeUnit(closePos) == ']' {
			p.advance() // consume Name
			p.expect(lexer.BracketL)
			p.expect(lexer.BracketR)
			return p.parseTypedDeclarationAfterType(typeName, true, nameTok.Start, nameTok.End)
		}
	}

	p.advance() // consume Name, moving to the token right after it
	return p.parseTypedDeclarationAfterType(typeName, false, nameTok.Start, nameTok.End)
}

// parseTypedDeclarationAfterType is reached once an identifier has been
// tentatively recognized as a type name (optionally array-suffixed) and
// the lexer has advanced past it; the current token decides what kind
// of declaration, if any, follows. nameEnd is the end position of the
// type-name token itself (before any "[]" suffix).
func (p *Parser) parseTypedDeclarationAfterType(typeName string, isArray bool, start, nameEnd int) ast.Node {
	switch p.cur().Kind {
	case lexer.As:
		id := &ast.Identifier{BaseNode: ast.BaseNode{NodeType: "Identifier", StartPos: start, EndPos: nameEnd}, Name: typeName}
		cast := p.parseCastFrom(id)
		return p.finishExpressionStatement(p.continueExpressionFrom(cast))
	case lexer.Function:
		return p.parseFunctionStatementWithType(typeName, start)
	case lexer.ParenL:
		id := &ast.Identifier{BaseNode: ast.BaseNode{NodeType: "Identifier", StartPos: start, EndPos: nameEnd}, Name: typeName}
		return p.finishExpressionStatement(p.continueExpressionFrom(id))
	case lexer.Property:
		return p.parsePropertyDeclaration(typeName, isArray, start)
	case lexer.Name:
		return p.parseVariableDeclarationStatement(typeName, isArray, start)
	default:
		id := &ast.Identifier{BaseNode: ast.BaseNode{NodeType: "Identifier", StartPos: start, EndPos: nameEnd}, Name: typeName}
		return p.finishExpressionStatement(p.continueExpressionFrom(id))
	}
}

// parseVariableDeclarationStatement parses "Type[,[]] Name [= expr]" as
// a local declaration (spec §4.3.8).
func (p *Parser) parseVariableDeclarationStatement(kind string, isArray bool, start int) ast.Node {
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

func (p *Parser) finishExpressionStatement(expr ast.Node) ast.Node {
	return &ast.ExpressionStatement{
		BaseNode:   ast.BaseNode{NodeType: "ExpressionStatement", StartPos: expr.Start(), EndPos: expr.End()},
		Expression: expr,
	}
}
