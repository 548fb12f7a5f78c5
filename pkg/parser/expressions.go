package parser

import (
	"strconv"
	"strings"

	"github.com/clayne/papyrus-parser/pkg/ast"
	"github.com/clayne/papyrus-parser/pkg/lexer"
)

// parseExpression parses a full expression starting from an atom,
// walking spec §4.3.7's precedence ladder bottom to top: atom →
// subscripts (member/call/cast) → unary → binary/logical (grouped by
// precedence tier) → assignment.
func (p *Parser) parseExpression() ast.Node {
	return p.parseAssignment()
}

// parseAssignment implements the right-associative top level: <binary>
// (= | += | -= | *= | /= | %=) <assignment>.
func (p *Parser) parseAssignment() ast.Node {
	left := p.parseBinary()

	if !p.at(lexer.Assign) {
		return left
	}
	op := p.cur().Val
	p.advance()
	right := p.parseAssignment()
	return &ast.AssignExpression{
		BaseNode: ast.BaseNode{NodeType: "AssignExpression", StartPos: left.Start(), EndPos: right.End()},
		Left:     left,
		Operator: op,
		Right:    right,
	}
}

// precedence tiers, lowest to highest, per spec §4.3.7.
var precedenceTiers = [][]lexer.TokenKind{
	{lexer.LogicalOr},
	{lexer.LogicalAnd},
	{lexer.Equality},
	{lexer.Relational},
	{lexer.PlusMinus},
	{lexer.Star, lexer.StarStar, lexer.Slash, lexer.Modulo, lexer.Binary},
}

// parseBinary parses a unary operand and climbs precedenceTiers
// left-associatively on top of it (classic precedence climbing: the
// right-hand operand of each operator recurses with a strictly higher
// minimum tier, which both enforces precedence and leaves same-tier
// chains left-associative).
func (p *Parser) parseBinary() ast.Node {
	return p.climbFrom(p.parseUnary(), 0)
}

// continueExpressionFrom resumes the full expression grammar (subscripts,
// then binary/logical, then assignment) given a primary that has
// already been parsed by the Name-dispatch in statements.go.
func (p *Parser) continueExpressionFrom(primary ast.Node) ast.Node {
	left := p.climbFrom(p.parseSubscripts(primary), 0)
	if p.at(lexer.Assign) {
		op := p.cur().Val
		p.advance()
		right := p.parseAssignment()
		return &ast.AssignExpression{
			BaseNode: ast.BaseNode{NodeType: "AssignExpression", StartPos: left.Start(), EndPos: right.End()},
			Left:     left,
			Operator: op,
			Right:    right,
		}
	}
	return left
}

// climbFrom builds the binary/logical chain on top of an already-parsed
// left operand, only descending into operators whose tier is >= minTier.
func (p *Parser) climbFrom(left ast.Node, minTier int) ast.Node {
	for {
		tier := p.tierOf(p.cur().Kind)
		if tier < 0 || tier < minTier {
			return left
		}
		opTok := p.cur()
		p.advance()
		right := p.climbFrom(p.parseUnary(), tier+1)
		p.checkOutsideContext(p.options.ThrowBinaryOutside, "a binary expression", left.Start(), right.End())
		left = ast.NewBinaryExpression(left.Start(), right.End(), left, opTok.Val, right)
	}
}

func (p *Parser) tierOf(kind lexer.TokenKind) int {
	for i, tier := range precedenceTiers {
		for _, k := range tier {
			if k == kind {
				return i
			}
		}
	}
	return -1
}

// parseUnary parses the right-associative prefix operators -, !, ~.
func (p *Parser) parseUnary() ast.Node {
	if p.at(lexer.PlusMinus) && p.cur().Val == "-" || p.at(lexer.Prefix) {
		opTok := p.cur()
		p.advance()
		arg := p.parseUnary()
		return &ast.UnaryExpression{
			BaseNode: ast.BaseNode{NodeType: "UnaryExpression", StartPos: opTok.Start, EndPos: arg.End()},
			Operator: opTok.Val,
			Argument: arg,
			IsPrefix: true,
		}
	}
	return p.parseSubscripts(p.parseAtom())
}

// parseSubscripts repeatedly applies "[expr]" (indexing), ".Name"
// (member access), "(args)" (call), and "As Name" (cast) to base, left
// to right.
func (p *Parser) parseSubscripts(base ast.Node) ast.Node {
	for {
		switch p.cur().Kind {
		case lexer.BracketL:
			p.checkParentMemberChain(base)
			p.advance()
			index := p.parseExpression()
			end := p.cur().End
			p.expect(lexer.BracketR)
			base = &ast.MemberExpression{
				BaseNode: ast.BaseNode{NodeType: "MemberExpression", StartPos: base.Start(), EndPos: end},
				Object:   base,
				Property: index,
				Computed: true,
			}
		case lexer.Dot:
			p.checkParentMemberChain(base)
			p.advance()
			propTok := p.expect(lexer.Name)
			base = &ast.MemberExpression{
				BaseNode: ast.BaseNode{NodeType: "MemberExpression", StartPos: base.Start(), EndPos: propTok.End},
				Object:   base,
				Property: identifier(propTok),
				Computed: false,
			}
		case lexer.ParenL:
			if _, isParent := base.(*ast.Parent); isParent {
				p.failAt(ParentMemberErr, "Parent may not be used as a callee", base.Start(), base.End())
			}
			p.checkOutsideContext(p.options.ThrowCallOutside, "a call expression", base.Start(), base.End())
			args, end := p.parseArguments()
			base = &ast.CallExpression{
				BaseNode:  ast.BaseNode{NodeType: "CallExpression", StartPos: base.Start(), EndPos: end},
				Callee:    base,
				Arguments: args,
			}
		case lexer.As:
			base = p.parseCastFrom(base)
		default:
			return base
		}
	}
}

// checkParentMemberChain enforces that a member access may not chain
// off a member expression whose own object is Parent — only a single
// "Parent.Member" step is legal (spec §4.3.7, ParentMember errors).
func (p *Parser) checkParentMemberChain(base ast.Node) {
	member, ok := base.(*ast.MemberExpression)
	if !ok {
		return
	}
	if _, parentObject := member.Object.(*ast.Parent); parentObject {
		p.failAt(ParentMemberErr, "cannot chain a member access off Parent.Member", base.Start(), base.End())
	}
}

func (p *Parser) parseCastFrom(operand ast.Node) ast.Node {
	p.checkOutsideContext(p.options.ThrowCastOutside, "a cast expression", operand.Start(), operand.End())
	p.expect(lexer.As)
	kindTok := p.cur()
	switch kindTok.Kind {
	case lexer.Bool, lexer.Int, lexer.Float, lexer.StringKw, lexer.Name:
		p.advance()
	default:
		p.fail(UnexpectedToken, "expected a type name after As")
	}
	return &ast.CastExpression{
		BaseNode: ast.BaseNode{NodeType: "CastExpression", StartPos: operand.Start(), EndPos: kindTok.End},
		ID:       operand,
		Kind:     identifier(kindTok),
	}
}

// parseArguments parses "(args...)" and returns the arguments along
// with the end offset of the closing ')', so callers can use it as the
// node's own end rather than overshooting into the following token.
func (p *Parser) parseArguments() ([]ast.Node, int) {
	p.expect(lexer.ParenL)
	var args []ast.Node
	for !p.at(lexer.ParenR) {
		if len(args) > 0 {
			p.expect(lexer.Comma)
		}
		args = append(args, p.parseExpression())
	}
	end := p.cur().End
	p.advance() // consume ParenR
	return args, end
}

// parseAtom parses the innermost expression forms: literals,
// identifiers, Self/Parent, parenthesized expressions, and New.
func (p *Parser) parseAtom() ast.Node {
	tok := p.cur()
	switch tok.Kind {
	case lexer.Name:
		p.advance()
		return identifier(tok)
	case lexer.Self:
		p.advance()
		return &ast.Self{BaseNode: ast.BaseNode{NodeType: "Self", StartPos: tok.Start, EndPos: tok.End}}
	case lexer.Parent:
		if p.scriptName == nil || p.scriptName.Extends == nil {
			p.failAt(ParentMemberErr, "Parent may only be used in a script that has an Extends clause", tok.Start, tok.End)
		}
		p.advance()
		return &ast.Parent{BaseNode: ast.BaseNode{NodeType: "Parent", StartPos: tok.Start, EndPos: tok.End}}
	case lexer.Num:
		p.advance()
		return numberLiteral(tok)
	case lexer.String:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodeType: "Literal", StartPos: tok.Start, EndPos: tok.End}, Value: tok.Val, Raw: p.source[tok.Start:tok.End]}
	case lexer.Char:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodeType: "Literal", StartPos: tok.Start, EndPos: tok.End}, Value: tok.Val, Raw: p.source[tok.Start:tok.End]}
	case lexer.True:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodeType: "Literal", StartPos: tok.Start, EndPos: tok.End}, Value: true, Raw: tok.Val}
	case lexer.False:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodeType: "Literal", StartPos: tok.Start, EndPos: tok.End}, Value: false, Raw: tok.Val}
	case lexer.None:
		p.advance()
		return &ast.Literal{BaseNode: ast.BaseNode{NodeType: "Literal", StartPos: tok.Start, EndPos: tok.End}, Value: nil, Raw: tok.Val}
	case lexer.ParenL:
		p.advance()
		inner := p.parseExpression()
		p.expect(lexer.ParenR)
		return inner
	case lexer.New:
		return p.parseNewExpression()
	case lexer.Bool, lexer.Int, lexer.Float, lexer.StringKw:
		// A builtin type keyword used as a New-expression's type name,
		// e.g. "New Int[5]"; parseNewExpression handles the keyword
		// itself, so reaching here directly means it's being (unusually)
		// referenced bare, which has no meaning as a value.
		p.fail(UnexpectedToken, "type name cannot be used as a value")
	}
	p.fail(UnexpectedToken, "unexpected token in expression")
	return nil
}

// parseNewExpression parses "New TypeName[size]" (spec §4.3.7). The
// source does not restrict size to an integer literal as opposed to
// any numeric literal; this mirrors that observed leniency rather than
// adding a stricter check (see DESIGN.md).
func (p *Parser) parseNewExpression() ast.Node {
	start := p.cur().Start
	p.checkOutsideContext(p.options.ThrowNewOutside, "a New expression", p.cur().Start, p.cur().End)
	p.advance() // consume New

	var metaTok lexer.Token
	switch p.cur().Kind {
	case lexer.Bool, lexer.Int, lexer.Float, lexer.StringKw, lexer.Name:
		metaTok = p.cur()
		p.advance()
	default:
		p.fail(UnexpectedToken, "expected a type name after New")
	}
	meta := identifier(metaTok)

	p.expect(lexer.BracketL)
	sizeStart := p.cur().Start
	size := p.parseExpression()
	lit, ok := size.(*ast.Literal)
	if ok {
		switch lit.Value.(type) {
		case int64, float64:
		default:
			ok = false
		}
	}
	if !ok {
		p.failAt(UnexpectedToken, "New array size must be a numeric literal", size.Start(), size.End())
	}
	end := p.cur().End
	p.expect(lexer.BracketR)

	return &ast.NewExpression{
		BaseNode: ast.BaseNode{NodeType: "NewExpression", StartPos: start, EndPos: end},
		Meta:     meta,
		Argument: &ast.MemberExpression{
			BaseNode: ast.BaseNode{NodeType: "MemberExpression", StartPos: sizeStart, EndPos: size.End()},
			Object:   meta,
			Property: size,
			Computed: true,
		},
	}
}

// numberLiteral converts a Num token's decimal/hex text into an int64
// or float64 Value, preserving the original text as Raw.
func numberLiteral(tok lexer.Token) *ast.Literal {
	lit := &ast.Literal{BaseNode: ast.BaseNode{NodeType: "Literal", StartPos: tok.Start, EndPos: tok.End}, Raw: tok.Val}

	text := tok.Val
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		if n, err := strconv.ParseInt(text[2:], 16, 64); err == nil {
			lit.Value = n
			return lit
		}
	}
	if strings.ContainsAny(text, ".eE") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			lit.Value = f
			return lit
		}
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		lit.Value = n
		return lit
	}
	f, _ := strconv.ParseFloat(text, 64)
	lit.Value = f
	return lit
}
