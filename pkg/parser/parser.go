// Package parser implements a recursive-descent parser for the Papyrus
// scripting language. It consumes source text (plus an optional
// filename) and produces a typed *ast.Program, or the first structured
// Error encountered (spec §1, §4.3).
package parser

import (
	"fmt"

	"github.com/clayne/papyrus-parser/pkg/ast"
	"github.com/clayne/papyrus-parser/pkg/lexer"
)

// Options controls the optional validations described in spec §6.1. All
// of them default to true, matching the reference behavior; a caller
// that wants a looser parse (e.g. for a fragment with no ScriptName, or
// an included file that legitimately doesn't match its own filename)
// turns individual checks off.
type Options struct {
	ThrowScriptnameMissing  bool
	ThrowScriptnameMismatch bool
	ThrowReturnOutside      bool
	ThrowIfOutside          bool
	ThrowWhileOutside       bool
	ThrowBinaryOutside      bool
	ThrowCallOutside        bool
	ThrowCastOutside        bool
	ThrowNewOutside         bool
}

// DefaultOptions returns the Options spec §6.1 describes as defaults:
// every validation enabled.
func DefaultOptions() Options {
	return Options{
		ThrowScriptnameMissing:  true,
		ThrowScriptnameMismatch: true,
		ThrowReturnOutside:      true,
		ThrowIfOutside:          true,
		ThrowWhileOutside:       true,
		ThrowBinaryOutside:      true,
		ThrowCallOutside:        true,
		ThrowCastOutside:        true,
		ThrowNewOutside:         true,
	}
}

// Parser holds all mutable state for one parse. It is not safe for
// concurrent use and is discarded after Parse returns (spec §5: a
// parse is a pure function of its inputs; no state escapes).
type Parser struct {
	lexer    *lexer.Lexer
	cursor   *lexer.Cursor
	source   string
	filename string
	options  Options

	inFunction bool
	inEvent    bool
	inState    bool

	scriptName *ast.ScriptNameStatement
}

// abort is panicked to unwind the recursive-descent call stack back to
// Parse on the first error, matching spec §7's no-recovery policy. Using
// panic/recover for this is the same technique go/parser itself uses
// for the identical reason.
type abort struct{ err *Error }

// Parse parses content under the given (optional) filename using the
// default Options.
func Parse(content, filename string) (*ast.Program, error) {
	return ParseWithOptions(content, filename, DefaultOptions())
}

// ParseWithOptions parses content with an explicit Options value.
func ParseWithOptions(content, filename string, options Options) (program *ast.Program, err error) {
	cursor := lexer.NewCursor(content)
	p := &Parser{
		lexer:    lexer.NewLexer(cursor),
		cursor:   cursor,
		source:   content,
		filename: filename,
		options:  options,
	}

	defer func() {
		if r := recover(); r != nil {
			a, ok := r.(abort)
			if !ok {
				panic(r)
			}
			program, err = nil, a.err
		}
	}()

	p.advance()
	program = p.parseProgram()
	return program, nil
}

func (p *Parser) cur() lexer.Token { return p.lexer.Current() }

// advance pulls the next token from the lexer, converting a lexical
// error (Illegal token) directly into a parse Error.
func (p *Parser) advance() lexer.Token {
	tok := p.lexer.Advance()
	if tok.Kind == lexer.Illegal {
		p.failAt(UnexpectedToken, tok.Val, tok.Start, tok.End)
	}
	return tok
}

func (p *Parser) failAt(kind ErrorKind, message string, start, end int) {
	panic(abort{&Error{
		Kind:     kind,
		Message:  message,
		Start:    start,
		End:      end,
		Filename: p.filename,
		Source:   p.source,
	}})
}

func (p *Parser) fail(kind ErrorKind, message string) {
	p.failAt(kind, message, p.cur().Start, p.cur().End)
}

// expect requires the current token to have the given kind, consumes
// it, and returns it; otherwise it aborts with UnexpectedToken.
func (p *Parser) expect(kind lexer.TokenKind) lexer.Token {
	if p.cur().Kind != kind {
		p.fail(UnexpectedToken, fmt.Sprintf("expected %s, got %s", kind, p.cur().Kind))
	}
	tok := p.cur()
	p.advance()
	return tok
}

func (p *Parser) at(kind lexer.TokenKind) bool { return p.cur().Kind == kind }

// parseProgram is the top-level loop (spec §4.3): with the lexer already
// primed by ParseWithOptions, parse statements until Eof.
func (p *Parser) parseProgram() *ast.Program {
	program := ast.NewProgram(0, 0)
	for !p.at(lexer.Eof) {
		node := p.parseStatement()
		program.Body = append(program.Body, node)
	}
	program.EndPos = p.cur().End
	return program
}
