package directive

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"

	"github.com/mpyw/fnpolicy/internal/policy"
)

// SyntaxError is a malformed directive argument list.
type SyntaxError struct {
	Directive string
	Msg       string
	Pos       token.Pos // position in the analyzed file, NoPos when parsed standalone
	Offset    int       // byte offset within the argument text
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed fnpolicy:%s directive: %s", e.Directive, e.Msg)
}

// =============================================================================
// Grammar
// =============================================================================
//
//	CallSpec   = List .
//	FieldSpec  = TypeName ":" List .
//	TypeName   = identifier [ "." identifier ] .
//	List       = "(" [ Names [ "," ] ] ")" | Names .
//	Names      = string_lit { "," string_lit } .

// ParseCallSpec parses `"f1", "f2"` or `("f1", "f2")`.
func ParseCallSpec(directive, args string, mode policy.Mode) (policy.CallSpec, error) {
	p := newParser(directive, args)
	names := p.list()
	p.end()
	if p.err != nil {
		return policy.CallSpec{}, p.err
	}
	return policy.CallSpec{Names: names, Mode: mode}, nil
}

// ParseFieldSpec parses `Type: ("f1", "f2")`. The parentheses are optional.
func ParseFieldSpec(directive, args string, mode policy.Mode) (policy.FieldSpec, error) {
	p := newParser(directive, args)
	typeName := p.typeName()
	p.expect(token.COLON, "missing colon after type name")
	names := p.list()
	p.end()
	if p.err != nil {
		return policy.FieldSpec{}, p.err
	}
	return policy.FieldSpec{TypeName: typeName, Names: names, Mode: mode}, nil
}

// ParseCallerSpec parses a caller allow-list, shaped like a CallSpec.
func ParseCallerSpec(directive, args string) (policy.CallerSpec, error) {
	spec, err := ParseCallSpec(directive, args, policy.Allow)
	if err != nil {
		return policy.CallerSpec{}, err
	}
	return policy.CallerSpec{Names: spec.Names}, nil
}

// =============================================================================
// Parser
// =============================================================================

type parser struct {
	directive string
	file      *token.File
	scanner   scanner.Scanner
	err       *SyntaxError

	tok token.Token
	lit string
	off int
}

func newParser(directive, src string) *parser {
	p := &parser{directive: directive}
	fset := token.NewFileSet()
	p.file = fset.AddFile("", fset.Base(), len(src))
	p.scanner.Init(p.file, []byte(src), func(pos token.Position, msg string) {
		p.fail(pos.Offset, msg)
	}, 0)
	p.next()
	return p
}

func (p *parser) next() {
	pos, tok, lit := p.scanner.Scan()
	// The scanner inserts a semicolon at the end of the line.
	if tok == token.SEMICOLON && lit == "\n" {
		tok = token.EOF
	}
	p.tok, p.lit, p.off = tok, lit, p.file.Offset(pos)
}

func (p *parser) fail(off int, msg string) {
	if p.err == nil {
		p.err = &SyntaxError{Directive: p.directive, Msg: msg, Offset: off}
	}
}

func (p *parser) found() string {
	switch p.tok {
	case token.EOF:
		return "end of directive"
	case token.IDENT, token.INT, token.FLOAT, token.CHAR, token.STRING:
		return p.lit
	}
	return fmt.Sprintf("%q", p.tok.String())
}

func (p *parser) expect(tok token.Token, msg string) {
	if p.err != nil {
		return
	}
	if p.tok != tok {
		p.fail(p.off, fmt.Sprintf("%s, found %s", msg, p.found()))
		return
	}
	p.next()
}

func (p *parser) typeName() string {
	if p.err != nil {
		return ""
	}
	if p.tok != token.IDENT {
		p.fail(p.off, fmt.Sprintf("expected type name, found %s", p.found()))
		return ""
	}
	name := p.lit
	p.next()
	if p.tok == token.PERIOD {
		p.next()
		if p.tok != token.IDENT {
			p.fail(p.off, fmt.Sprintf("expected type name after %s., found %s", name, p.found()))
			return ""
		}
		name += "." + p.lit
		p.next()
	}
	return name
}

func (p *parser) list() []string {
	if p.err != nil {
		return nil
	}
	if p.tok != token.LPAREN {
		return p.names(false)
	}
	p.next()
	names := p.names(true)
	if p.err == nil && p.tok != token.RPAREN {
		if p.tok == token.EOF {
			p.fail(p.off, "unterminated list")
		} else {
			p.fail(p.off, fmt.Sprintf("expected \",\" or \")\", found %s", p.found()))
		}
		return nil
	}
	p.next()
	return names
}

// names parses a comma separated list of string literals. Inside
// parentheses the list may be empty and may end with a comma.
func (p *parser) names(parenthesized bool) []string {
	names := []string{}
	for p.err == nil {
		if parenthesized && p.tok == token.RPAREN {
			return names
		}
		names = append(names, p.name())
		if p.err != nil || p.tok != token.COMMA {
			return names
		}
		p.next()
		if !parenthesized && p.tok == token.EOF {
			p.fail(p.off, "expected string literal after \",\"")
		}
	}
	return names
}

func (p *parser) name() string {
	if p.tok != token.STRING {
		p.fail(p.off, fmt.Sprintf("expected string literal, found %s", p.found()))
		return ""
	}
	s, err := strconv.Unquote(p.lit)
	if err != nil {
		p.fail(p.off, fmt.Sprintf("invalid string literal %s", p.lit))
		return ""
	}
	if s == "" {
		p.fail(p.off, "empty name")
		return ""
	}
	p.next()
	return s
}

func (p *parser) end() {
	if p.err == nil && p.tok != token.EOF {
		p.fail(p.off, fmt.Sprintf("unexpected %s after list", p.found()))
	}
}
