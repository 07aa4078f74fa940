// Package parser implements the PCTL formula grammar of spec.md §4.1: a
// lexer (lexer.go) plus a recursive-descent / precedence-climbing parser
// producing an internal/ast.Formula, grounded on original_source's
// PLY-based grammar (same token set, same precedence table, same
// productions) since no parser-generator or parser-combinator library
// appears anywhere in the retrieval pack.
package parser

import (
	"fmt"

	"github.com/moraneus/PoET/internal/ast"
)

// ParseError is a structured parse failure with source position (spec.md §7).
type ParseError struct {
	Line, Column int
	Message      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Parse parses PCTL source text into an AST, or returns a *ParseError /
// *LexError. It never returns a partial AST.
func Parse(src string) (ast.Formula, error) {
	p := &parser{lexer: NewLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	f, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != TokEOF {
		return nil, &ParseError{
			Line: p.tok.Line, Column: p.tok.Column,
			Message: fmt.Sprintf("unexpected token %q after formula", p.tok.Text),
		}
	}
	return f, nil
}

type parser struct {
	lexer *Lexer
	tok   Token
}

func (p *parser) advance() error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind TokenKind, what string) error {
	if p.tok.Kind != kind {
		return &ParseError{
			Line: p.tok.Line, Column: p.tok.Column,
			Message: fmt.Sprintf("expected %s, got %q", what, p.tok.Text),
		}
	}
	return p.advance()
}

// <-> is non-associative: exactly one top-level <-> is allowed; chaining
// requires explicit parentheses (spec.md §4.1).
func (p *parser) parseIff() (ast.Formula, error) {
	left, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind == TokIff {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		if p.tok.Kind == TokIff {
			return nil, &ParseError{
				Line: p.tok.Line, Column: p.tok.Column,
				Message: "'<->' is non-associative; parenthesize chained biconditionals",
			}
		}
		return ast.NewIff(left, right), nil
	}
	return left, nil
}

// -> is right-associative.
func (p *parser) parseImplies() (ast.Formula, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind == TokImplies {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		return ast.NewImplies(left, right), nil
	}
	return left, nil
}

// | is left-associative.
func (p *parser) parseOr() (ast.Formula, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewOr(left, right)
	}
	return left, nil
}

// & is left-associative.
func (p *parser) parseAnd() (ast.Formula, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewAnd(left, right)
	}
	return left, nil
}

// Unary negation and the past-time modalities bind tighter than any binary
// connective (spec.md §4.1: "unary temporal" is the highest precedence
// tier) and are right-associative by nature (EY AY φ parses as EY(AY(φ))).
func (p *parser) parseUnary() (ast.Formula, error) {
	switch p.tok.Kind {
	case TokNot:
		if err := p.advance(); err != nil {
			return nil, err
		}
		f, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewNot(f), nil
	case TokEY:
		return p.parseUnaryModality(func(f ast.Formula) ast.Formula { return ast.NewEY(f) })
	case TokAY:
		return p.parseUnaryModality(func(f ast.Formula) ast.Formula { return ast.NewAY(f) })
	case TokEP:
		return p.parseUnaryModality(func(f ast.Formula) ast.Formula { return ast.NewEP(f) })
	case TokAP:
		return p.parseUnaryModality(func(f ast.Formula) ast.Formula { return ast.NewAP(f) })
	case TokEH:
		return p.parseUnaryModality(func(f ast.Formula) ast.Formula { return ast.NewEH(f) })
	case TokAH:
		return p.parseUnaryModality(func(f ast.Formula) ast.Formula { return ast.NewAH(f) })
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parseUnaryModality(build func(ast.Formula) ast.Formula) (ast.Formula, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	f, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return build(f), nil
}

func (p *parser) parsePrimary() (ast.Formula, error) {
	switch p.tok.Kind {
	case TokIdent:
		name := p.tok.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewAtom(name), nil
	case TokTrue:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewTrue(), nil
	case TokFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewFalse(), nil
	case TokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		f, err := p.parseIff()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokRParen, "')'"); err != nil {
			return nil, err
		}
		return f, nil
	case TokA:
		return p.parseSince(func(f, g ast.Formula) ast.Formula { return ast.NewAS(f, g) })
	case TokE:
		return p.parseSince(func(f, g ast.Formula) ast.Formula { return ast.NewES(f, g) })
	default:
		return nil, &ParseError{
			Line: p.tok.Line, Column: p.tok.Column,
			Message: fmt.Sprintf("unexpected token %q", p.tok.Text),
		}
	}
}

// A(φ S ψ) / E(φ S ψ) — binary Since, only valid inside this exact
// production (spec.md §4.1: "Binary S appears only inside A(...) or
// E(...)").
func (p *parser) parseSince(build func(ast.Formula, ast.Formula) ast.Formula) (ast.Formula, error) {
	if err := p.advance(); err != nil { // consume A or E
		return nil, err
	}
	if err := p.expect(TokLParen, "'('"); err != nil {
		return nil, err
	}
	left, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokS, "'S'"); err != nil {
		return nil, err
	}
	right, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokRParen, "')'"); err != nil {
		return nil, err
	}
	return build(left, right), nil
}
