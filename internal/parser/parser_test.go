package parser_test

import (
	"testing"

	"github.com/moraneus/PoET/internal/parser"
)

// TestRoundtrip implements spec.md §8 scenario S6: parse -> pretty-print ->
// parse must produce an AST with the same string form.
func TestRoundtrip(t *testing.T) {
	formulas := []string{
		"p",
		"!p",
		"p & q | r",
		"A(p S q)",
		"EP(AP(p))",
		"EH(p -> EY(q))",
	}

	for _, src := range formulas {
		f1, err := parser.Parse(src)
		if err != nil {
			t.Fatalf("parse(%q) failed: %v", src, err)
		}
		printed := f1.String()

		f2, err := parser.Parse(printed)
		if err != nil {
			t.Fatalf("parse(%q) (reparse of %q) failed: %v", printed, src, err)
		}

		if f1.String() != f2.String() {
			t.Errorf("roundtrip mismatch for %q: first=%q second=%q", src, f1.String(), f2.String())
		}
	}
}

func TestPrecedence(t *testing.T) {
	f, err := parser.Parse("p & q | r")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	// & binds tighter than |, so this should parse as (p & q) | r.
	want := "p & q | r"
	if f.String() != want {
		t.Errorf("got %q, want %q", f.String(), want)
	}
}

func TestImpliesRightAssociative(t *testing.T) {
	f, err := parser.Parse("p -> q -> r")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := "p -> q -> r"
	if f.String() != want {
		t.Errorf("got %q, want %q", f.String(), want)
	}
}

func TestIffNonAssociative(t *testing.T) {
	_, err := parser.Parse("p <-> q <-> r")
	if err == nil {
		t.Errorf("expected error for chained <->, got none")
	}
}

func TestSinceOnlyInsideAE(t *testing.T) {
	_, err := parser.Parse("p S q")
	if err == nil {
		t.Errorf("expected error: bare 'S' outside A(...)/E(...)")
	}
}

func TestSyntaxError(t *testing.T) {
	_, err := parser.Parse("p &")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	pe, ok := err.(*parser.ParseError)
	if !ok {
		t.Fatalf("expected *parser.ParseError, got %T", err)
	}
	if pe.Line == 0 {
		t.Errorf("expected a populated line number")
	}
}

func TestIllegalCharacter(t *testing.T) {
	_, err := parser.Parse("p @ q")
	if err == nil {
		t.Fatalf("expected lex error")
	}
}
