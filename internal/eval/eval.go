// Package eval implements the PCTL evaluator of spec.md §4.4: memoized,
// per-(frontier, AST-node) evaluation of past-time boolean/temporal
// formulas over the frontier DAG built by package statemanager.
//
// Grounded on original_source/parser/ast.py's per-node eval() methods (the
// exact boolean identities for EY/AY/EP/AP/EH/AH/ES/AS), with the current
// frontier passed explicitly instead of a kwargs-threaded "current state".
// Evaluation is plain recursion over subformulas and parent edges, memoized
// per (frontier, AST node) in each frontier's verdict cache; it does not use
// an explicit worklist, so recursion depth grows with the length of the
// backward paths it walks.
package eval

import (
	"fmt"

	"github.com/moraneus/PoET/internal/ast"
	"github.com/moraneus/PoET/internal/frontier"
)

// Lookup resolves a frontier by ID, used to walk parent edges.
type Lookup func(id int) *frontier.Frontier

// Evaluate returns the truth value of formula at frontier f, memoizing
// every subformula it touches into f's verdict cache. Parent frontiers must
// already be fully evaluated for every subformula of `formula` — the State
// Manager guarantees this by only calling Evaluate on a frontier after all
// of its parents have been evaluated (spec.md §4.3 step 3), and by
// triggering re-evaluation of this frontier and every descendant whenever a
// new parent edge appears (spec.md §4.4).
func Evaluate(lookup Lookup, f *frontier.Frontier, formula ast.Formula) bool {
	if v, ok := f.CachedVerdict(formula.ID()); ok {
		return v
	}
	v := evalNode(lookup, f, formula)
	f.SetVerdict(formula.ID(), v)
	return v
}

func evalNode(lookup Lookup, f *frontier.Frontier, n ast.Formula) bool {
	switch t := n.(type) {
	case *ast.Atom:
		return f.Has(t.Name)
	case *ast.True:
		return true
	case *ast.False:
		return false
	case *ast.Not:
		return !Evaluate(lookup, f, t.F)
	case *ast.And:
		return Evaluate(lookup, f, t.Left) && Evaluate(lookup, f, t.Right)
	case *ast.Or:
		return Evaluate(lookup, f, t.Left) || Evaluate(lookup, f, t.Right)
	case *ast.Implies:
		return !Evaluate(lookup, f, t.Left) || Evaluate(lookup, f, t.Right)
	case *ast.Iff:
		p, q := Evaluate(lookup, f, t.Left), Evaluate(lookup, f, t.Right)
		return p == q
	case *ast.EY:
		return evalEY(lookup, f, t.F)
	case *ast.AY:
		return evalAY(lookup, f, t.F)
	case *ast.EP:
		return evalEP(lookup, f, n, t.F)
	case *ast.AP:
		return evalAP(lookup, f, n, t.F)
	case *ast.EH:
		return evalEH(lookup, f, n, t.F)
	case *ast.AH:
		return evalAH(lookup, f, n, t.F)
	case *ast.ES:
		return evalES(lookup, f, n, t.F, t.G)
	case *ast.AS:
		return evalAS(lookup, f, n, t.F, t.G)
	default:
		panic(fmt.Sprintf("eval: unhandled formula type %T", n))
	}
}

func parents(lookup Lookup, f *frontier.Frontier) []*frontier.Frontier {
	out := make([]*frontier.Frontier, len(f.Parents))
	for i, e := range f.Parents {
		out[i] = lookup(e.To)
	}
	return out
}

// EY φ: exists a parent where φ holds; false at the root.
func evalEY(lookup Lookup, f *frontier.Frontier, phi ast.Formula) bool {
	if f.IsRoot() {
		return false
	}
	for _, g := range parents(lookup, f) {
		if Evaluate(lookup, g, phi) {
			return true
		}
	}
	return false
}

// AY φ: every parent satisfies φ; vacuously true at the root (spec.md §9
// open-question decision: PCTL-literature convention, see DESIGN.md).
func evalAY(lookup Lookup, f *frontier.Frontier, phi ast.Formula) bool {
	if f.IsRoot() {
		return true
	}
	for _, g := range parents(lookup, f) {
		if !Evaluate(lookup, g, phi) {
			return false
		}
	}
	return true
}

// EP φ = φ(f) || EY(EP φ)(f): exists a past frontier on some backward path.
func evalEP(lookup Lookup, f *frontier.Frontier, self ast.Formula, phi ast.Formula) bool {
	if Evaluate(lookup, f, phi) {
		return true
	}
	if f.IsRoot() {
		return false
	}
	for _, g := range parents(lookup, f) {
		if Evaluate(lookup, g, self) {
			return true
		}
	}
	return false
}

// AP φ = φ(f) || (f is not root && AY(AP φ)(f)): every backward path reaches
// a frontier satisfying φ. At the root AP φ is just φ; the vacuous AY of the
// root is not used here.
func evalAP(lookup Lookup, f *frontier.Frontier, self ast.Formula, phi ast.Formula) bool {
	if Evaluate(lookup, f, phi) {
		return true
	}
	if f.IsRoot() {
		return false
	}
	for _, g := range parents(lookup, f) {
		if !Evaluate(lookup, g, self) {
			return false
		}
	}
	return true
}

// EH φ = φ(f) && (root(f) || EY(EH φ)(f)): φ held continuously back to the
// root along some backward path.
func evalEH(lookup Lookup, f *frontier.Frontier, self ast.Formula, phi ast.Formula) bool {
	if !Evaluate(lookup, f, phi) {
		return false
	}
	if f.IsRoot() {
		return true
	}
	for _, g := range parents(lookup, f) {
		if Evaluate(lookup, g, self) {
			return true
		}
	}
	return false
}

// AH φ = φ(f) && (root(f) || AY(AH φ)(f)): φ held continuously back to the
// root along every backward path.
func evalAH(lookup Lookup, f *frontier.Frontier, self ast.Formula, phi ast.Formula) bool {
	if !Evaluate(lookup, f, phi) {
		return false
	}
	if f.IsRoot() {
		return true
	}
	for _, g := range parents(lookup, f) {
		if !Evaluate(lookup, g, self) {
			return false
		}
	}
	return true
}

// E(φ S ψ) = ψ(f) || (φ(f) && EY(E(φ S ψ))(f)).
func evalES(lookup Lookup, f *frontier.Frontier, self ast.Formula, phi, psi ast.Formula) bool {
	if Evaluate(lookup, f, psi) {
		return true
	}
	if !Evaluate(lookup, f, phi) {
		return false
	}
	if f.IsRoot() {
		return false
	}
	for _, g := range parents(lookup, f) {
		if Evaluate(lookup, g, self) {
			return true
		}
	}
	return false
}

// A(φ S ψ) = ψ(f) || (φ(f) && f is not root && AY(A(φ S ψ))(f)).
func evalAS(lookup Lookup, f *frontier.Frontier, self ast.Formula, phi, psi ast.Formula) bool {
	if Evaluate(lookup, f, psi) {
		return true
	}
	if !Evaluate(lookup, f, phi) {
		return false
	}
	if f.IsRoot() {
		return false
	}
	for _, g := range parents(lookup, f) {
		if !Evaluate(lookup, g, self) {
			return false
		}
	}
	return true
}

// TemporalIDs returns the set of AST node IDs, among formula and its
// subformulas, whose verdicts are temporal (path-dependent) and therefore
// require cache invalidation when a frontier gains a new parent edge
// (spec.md §4.4).
func TemporalIDs(formula ast.Formula) map[int]bool {
	ids := make(map[int]bool)
	for _, f := range ast.Collect(formula) {
		if ast.IsTemporal(f) {
			ids[f.ID()] = true
		}
	}
	return ids
}
