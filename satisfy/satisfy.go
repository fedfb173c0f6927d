// Package satisfy implements the three-valued fast path for ground
// propositional queries (CheckTerm) and the slow path that falls back
// to SLD resolution for quantifiers, free variables, and derived
// predicates.
//
// CheckTerm recurses over the connectives directly, testing exact
// ground facts against state membership at the leaves; a leaf that
// can't be decided this way (a derived predicate, a free variable, an
// unresolved quantifier) returns Unknown rather than an error, and
// that Unknown is what triggers the resolver fallback.
package satisfy

import (
	"github.com/nwu-qrg/adlcore/clause"
	"github.com/nwu-qrg/adlcore/dequantify"
	"github.com/nwu-qrg/adlcore/domain"
	"github.com/nwu-qrg/adlcore/errs"
	"github.com/nwu-qrg/adlcore/eval"
	"github.com/nwu-qrg/adlcore/state"
	"github.com/nwu-qrg/adlcore/term"
)

// Tri is a three-valued boolean: True, False, or Unknown, using Kleene
// semantics for and/or.
type Tri int

const (
	False Tri = iota
	True
	Unknown
)

func fromBool(b bool) Tri {
	if b {
		return True
	}
	return False
}

func and2(a, b Tri) Tri {
	if a == False || b == False {
		return False
	}
	if a == Unknown || b == Unknown {
		return Unknown
	}
	return True
}

func or2(a, b Tri) Tri {
	if a == True || b == True {
		return True
	}
	if a == Unknown || b == Unknown {
		return Unknown
	}
	return False
}

func not1(a Tri) Tri {
	switch a {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

var comparisonOps = map[string]bool{"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

// CheckTerm decides t's truth value directly against the state and
// domain where possible, without invoking the resolver.
func CheckTerm(d *domain.Domain, st *state.State, t *term.Term) (Tri, error) {
	switch t.Kind {
	case term.KindVar:
		return Unknown, nil

	case term.KindConst:
		if t.Value != nil {
			if b, ok := t.Value.(bool); ok {
				return fromBool(b), nil
			}
		}
		if st.HasFact(t) {
			return True, nil
		}
		if d.IsFunc(t.Name) || d.IsDerived(t.Name) {
			return Unknown, nil
		}
		return False, nil

	case term.KindCompound:
		return checkCompound(d, st, t)
	}
	return Unknown, nil
}

func checkCompound(d *domain.Domain, st *state.State, t *term.Term) (Tri, error) {
	switch t.Name {
	case term.And:
		result := True
		for _, a := range t.Args {
			r, err := CheckTerm(d, st, a)
			if err != nil {
				return Unknown, err
			}
			result = and2(result, r)
			if result == False {
				return False, nil
			}
		}
		return result, nil

	case term.Or:
		result := False
		for _, a := range t.Args {
			r, err := CheckTerm(d, st, a)
			if err != nil {
				return Unknown, err
			}
			result = or2(result, r)
			if result == True {
				return True, nil
			}
		}
		return result, nil

	case term.Not:
		if len(t.Args) != 1 {
			return Unknown, errs.New(errs.Arity, "not/%d, expected 1", len(t.Args))
		}
		r, err := CheckTerm(d, st, t.Args[0])
		if err != nil {
			return Unknown, err
		}
		return not1(r), nil

	case term.Imply:
		if len(t.Args) != 2 {
			return Unknown, errs.New(errs.Arity, "imply/%d, expected 2", len(t.Args))
		}
		return checkCompound(d, st, term.Compound(term.Or, term.Compound(term.Not, t.Args[0]), t.Args[1]))

	case term.Forall, term.Exists:
		return Unknown, nil
	}

	if !t.IsGround() {
		return Unknown, nil
	}

	if isTypeName(d, t) {
		return checkTypePredicate(d, st, t), nil
	}

	if comparisonOps[t.Name] {
		a, err := eval.Evaluate(d, st, t.Args[0])
		if err != nil {
			return Unknown, err
		}
		b, err := eval.Evaluate(d, st, t.Args[1])
		if err != nil {
			return Unknown, err
		}
		ok, err := eval.Builtins()[t.Name]([]interface{}{a, b})
		if err != nil {
			return Unknown, err
		}
		return fromBool(ok.(bool)), nil
	}

	if d.IsFunc(t.Name) {
		v, err := eval.Evaluate(d, st, t)
		if err != nil {
			return Unknown, err
		}
		b, ok := v.(bool)
		if !ok {
			return Unknown, nil
		}
		return fromBool(b), nil
	}

	if d.IsDerived(t.Name) {
		return Unknown, nil
	}

	// Otherwise: partial-evaluate nested functions, then test membership
	// in state.facts.
	reduced, err := partialEval(d, st, t)
	if err != nil {
		return Unknown, err
	}
	if !reduced.IsGround() {
		return Unknown, nil
	}
	return fromBool(st.HasFact(reduced)), nil
}

func isTypeName(d *domain.Domain, t *term.Term) bool {
	return d.IsType(t.Name) && len(t.Args) == 1
}

func checkTypePredicate(d *domain.Domain, st *state.State, t *term.Term) Tri {
	if d.HasSubtypes(t.Name) {
		return Unknown
	}
	arg := t.Args[0]
	if arg.Kind != term.KindConst {
		return Unknown
	}
	if constTyp, ok := d.GetConstants()[arg.Name]; ok {
		return fromBool(constTyp == t.Name)
	}
	return fromBool(st.HasType(t.Name, arg.Name))
}

// partialEval evaluates any ground subterm that is a built-in or
// domain-function application, leaving the rest of the structure
// unchanged.
func partialEval(d *domain.Domain, st *state.State, t *term.Term) (*term.Term, error) {
	if t.Kind != term.KindCompound {
		return t, nil
	}
	args := make([]*term.Term, len(t.Args))
	for i, a := range t.Args {
		reduced, err := partialEval(d, st, a)
		if err != nil {
			return nil, err
		}
		args[i] = reduced
	}
	candidate := term.Compound(t.Name, args...)
	if candidate.IsGround() && (isBuiltinName(t.Name) || d.IsFunc(t.Name)) {
		v, err := eval.Evaluate(d, st, candidate)
		if err != nil {
			return nil, err
		}
		return term.FromValue(v), nil
	}
	return candidate, nil
}

func isBuiltinName(name string) bool {
	_, ok := eval.Builtins()[name]
	return ok
}

// Satisfy decides whether the conjunction of terms holds: CheckTerm
// decides as many as it can directly, and the resolver runs only when
// at least one result is Unknown and none is False.
func Satisfy(d *domain.Domain, st *state.State, terms []*term.Term, maxDepth int) (bool, error) {
	allTrue := true
	for _, t := range terms {
		r, err := CheckTerm(d, st, t)
		if err != nil {
			return false, err
		}
		if r == False {
			return false, nil
		}
		if r != True {
			allTrue = false
		}
	}
	if allTrue {
		return true, nil
	}
	found, _, err := resolveAll(d, st, dequantifyAll(d, st, terms), maxDepth, clause.ModeAny)
	return found, err
}

// Satisfiers finds every substitution that satisfies terms via full
// resolution.
func Satisfiers(d *domain.Domain, st *state.State, terms []*term.Term, maxDepth int) ([]term.Subst, error) {
	_, solutions, err := resolveAll(d, st, dequantifyAll(d, st, terms), maxDepth, clause.ModeAll)
	return solutions, err
}

// dequantifyAll expands any forall/exists among terms before handing
// them to the resolver, which has no quantifier handling of its own.
func dequantifyAll(d *domain.Domain, st *state.State, terms []*term.Term) []*term.Term {
	out := make([]*term.Term, len(terms))
	for i, t := range terms {
		out[i] = dequantify.Term(d, st, t)
	}
	return out
}

// knowledgeBase builds the resolver's clause list: derived-predicate
// axioms plus the state's types and facts recast as body-less clauses.
// Axiom bodies are dequantified against the current state before the
// resolver ever sees them, since resolveGoals has no forall/exists
// case of its own.
func knowledgeBase(d *domain.Domain, st *state.State) *clause.KnowledgeBase {
	axioms := d.GetClauses()
	clauses := make([]clause.Clause, len(axioms))
	for i, c := range axioms {
		clauses[i] = clause.Clause{Head: c.Head, Body: dequantifyAll(d, st, c.Body)}
	}
	for _, t := range st.Types() {
		clauses = append(clauses, clause.Fact(t))
	}
	for _, f := range st.Facts() {
		clauses = append(clauses, clause.Fact(f))
	}
	return clause.NewKnowledgeBase(clauses)
}

func resolveAll(d *domain.Domain, st *state.State, terms []*term.Term, maxDepth int, mode clause.Mode) (bool, []term.Subst, error) {
	r := &clause.Resolver{
		KB:       knowledgeBase(d, st),
		Funcs:    stateFuncs(d, st),
		MaxDepth: maxDepth,
	}
	return r.Resolve(terms, term.NewSubst(), mode)
}

// stateFuncs merges the global/domain function table with the state's
// own fluent values, so comparison/arithmetic goals inside a resolved
// clause body can read state fluents by name.
func stateFuncs(d *domain.Domain, st *state.State) clause.FuncTable {
	table := eval.FuncTable(d, st)
	for _, pair := range st.GetFluents() {
		if pair.Term.IsCompound() {
			continue
		}
		name := pair.Term.Name
		value := pair.Value
		if _, exists := table[name]; !exists {
			table[name] = func(args []interface{}) (interface{}, error) { return value, nil }
		}
	}
	return table
}
