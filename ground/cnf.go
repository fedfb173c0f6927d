package ground

import "github.com/nwu-qrg/adlcore/term"

// Clause is one disjunctive clause of a CNF normal form: a list of
// literals, implicitly joined by or. A literal is either an atom or
// not(atom); nothing deeper survives CNF conversion.
type Clause []*term.Term

// ToCNF normalises t into a conjunction of disjunctive clauses. t must
// already be free of quantifiers (callers run Dequantify first).
func ToCNF(t *term.Term) []Clause {
	nnf := toNNF(t, false)
	return distribute(nnf)
}

// toNNF pushes negation to the leaves (De Morgan), eliminating imply
// along the way; negate flips the polarity of the term being visited.
func toNNF(t *term.Term, negate bool) *term.Term {
	if !t.IsCompound() {
		if negate {
			return term.Compound(term.Not, t)
		}
		return t
	}

	switch t.Name {
	case term.Not:
		return toNNF(t.Args[0], !negate)

	case term.Imply:
		lhs := toNNF(t.Args[0], !negate)
		rhs := toNNF(t.Args[1], negate)
		if negate {
			return term.Compound(term.And, lhs, rhs)
		}
		return term.Compound(term.Or, lhs, rhs)

	case term.And:
		args := mapNNF(t.Args, negate)
		if negate {
			return term.Compound(term.Or, args...)
		}
		return term.Compound(term.And, args...)

	case term.Or:
		args := mapNNF(t.Args, negate)
		if negate {
			return term.Compound(term.And, args...)
		}
		return term.Compound(term.Or, args...)

	default:
		if negate {
			return term.Compound(term.Not, t)
		}
		return t
	}
}

func mapNNF(args []*term.Term, negate bool) []*term.Term {
	out := make([]*term.Term, len(args))
	for i, a := range args {
		out[i] = toNNF(a, negate)
	}
	return out
}

// distribute converts an NNF term into CNF clauses by distributing or
// over and.
func distribute(t *term.Term) []Clause {
	if !t.IsCompound() {
		return []Clause{{t}}
	}
	switch t.Name {
	case term.Not:
		return []Clause{{t}}
	case term.And:
		var out []Clause
		for _, a := range t.Args {
			out = append(out, distribute(a)...)
		}
		return out
	case term.Or:
		clauses := []Clause{{}}
		for _, a := range t.Args {
			subs := distribute(a)
			clauses = crossJoin(clauses, subs)
		}
		return clauses
	default:
		return []Clause{{t}}
	}
}

// crossJoin combines every clause in left with every clause in right
// by concatenation, implementing the distributive law for one more
// disjunct.
func crossJoin(left, right []Clause) []Clause {
	out := make([]Clause, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			combined := make(Clause, 0, len(l)+len(r))
			combined = append(combined, l...)
			combined = append(combined, r...)
			out = append(out, combined)
		}
	}
	return out
}
