package ground

import (
	"github.com/nwu-qrg/adlcore/dequantify"
	"github.com/nwu-qrg/adlcore/domain"
	"github.com/nwu-qrg/adlcore/state"
	"github.com/nwu-qrg/adlcore/term"
)

// Dequantify replaces every forall/exists over a typed variable with
// the conjunction/disjunction of its body substituted over the
// declared objects of that type.
func Dequantify(d *domain.Domain, st *state.State, t *term.Term) *term.Term {
	return dequantify.Term(d, st, t)
}

// FlattenConditions splits a dequantified effect into parallel
// condition/effect sequences: top-level conjuncts become separate
// branches; when(cond, eff) contributes (cond, eff); any other
// top-level conjunct contributes (⊤, eff).
func FlattenConditions(effect *term.Term) (conds []*term.Term, effects []*term.Term) {
	if effect == nil {
		return nil, nil
	}
	if effect.IsCompoundNamed(term.And) {
		for _, e := range effect.Args {
			c, e2 := FlattenConditions(e)
			conds = append(conds, c...)
			effects = append(effects, e2...)
		}
		return conds, effects
	}
	if effect.IsCompoundNamed(term.When) && len(effect.Args) == 2 {
		return []*term.Term{effect.Args[0]}, []*term.Term{effect.Args[1]}
	}
	return []*term.Term{term.Bool(true)}, []*term.Term{effect}
}

// SimplifyStatics evaluates static atoms against state and
// constant-folds connectives, returning ⊤, ⊥, or a partially
// simplified term.
func SimplifyStatics(d *domain.Domain, st *state.State, t *term.Term, statics map[string]bool) *term.Term {
	if t == nil {
		return term.Bool(true)
	}
	if t.IsVar() {
		return t
	}
	if t.IsConst() {
		if t.Value != nil || !statics[t.Name] {
			return t
		}
		if st.HasFact(t) {
			return term.Bool(true)
		}
		return term.Bool(false)
	}

	switch t.Name {
	case term.And:
		var kept []*term.Term
		for _, a := range t.Args {
			s := SimplifyStatics(d, st, a, statics)
			if isBottom(s) {
				return term.Bool(false)
			}
			if isTop(s) {
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) == 0 {
			return term.Bool(true)
		}
		if len(kept) == 1 {
			return kept[0]
		}
		return term.Compound(term.And, kept...)

	case term.Or:
		var kept []*term.Term
		for _, a := range t.Args {
			s := SimplifyStatics(d, st, a, statics)
			if isTop(s) {
				return term.Bool(true)
			}
			if isBottom(s) {
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) == 0 {
			return term.Bool(false)
		}
		if len(kept) == 1 {
			return kept[0]
		}
		return term.Compound(term.Or, kept...)

	case term.Not:
		if len(t.Args) != 1 {
			return t
		}
		s := SimplifyStatics(d, st, t.Args[0], statics)
		if isTop(s) {
			return term.Bool(false)
		}
		if isBottom(s) {
			return term.Bool(true)
		}
		return term.Compound(term.Not, s)

	default:
		if !t.IsGround() || !statics[t.Name] {
			return t
		}
		if st.HasFact(t) {
			return term.Bool(true)
		}
		return term.Bool(false)
	}
}
