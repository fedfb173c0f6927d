// Package dequantify replaces forall/exists over a typed variable with
// the conjunction/disjunction of its body over the declared objects of
// that type. It has no dependency on the grounder or the satisfaction
// engine so both can share it without a cycle: the grounder applies it
// to preconditions/effects before instantiation, and the satisfaction
// engine applies it lazily when its fast path defers a quantified goal
// to the resolver.
package dequantify

import (
	"github.com/nwu-qrg/adlcore/domain"
	"github.com/nwu-qrg/adlcore/state"
	"github.com/nwu-qrg/adlcore/term"
)

// Term replaces every forall/exists in t, recursively.
func Term(d *domain.Domain, st *state.State, t *term.Term) *term.Term {
	if t == nil || !t.IsCompound() {
		return t
	}
	switch t.Name {
	case term.Forall, term.Exists:
		return one(d, st, t)
	default:
		args := make([]*term.Term, len(t.Args))
		for i, a := range t.Args {
			args[i] = Term(d, st, a)
		}
		return term.Compound(t.Name, args...)
	}
}

func one(d *domain.Domain, st *state.State, t *term.Term) *term.Term {
	if len(t.Args) != 2 {
		return t
	}
	binder := t.Args[0]
	body := Term(d, st, t.Args[1])

	typ, _ := binder.Value.(string)
	objects := d.GetObjects(st, typ)

	connective := term.And
	if t.Name == term.Exists {
		connective = term.Or
	}

	instances := make([]*term.Term, len(objects))
	for i, obj := range objects {
		subst := term.NewSubst()
		subst[binder.Name] = term.Const(obj)
		instances[i] = term.Substitute(body, subst)
	}
	if len(instances) == 0 {
		if connective == term.And {
			return term.Bool(true)
		}
		return term.Bool(false)
	}
	return term.Compound(connective, instances...)
}
