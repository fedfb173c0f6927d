// Package eval reduces ground terms to values using the state and a
// registry of built-in arithmetic/comparison functions plus
// domain-defined numeric functions.
package eval

import (
	"github.com/nwu-qrg/adlcore/clause"
	"github.com/nwu-qrg/adlcore/domain"
	"github.com/nwu-qrg/adlcore/errs"
	"github.com/nwu-qrg/adlcore/state"
	"github.com/nwu-qrg/adlcore/term"
)

// FuncTable merges the global built-ins with a domain's funcdefs, both
// keyed by symbol, into the one lookup the resolver uses. Evaluate
// does not use this table: it checks Builtins() first and the domain's
// funcdefs second. st
// is threaded through so a funcdef body that reads a stored fluent
// (rather than just its own parameters) sees the real world state.
// Domain functions with a body shadow a built-in of the same name.
func FuncTable(d *domain.Domain, st *state.State) clause.FuncTable {
	table := Builtins()
	for name, def := range domainFuncs(d, st) {
		table[name] = def
	}
	return table
}

func domainFuncs(d *domain.Domain, st *state.State) clause.FuncTable {
	out := clause.FuncTable{}
	for name, fd := range d.Functions() {
		if fd.Body == nil {
			continue
		}
		fd := fd
		out[name] = func(args []interface{}) (interface{}, error) {
			if len(args) != len(fd.Params) {
				return nil, errs.New(errs.Arity, "%s/%d, expected %d", name, len(args), len(fd.Params))
			}
			subst := term.NewSubst()
			for i, p := range fd.Params {
				subst[p] = term.FromValue(args[i])
			}
			return Evaluate(d, st, term.Substitute(fd.Body, subst))
		}
	}
	return out
}

// Evaluate reduces t to a Go value.
func Evaluate(d *domain.Domain, st *state.State, t *term.Term) (interface{}, error) {
	switch t.Kind {
	case term.KindConst:
		if t.Value != nil {
			return t.Value, nil
		}
		if d.IsFunc(t.Name) {
			return st.GetFluent(term.Const(t.Name)), nil
		}
		return t.Name, nil

	case term.KindCompound:
		if fn, ok := Builtins()[t.Name]; ok {
			args, err := evalArgs(d, st, t.Args)
			if err != nil {
				return nil, err
			}
			return fn(args)
		}
		if fd, ok := d.GetFunction(t.Name); ok && fd.Body != nil {
			if len(fd.Params) != len(t.Args) {
				return nil, errs.New(errs.Arity, "%s/%d, expected %d", t.Name, len(t.Args), len(fd.Params))
			}
			subst := term.NewSubst()
			for i, p := range fd.Params {
				subst[p] = t.Args[i]
			}
			return Evaluate(d, st, term.Substitute(fd.Body, subst))
		}
		argTerms, err := reduceArgs(d, st, t.Args)
		if err != nil {
			return nil, err
		}
		return st.GetFluent(term.Compound(t.Name, argTerms...)), nil

	default:
		return nil, errs.New(errs.UnknownSymbol, "cannot evaluate unbound variable %s", t)
	}
}

func evalArgs(d *domain.Domain, st *state.State, args []*term.Term) ([]interface{}, error) {
	out := make([]interface{}, len(args))
	for i, a := range args {
		v, err := Evaluate(d, st, a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// reduceArgs evaluates any nested function-application argument down
// to a Const term so the result can be used as an argument tuple for a
// state fluent lookup, leaving plain object/constant arguments as-is.
func reduceArgs(d *domain.Domain, st *state.State, args []*term.Term) ([]*term.Term, error) {
	out := make([]*term.Term, len(args))
	for i, a := range args {
		if a.IsCompound() && (isBuiltin(a.Name) || d.IsFunc(a.Name)) {
			v, err := Evaluate(d, st, a)
			if err != nil {
				return nil, err
			}
			out[i] = term.FromValue(v)
			continue
		}
		out[i] = a
	}
	return out, nil
}

func isBuiltin(name string) bool {
	_, ok := Builtins()[name]
	return ok
}
