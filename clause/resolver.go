package clause

import (
	"sync/atomic"

	"github.com/nwu-qrg/adlcore/errs"
	"github.com/nwu-qrg/adlcore/term"
)

// Func is a pure function over evaluated arguments, as used by both
// comparison/arithmetic goals and domain funcdefs.
type Func func(args []interface{}) (interface{}, error)

// FuncTable maps a built-in symbol to its implementation.
type FuncTable map[string]Func

// Mode selects whether Resolve stops at the first success or collects
// every solution.
type Mode int

const (
	// ModeAny returns on the first success.
	ModeAny Mode = iota
	// ModeAll returns every solution to the conjunction of goals.
	ModeAll
)

// Resolver runs SLD resolution over a knowledge base with a
// configurable function table and depth bound. Goal bodies can recurse
// through derived-predicate clauses, so resolution needs a depth bound
// to guarantee termination on recursive axioms.
type Resolver struct {
	KB       *KnowledgeBase
	Funcs    FuncTable
	MaxDepth int

	renameCounter int64
}

// Resolve runs SLD resolution over goals starting from subst.
func (r *Resolver) Resolve(goals []*term.Term, subst term.Subst, mode Mode) (bool, []term.Subst, error) {
	var solutions []term.Subst
	found, err := r.resolveGoals(goals, subst, 0, mode, &solutions)
	if err != nil {
		return false, nil, err
	}
	return found, solutions, nil
}

func (r *Resolver) resolveGoals(goals []*term.Term, subst term.Subst, depth int, mode Mode, out *[]term.Subst) (bool, error) {
	if depth > r.MaxDepth {
		return false, errs.New(errs.ResolverLimit, "exceeded max depth %d", r.MaxDepth)
	}
	if len(goals) == 0 {
		*out = append(*out, subst.Clone())
		return true, nil
	}

	goal := term.Substitute(goals[0], subst)
	rest := goals[1:]

	switch {
	case goal.IsCompoundNamed(term.And):
		return r.resolveGoals(append(append([]*term.Term{}, goal.Args...), rest...), subst, depth+1, mode, out)

	case goal.IsCompoundNamed(term.Imply):
		if len(goal.Args) != 2 {
			return false, errs.New(errs.Arity, "imply/%d, expected 2", len(goal.Args))
		}
		disj := term.Compound(term.Or, term.Compound(term.Not, goal.Args[0]), goal.Args[1])
		return r.resolveGoals(append([]*term.Term{disj}, rest...), subst, depth+1, mode, out)

	case goal.IsCompoundNamed(term.Or):
		anyFound := false
		for _, alt := range goal.Args {
			found, err := r.resolveGoals(append([]*term.Term{alt}, rest...), subst, depth+1, mode, out)
			if err != nil {
				return anyFound, err
			}
			if found {
				anyFound = true
				if mode == ModeAny {
					return true, nil
				}
			}
		}
		return anyFound, nil

	case goal.IsCompoundNamed(term.Not):
		if len(goal.Args) != 1 {
			return false, errs.New(errs.Arity, "not/%d, expected 1", len(goal.Args))
		}
		var inner []term.Subst
		found, err := r.resolveGoals([]*term.Term{goal.Args[0]}, subst, depth+1, ModeAny, &inner)
		if err != nil {
			return false, err
		}
		if found {
			return false, nil
		}
		return r.resolveGoals(rest, subst, depth+1, mode, out)

	case r.Funcs != nil && goal.IsCompound() && isBuiltinGoal(r.Funcs, goal.Name):
		val, err := r.evalArgs(goal, subst)
		if err != nil {
			return false, err
		}
		ok, err := callBool(r.Funcs[goal.Name], val)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		return r.resolveGoals(rest, subst, depth+1, mode, out)

	default:
		anyFound := false
		for _, c := range r.KB.Candidates(goal.Name) {
			renamed := r.rename(c)
			newSubst, ok := term.Unify(goal, renamed.Head, subst)
			if !ok {
				continue
			}
			found, err := r.resolveGoals(append(append([]*term.Term{}, renamed.Body...), rest...), newSubst, depth+1, mode, out)
			if err != nil {
				return anyFound, err
			}
			if found {
				anyFound = true
				if mode == ModeAny {
					return true, nil
				}
			}
		}
		return anyFound, nil
	}
}

func isBuiltinGoal(funcs FuncTable, name string) bool {
	_, ok := funcs[name]
	return ok
}

func callBool(f Func, args []interface{}) (bool, error) {
	result, err := f(args)
	if err != nil {
		return false, err
	}
	if b, ok := result.(bool); ok {
		return b, nil
	}
	return result != nil, nil
}

// evalArgs substitutes and evaluates goal's arguments down to plain Go
// values, recursing through nested built-in function applications.
func (r *Resolver) evalArgs(goal *term.Term, subst term.Subst) ([]interface{}, error) {
	out := make([]interface{}, len(goal.Args))
	for i, a := range goal.Args {
		v, err := r.evalArg(a, subst)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r *Resolver) evalArg(t *term.Term, subst term.Subst) (interface{}, error) {
	t = term.Substitute(t, subst)
	switch t.Kind {
	case term.KindConst:
		if t.Value != nil {
			return t.Value, nil
		}
		return t.Name, nil
	case term.KindCompound:
		if r.Funcs != nil {
			if f, ok := r.Funcs[t.Name]; ok {
				args, err := r.evalArgs(t, subst)
				if err != nil {
					return nil, err
				}
				return f(args)
			}
		}
		return nil, errs.New(errs.UnknownSymbol, "cannot evaluate non-ground or unknown compound %s", t)
	default:
		return nil, errs.New(errs.UnknownSymbol, "unbound variable %s in evaluated position", t)
	}
}

// rename produces a fresh copy of c with every variable renamed to a
// process-unique name, so recursive uses of the same clause (e.g. a
// transitive axiom matched twice in one proof) don't capture each
// other's bindings.
func (r *Resolver) rename(c Clause) Clause {
	n := atomic.AddInt64(&r.renameCounter, 1)
	mapping := map[string]string{}
	return Clause{
		Head: renameTerm(c.Head, mapping, n),
		Body: renameTerms(c.Body, mapping, n),
	}
}

func renameTerms(ts []*term.Term, mapping map[string]string, n int64) []*term.Term {
	out := make([]*term.Term, len(ts))
	for i, t := range ts {
		out[i] = renameTerm(t, mapping, n)
	}
	return out
}

func renameTerm(t *term.Term, mapping map[string]string, n int64) *term.Term {
	switch t.Kind {
	case term.KindVar:
		fresh, ok := mapping[t.Name]
		if !ok {
			fresh = freshName(t.Name, n)
			mapping[t.Name] = fresh
		}
		if typ, ok := t.Value.(string); ok {
			return term.QuantifiedVar(fresh, typ)
		}
		return term.Var(fresh)
	case term.KindConst:
		return t
	default:
		return term.Compound(t.Name, renameTerms(t.Args, mapping, n)...)
	}
}

func freshName(base string, n int64) string {
	buf := make([]byte, 0, len(base)+8)
	buf = append(buf, base...)
	buf = append(buf, '#')
	buf = appendInt(buf, n)
	return string(buf)
}

func appendInt(buf []byte, n int64) []byte {
	if n == 0 {
		return append(buf, '0')
	}
	start := len(buf)
	for n > 0 {
		buf = append(buf, byte('0'+n%10))
		n /= 10
	}
	// reverse the digits just appended
	for i, j := start, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}
