// Package ground implements the grounder: dequantification,
// static-fluent simplification, CNF normalisation, conditional-effect
// flattening, and the Cartesian-product instantiation loop that turns
// a lifted ActionSchema into concrete GroundActions.
package ground

import (
	"go.uber.org/zap"

	"github.com/nwu-qrg/adlcore/domain"
	"github.com/nwu-qrg/adlcore/effect"
	"github.com/nwu-qrg/adlcore/errs"
	"github.com/nwu-qrg/adlcore/satisfy"
	"github.com/nwu-qrg/adlcore/state"
	"github.com/nwu-qrg/adlcore/term"
)

// GroundAction is one fully instantiated action: its ground head term,
// preconditions as a CNF clause list, and its effect as either a
// *effect.GenericDiff or a *effect.ConditionalDiff.
type GroundAction struct {
	Name     string
	Term     *term.Term
	Preconds []Clause
	Effect   interface{}
}

// GroundActionGroup maps a ground head term's hash to its GroundAction,
// for one schema name.
type GroundActionGroup struct {
	Name    string
	byHash  map[string]*GroundAction
	inOrder []*GroundAction
}

// Get looks up the GroundAction for a specific ground head term.
func (g *GroundActionGroup) Get(head *term.Term) (*GroundAction, bool) {
	a, ok := g.byHash[head.Hash()]
	return a, ok
}

// All returns every GroundAction in the group, in instantiation order.
func (g *GroundActionGroup) All() []*GroundAction { return g.inOrder }

// Options configures a grounding pass.
type Options struct {
	MaxGroundingsPerSchema int
	// DequantifyEagerly, when false (the default), runs a cheap static
	// check against the schema's undequantified precondition before
	// expanding any forall/exists and enumerating the Cartesian product,
	// skipping both entirely when that check alone proves the schema can
	// never ground. When true, that short-circuit is skipped and every
	// schema is dequantified unconditionally.
	DequantifyEagerly bool
	ResolverMaxDepth  int
	Logger            *zap.Logger
}

// Statics computes the set of predicate/function symbols whose
// extension never appears on the left of an effect anywhere in the
// domain. Derived predicates are excluded even when no effect targets
// them directly, since their truth follows from other, possibly
// mutated, facts via their axiom bodies.
func Statics(d *domain.Domain) map[string]bool {
	mutated := map[string]bool{}
	for _, a := range d.GetActions() {
		collectMutated(a.Effect, mutated)
	}
	statics := map[string]bool{}
	for name := range d.Functions() {
		if !mutated[name] {
			statics[name] = true
		}
	}
	for name := range d.Predicates() {
		if !mutated[name] && !d.IsDerived(name) {
			statics[name] = true
		}
	}
	return statics
}

func collectMutated(t *term.Term, out map[string]bool) {
	if t == nil || !t.IsCompound() {
		return
	}
	switch t.Name {
	case term.And:
		for _, a := range t.Args {
			collectMutated(a, out)
		}
	case term.When:
		if len(t.Args) == 2 {
			collectMutated(t.Args[1], out)
		}
	case term.Forall:
		if len(t.Args) == 2 {
			collectMutated(t.Args[1], out)
		}
	case term.Not:
		if len(t.Args) == 1 {
			markTarget(t.Args[0], out)
		}
	case term.Assign, term.Increase, term.Decrease, term.ScaleUp, term.ScaleDn:
		if len(t.Args) == 2 {
			markTarget(t.Args[0], out)
		}
	default:
		markTarget(t, out)
	}
}

func markTarget(t *term.Term, out map[string]bool) {
	if t != nil {
		out[t.Name] = true
	}
}

// GroundActions implements groundactions(domain, state, action) for a
// single schema, returning its GroundActionGroup.
func GroundActions(d *domain.Domain, st *state.State, a *domain.ActionSchema, statics map[string]bool, opts Options) (*GroundActionGroup, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	group := &GroundActionGroup{Name: a.Name, byHash: map[string]*GroundAction{}}

	if !opts.DequantifyEagerly {
		cheap := SimplifyStatics(d, st, a.Precond, statics)
		if isBottom(cheap) {
			log.Debug("grounder: schema discarded before dequantifying, static precondition is false", zap.String("schema", a.Name))
			return group, nil
		}
	}

	precond := Dequantify(d, st, a.Precond)
	rawEffect := Dequantify(d, st, a.Effect)
	conds, effects := FlattenConditions(rawEffect)

	tuples, err := cartesian(d, st, a.ArgTypes())
	if err != nil {
		return nil, err
	}
	if opts.MaxGroundingsPerSchema > 0 && len(tuples) > opts.MaxGroundingsPerSchema {
		return nil, errs.New(errs.GroundingLimit, "schema %s: %d instantiations exceeds limit %d", a.Name, len(tuples), opts.MaxGroundingsPerSchema)
	}

	vars := a.ArgVars()
	for _, tuple := range tuples {
		subst := term.NewSubst()
		for i, v := range vars {
			subst[v] = term.Const(tuple[i])
		}

		substPrecond := term.Substitute(precond, subst)
		simplified := SimplifyStatics(d, st, substPrecond, statics)
		if isBottom(simplified) {
			continue
		}

		var merged *effect.GenericDiff
		var branchConds []*term.Term
		var branchDiffs []*effect.GenericDiff
		for i := range conds {
			c := SimplifyStatics(d, st, term.Substitute(conds[i], subst), statics)
			if isBottom(c) {
				continue
			}
			diffTerm := term.Substitute(effects[i], subst)
			diff, err := effect.EffectDiff(d, st, diffTerm)
			if err != nil {
				return nil, err
			}
			if isTop(c) {
				if merged == nil {
					merged = &effect.GenericDiff{}
				}
				merged.Adds = append(merged.Adds, diff.Adds...)
				merged.Deletes = append(merged.Deletes, diff.Deletes...)
				merged.Updates = append(merged.Updates, diff.Updates...)
				continue
			}
			branchConds = append(branchConds, c)
			branchDiffs = append(branchDiffs, diff)
		}

		if merged == nil && len(branchDiffs) == 0 {
			log.Debug("grounder: discarding instantiation, no live effect branches", zap.String("schema", a.Name))
			continue
		}

		preconds := ToCNF(simplified)

		head := term.Compound(a.Name, constTerms(tuple)...)

		var eff interface{}
		if len(branchDiffs) == 0 {
			eff = merged
		} else {
			allConds, allDiffs := branchConds, branchDiffs
			if merged != nil {
				allConds = append([]*term.Term{term.Bool(true)}, branchConds...)
				allDiffs = append([]*effect.GenericDiff{merged}, branchDiffs...)
			}
			eff = &effect.ConditionalDiff{Conds: allConds, Diffs: allDiffs}
		}

		ga := &GroundAction{Name: a.Name, Term: head, Preconds: preconds, Effect: eff}
		group.byHash[head.Hash()] = ga
		group.inOrder = append(group.inOrder, ga)
		log.Debug("grounder: emitted ground action", zap.String("head", head.String()))
	}

	return group, nil
}

func constTerms(names []string) []*term.Term {
	out := make([]*term.Term, len(names))
	for i, n := range names {
		out[i] = term.Const(n)
	}
	return out
}

func isBottom(t *term.Term) bool {
	return t.IsConst() && t.Value == false
}

func isTop(t *term.Term) bool {
	return t.IsConst() && t.Value == true
}

// cartesian builds the Cartesian product of declared-object tuples for
// each parameter type in order, leftmost slowest.
func cartesian(d *domain.Domain, st *state.State, types []string) ([][]string, error) {
	if len(types) == 0 {
		return [][]string{{}}, nil
	}
	domains := make([][]string, len(types))
	for i, t := range types {
		domains[i] = d.GetObjects(st, t)
	}
	var out [][]string
	var rec func(i int, prefix []string)
	rec = func(i int, prefix []string) {
		if i == len(domains) {
			out = append(out, append([]string{}, prefix...))
			return
		}
		for _, obj := range domains[i] {
			rec(i+1, append(prefix, obj))
		}
	}
	rec(0, nil)
	return out, nil
}

// GroundActionsAll grounds every schema in domain declaration order.
func GroundActionsAll(d *domain.Domain, st *state.State, opts Options) ([]*GroundAction, error) {
	statics := Statics(d)
	var out []*GroundAction
	for _, a := range d.GetActions() {
		group, err := GroundActions(d, st, a, statics, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, group.All()...)
	}
	return out, nil
}

// holdsFn adapts satisfy.CheckTerm/Satisfy into the closure
// effect.ApplyConditional expects, falling back to the resolver when
// the fast path is unknown.
func holdsFn(d *domain.Domain, st *state.State, maxDepth int) func(*term.Term) (bool, error) {
	return func(cond *term.Term) (bool, error) {
		if isTop(cond) {
			return true, nil
		}
		return satisfy.Satisfy(d, st, []*term.Term{cond}, maxDepth)
	}
}

// HoldsFn exposes holdsFn for callers (execute/transition) applying a
// ConditionalDiff against the current state.
func HoldsFn(d *domain.Domain, st *state.State, maxDepth int) func(*term.Term) (bool, error) {
	return holdsFn(d, st, maxDepth)
}
