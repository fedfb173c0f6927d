// Package adlcore is the top-level entry point exposing state
// construction from a problem, ground and lifted satisfaction queries,
// evaluation, action enumeration, and state transition/regression,
// wired together over the domain, state, eval, satisfy, effect, and
// ground packages.
//
// Engine is the single entry-point type: one struct threading a
// *config.Config and *zap.Logger through every operation, so callers
// never reach into the underlying packages directly.
package adlcore

import (
	"go.uber.org/zap"

	"github.com/nwu-qrg/adlcore/config"
	"github.com/nwu-qrg/adlcore/domain"
	"github.com/nwu-qrg/adlcore/effect"
	"github.com/nwu-qrg/adlcore/errs"
	"github.com/nwu-qrg/adlcore/eval"
	"github.com/nwu-qrg/adlcore/ground"
	"github.com/nwu-qrg/adlcore/satisfy"
	"github.com/nwu-qrg/adlcore/state"
	"github.com/nwu-qrg/adlcore/term"
)

// Problem is a minimal problem specification. Parsing surface syntax
// into one is out of scope here, so callers assemble a Problem
// directly from parsed or programmatically constructed terms.
type Problem struct {
	Objects    map[string]string // object name -> declared type
	InitFacts  []*term.Term
	InitValues []state.FluentPair
	GoalFacts  []*term.Term
	GoalValues []state.FluentPair
}

// Engine wires a Domain and a Config through every external
// operation.
type Engine struct {
	Domain *domain.Domain
	Config *config.Config
}

// New returns an Engine over d, applying opts to a default Config.
func New(d *domain.Domain, opts ...config.Option) *Engine {
	return &Engine{Domain: d, Config: config.New(opts...)}
}

func (e *Engine) logger() *zap.Logger {
	if e.Config != nil && e.Config.Logger != nil {
		return e.Config.Logger
	}
	return zap.NewNop()
}

// InitState builds the initial state from a problem's declared
// objects, facts, and fluent values.
func (e *Engine) InitState(p *Problem) (*state.State, error) {
	st := state.New()
	for obj, typ := range p.Objects {
		st.AddType(typ, obj)
	}
	for _, f := range p.InitFacts {
		st.AddFact(f)
	}
	for _, fp := range p.InitValues {
		if err := st.SetFluent(fp.Term, fp.Value); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// GoalState builds a partial state carrying only the fluents the goal
// requires.
func (e *Engine) GoalState(p *Problem) (*state.State, error) {
	st := state.New()
	for _, f := range p.GoalFacts {
		st.AddFact(f)
	}
	for _, fp := range p.GoalValues {
		if err := st.SetFluent(fp.Term, fp.Value); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// Satisfy decides whether terms all hold in st.
func (e *Engine) Satisfy(st *state.State, terms []*term.Term) (bool, error) {
	return satisfy.Satisfy(e.Domain, st, terms, e.Config.ResolverMaxDepth)
}

// Satisfiers finds every substitution under which terms all hold in st.
func (e *Engine) Satisfiers(st *state.State, terms []*term.Term) ([]term.Subst, error) {
	return satisfy.Satisfiers(e.Domain, st, terms, e.Config.ResolverMaxDepth)
}

// Evaluate reduces t to a Go value against st.
func (e *Engine) Evaluate(st *state.State, t *term.Term) (interface{}, error) {
	return eval.Evaluate(e.Domain, st, t)
}

// Ground instantiates one action schema against st, returning every
// grounding whose preconditions are not trivially false.
func (e *Engine) Ground(st *state.State, action *domain.ActionSchema) (*ground.GroundActionGroup, error) {
	statics := ground.Statics(e.Domain)
	return ground.GroundActions(e.Domain, st, action, statics, e.groundOpts())
}

// GroundActions grounds action against st, or every schema in
// declaration order when action is nil.
func (e *Engine) GroundActions(st *state.State, action *domain.ActionSchema) ([]*ground.GroundAction, error) {
	if action != nil {
		group, err := e.Ground(st, action)
		if err != nil {
			return nil, err
		}
		return group.All(), nil
	}
	return ground.GroundActionsAll(e.Domain, st, e.groundOpts())
}

func (e *Engine) groundOpts() ground.Options {
	return ground.Options{
		MaxGroundingsPerSchema: e.Config.MaxGroundingsPerSchema,
		DequantifyEagerly:      e.Config.DequantifyEagerly,
		ResolverMaxDepth:       e.Config.ResolverMaxDepth,
		Logger:                 e.logger(),
	}
}

// Available returns every ground action of every schema whose
// preconditions the state satisfies.
func (e *Engine) Available(st *state.State) ([]*ground.GroundAction, error) {
	all, err := e.GroundActions(st, nil)
	if err != nil {
		return nil, err
	}
	var out []*ground.GroundAction
	for _, ga := range all {
		ok, err := e.preconditionsHold(st, ga)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, ga)
		}
	}
	return out, nil
}

func (e *Engine) preconditionsHold(st *state.State, ga *ground.GroundAction) (bool, error) {
	for _, cl := range ga.Preconds {
		ok, err := e.clauseHolds(st, cl)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (e *Engine) clauseHolds(st *state.State, clause ground.Clause) (bool, error) {
	for _, lit := range clause {
		ok, err := e.literalHolds(st, lit)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (e *Engine) literalHolds(st *state.State, lit *term.Term) (bool, error) {
	if lit.IsCompoundNamed(term.Not) && len(lit.Args) == 1 {
		ok, err := e.Satisfy(st, []*term.Term{lit.Args[0]})
		return !ok, err
	}
	return e.Satisfy(st, []*term.Term{lit})
}

// Execute returns a copy of st with ga's diff applied.
func (e *Engine) Execute(st *state.State, ga *ground.GroundAction) (*state.State, error) {
	next := st.Copy()
	switch diff := ga.Effect.(type) {
	case *effect.GenericDiff:
		if err := effect.Apply(e.Domain, next, diff); err != nil {
			return nil, err
		}
	case *effect.ConditionalDiff:
		if err := effect.ApplyConditional(e.Domain, next, diff, ground.HoldsFn(e.Domain, st, e.Config.ResolverMaxDepth)); err != nil {
			return nil, err
		}
	default:
		return nil, errs.New(errs.MalformedEffect, "ground action %s carries no diff", ga.Name)
	}
	return next, nil
}

// Transition resolves a term (ground action head) or a
// *ground.GroundAction directly, then executes it.
func (e *Engine) Transition(st *state.State, actionOrTerm interface{}) (*state.State, error) {
	switch v := actionOrTerm.(type) {
	case *ground.GroundAction:
		return e.Execute(st, v)
	case *term.Term:
		ga, err := e.resolveGroundAction(st, v)
		if err != nil {
			return nil, err
		}
		return e.Execute(st, ga)
	default:
		return nil, errs.New(errs.UnknownSymbol, "transition: unsupported action reference %v", actionOrTerm)
	}
}

func (e *Engine) resolveGroundAction(st *state.State, head *term.Term) (*ground.GroundAction, error) {
	schema := e.Domain.GetAction(head.Name)
	if schema == nil {
		return nil, errs.New(errs.UnknownSymbol, "no action schema named %s", head.Name)
	}
	group, err := e.Ground(st, schema)
	if err != nil {
		return nil, err
	}
	ga, ok := group.Get(head)
	if !ok {
		return nil, errs.New(errs.IllFormedState, "no grounding of %s satisfies %s in the current state", head.Name, head)
	}
	return ga, nil
}

// Relevant returns ground actions whose effects intersect the goal
// state's fluents.
func (e *Engine) Relevant(st, goal *state.State) ([]*ground.GroundAction, error) {
	all, err := e.GroundActions(st, nil)
	if err != nil {
		return nil, err
	}
	var out []*ground.GroundAction
	for _, ga := range all {
		if effectIntersectsGoal(ga.Effect, goal) {
			out = append(out, ga)
		}
	}
	return out, nil
}

func effectIntersectsGoal(eff interface{}, goal *state.State) bool {
	switch diff := eff.(type) {
	case *effect.GenericDiff:
		return diffIntersectsGoal(diff, goal)
	case *effect.ConditionalDiff:
		for _, d := range diff.Diffs {
			if diffIntersectsGoal(d, goal) {
				return true
			}
		}
	}
	return false
}

func diffIntersectsGoal(diff *effect.GenericDiff, goal *state.State) bool {
	for _, a := range diff.Adds {
		if goal.HasFact(a) {
			return true
		}
	}
	for _, u := range diff.Updates {
		for _, fp := range goal.GetFluents() {
			if fp.Term.Equal(u.Fluent) {
				return true
			}
		}
	}
	return false
}

// Regress undoes ga's diff: restores the deleted atoms and removes the
// added ones. Numeric updates are not generally invertible, so those
// fluents are left at their post-action value (see DESIGN.md).
func (e *Engine) Regress(st *state.State, ga *ground.GroundAction) (*state.State, error) {
	prev := st.Copy()
	diff, ok := ga.Effect.(*effect.GenericDiff)
	if !ok {
		return nil, errs.New(errs.MalformedEffect, "regress requires an unconditional ground action, got conditional for %s", ga.Name)
	}
	for _, a := range diff.Adds {
		if err := prev.SetFluent(a, false); err != nil {
			return nil, err
		}
	}
	for _, d := range diff.Deletes {
		if err := prev.SetFluent(d, true); err != nil {
			return nil, err
		}
	}
	return prev, nil
}
