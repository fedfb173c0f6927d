// Package effect converts effect Terms into structured diffs and
// applies those diffs to a state.
//
// A GenericDiff is an add list and a delete list plus an ordered
// numeric-update sequence for assign/increase/decrease/scale-up/
// scale-down. ConditionalDiff adds branching on top: each branch
// contributes its GenericDiff only when its guard term holds at
// application time, covering the when(cond, eff) case.
package effect

import (
	"github.com/nwu-qrg/adlcore/domain"
	"github.com/nwu-qrg/adlcore/errs"
	"github.com/nwu-qrg/adlcore/eval"
	"github.com/nwu-qrg/adlcore/state"
	"github.com/nwu-qrg/adlcore/term"
)

// Update is one numeric-assignment instruction: set Fluent to the
// value obtained by applying Op to its current value and Operand.
type Update struct {
	Fluent  *term.Term
	Op      string // term.Assign, term.Increase, term.Decrease, term.ScaleUp, term.ScaleDn
	Operand *term.Term
}

// GenericDiff is the unconditional part of an effect: atoms to add,
// atoms to delete, and an ordered sequence of numeric updates.
type GenericDiff struct {
	Adds    []*term.Term
	Deletes []*term.Term
	Updates []Update
}

// ConditionalDiff is a branching effect: branch i contributes Diffs[i]
// iff Conds[i] holds at application time.
type ConditionalDiff struct {
	Conds []*term.Term
	Diffs []*GenericDiff
}

func newDiff() *GenericDiff {
	return &GenericDiff{}
}

// EffectDiff walks an already-flattened effect term and accumulates it
// into a GenericDiff.
func EffectDiff(d *domain.Domain, st *state.State, t *term.Term) (*GenericDiff, error) {
	diff := newDiff()
	if err := accumulate(d, st, t, diff); err != nil {
		return nil, err
	}
	return diff, nil
}

func accumulate(d *domain.Domain, st *state.State, t *term.Term, diff *GenericDiff) error {
	if !t.IsCompound() {
		diff.Adds = append(diff.Adds, t)
		return nil
	}

	switch t.Name {
	case term.And:
		for _, e := range t.Args {
			if err := accumulate(d, st, e, diff); err != nil {
				return err
			}
		}
		return nil

	case term.Not:
		if len(t.Args) != 1 {
			return errs.New(errs.Arity, "not/%d, expected 1", len(t.Args))
		}
		inner := t.Args[0]
		if inner.IsCompoundNamed(term.Not) {
			return errs.New(errs.MalformedEffect, "double negation in effect: %s", t)
		}
		diff.Deletes = append(diff.Deletes, inner)
		return nil

	case term.Assign, term.Increase, term.Decrease, term.ScaleUp, term.ScaleDn:
		if len(t.Args) != 2 {
			return errs.New(errs.Arity, "%s/%d, expected 2", t.Name, len(t.Args))
		}
		v, err := eval.Evaluate(d, st, t.Args[1])
		if err != nil {
			return err
		}
		diff.Updates = append(diff.Updates, Update{Fluent: t.Args[0], Op: t.Name, Operand: term.FromValue(v)})
		return nil

	case term.When, term.Forall, term.Exists:
		return errs.New(errs.MalformedEffect, "%s must be removed by flatten_conditions before effect_diff: %s", t.Name, t)

	case term.Or, term.Imply:
		return errs.New(errs.MalformedEffect, "%s is not a valid effect connective: %s", t.Name, t)

	default:
		diff.Adds = append(diff.Adds, t)
		return nil
	}
}

// Apply mutates st according to diff: deletes before adds, so an atom
// both deleted and added ends up present, then numeric updates last.
func Apply(d *domain.Domain, st *state.State, diff *GenericDiff) error {
	for _, del := range diff.Deletes {
		if err := st.SetFluent(del, false); err != nil {
			return err
		}
	}
	for _, add := range diff.Adds {
		if err := st.SetFluent(add, true); err != nil {
			return err
		}
	}
	for _, u := range diff.Updates {
		if err := applyUpdate(d, st, u); err != nil {
			return err
		}
	}
	return nil
}

func applyUpdate(d *domain.Domain, st *state.State, u Update) error {
	operand, ok := numericValue(u.Operand)
	if u.Op != term.Assign && !ok {
		return errs.New(errs.TypeMismatch, "non-numeric operand for %s: %s", u.Op, u.Operand)
	}
	if u.Op == term.Assign {
		return st.SetFluent(u.Fluent, valueOf(u.Operand))
	}
	cur := st.GetFluent(u.Fluent)
	if b, isBool := cur.(bool); isBool && !b {
		// an unset fluent reads as false; numeric updates start it from 0
		cur = 0.0
	}
	current, ok := numericValue(asTerm(cur))
	if !ok {
		return errs.New(errs.TypeMismatch, "non-numeric current value for %s", u.Fluent)
	}
	var next float64
	switch u.Op {
	case term.Increase:
		next = current + operand
	case term.Decrease:
		next = current - operand
	case term.ScaleUp:
		next = current * operand
	case term.ScaleDn:
		if operand == 0 {
			return errs.New(errs.TypeMismatch, "scale-down by zero for %s", u.Fluent)
		}
		next = current / operand
	default:
		return errs.New(errs.MalformedEffect, "unknown numeric update operator %s", u.Op)
	}
	return st.SetFluent(u.Fluent, next)
}

func asTerm(v interface{}) *term.Term { return term.FromValue(v) }

func valueOf(t *term.Term) interface{} {
	if t.Value != nil {
		return t.Value
	}
	return t.Name
}

func numericValue(t *term.Term) (float64, bool) {
	if t == nil || t.Value == nil {
		return 0, false
	}
	switch x := t.Value.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

// ApplyConditional applies every branch of cd whose Cond currently
// holds, in branch-declaration order: deletes across all live branches
// before adds, then updates. Conflicting numeric updates across
// branches resolve in branch-declaration order, last write wins.
func ApplyConditional(d *domain.Domain, st *state.State, cd *ConditionalDiff, holds func(*term.Term) (bool, error)) error {
	merged := newDiff()
	for i, cond := range cd.Conds {
		ok, err := holds(cond)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		branch := cd.Diffs[i]
		merged.Deletes = append(merged.Deletes, branch.Deletes...)
		merged.Adds = append(merged.Adds, branch.Adds...)
		merged.Updates = append(merged.Updates, branch.Updates...)
	}
	return Apply(d, st, merged)
}
