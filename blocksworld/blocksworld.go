// Package blocksworld builds the canonical blocks-world domain: the
// pickup/putdown/stack/unstack operators, the
// on/clear/ontable/handempty/holding predicates, the above derived
// predicate, and the total-cost numeric fluent.
package blocksworld

import (
	"github.com/nwu-qrg/adlcore/clause"
	"github.com/nwu-qrg/adlcore/domain"
	"github.com/nwu-qrg/adlcore/term"
)

// BlockType names the domain's single object sort.
const BlockType = "block"

func v(name string) *term.Term { return term.Var(name) }

// Domain builds the pickup/putdown/stack/unstack blocks-world domain.
func Domain() *domain.Domain {
	d := domain.New("blocksworld")

	d.AddType(BlockType)

	d.AddPredicate(domain.PredSig{Name: "on", ArgTypes: []string{BlockType, BlockType}})
	d.AddPredicate(domain.PredSig{Name: "clear", ArgTypes: []string{BlockType}})
	d.AddPredicate(domain.PredSig{Name: "ontable", ArgTypes: []string{BlockType}})
	d.AddPredicate(domain.PredSig{Name: "handempty", ArgTypes: nil})
	d.AddPredicate(domain.PredSig{Name: "holding", ArgTypes: []string{BlockType}})
	d.AddPredicate(domain.PredSig{Name: "above", ArgTypes: []string{BlockType, BlockType}})

	d.AddFunction(domain.FuncDef{Name: "total-cost", ArgTypes: nil, ResultType: "number"})

	// above(?x,?y) :- on(?x,?y).
	// above(?x,?y) :- on(?x,?z), above(?z,?y).
	d.AddAxiom(clause.Clause{
		Head: term.Compound("above", v("?x"), v("?y")),
		Body: []*term.Term{term.Compound("on", v("?x"), v("?y"))},
	})
	d.AddAxiom(clause.Clause{
		Head: term.Compound("above", v("?x"), v("?y")),
		Body: []*term.Term{
			term.Compound("on", v("?x"), v("?z")),
			term.Compound("above", v("?z"), v("?y")),
		},
	})

	d.AddAction(pickup())
	d.AddAction(putdown())
	d.AddAction(stack())
	d.AddAction(unstack())

	return d
}

func pickup() *domain.ActionSchema {
	x := v("?x")
	return &domain.ActionSchema{
		Name:   "pickup",
		Params: []domain.Param{{Var: "?x", Type: BlockType}},
		Precond: term.Compound(term.And,
			term.Compound("clear", x),
			term.Compound("ontable", x),
			term.Const("handempty"),
		),
		Effect: term.Compound(term.And,
			term.Compound(term.Not, term.Compound("ontable", x)),
			term.Compound(term.Not, term.Compound("clear", x)),
			term.Compound(term.Not, term.Const("handempty")),
			term.Compound("holding", x),
			term.Compound(term.Increase, term.Const("total-cost"), term.Num(1)),
		),
	}
}

func putdown() *domain.ActionSchema {
	x := v("?x")
	return &domain.ActionSchema{
		Name:    "putdown",
		Params:  []domain.Param{{Var: "?x", Type: BlockType}},
		Precond: term.Compound("holding", x),
		Effect: term.Compound(term.And,
			term.Compound(term.Not, term.Compound("holding", x)),
			term.Compound("ontable", x),
			term.Compound("clear", x),
			term.Const("handempty"),
			term.Compound(term.Increase, term.Const("total-cost"), term.Num(1)),
		),
	}
}

func stack() *domain.ActionSchema {
	x, y := v("?x"), v("?y")
	return &domain.ActionSchema{
		Name:   "stack",
		Params: []domain.Param{{Var: "?x", Type: BlockType}, {Var: "?y", Type: BlockType}},
		Precond: term.Compound(term.And,
			term.Compound("holding", x),
			term.Compound("clear", y),
		),
		Effect: term.Compound(term.And,
			term.Compound(term.Not, term.Compound("holding", x)),
			term.Compound(term.Not, term.Compound("clear", y)),
			term.Compound("on", x, y),
			term.Compound("clear", x),
			term.Const("handempty"),
			term.Compound(term.Increase, term.Const("total-cost"), term.Num(1)),
		),
	}
}

func unstack() *domain.ActionSchema {
	x, y := v("?x"), v("?y")
	// unstack drops x from on(x,y), takes x into the hand (so the hand is
	// no longer empty), and separately clears y only when y is not itself
	// being held.
	return &domain.ActionSchema{
		Name:   "unstack",
		Params: []domain.Param{{Var: "?x", Type: BlockType}, {Var: "?y", Type: BlockType}},
		Precond: term.Compound(term.And,
			term.Compound("on", x, y),
			term.Compound("clear", x),
			term.Const("handempty"),
		),
		Effect: term.Compound(term.And,
			term.Compound(term.Not, term.Compound("on", x, y)),
			term.Compound(term.Not, term.Const("handempty")),
			term.Compound("holding", x),
			term.Compound(term.When,
				term.Compound(term.Not, term.Compound("holding", y)),
				term.Compound("clear", y),
			),
			term.Compound(term.Increase, term.Const("total-cost"), term.Num(1)),
		),
	}
}

// Move builds the move(?x,?y,?z) schema, a conditional-effect action
// kept separate from the four core operators since nothing else in
// this domain needs it.
func Move() *domain.ActionSchema {
	x, y, z := v("?x"), v("?y"), v("?z")
	return &domain.ActionSchema{
		Name:   "move",
		Params: []domain.Param{{Var: "?x", Type: BlockType}, {Var: "?y", Type: BlockType}, {Var: "?z", Type: BlockType}},
		Precond: term.Compound(term.And,
			term.Compound("on", x, y),
			term.Compound("clear", x),
			term.Compound("clear", z),
		),
		Effect: term.Compound(term.And,
			term.Compound(term.Not, term.Compound("on", x, y)),
			term.Compound("on", x, z),
			term.Compound(term.When, term.Compound("clear", z), term.Compound(term.Not, term.Compound("clear", z))),
			term.Compound(term.When, term.Compound("ontable", x), term.Compound(term.Not, term.Compound("ontable", x))),
		),
	}
}
