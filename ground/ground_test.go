package ground

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwu-qrg/adlcore/blocksworld"
	"github.com/nwu-qrg/adlcore/clause"
	"github.com/nwu-qrg/adlcore/domain"
	"github.com/nwu-qrg/adlcore/effect"
	"github.com/nwu-qrg/adlcore/state"
	"github.com/nwu-qrg/adlcore/term"
)

func initialState() *state.State {
	st := state.New()
	st.AddType(blocksworld.BlockType, "a")
	st.AddType(blocksworld.BlockType, "b")
	st.AddFact(term.Compound("on", term.Const("a"), term.Const("b")))
	st.AddFact(term.Compound("clear", term.Const("a")))
	st.AddFact(term.Compound("ontable", term.Const("b")))
	st.AddFact(term.Const("handempty"))
	return st
}

func TestCartesianProductOverTwoBlocks(t *testing.T) {
	d := blocksworld.Domain()
	st := initialState()
	tuples, err := cartesian(d, st, []string{blocksworld.BlockType, blocksworld.BlockType})
	require.NoError(t, err)
	assert.Len(t, tuples, 4)
}

func TestGroundActionsProducesOneGroundingPerDeclaredObject(t *testing.T) {
	d := blocksworld.Domain()
	st := initialState()
	schema := d.GetAction("pickup")
	statics := Statics(d)
	group, err := GroundActions(d, st, schema, statics, Options{ResolverMaxDepth: 100})
	require.NoError(t, err)
	// grounding instantiates every typed combination; whether a precondition
	// actually holds in the current state is a runtime satisfaction question,
	// not something the grounder's static simplification resolves for
	// ordinary (mutable) predicates.
	assert.Len(t, group.All(), 2)
}

func TestGroundActionsEmitsUnconditionalDiffForPickup(t *testing.T) {
	d := blocksworld.Domain()
	st := initialState()
	schema := d.GetAction("pickup")
	statics := Statics(d)
	group, err := GroundActions(d, st, schema, statics, Options{ResolverMaxDepth: 100})
	require.NoError(t, err)
	ga, ok := group.Get(term.Compound("pickup", term.Const("a")))
	require.True(t, ok)
	_, isGeneric := ga.Effect.(*effect.GenericDiff)
	assert.True(t, isGeneric, "an effect with no when-clauses should merge into one GenericDiff, not a ConditionalDiff")
}

func TestGroundActionsProducesConditionalDiffForUnstack(t *testing.T) {
	d := blocksworld.Domain()
	st := initialState()
	schema := d.GetAction("unstack")
	statics := Statics(d)
	group, err := GroundActions(d, st, schema, statics, Options{ResolverMaxDepth: 100})
	require.NoError(t, err)
	ga, ok := group.Get(term.Compound("unstack", term.Const("a"), term.Const("b")))
	require.True(t, ok)
	_, isConditional := ga.Effect.(*effect.ConditionalDiff)
	assert.True(t, isConditional)
}

func TestGroundActionsAllGroundsEverySchema(t *testing.T) {
	d := blocksworld.Domain()
	st := initialState()
	all, err := GroundActionsAll(d, st, Options{ResolverMaxDepth: 100})
	require.NoError(t, err)
	assert.NotEmpty(t, all)
}

func TestStaticsExcludesMutatedFunctions(t *testing.T) {
	d := blocksworld.Domain()
	statics := Statics(d)
	assert.False(t, statics["total-cost"])
}

// domainWithStaticPredicate builds a small domain with one predicate
// ("adjacent") that no action's effect ever targets, one mutated
// predicate ("clear"), and one derived predicate ("above") whose head
// never appears in an effect either, to exercise the distinction
// between "never an effect target" and "genuinely static".
func domainWithStaticPredicate() *domain.Domain {
	d := domain.New("static-fixture")
	d.AddType(blocksworld.BlockType)
	d.AddPredicate(domain.PredSig{Name: "adjacent", ArgTypes: []string{blocksworld.BlockType, blocksworld.BlockType}})
	d.AddPredicate(domain.PredSig{Name: "clear", ArgTypes: []string{blocksworld.BlockType}})
	d.AddPredicate(domain.PredSig{Name: "above", ArgTypes: []string{blocksworld.BlockType, blocksworld.BlockType}})
	d.AddAxiom(clause.Clause{
		Head: term.Compound("above", term.Var("?x"), term.Var("?y")),
		Body: []*term.Term{term.Compound("adjacent", term.Var("?x"), term.Var("?y"))},
	})
	x := term.Var("?x")
	d.AddAction(&domain.ActionSchema{
		Name:    "tidy",
		Params:  []domain.Param{{Var: "?x", Type: blocksworld.BlockType}},
		Precond: term.Compound("adjacent", x, x),
		Effect:  term.Compound(term.Not, term.Compound("clear", x)),
	})
	return d
}

func TestStaticsIncludesNeverMutatedPredicate(t *testing.T) {
	d := domainWithStaticPredicate()
	statics := Statics(d)
	assert.True(t, statics["adjacent"], "adjacent is never a direct effect target, so it must be classified static")
}

func TestStaticsExcludesMutatedPredicate(t *testing.T) {
	d := domainWithStaticPredicate()
	statics := Statics(d)
	assert.False(t, statics["clear"])
}

func TestStaticsExcludesDerivedPredicateEvenIfNeverTargeted(t *testing.T) {
	d := domainWithStaticPredicate()
	statics := Statics(d)
	assert.False(t, statics["above"], "a derived predicate's truth follows from other facts and must never be treated as fixed")
}

func TestToCNFDistributesOrOverAnd(t *testing.T) {
	a, b, c := term.Const("a"), term.Const("b"), term.Const("c")
	formula := term.Compound(term.Or, a, term.Compound(term.And, b, c))
	clauses := ToCNF(formula)
	assert.Len(t, clauses, 2)
}

func TestFlattenConditionsSeparatesWhenBranches(t *testing.T) {
	x := term.Const("a")
	eff := term.Compound(term.And,
		term.Compound("holding", x),
		term.Compound(term.When, term.Compound("clear", x), term.Compound("ontable", x)),
	)
	conds, effects := FlattenConditions(eff)
	require.Len(t, conds, 2)
	require.Len(t, effects, 2)
	assert.True(t, conds[0].Value.(bool))
	assert.True(t, conds[1].Equal(term.Compound("clear", x)))
}

func TestSimplifyStaticsFoldsGroundStaticAtom(t *testing.T) {
	d := domainWithStaticPredicate()
	st := state.New()
	st.AddType(blocksworld.BlockType, "a")
	st.AddFact(term.Compound("adjacent", term.Const("a"), term.Const("a")))
	statics := Statics(d)
	require.True(t, statics["adjacent"])
	result := SimplifyStatics(d, st, term.Compound("adjacent", term.Const("a"), term.Const("a")), statics)
	assert.True(t, result.Value.(bool))
}

func TestSimplifyStaticsShortCircuitsAndOnFalse(t *testing.T) {
	d := domainWithStaticPredicate()
	st := state.New()
	st.AddType(blocksworld.BlockType, "a")
	statics := Statics(d)
	require.True(t, statics["adjacent"])
	result := SimplifyStatics(d, st, term.Compound(term.And,
		term.Compound("adjacent", term.Const("a"), term.Const("a")),
		term.Compound("clear", term.Const("a")),
	), statics)
	assert.False(t, result.Value.(bool))
}

func TestSimplifyStaticsFoldsGroundStaticConstAtom(t *testing.T) {
	d := domainWithStaticPredicate()
	d.AddPredicate(domain.PredSig{Name: "handempty", ArgTypes: nil})
	st := state.New()
	statics := Statics(d)
	require.True(t, statics["handempty"])
	result := SimplifyStatics(d, st, term.Const("handempty"), statics)
	assert.False(t, result.Value.(bool))
}

func domainWithSingleWhenOnlyEffect() *domain.Domain {
	d := domain.New("when-only-fixture")
	d.AddType(blocksworld.BlockType)
	d.AddPredicate(domain.PredSig{Name: "lit", ArgTypes: []string{blocksworld.BlockType}})
	d.AddPredicate(domain.PredSig{Name: "flagged", ArgTypes: []string{blocksworld.BlockType}})
	x := term.Var("?x")
	d.AddAction(&domain.ActionSchema{
		Name:    "tag",
		Params:  []domain.Param{{Var: "?x", Type: blocksworld.BlockType}},
		Precond: term.Bool(true),
		Effect:  term.Compound(term.When, term.Compound("lit", x), term.Compound("flagged", x)),
	})
	// a second schema that mutates "lit" so Statics never classifies it
	// as static; otherwise the grounder's static fold would discard
	// "tag" outright for a reason unrelated to the case under test.
	d.AddAction(&domain.ActionSchema{
		Name:    "light",
		Params:  []domain.Param{{Var: "?x", Type: blocksworld.BlockType}},
		Precond: term.Bool(true),
		Effect:  term.Compound("lit", x),
	})
	return d
}

func TestGroundActionsStaysApplicableWhenSoleEffectIsConditional(t *testing.T) {
	d := domainWithSingleWhenOnlyEffect()
	st := state.New()
	st.AddType(blocksworld.BlockType, "a")
	statics := Statics(d)

	schema := d.GetAction("tag")
	group, err := GroundActions(d, st, schema, statics, Options{ResolverMaxDepth: 100})
	require.NoError(t, err)

	ga, ok := group.Get(term.Compound("tag", term.Const("a")))
	require.True(t, ok, "the action must ground even though lit(a) might be false; the when-guard governs the effect, not applicability")
	require.Len(t, ga.Preconds, 1, "tag's own precondition is trivially true, so exactly one clause is expected")
	require.Len(t, ga.Preconds[0], 1)
	assert.NotEqual(t, "lit", ga.Preconds[0][0].Name, "the when-guard must not leak into the ground action's own preconditions")
	_, isConditional := ga.Effect.(*effect.ConditionalDiff)
	assert.True(t, isConditional)
}

func domainWithStaticPrecondGuard() *domain.Domain {
	d := domain.New("static-guard-fixture")
	d.AddType(blocksworld.BlockType)
	d.AddPredicate(domain.PredSig{Name: "handempty", ArgTypes: nil})
	d.AddPredicate(domain.PredSig{Name: "holding", ArgTypes: []string{blocksworld.BlockType}})
	x := term.Var("?x")
	d.AddAction(&domain.ActionSchema{
		Name:    "drop",
		Params:  []domain.Param{{Var: "?x", Type: blocksworld.BlockType}},
		Precond: term.Compound(term.And,
			term.Const("handempty"),
			term.Compound("holding", x),
		),
		Effect: term.Compound(term.Not, term.Compound("holding", x)),
	})
	return d
}

func TestGroundActionsSkipsCartesianProductWhenStaticGuardIsFalse(t *testing.T) {
	d := domainWithStaticPrecondGuard()
	st := state.New()
	st.AddType(blocksworld.BlockType, "a")
	statics := Statics(d)
	require.True(t, statics["handempty"])

	schema := d.GetAction("drop")
	group, err := GroundActions(d, st, schema, statics, Options{ResolverMaxDepth: 100, DequantifyEagerly: false})
	require.NoError(t, err)
	assert.Empty(t, group.All(), "handempty is false in state, so the schema must be discarded before dequantifying")
}

func TestGroundActionsDequantifyEagerlySkipsTheGuard(t *testing.T) {
	d := domainWithStaticPrecondGuard()
	st := state.New()
	st.AddType(blocksworld.BlockType, "a")
	statics := Statics(d)

	schema := d.GetAction("drop")
	group, err := GroundActions(d, st, schema, statics, Options{ResolverMaxDepth: 100, DequantifyEagerly: true})
	require.NoError(t, err)
	assert.Empty(t, group.All(), "the per-tuple static check after substitution still discards the grounding, only the early guard is skipped")
}

func TestGroundActionsHonoursMaxGroundingsLimit(t *testing.T) {
	d := blocksworld.Domain()
	st := initialState()
	schema := d.GetAction("stack")
	statics := Statics(d)
	_, err := GroundActions(d, st, schema, statics, Options{ResolverMaxDepth: 100, MaxGroundingsPerSchema: 1})
	assert.Error(t, err)
}
