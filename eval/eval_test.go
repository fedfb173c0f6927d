package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwu-qrg/adlcore/domain"
	"github.com/nwu-qrg/adlcore/state"
	"github.com/nwu-qrg/adlcore/term"
)

func TestEvaluateArithmeticBuiltin(t *testing.T) {
	d := domain.New("test")
	st := state.New()
	v, err := Evaluate(d, st, term.Compound("+", term.Num(1), term.Num(2)))
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestEvaluateConstFluentReadsState(t *testing.T) {
	d := domain.New("test")
	d.AddFunction(domain.FuncDef{Name: "total-cost", ResultType: "number"})
	st := state.New()
	require.NoError(t, st.SetFluent(term.Const("total-cost"), 5.0))
	v, err := Evaluate(d, st, term.Const("total-cost"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestEvaluatePlainConstReturnsName(t *testing.T) {
	d := domain.New("test")
	st := state.New()
	v, err := Evaluate(d, st, term.Const("a"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestEvaluateDomainFunctionWithBody(t *testing.T) {
	d := domain.New("test")
	d.AddFunction(domain.FuncDef{
		Name:       "double",
		Params:     []string{"?n"},
		ResultType: "number",
		Body:       term.Compound("+", term.Var("?n"), term.Var("?n")),
	})
	st := state.New()
	v, err := Evaluate(d, st, term.Compound("double", term.Num(4)))
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)
}

func TestEvaluateUnboundVariableErrors(t *testing.T) {
	d := domain.New("test")
	st := state.New()
	_, err := Evaluate(d, st, term.Var("?x"))
	assert.Error(t, err)
}

func TestFuncTableDomainFuncBodyReadsRealState(t *testing.T) {
	d := domain.New("test")
	d.AddFunction(domain.FuncDef{Name: "total-cost", ResultType: "number"})
	d.AddFunction(domain.FuncDef{
		Name:       "cost-plus",
		Params:     []string{"?n"},
		ResultType: "number",
		Body:       term.Compound("+", term.Const("total-cost"), term.Var("?n")),
	})
	st := state.New()
	require.NoError(t, st.SetFluent(term.Const("total-cost"), 10.0))

	table := FuncTable(d, st)
	v, err := table["cost-plus"]([]interface{}{5.0})
	require.NoError(t, err)
	assert.Equal(t, 15.0, v, "cost-plus's body reads total-cost from the real state passed to FuncTable, not an empty one")
}

func TestFuncTableMergesBuiltinsAndDomainFuncs(t *testing.T) {
	d := domain.New("test")
	d.AddFunction(domain.FuncDef{
		Name:   "inc",
		Params: []string{"?n"},
		Body:   term.Compound("+", term.Var("?n"), term.Num(1)),
	})
	table := FuncTable(d, state.New())
	_, hasBuiltin := table["+"]
	_, hasDomain := table["inc"]
	assert.True(t, hasBuiltin)
	assert.True(t, hasDomain)
}
