package blocksworld

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nwu-qrg/adlcore/term"
)

func TestDomainRegistersFourCoreActions(t *testing.T) {
	d := Domain()
	names := make([]string, 0, 4)
	for _, a := range d.GetActions() {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, []string{"pickup", "putdown", "stack", "unstack"}, names)
}

func TestDomainDeclaresAboveAsDerived(t *testing.T) {
	d := Domain()
	assert.True(t, d.IsDerived("above"))
	assert.False(t, d.IsDerived("on"))
}

func TestPickupPreconditionRequiresClearOntableHandempty(t *testing.T) {
	schema := pickup()
	assert.True(t, schema.Precond.IsCompoundNamed(term.And))
	assert.Len(t, schema.Precond.Args, 3)
}

func TestUnstackEffectCarriesConditionalClear(t *testing.T) {
	schema := unstack()
	var sawWhen bool
	for _, a := range schema.Effect.Args {
		if a.IsCompoundNamed(term.When) {
			sawWhen = true
		}
	}
	assert.True(t, sawWhen)
}

func TestMoveHasThreeTypedParams(t *testing.T) {
	schema := Move()
	assert.Len(t, schema.Params, 3)
	assert.Equal(t, BlockType, schema.Params[0].Type)
}
