package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"github.com/uyfcastell/FNC-dev/internal/domain/inventory"
)

func TestResolveDirection_TablaPorDefecto(t *testing.T) {
	cases := map[string]entity.Direction{
		entity.MovementCodeConsumption: entity.DirectionOut,
		entity.MovementCodeMerma:       entity.DirectionOut,
		entity.MovementCodeRemito:      entity.DirectionOut,
		entity.MovementCodeProduction:  entity.DirectionIn,
		entity.MovementCodePurchase:    entity.DirectionIn,
		entity.MovementCodeAdjustment:  entity.DirectionIn,
		entity.MovementCodeTransfer:    entity.DirectionIn,
	}
	for code, want := range cases {
		got, err := inventory.ResolveDirection(&entity.MovementType{Code: code}, "")
		require.NoError(t, err, code)
		assert.Equal(t, want, got, code)
	}
}

func TestResolveDirection_OverrideGana(t *testing.T) {
	got, err := inventory.ResolveDirection(&entity.MovementType{Code: entity.MovementCodeAdjustment}, entity.DirectionOut)
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionOut, got)
}

func TestResolveDirection_CatalogoDefineTipoNuevo(t *testing.T) {
	got, err := inventory.ResolveDirection(&entity.MovementType{Code: "DONATION", Direction: entity.DirectionOut}, "")
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionOut, got)
}

func TestResolveDirection_CodigoDesconocido(t *testing.T) {
	_, err := inventory.ResolveDirection(&entity.MovementType{Code: "DONATION"}, "")
	assert.ErrorIs(t, err, domain.ErrUnsupportedMovementType)

	_, err = inventory.ResolveDirection(&entity.MovementType{Code: entity.MovementCodeMerma}, "sideways")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
