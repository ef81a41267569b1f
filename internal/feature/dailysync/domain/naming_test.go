package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aughra/picsou/internal/feature/dailysync/domain/entity"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  string
	}{
		{"btc bought", "btc_bought"},
		{"btc bought cum", "btc_bought_cum"},
		{"bought BTC", "bought_btc"},
		{"total gain loss", "total_gain_loss"},
		{"eth acheté cumul", "eth_achete_cumul"},
		{"Valeur  AVAX", "valeur_avax"},
		{"  gain/perte (€) ", "gain_perte"},
		{"1inch value", "c_1inch_value"},
		{"€€€", "col"},
		{"", "col"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.label))
			assert.Equal(t, Normalize(tt.label), Normalize(tt.label), "normalization must be deterministic")
		})
	}
}

func TestBuildColumns(t *testing.T) {
	t.Parallel()

	defs := append(Labeled(ValueScale, "btc value", "value BTC"), Labeled(QuantityScale, "qty_btc")...)
	cols, err := BuildColumns(defs)
	require.NoError(t, err)
	assert.Equal(t, []entity.Column{
		{Storage: "btc_value", Label: "btc value", Scale: 2},
		{Storage: "value_btc", Label: "value BTC", Scale: 2},
		{Storage: "qty_btc", Label: "qty_btc", Scale: 10},
	}, cols)
	assert.Equal(t, []string{"btc_value", "value_btc", "qty_btc"}, StorageNames(cols))

	_, err = BuildColumns(nil)
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = BuildColumns(Labeled(ValueScale, "btc value", "BTC-Value"))
	assert.ErrorIs(t, err, ErrColumnCollision)

	_, err = BuildColumns(Labeled(ValueScale, "Date"))
	assert.ErrorIs(t, err, ErrColumnCollision)
}

func TestViewNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "v_portfolio_daily_btc", AssetViewName("v_portfolio_daily", "BTC"))
	assert.Equal(t, "v_portfolio_daily_totals", TotalsViewName("v_portfolio_daily"))
	assert.Equal(t, "v_portfolio_daily_positions", PositionsViewName("v_portfolio_daily"))
}
