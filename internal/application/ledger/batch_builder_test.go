package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/vendor-console/internal/application/ledger"
	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

// builderLocations dos sedes: loc-1 con variante con precio y otra sin precio.
func builderLocations() []entity.Location {
	priceID := "price-11"
	return []entity.Location{
		{
			ID:   "loc-1",
			Name: "Bodega Norte",
			Variants: []entity.VariantAtLocation{
				{
					VariantID:             "var-1",
					PriceID:               &priceID,
					IsPriceActive:         true,
					IsActiveOnMarketplace: true,
				},
				{VariantID: "var-2"}, // sin precio en esta sede
			},
		},
		{ID: "loc-2", Name: "Bodega Sur"},
	}
}

// Caso 1: el builder nace con una línea en blanco y una línea incompleta
// bloquea el envío sin emitir ninguna petición.
func TestBuilder_LineaIncompletaNoEmitePeticion(t *testing.T) {
	g := newFakeGateway()
	b := ledger.NewBatchCreationBuilder(g, "prod-1", builderLocations())
	require.Len(t, b.Lines(), 1, "el formulario nunca está sin líneas")

	assert.ErrorIs(t, b.Submit(context.Background()), domain.ErrBuilderIncomplete)
	assert.Equal(t, 0, g.count("CreateBatch"), "una línea incompleta no debe generar tráfico")

	// Con sede y variante pero sin cantidad sigue incompleta.
	lineID := b.Lines()[0].ID
	require.NoError(t, b.SetLocation(lineID, "loc-1"))
	require.NoError(t, b.SetVariant(lineID, "var-1"))
	assert.ErrorIs(t, b.Submit(context.Background()), domain.ErrBuilderIncomplete)
	assert.Equal(t, 0, g.count("CreateBatch"))
}

// Caso 2: solo variantes con precio en la sede son elegibles.
func TestBuilder_VarianteSinPrecioRechazada(t *testing.T) {
	g := newFakeGateway()
	b := ledger.NewBatchCreationBuilder(g, "prod-1", builderLocations())
	lineID := b.Lines()[0].ID

	require.NoError(t, b.SetLocation(lineID, "loc-1"))
	assert.ErrorIs(t, b.SetVariant(lineID, "var-2"), domain.ErrVariantWithoutPrice)
	assert.Empty(t, b.Lines()[0].VariantID, "la variante rechazada no queda en la línea")
}

// Caso 3: cambiar la sede resetea la variante elegida (la elegibilidad depende
// de la sede).
func TestBuilder_CambiarSedeReseteaVariante(t *testing.T) {
	g := newFakeGateway()
	b := ledger.NewBatchCreationBuilder(g, "prod-1", builderLocations())
	lineID := b.Lines()[0].ID

	require.NoError(t, b.SetLocation(lineID, "loc-1"))
	require.NoError(t, b.SetVariant(lineID, "var-1"))
	require.Equal(t, "price-11", b.Lines()[0].PriceID)

	require.NoError(t, b.SetLocation(lineID, "loc-2"))
	assert.Empty(t, b.Lines()[0].VariantID)
	assert.Empty(t, b.Lines()[0].PriceID)
}

// Caso 4: quitar la última línea la reemplaza por una en blanco.
func TestBuilder_QuitarUltimaLineaDejaUnaEnBlanco(t *testing.T) {
	g := newFakeGateway()
	b := ledger.NewBatchCreationBuilder(g, "prod-1", builderLocations())
	first := b.Lines()[0].ID
	second := b.AddLine()
	require.Len(t, b.Lines(), 2)

	b.RemoveLine(second)
	require.Len(t, b.Lines(), 1)

	b.RemoveLine(first)
	lines := b.Lines()
	require.Len(t, lines, 1, "el formulario se rehidrata con una línea en blanco")
	assert.NotEqual(t, first, lines[0].ID)
	assert.Empty(t, lines[0].LocationID)
}

// Caso 5: el envío completo arma el payload con el id del precio como variante
// en sede y los flags pre-sembrados desde la variante.
func TestBuilder_EnvioCompletoArmaPayload(t *testing.T) {
	g := newFakeGateway()
	var sent ledger.CreateBatchPayload
	g.createBatchFn = func(_ context.Context, productID string, p ledger.CreateBatchPayload) error {
		assert.Equal(t, "prod-1", productID)
		sent = p
		return nil
	}

	b := ledger.NewBatchCreationBuilder(g, "prod-1", builderLocations())
	received := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	b.SetHeader("L-2026-081", &received, "Proveedor Andino", "recepción parcial")

	lineID := b.Lines()[0].ID
	require.NoError(t, b.SetLocation(lineID, "loc-1"))
	require.NoError(t, b.SetVariant(lineID, "var-1"))
	require.NoError(t, b.SetQuantity(lineID, dec("12")))
	cost := dec("3500")
	require.NoError(t, b.SetCostPrice(lineID, &cost))
	require.NoError(t, b.SetReserved(lineID, dec("2")))

	require.NoError(t, b.Submit(context.Background()))
	require.Len(t, sent.Stocks, 1)
	st := sent.Stocks[0]
	assert.Equal(t, "price-11", st.VariantOnLocationID, "la línea viaja con el id del precio en la sede")
	assert.True(t, st.Quantity.Equal(dec("12")))
	require.NotNil(t, st.CostPrice)
	assert.True(t, st.CostPrice.Equal(dec("3500")))
	assert.True(t, st.ReservedQuantity.Equal(dec("2")))
	assert.True(t, st.IsAvailableForSale, "pre-sembrado desde IsPriceActive de la variante")
	assert.True(t, st.IsActiveOnMarketplace)
	assert.Equal(t, "L-2026-081", sent.BatchNumber)
	require.NotNil(t, sent.ReceivedDate)
	assert.True(t, sent.ReceivedDate.Equal(received))
}
