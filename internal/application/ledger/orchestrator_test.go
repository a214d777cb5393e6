package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/vendor-console/internal/application/ledger"
	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

// twoLocationGateway fake con producto de dos sedes y una página de lotes por
// sede. Con locationID el endpoint de sedes filtra como el remoto real.
func twoLocationGateway() *fakeGateway {
	g := pagedGateway(1)
	g.productFn = func(_ context.Context, productID string) (*entity.Product, error) {
		return &entity.Product{ID: productID, Name: "Café de origen"}, nil
	}
	g.locationsFn = func(_ context.Context, _, locationID string) ([]entity.Location, error) {
		all := []entity.Location{{ID: "loc-1", Name: "Bodega Norte"}, {ID: "loc-2", Name: "Bodega Sur"}}
		if locationID == "" {
			return all, nil
		}
		for _, loc := range all {
			if loc.ID == locationID {
				return []entity.Location{loc}, nil
			}
		}
		return nil, nil
	}
	return g
}

// Caso 1: cargar el producto monta un feed por sede con su página 1.
func TestOrchestrator_LoadProduct_MontaFeedPorSede(t *testing.T) {
	g := twoLocationGateway()
	o := ledger.NewProductLedgerOrchestrator(g, zerolog.Nop(), "prod-1")

	require.NoError(t, o.LoadProduct(context.Background()))

	require.NotNil(t, o.Product())
	assert.Equal(t, "Café de origen", o.Product().Name)
	states := o.FeedStates()
	require.Len(t, states, 2, "una vista de feed por sede visible")
	for _, st := range states {
		assert.Len(t, st.Batches, 3, "cada feed debe tener su página 1 cargada")
	}
	assert.Equal(t, 2, g.count("BatchesAndDefects"))
}

// Caso 2: con una carga en vuelo, un segundo LoadProduct retorna ocupado.
func TestOrchestrator_LoadProduct_EnVueloRetornaBusy(t *testing.T) {
	g := twoLocationGateway()
	started := make(chan struct{})
	release := make(chan struct{})
	g.productFn = func(_ context.Context, productID string) (*entity.Product, error) {
		close(started)
		<-release
		return &entity.Product{ID: productID}, nil
	}
	o := ledger.NewProductLedgerOrchestrator(g, zerolog.Nop(), "prod-1")

	done := make(chan error, 1)
	go func() { done <- o.LoadProduct(context.Background()) }()
	<-started

	assert.ErrorIs(t, o.LoadProduct(context.Background()), domain.ErrBusy)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("la carga original no terminó")
	}
}

// Caso 3: tras una mutación exitosa se relee todo: producto, sedes y la página
// 1 de cada feed activo con su filtro vigente.
func TestOrchestrator_RefreshAfterMutation_ReleeTodo(t *testing.T) {
	g := twoLocationGateway()
	o := ledger.NewProductLedgerOrchestrator(g, zerolog.Nop(), "prod-1")
	require.NoError(t, o.LoadProduct(context.Background()))

	productCalls := g.count("Product")
	batchCalls := g.count("BatchesAndDefects")

	require.NoError(t, o.RefreshAfterMutation(context.Background()))

	assert.Equal(t, productCalls+1, g.count("Product"), "el producto se relee")
	assert.Equal(t, batchCalls+2, g.count("BatchesAndDefects"), "cada feed reemite su página 1")
	for _, st := range o.FeedStates() {
		assert.Len(t, st.Batches, 3, "los feeds quedan con la página 1 fresca")
		assert.Equal(t, 1, st.Page)
	}
}

// Caso 4: filtrar por sede limpia las vistas y deja solo el feed de esa sede.
func TestOrchestrator_SetLocationFilter_LimpiaYRecarga(t *testing.T) {
	g := twoLocationGateway()
	o := ledger.NewProductLedgerOrchestrator(g, zerolog.Nop(), "prod-1")
	require.NoError(t, o.LoadProduct(context.Background()))
	require.Len(t, o.FeedStates(), 2)

	require.NoError(t, o.SetLocationFilter(context.Background(), "loc-2"))
	states := o.FeedStates()
	require.Len(t, states, 1, "solo la sede filtrada queda visible")
	assert.Equal(t, "loc-2", states[0].LocationID)
	assert.Len(t, states[0].Batches, 3, "el feed superviviente se recarga desde página 1")

	// Volver a "todas" restaura ambas sedes con feeds frescos.
	require.NoError(t, o.SetLocationFilter(context.Background(), ""))
	assert.Len(t, o.FeedStates(), 2)
}

// Caso 5: FindAdjustment localiza el registro y su línea dueña.
func TestOrchestrator_FindAdjustment_DevuelveLineaDuena(t *testing.T) {
	g := twoLocationGateway()
	g.batchesFn = func(_ context.Context, _ string, q ledger.BatchQuery) (*ledger.BatchPage, error) {
		if q.LocationID != "loc-1" {
			return &ledger.BatchPage{}, nil
		}
		return &ledger.BatchPage{
			Batches: []entity.Batch{{
				ID: "batch-1",
				Stocks: []entity.StockLine{{
					ID:      "stock-1",
					Defects: []entity.StockAdjustment{{ID: "def-1", Kind: entity.AdjustmentDefect}},
				}},
			}},
		}, nil
	}
	o := ledger.NewProductLedgerOrchestrator(g, zerolog.Nop(), "prod-1")
	require.NoError(t, o.LoadProduct(context.Background()))

	rec, line, err := o.FindAdjustment("def-1")
	require.NoError(t, err)
	assert.Equal(t, "def-1", rec.ID)
	assert.Equal(t, "stock-1", line.ID)

	_, _, err = o.FindAdjustment("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Caso 6: la copia de la proyección no comparte variantes con la vista: un
// parche de variante posterior no se filtra a lo ya entregado, y viceversa.
func TestOrchestrator_Product_CopiaProfundaDeVariantes(t *testing.T) {
	g := twoLocationGateway()
	g.locationsFn = func(_ context.Context, _, _ string) ([]entity.Location, error) {
		return []entity.Location{{
			ID:   "loc-1",
			Name: "Bodega Norte",
			Variants: []entity.VariantAtLocation{{
				VariantID:     "var-1",
				Name:          "250g",
				IsPriceActive: true,
			}},
		}}, nil
	}
	o := ledger.NewProductLedgerOrchestrator(g, zerolog.Nop(), "prod-1")
	require.NoError(t, o.LoadProduct(context.Background()))

	snapshot := o.Product()
	require.True(t, snapshot.Locations[0].Variants[0].IsPriceActive)

	patched := snapshot.Locations[0].Variants[0]
	patched.IsPriceActive = false
	o.UpdateVariant("loc-1", patched)

	assert.True(t, snapshot.Locations[0].Variants[0].IsPriceActive,
		"la copia entregada no debe mutar con el parche")
	v, err := o.FindVariant("loc-1", "var-1")
	require.NoError(t, err)
	assert.False(t, v.IsPriceActive, "la vista sí refleja el parche")
}
