package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/vendor-console/internal/application/ledger"
	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func wholeProduct() *entity.Product {
	return &entity.Product{ID: "prod-1", UnitLabel: "und"}
}

func lineWithAvailable(available string) *entity.StockLine {
	return &entity.StockLine{ID: "stock-1", AvailableQuantity: dec(available)}
}

// Caso 1: en creación el tope es el disponible de la línea. Teclear por encima
// ajusta silenciosamente al tope y el guardado envía el valor ajustado.
func TestAdjustmentForm_CreacionTopaAlDisponible(t *testing.T) {
	g := newFakeGateway()
	var sent ledger.AdjustmentPayload
	g.createDefectFn = func(_ context.Context, stockID string, p ledger.AdjustmentPayload) error {
		assert.Equal(t, "stock-1", stockID)
		sent = p
		return nil
	}

	form, err := ledger.OpenAdjustmentForm(g, entity.AdjustmentDefect, wholeProduct(), lineWithAvailable("5"), nil)
	require.NoError(t, err)

	q := dec("8")
	form.SetQuantity(&q)
	require.NotNil(t, form.Quantity())
	assert.True(t, form.Quantity().Equal(dec("5")), "8 con disponible 5 debe ajustarse a 5")

	form.SetReason("golpe en transporte")
	require.NoError(t, form.Save(context.Background()))
	assert.True(t, sent.Quantity.Equal(dec("5")))
	assert.Equal(t, ledger.FormClosed, form.State())
}

// Caso 2: en edición el tope incluye la cantidad ya asignada al registro:
// disponible 2 + propia 3 permite guardar 5.
func TestAdjustmentForm_EdicionTopeIncluyeCantidadPropia(t *testing.T) {
	g := newFakeGateway()
	var sent ledger.AdjustmentPayload
	g.updateDefectFn = func(_ context.Context, defectID string, p ledger.AdjustmentPayload) error {
		assert.Equal(t, "def-1", defectID)
		sent = p
		return nil
	}
	existing := &entity.StockAdjustment{ID: "def-1", Kind: entity.AdjustmentDefect, Quantity: dec("3"), Reason: "rayado"}

	form, err := ledger.OpenAdjustmentForm(g, entity.AdjustmentDefect, wholeProduct(), lineWithAvailable("2"), existing)
	require.NoError(t, err)
	assert.True(t, form.Cap().Equal(dec("5")), "tope de edición = disponible + cantidad propia")

	q := dec("5")
	form.SetQuantity(&q)
	require.NoError(t, form.Save(context.Background()))
	assert.True(t, sent.Quantity.Equal(dec("5")))
}

// Caso 3: producto fraccionario acepta cantidades con milésimas.
func TestAdjustmentForm_ProductoFraccionarioAceptaMilesimas(t *testing.T) {
	g := newFakeGateway()
	product := &entity.Product{ID: "prod-1", UnitLabel: "kg", FractionalUnit: true}

	form, err := ledger.OpenAdjustmentForm(g, entity.AdjustmentDefect, product, lineWithAvailable("2.5"), nil)
	require.NoError(t, err)

	q := dec("0.125")
	form.SetQuantity(&q)
	form.SetReason("merma")
	require.NoError(t, form.Save(context.Background()))
	assert.Equal(t, 1, g.count("CreateDefect"))
}

// Caso 4: guardar sin cantidad es error local; no sale ninguna petición.
func TestAdjustmentForm_SinCantidadNoEmitePeticion(t *testing.T) {
	g := newFakeGateway()
	form, err := ledger.OpenAdjustmentForm(g, entity.AdjustmentDefect, wholeProduct(), lineWithAvailable("5"), nil)
	require.NoError(t, err)

	form.SetQuantity(nil)
	assert.ErrorIs(t, form.Save(context.Background()), domain.ErrQuantityRequired)
	assert.Equal(t, 0, g.count("CreateDefect"))
	assert.Equal(t, ledger.FormOpen, form.State(), "el formulario sigue abierto para corregir")
}

// Caso 5: una baja exige causal del catálogo fijo.
func TestAdjustmentForm_BajaExigeCausalDelCatalogo(t *testing.T) {
	g := newFakeGateway()
	form, err := ledger.OpenAdjustmentForm(g, entity.AdjustmentWriteoff, wholeProduct(), lineWithAvailable("5"), nil)
	require.NoError(t, err)

	q := dec("2")
	form.SetQuantity(&q)
	form.SetReason("cualquier texto")
	assert.ErrorIs(t, form.Save(context.Background()), domain.ErrInvalidInput)
	assert.Equal(t, 0, g.count("CreateWriteoff"))

	form.SetReason(entity.WriteoffReasonDamaged)
	form.SetReasonDetail("caja aplastada en bodega")
	require.NoError(t, form.Save(context.Background()))
	assert.Equal(t, 1, g.count("CreateWriteoff"))
}

// Caso 6: una baja generada por traslado no se abre para edición.
func TestAdjustmentForm_BajaDeTrasladoNoSeAbre(t *testing.T) {
	g := newFakeGateway()
	transferID := "transfer-9"
	locked := &entity.StockAdjustment{
		ID:         "wo-1",
		Kind:       entity.AdjustmentWriteoff,
		Quantity:   dec("1"),
		Reason:     entity.WriteoffReasonOther,
		TransferID: &transferID,
	}

	_, err := ledger.OpenAdjustmentForm(g, entity.AdjustmentWriteoff, wholeProduct(), lineWithAvailable("5"), locked)
	assert.ErrorIs(t, err, domain.ErrAdjustmentLocked)
}

// Caso 7: un fallo del remoto deja el formulario abierto con el error y los
// valores intactos; reintentar tras corregir funciona.
func TestAdjustmentForm_FalloRemotoMantieneFormularioAbierto(t *testing.T) {
	g := newFakeGateway()
	remoteErr := errors.New("503 del inventario")
	g.createDefectFn = func(_ context.Context, _ string, _ ledger.AdjustmentPayload) error {
		return remoteErr
	}

	form, err := ledger.OpenAdjustmentForm(g, entity.AdjustmentDefect, wholeProduct(), lineWithAvailable("5"), nil)
	require.NoError(t, err)
	q := dec("2")
	form.SetQuantity(&q)
	form.SetReason("empaque roto")

	assert.ErrorIs(t, form.Save(context.Background()), remoteErr)
	assert.Equal(t, ledger.FormOpen, form.State())
	assert.ErrorIs(t, form.LastErr(), remoteErr)
	require.NotNil(t, form.Quantity())
	assert.True(t, form.Quantity().Equal(dec("2")), "la cantidad tecleada no se pierde")

	g.createDefectFn = nil
	require.NoError(t, form.Save(context.Background()))
	assert.Equal(t, ledger.FormClosed, form.State())
}

// Caso 8: eliminar exige confirmación explícita y respeta el bloqueo por traslado.
func TestDeleteAdjustment_ConfirmacionYBloqueo(t *testing.T) {
	g := newFakeGateway()
	record := &entity.StockAdjustment{ID: "def-1", Kind: entity.AdjustmentDefect, Quantity: dec("1")}

	assert.ErrorIs(t, ledger.DeleteAdjustment(context.Background(), g, record, false), domain.ErrConfirmRequired)
	assert.Equal(t, 0, g.count("RemoveDefect"))

	require.NoError(t, ledger.DeleteAdjustment(context.Background(), g, record, true))
	assert.Equal(t, 1, g.count("RemoveDefect"))

	transferID := "transfer-1"
	locked := &entity.StockAdjustment{ID: "wo-1", Kind: entity.AdjustmentWriteoff, TransferID: &transferID}
	assert.ErrorIs(t, ledger.DeleteAdjustment(context.Background(), g, locked, true), domain.ErrAdjustmentLocked)
	assert.Equal(t, 0, g.count("DeleteWriteoff"))

	unlocked := &entity.StockAdjustment{ID: "wo-2", Kind: entity.AdjustmentWriteoff}
	require.NoError(t, ledger.DeleteAdjustment(context.Background(), g, unlocked, true))
	assert.Equal(t, 1, g.count("DeleteWriteoff"))
}
