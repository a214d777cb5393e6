package ledger_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/vendor-console/internal/application/ledger"
)

// Caso 1: la vista se conserva entre peticiones del mismo operador y producto,
// y está aislada por operador.
func TestRegistry_ConservaVistaPorOperadorYProducto(t *testing.T) {
	g := twoLocationGateway()
	r := ledger.NewRegistry(g, zerolog.Nop())

	a := r.Get("op-1", "prod-1")
	assert.Same(t, a, r.Get("op-1", "prod-1"), "misma clave devuelve la misma vista")
	assert.NotSame(t, a, r.Get("op-2", "prod-1"), "otro operador tiene su propia vista")
	assert.NotSame(t, a, r.Get("op-1", "prod-2"), "otro producto tiene su propia vista")
}

// Caso 2: liberar la vista la desmonta; el siguiente acceso crea una fresca.
func TestRegistry_ReleaseDesmontaLaVista(t *testing.T) {
	g := twoLocationGateway()
	r := ledger.NewRegistry(g, zerolog.Nop())

	a := r.Get("op-1", "prod-1")
	require.NoError(t, a.LoadProduct(context.Background()))
	require.NotEmpty(t, a.FeedStates())

	r.Release("op-1", "prod-1")
	assert.Empty(t, a.FeedStates(), "el teardown limpia los feeds de la vista liberada")

	b := r.Get("op-1", "prod-1")
	assert.NotSame(t, a, b)
	assert.Nil(t, b.Product(), "la vista nueva arranca sin proyección")
}
