package ledger

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// registryIdleTTL tiempo de inactividad tras el cual una vista se expulsa.
const registryIdleTTL = 30 * time.Minute

type registryEntry struct {
	orchestrator *ProductLedgerOrchestrator
	lastAccess   time.Time
}

// Registry guarda un ProductLedgerOrchestrator por (operador, producto) para
// conservar entre peticiones el estado de feeds y paginación de la sesión.
// Las entradas inactivas se expulsan en el siguiente acceso.
type Registry struct {
	gateway RemoteLedgerGateway
	log     zerolog.Logger

	mu      sync.Mutex
	entries map[string]*registryEntry
}

// NewRegistry construye el registro de vistas.
func NewRegistry(gateway RemoteLedgerGateway, log zerolog.Logger) *Registry {
	return &Registry{
		gateway: gateway,
		log:     log,
		entries: make(map[string]*registryEntry),
	}
}

// Get devuelve la vista del operador para un producto, creándola si no existe.
func (r *Registry) Get(operatorID, productID string) *ProductLedgerOrchestrator {
	key := operatorID + "/" + productID
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(now)
	if e, ok := r.entries[key]; ok {
		e.lastAccess = now
		return e.orchestrator
	}
	o := NewProductLedgerOrchestrator(r.gateway, r.log, productID)
	r.entries[key] = &registryEntry{orchestrator: o, lastAccess: now}
	return o
}

// Release expulsa la vista explícitamente (el operador salió de la pantalla).
func (r *Registry) Release(operatorID, productID string) {
	key := operatorID + "/" + productID
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		e.orchestrator.Teardown()
		delete(r.entries, key)
	}
}

func (r *Registry) pruneLocked(now time.Time) {
	for key, e := range r.entries {
		if now.Sub(e.lastAccess) > registryIdleTTL {
			e.orchestrator.Teardown()
			delete(r.entries, key)
		}
	}
}
