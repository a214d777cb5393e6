package ledger

import (
	"context"
	"sync"

	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

// LocationBatchFeed ventana paginada/filtrable sobre el libro de lotes de una
// sola sede. Cada feed es dueño exclusivo de su slot: su estado se protege con
// su propio mutex y nunca comparte cursor con otras sedes.
type LocationBatchFeed struct {
	gateway    RemoteLedgerGateway
	productID  string
	locationID string

	mu         sync.Mutex
	filter     string
	sort       string
	page       int
	pageSize   int
	batches    []entity.Batch
	pagination entity.Pagination
	loading    bool
	generation uint64 // invalida respuestas en vuelo tras un reset/teardown
	lastErr    error
}

// NewLocationBatchFeed construye el feed con filtro "all" y orden reciente.
func NewLocationBatchFeed(gateway RemoteLedgerGateway, productID, locationID string) *LocationBatchFeed {
	return &LocationBatchFeed{
		gateway:    gateway,
		productID:  productID,
		locationID: locationID,
		filter:     FilterAll,
		sort:       SortRecent,
		page:       1,
		pageSize:   FeedPageSize,
	}
}

// LocationID sede a la que pertenece el feed.
func (f *LocationBatchFeed) LocationID() string { return f.locationID }

// FeedState copia inmutable del estado del feed para la capa de presentación.
type FeedState struct {
	LocationID string
	Filter     string
	Sort       string
	Page       int
	Batches    []entity.Batch
	Pagination entity.Pagination
	Loading    bool
	LastErr    error
}

// State devuelve una copia del estado acumulado.
func (f *LocationBatchFeed) State() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	batches := make([]entity.Batch, len(f.batches))
	copy(batches, f.batches)
	return FeedState{
		LocationID: f.locationID,
		Filter:     f.filter,
		Sort:       f.sort,
		Page:       f.page,
		Batches:    batches,
		Pagination: f.pagination,
		Loading:    f.loading,
		LastErr:    f.lastErr,
	}
}

// Empty true si el feed no tiene páginas acumuladas ni carga en vuelo.
func (f *LocationBatchFeed) Empty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches) == 0 && !f.loading
}

// Filter filtro vigente del feed.
func (f *LocationBatchFeed) Filter() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter
}

// Load trae una página del libro. Con appendPage=true concatena sobre lo
// acumulado (cargar más); con appendPage=false reemplaza (cambio de filtro o
// refresh). Un error de red deja el feed en su último estado bueno conocido.
func (f *LocationBatchFeed) Load(ctx context.Context, filter string, page int, appendPage bool) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return domain.ErrBusy
	}
	f.loading = true
	gen := f.generation
	sort := f.sort
	f.mu.Unlock()

	return f.fetch(ctx, filter, page, appendPage, gen, sort)
}

func (f *LocationBatchFeed) fetch(ctx context.Context, filter string, page int, appendPage bool, gen uint64, sort string) error {
	pageData, err := f.gateway.BatchesAndDefects(ctx, f.productID, BatchQuery{
		Sort:           sort,
		Filter:         filter,
		Page:           page,
		PageSize:       f.pageSize,
		LocationID:     f.locationID,
		DefectSort:     SortRecent,
		DefectPage:     1,
		DefectPageSize: f.pageSize,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		// El feed fue reseteado mientras la petición estaba en vuelo: la
		// respuesta ya no corresponde al filtro vigente y se descarta.
		return nil
	}
	f.loading = false
	if err != nil {
		f.lastErr = err
		return err
	}
	f.lastErr = nil
	f.filter = filter
	f.page = page
	f.pagination = pageData.BatchesPagination
	if appendPage {
		f.batches = appendBatches(f.batches, pageData.Batches)
	} else {
		f.batches = pageData.Batches
	}
	return nil
}

// LoadMore carga la página siguiente. No hace nada (ni petición) si no hay más
// páginas o si ya hay una carga en vuelo: la decisión y la marca de vuelo se
// toman bajo el mismo lock, así que nunca degrada a un error de ocupado.
func (f *LocationBatchFeed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.loading || !f.pagination.HasNext {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	gen := f.generation
	sort := f.sort
	filter := f.filter
	next := f.page + 1
	f.mu.Unlock()

	return f.fetch(ctx, filter, next, true, gen, sort)
}

// SetFilter cambia el filtro: siempre vuelve a página 1 y reemplaza resultados.
// Las páginas acumuladas del filtro anterior nunca se mezclan con las nuevas.
func (f *LocationBatchFeed) SetFilter(ctx context.Context, filter string) error {
	f.Reset(filter)
	return f.Load(ctx, filter, 1, false)
}

// Refresh recarga la página 1 con el filtro vigente, reemplazando lo acumulado.
func (f *LocationBatchFeed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	filter := f.filter
	f.generation++
	f.loading = false
	f.mu.Unlock()
	return f.Load(ctx, filter, 1, false)
}

// Reset invalida cualquier respuesta en vuelo y libera el control de carga.
// Se usa al cambiar de filtro y al desmontar la vista.
func (f *LocationBatchFeed) Reset(filter string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	f.loading = false
	f.filter = filter
	f.page = 1
	f.batches = nil
	f.pagination = entity.Pagination{}
}

func appendBatches(acc, page []entity.Batch) []entity.Batch {
	out := make([]entity.Batch, 0, len(acc)+len(page))
	out = append(out, acc...)
	out = append(out, page...)
	return out
}
