package ledger

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

// ProductLedgerOrchestrator controlador raíz de la vista de libro por producto.
// Carga la proyección (producto + sedes), reparte un LocationBatchFeed por sede
// visible y coordina el refresh completo tras cualquier mutación exitosa: la
// consola nunca recalcula derivados localmente, relee al sistema remoto.
type ProductLedgerOrchestrator struct {
	gateway   RemoteLedgerGateway
	log       zerolog.Logger
	productID string

	mu             sync.Mutex
	product        *entity.Product
	locations      []entity.Location
	feeds          map[string]*LocationBatchFeed // slot por sede; sin cursor compartido
	locationFilter string                        // "" = todas las sedes
	loading        bool
}

// NewProductLedgerOrchestrator construye el orquestador para un producto.
func NewProductLedgerOrchestrator(gateway RemoteLedgerGateway, log zerolog.Logger, productID string) *ProductLedgerOrchestrator {
	return &ProductLedgerOrchestrator{
		gateway:   gateway,
		log:       log.With().Str("product_id", productID).Logger(),
		productID: productID,
		feeds:     make(map[string]*LocationBatchFeed),
	}
}

// ProductID producto que gobierna esta vista.
func (o *ProductLedgerOrchestrator) ProductID() string { return o.productID }

// LoadProduct carga producto y sedes y reparte un feed por sede visible con su
// página 1. Un fallo aquí es de página completa: no se montan vistas dependientes.
func (o *ProductLedgerOrchestrator) LoadProduct(ctx context.Context) error {
	o.mu.Lock()
	if o.loading {
		o.mu.Unlock()
		return domain.ErrBusy
	}
	o.loading = true
	locFilter := o.locationFilter
	o.mu.Unlock()

	product, err := o.gateway.Product(ctx, o.productID)
	if err == nil {
		var locations []entity.Location
		locations, err = o.gateway.ProductLocations(ctx, o.productID, locFilter)
		if err == nil {
			product.Locations = locations
		}
	}

	o.mu.Lock()
	o.loading = false
	if err != nil {
		o.mu.Unlock()
		o.log.Error().Err(err).Msg("carga de producto fallida")
		return err
	}
	o.product = product
	o.locations = product.Locations
	feeds := o.rebuildFeedsLocked()
	o.mu.Unlock()

	o.loadFeeds(ctx, feeds)
	return nil
}

// rebuildFeedsLocked alinea el mapa de feeds con las sedes visibles,
// conservando el estado de los feeds que sobreviven. Devuelve los feeds sin
// páginas acumuladas, que necesitan su carga inicial. Llamar con o.mu tomado.
func (o *ProductLedgerOrchestrator) rebuildFeedsLocked() []*LocationBatchFeed {
	visible := make(map[string]bool, len(o.locations))
	for _, loc := range o.locations {
		visible[loc.ID] = true
		if _, ok := o.feeds[loc.ID]; !ok {
			o.feeds[loc.ID] = NewLocationBatchFeed(o.gateway, o.productID, loc.ID)
		}
	}
	var pending []*LocationBatchFeed
	for id, f := range o.feeds {
		if !visible[id] {
			f.Reset(FilterAll)
			delete(o.feeds, id)
			continue
		}
		if f.Empty() {
			pending = append(pending, f)
		}
	}
	return pending
}

// loadFeeds dispara la página 1 de cada feed en paralelo. Cada feed escribe
// solo en su propio slot, así que no hay corrupción cruzada.
func (o *ProductLedgerOrchestrator) loadFeeds(ctx context.Context, feeds []*LocationBatchFeed) {
	var wg sync.WaitGroup
	for _, f := range feeds {
		wg.Add(1)
		go func(f *LocationBatchFeed) {
			defer wg.Done()
			if err := f.Load(ctx, f.Filter(), 1, false); err != nil {
				o.log.Warn().Err(err).Str("location_id", f.LocationID()).Msg("carga de feed fallida")
			}
		}(f)
	}
	wg.Wait()
}

// RefreshAfterMutation único mecanismo de consistencia tras una mutación
// exitosa: relee la proyección del producto y reemite la página 1 de cada feed
// activo con su filtro vigente. No existe camino de parche local.
func (o *ProductLedgerOrchestrator) RefreshAfterMutation(ctx context.Context) error {
	o.mu.Lock()
	locFilter := o.locationFilter
	o.mu.Unlock()

	product, err := o.gateway.Product(ctx, o.productID)
	if err != nil {
		o.log.Error().Err(err).Msg("refresh de producto fallido")
		return err
	}
	locations, err := o.gateway.ProductLocations(ctx, o.productID, locFilter)
	if err != nil {
		o.log.Error().Err(err).Msg("refresh de sedes fallido")
		return err
	}
	product.Locations = locations

	o.mu.Lock()
	o.product = product
	o.locations = locations
	o.rebuildFeedsLocked()
	feeds := make([]*LocationBatchFeed, 0, len(o.feeds))
	for _, f := range o.feeds {
		feeds = append(feeds, f)
	}
	o.mu.Unlock()

	var wg sync.WaitGroup
	for _, f := range feeds {
		wg.Add(1)
		go func(f *LocationBatchFeed) {
			defer wg.Done()
			if err := f.Refresh(ctx); err != nil {
				o.log.Warn().Err(err).Str("location_id", f.LocationID()).Msg("refresh de feed fallido")
			}
		}(f)
	}
	wg.Wait()
	return nil
}

// SetLocationFilter cambia el filtro de sede activo: limpia y recarga las
// vistas afectadas desde la página 1.
func (o *ProductLedgerOrchestrator) SetLocationFilter(ctx context.Context, locationID string) error {
	o.mu.Lock()
	o.locationFilter = locationID
	for _, f := range o.feeds {
		f.Reset(f.Filter())
	}
	o.mu.Unlock()
	return o.LoadProduct(ctx)
}

// Product copia de la proyección cargada; nil si aún no se ha cargado. Las
// sedes y sus variantes se copian en profundidad: UpdateVariant reescribe ese
// arreglo bajo el mutex y la copia entregada no debe compartirlo.
func (o *ProductLedgerOrchestrator) Product() *entity.Product {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.product == nil {
		return nil
	}
	cp := *o.product
	cp.Locations = copyLocations(o.locations)
	return &cp
}

// Feed devuelve el feed de una sede visible.
func (o *ProductLedgerOrchestrator) Feed(locationID string) (*LocationBatchFeed, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	f, ok := o.feeds[locationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

// FeedStates estado de todos los feeds activos, para la respuesta de la vista.
func (o *ProductLedgerOrchestrator) FeedStates() []FeedState {
	o.mu.Lock()
	feeds := make([]*LocationBatchFeed, 0, len(o.feeds))
	for _, f := range o.feeds {
		feeds = append(feeds, f)
	}
	o.mu.Unlock()

	states := make([]FeedState, 0, len(feeds))
	for _, f := range feeds {
		states = append(states, f.State())
	}
	return states
}

// StockLine busca una línea de stock en los lotes cargados de los feeds.
func (o *ProductLedgerOrchestrator) StockLine(stockID string) (*entity.StockLine, error) {
	for _, st := range o.FeedStates() {
		for _, b := range st.Batches {
			for i := range b.Stocks {
				if b.Stocks[i].ID == stockID {
					line := b.Stocks[i]
					return &line, nil
				}
			}
		}
	}
	return nil, domain.ErrNotFound
}

// FindVariant busca la proyección de una variante en una sede cargada.
func (o *ProductLedgerOrchestrator) FindVariant(locationID, variantID string) (*entity.VariantAtLocation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, loc := range o.locations {
		if loc.ID != locationID {
			continue
		}
		for i := range loc.Variants {
			if loc.Variants[i].VariantID == variantID {
				v := loc.Variants[i]
				return &v, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// FindAdjustment busca un defecto o baja por id en las líneas cargadas,
// devolviendo también su línea dueña (para el tope de edición).
func (o *ProductLedgerOrchestrator) FindAdjustment(recordID string) (*entity.StockAdjustment, *entity.StockLine, error) {
	for _, st := range o.FeedStates() {
		for _, b := range st.Batches {
			for i := range b.Stocks {
				line := b.Stocks[i]
				for _, a := range line.Defects {
					if a.ID == recordID {
						rec := a
						return &rec, &line, nil
					}
				}
				for _, a := range line.Writeoffs {
					if a.ID == recordID {
						rec := a
						return &rec, &line, nil
					}
				}
			}
		}
	}
	return nil, nil, domain.ErrNotFound
}

// UpdateVariant reescribe el snapshot local de una variante tras un toggle
// optimista del editor de precio (único parche local; todo lo demás se relee).
func (o *ProductLedgerOrchestrator) UpdateVariant(locationID string, v entity.VariantAtLocation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for li := range o.locations {
		if o.locations[li].ID != locationID {
			continue
		}
		for vi := range o.locations[li].Variants {
			if o.locations[li].Variants[vi].VariantID == v.VariantID {
				o.locations[li].Variants[vi] = v
				return
			}
		}
	}
}

// Locations copia de las sedes visibles.
func (o *ProductLedgerOrchestrator) Locations() []entity.Location {
	o.mu.Lock()
	defer o.mu.Unlock()
	return copyLocations(o.locations)
}

func copyLocations(locs []entity.Location) []entity.Location {
	out := make([]entity.Location, len(locs))
	copy(out, locs)
	for i := range out {
		variants := make([]entity.VariantAtLocation, len(out[i].Variants))
		copy(variants, out[i].Variants)
		out[i].Variants = variants
	}
	return out
}

// Teardown invalida las peticiones en vuelo de todos los feeds. Se llama al
// expulsar la vista del registro de sesiones.
func (o *ProductLedgerOrchestrator) Teardown() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, f := range o.feeds {
		f.Reset(FilterAll)
	}
	o.feeds = make(map[string]*LocationBatchFeed)
}
