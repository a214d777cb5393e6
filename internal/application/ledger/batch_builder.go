package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

// BuilderLine línea del formulario dinámico de recepción.
type BuilderLine struct {
	ID               string
	LocationID       string
	VariantID        string
	PriceID          string // resuelto al elegir variante; obligatorio para enviar
	Quantity         decimal.Decimal
	CostPrice        *decimal.Decimal
	ReservedQuantity decimal.Decimal

	IsAvailableForSale     bool
	IsActiveOnMarketplace  bool
	IsActiveForOfflineSale bool
	IsActiveOnOwnSite      bool
}

// complete true si la línea puede viajar en el payload.
func (l *BuilderLine) complete() bool {
	return l.PriceID != "" && l.Quantity.IsPositive()
}

// BatchCreationBuilder compone una recepción nueva sobre pares (sede, variante)
// arbitrarios y la envía en una sola petición atómica. Solo son elegibles las
// variantes que ya tienen precio en la sede: sin precio no hay stock.
type BatchCreationBuilder struct {
	gateway   RemoteLedgerGateway
	productID string
	locations []entity.Location

	mu           sync.Mutex
	batchNumber  string
	receivedDate *time.Time
	supplier     string
	notes        string
	lines        []*BuilderLine
	submitting   bool
}

// NewBatchCreationBuilder construye el builder con una línea en blanco sobre la
// proyección de sedes/variantes cargada por el orquestador.
func NewBatchCreationBuilder(gateway RemoteLedgerGateway, productID string, locations []entity.Location) *BatchCreationBuilder {
	b := &BatchCreationBuilder{
		gateway:   gateway,
		productID: productID,
		locations: locations,
	}
	b.lines = []*BuilderLine{b.blankLine()}
	return b
}

func (b *BatchCreationBuilder) blankLine() *BuilderLine {
	return &BuilderLine{ID: uuid.New().String()}
}

// SetHeader fija los campos de cabecera del lote. Todos son opcionales; el
// remoto asigna número de lote si viene vacío.
func (b *BatchCreationBuilder) SetHeader(batchNumber string, receivedDate *time.Time, supplier, notes string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batchNumber = batchNumber
	b.receivedDate = receivedDate
	b.supplier = supplier
	b.notes = notes
}

// Lines copia de las líneas actuales.
func (b *BatchCreationBuilder) Lines() []BuilderLine {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]BuilderLine, 0, len(b.lines))
	for _, l := range b.lines {
		out = append(out, *l)
	}
	return out
}

// AddLine agrega una línea en blanco al final y devuelve su id.
func (b *BatchCreationBuilder) AddLine() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.blankLine()
	b.lines = append(b.lines, l)
	return l.ID
}

// RemoveLine elimina una línea. Quitar la última restante la reemplaza por una
// en blanco: el formulario nunca queda sin líneas.
func (b *BatchCreationBuilder) RemoveLine(lineID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.lines {
		if l.ID == lineID {
			b.lines = append(b.lines[:i], b.lines[i+1:]...)
			break
		}
	}
	if len(b.lines) == 0 {
		b.lines = []*BuilderLine{b.blankLine()}
	}
}

// SetLocation fija la sede de una línea y resetea la variante elegida, porque
// las variantes elegibles dependen de la sede.
func (b *BatchCreationBuilder) SetLocation(lineID, locationID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.findLocked(lineID)
	if l == nil {
		return domain.ErrNotFound
	}
	l.LocationID = locationID
	l.VariantID = ""
	l.PriceID = ""
	return nil
}

// SetVariant fija la variante de una línea. Rechaza pares sin precio y
// pre-siembra los flags de canal desde el estado actual de la variante.
func (b *BatchCreationBuilder) SetVariant(lineID, variantID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.findLocked(lineID)
	if l == nil {
		return domain.ErrNotFound
	}
	v := b.variantLocked(l.LocationID, variantID)
	if v == nil {
		return domain.ErrNotFound
	}
	if !v.HasPrice() {
		return domain.ErrVariantWithoutPrice
	}
	l.VariantID = variantID
	l.PriceID = *v.PriceID
	l.IsAvailableForSale = v.IsPriceActive
	l.IsActiveOnMarketplace = v.IsActiveOnMarketplace
	l.IsActiveForOfflineSale = v.IsActiveForOfflineSale
	l.IsActiveOnOwnSite = v.IsActiveOnOwnSite
	return nil
}

// SetQuantity fija la cantidad recibida de una línea.
func (b *BatchCreationBuilder) SetQuantity(lineID string, q decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.findLocked(lineID)
	if l == nil {
		return domain.ErrNotFound
	}
	l.Quantity = q
	return nil
}

// SetCostPrice fija el costo unitario opcional de una línea.
func (b *BatchCreationBuilder) SetCostPrice(lineID string, cost *decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.findLocked(lineID)
	if l == nil {
		return domain.ErrNotFound
	}
	l.CostPrice = cost
	return nil
}

// SetReserved fija la cantidad reservada opcional (por defecto 0).
func (b *BatchCreationBuilder) SetReserved(lineID string, reserved decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.findLocked(lineID)
	if l == nil {
		return domain.ErrNotFound
	}
	l.ReservedQuantity = reserved
	return nil
}

// Submit valida en cliente y envía el lote completo. Si alguna línea está
// incompleta se bloquea con error de formulario y no sale ninguna petición.
// Con éxito el builder queda cerrado; el llamador dispara el refresh.
func (b *BatchCreationBuilder) Submit(ctx context.Context) error {
	b.mu.Lock()
	if b.submitting {
		b.mu.Unlock()
		return domain.ErrBusy
	}
	if len(b.lines) == 0 {
		b.mu.Unlock()
		return domain.ErrBuilderEmpty
	}
	stocks := make([]CreateBatchStock, 0, len(b.lines))
	for _, l := range b.lines {
		if !l.complete() {
			b.mu.Unlock()
			return domain.ErrBuilderIncomplete
		}
		stocks = append(stocks, CreateBatchStock{
			VariantOnLocationID:    l.PriceID,
			Quantity:               l.Quantity,
			CostPrice:              l.CostPrice,
			ReservedQuantity:       l.ReservedQuantity,
			IsAvailableForSale:     l.IsAvailableForSale,
			IsActiveOnMarketplace:  l.IsActiveOnMarketplace,
			IsActiveForOfflineSale: l.IsActiveForOfflineSale,
			IsActiveOnOwnSite:      l.IsActiveOnOwnSite,
		})
	}
	payload := CreateBatchPayload{
		BatchNumber:  b.batchNumber,
		ReceivedDate: b.receivedDate,
		Supplier:     b.supplier,
		Notes:        b.notes,
		Stocks:       stocks,
	}
	b.submitting = true
	b.mu.Unlock()

	err := b.gateway.CreateBatch(ctx, b.productID, payload)

	b.mu.Lock()
	b.submitting = false
	b.mu.Unlock()
	return err
}

func (b *BatchCreationBuilder) findLocked(lineID string) *BuilderLine {
	for _, l := range b.lines {
		if l.ID == lineID {
			return l
		}
	}
	return nil
}

func (b *BatchCreationBuilder) variantLocked(locationID, variantID string) *entity.VariantAtLocation {
	for _, loc := range b.locations {
		if loc.ID != locationID {
			continue
		}
		for i := range loc.Variants {
			if loc.Variants[i].VariantID == variantID {
				return &loc.Variants[i]
			}
		}
	}
	return nil
}
