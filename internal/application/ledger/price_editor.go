package ledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

// Nombres de los flags de canal del editor de precio/activación.
const (
	FlagMarketplace = "marketplace"
	FlagOffline     = "offline"
	FlagOwnSite     = "own_site"
)

// PriceActivationEditor editor de precio y flags de activación por (variante,
// sede). El contrato remoto es un upsert idempotente create-or-replace: la
// misma operación sirve exista o no un precio previo. Los toggles mutan el
// estado local de forma optimista y hacen rollback al valor previo si el
// upsert falla (único punto de la consola con mutación local optimista).
type PriceActivationEditor struct {
	gateway RemoteLedgerGateway

	mu      sync.Mutex
	variant entity.VariantAtLocation
	locID   string
	saving  bool
}

// NewPriceActivationEditor abre el editor sobre el snapshot de la variante.
func NewPriceActivationEditor(gateway RemoteLedgerGateway, locationID string, variant entity.VariantAtLocation) *PriceActivationEditor {
	return &PriceActivationEditor{gateway: gateway, locID: locationID, variant: variant}
}

// Variant snapshot local vigente (refleja toggles optimistas).
func (e *PriceActivationEditor) Variant() entity.VariantAtLocation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.variant
}

// Save upserta el precio de venta. El precio no tiene tope implícito.
func (e *PriceActivationEditor) Save(ctx context.Context, price decimal.Decimal) error {
	if price.IsNegative() {
		return domain.ErrInvalidInput
	}
	e.mu.Lock()
	if e.saving {
		e.mu.Unlock()
		return domain.ErrBusy
	}
	e.saving = true
	payload := e.payloadLocked()
	payload.SellingPrice = price
	e.mu.Unlock()

	err := e.gateway.UpsertPrice(ctx, payload)

	e.mu.Lock()
	e.saving = false
	if err == nil {
		e.variant.Price = price
	}
	e.mu.Unlock()
	return err
}

// ToggleActive invierte la activación general del precio.
func (e *PriceActivationEditor) ToggleActive(ctx context.Context) error {
	return e.toggle(ctx, func(v *entity.VariantAtLocation) { v.IsPriceActive = !v.IsPriceActive })
}

// ToggleChannelFlag invierte un flag de canal. Los toggles de canal están
// deshabilitados con disponible == 0: no hay nada que vender.
func (e *PriceActivationEditor) ToggleChannelFlag(ctx context.Context, flag string) error {
	e.mu.Lock()
	canToggle := e.variant.CanToggleChannels()
	e.mu.Unlock()
	if !canToggle {
		return domain.ErrNoAvailability
	}
	switch flag {
	case FlagMarketplace:
		return e.toggle(ctx, func(v *entity.VariantAtLocation) { v.IsActiveOnMarketplace = !v.IsActiveOnMarketplace })
	case FlagOffline:
		return e.toggle(ctx, func(v *entity.VariantAtLocation) { v.IsActiveForOfflineSale = !v.IsActiveForOfflineSale })
	case FlagOwnSite:
		return e.toggle(ctx, func(v *entity.VariantAtLocation) { v.IsActiveOnOwnSite = !v.IsActiveOnOwnSite })
	}
	return domain.ErrInvalidInput
}

// toggle aplica el flip optimista, emite el upsert con el booleano objetivo
// cambiado y revierte al snapshot previo si el remoto rechaza.
func (e *PriceActivationEditor) toggle(ctx context.Context, flip func(*entity.VariantAtLocation)) error {
	e.mu.Lock()
	if e.saving {
		e.mu.Unlock()
		return domain.ErrBusy
	}
	e.saving = true
	previous := e.variant
	flip(&e.variant)
	payload := e.payloadLocked()
	e.mu.Unlock()

	err := e.gateway.UpsertPrice(ctx, payload)

	e.mu.Lock()
	e.saving = false
	if err != nil {
		e.variant = previous
	}
	e.mu.Unlock()
	return err
}

// payloadLocked arma el upsert completo desde el snapshot local. Llamar con mu tomado.
func (e *PriceActivationEditor) payloadLocked() PricePayload {
	mk := e.variant.IsActiveOnMarketplace
	off := e.variant.IsActiveForOfflineSale
	own := e.variant.IsActiveOnOwnSite
	return PricePayload{
		VariantID:              e.variant.VariantID,
		LocationID:             e.locID,
		SellingPrice:           e.variant.Price,
		IsActive:               e.variant.IsPriceActive,
		IsActiveOnMarketplace:  &mk,
		IsActiveForOfflineSale: &off,
		IsActiveOnOwnSite:      &own,
	}
}
