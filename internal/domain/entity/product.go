package entity

import "github.com/shopspring/decimal"

// Product proyección de un producto del catálogo con sus totales agregados.
// Locations se carga de forma diferida (puede venir vacío del endpoint de producto).
type Product struct {
	ID             string
	Name           string
	Category       string
	UnitLabel      string // ej. "und", "kg", "lt"
	FractionalUnit bool   // true si el producto se vende en cantidades fraccionarias
	TotalAvailable decimal.Decimal
	TotalDefect    decimal.Decimal
	Locations      []Location
}

// MinStep paso mínimo de cantidad para ajustes sobre este producto.
// Unidades enteras: 1. Unidades fraccionarias: 0.001.
func (p *Product) MinStep() decimal.Decimal {
	if p.FractionalUnit {
		return decimal.New(1, -3)
	}
	return decimal.NewFromInt(1)
}

// Location sede/bodega con las variantes del producto proyectadas en ella.
type Location struct {
	ID       string
	Name     string
	Variants []VariantAtLocation
}

// VariantAtLocation proyección de una variante en una sede: precio, flags de
// canal y cantidades derivadas. AvailableQuantity es autoritativa del remoto;
// el cliente nunca la recalcula, solo la muestra y la usa como tope.
type VariantAtLocation struct {
	VariantID              string
	Name                   string
	SKU                    string
	Price                  decimal.Decimal
	PriceID                *string // nil hasta que se haya fijado un precio alguna vez
	IsPriceActive          bool
	IsActiveOnMarketplace  bool
	IsActiveForOfflineSale bool
	IsActiveOnOwnSite      bool
	AvailableQuantity      decimal.Decimal
	ReservedQuantity       decimal.Decimal
	DefectQuantity         decimal.Decimal
}

// HasPrice indica si la variante ya tiene precio en la sede (requisito para
// poder recibir stock de ella).
func (v *VariantAtLocation) HasPrice() bool {
	return v.PriceID != nil && *v.PriceID != ""
}

// CanToggleChannels los flags de canal solo tienen sentido con disponible > 0.
func (v *VariantAtLocation) CanToggleChannels() bool {
	return v.AvailableQuantity.IsPositive()
}
