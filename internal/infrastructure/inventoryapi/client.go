// Package inventoryapi implementa RemoteLedgerGateway contra el API HTTP/JSON
// de inventario (sistema de registro). Usa net/http de la stdlib; no requiere
// librerías de terceros. La cookie de sesión del operador viaja en el contexto
// y se reenvía en cada petición: la autenticación se maneja aguas arriba y un
// 401 es terminal para la página.
package inventoryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/invorya/vendor-console/internal/application/ledger"
	"github.com/invorya/vendor-console/internal/domain"
	"github.com/invorya/vendor-console/internal/domain/entity"
	"github.com/invorya/vendor-console/pkg/session"
)

// sessionCookie nombre de la cookie que el API de inventario espera.
const sessionCookie = "vendor_session"

var _ ledger.RemoteLedgerGateway = (*Client)(nil)

// Client cliente HTTP del API de inventario.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient construye el cliente. timeout 0 = sin timeout de cliente.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "inventoryapi").Logger(),
	}
}

// ── Wire types (contrato JSON del remoto) ─────────────────────────────────────

type productWire struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Category       string      `json:"category"`
	UnitLabel      string      `json:"unit_label"`
	FractionalUnit bool        `json:"fractional_unit"`
	TotalAvailable json.Number `json:"total_available"`
	TotalDefect    json.Number `json:"total_defect"`
}

type locationWire struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Variants []variantWire `json:"variants"`
}

type variantWire struct {
	VariantID              string      `json:"variant_id"`
	Name                   string      `json:"name"`
	SKU                    string      `json:"sku"`
	Price                  json.Number `json:"price"`
	PriceID                *string     `json:"price_id"`
	IsPriceActive          bool        `json:"is_price_active"`
	IsActiveOnMarketplace  bool        `json:"is_active_on_marketplace"`
	IsActiveForOfflineSale bool        `json:"is_active_for_offline_sale"`
	IsActiveOnOwnSite      bool        `json:"is_active_on_own_site"`
	AvailableQuantity      json.Number `json:"available_quantity"`
	ReservedQuantity       json.Number `json:"reserved_quantity"`
	DefectQuantity         json.Number `json:"defect_quantity"`
}

type errorWire struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

// Product GET /products/{id}: producto con totales agregados (sedes aparte).
func (c *Client) Product(ctx context.Context, productID string) (*entity.Product, error) {
	var w productWire
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(productID), nil, &w); err != nil {
		return nil, err
	}
	return toProduct(w)
}

// ProductLocations GET /products/{id}/locations, opcionalmente una sola sede.
func (c *Client) ProductLocations(ctx context.Context, productID, locationID string) ([]entity.Location, error) {
	q := url.Values{}
	if locationID != "" {
		q.Set("location_id", locationID)
	}
	var wire []locationWire
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(productID)+"/locations", q, &wire); err != nil {
		return nil, err
	}
	locations := make([]entity.Location, 0, len(wire))
	for _, lw := range wire {
		loc, err := toLocation(lw)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

// BatchesAndDefects GET /products/{id}/batches con los cursores del feed.
func (c *Client) BatchesAndDefects(ctx context.Context, productID string, bq ledger.BatchQuery) (*ledger.BatchPage, error) {
	q := url.Values{}
	q.Set("sort", bq.Sort)
	q.Set("filter", bq.Filter)
	q.Set("page", strconv.Itoa(bq.Page))
	q.Set("page_size", strconv.Itoa(bq.PageSize))
	if bq.LocationID != "" {
		q.Set("location_id", bq.LocationID)
	}
	q.Set("defect_sort", bq.DefectSort)
	q.Set("defect_page", strconv.Itoa(bq.DefectPage))
	q.Set("defect_page_size", strconv.Itoa(bq.DefectPageSize))

	var w batchPageWire
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(productID)+"/batches", q, &w); err != nil {
		return nil, err
	}
	return toBatchPage(w)
}

// MovementHistory GET /movements/{scope} paginado.
func (c *Client) MovementHistory(ctx context.Context, scopeID string, page, pageSize int) (*ledger.MovementPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	var w movementPageWire
	if err := c.getJSON(ctx, "/movements/"+url.PathEscape(scopeID), q, &w); err != nil {
		return nil, err
	}
	return toMovementPage(w)
}

// MovementHistoryExport GET /movements/{scope}/export: binario tal cual.
func (c *Client) MovementHistoryExport(ctx context.Context, scopeID string) (*ledger.ExportFile, error) {
	resp, err := c.do(ctx, http.MethodGet, "/movements/"+url.PathEscape(scopeID)+"/export", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("leer export: %w", err)
	}
	filename := "movimientos.xlsx"
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			filename = params["filename"]
		}
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return &ledger.ExportFile{Filename: filename, ContentType: contentType, Data: data}, nil
}

// ── Mutaciones ────────────────────────────────────────────────────────────────

type createBatchStockWire struct {
	VariantOnLocationID    string  `json:"variant_on_location_id"`
	Quantity               string  `json:"quantity"`
	CostPrice              *string `json:"cost_price,omitempty"`
	ReservedQuantity       string  `json:"reserved_quantity"`
	IsAvailableForSale     bool    `json:"is_available_for_sale"`
	IsActiveOnMarketplace  bool    `json:"is_active_on_marketplace"`
	IsActiveForOfflineSale bool    `json:"is_active_for_offline_sale"`
	IsActiveOnOwnSite      bool    `json:"is_active_on_own_site"`
}

type createBatchWire struct {
	BatchNumber  string                 `json:"batch_number,omitempty"`
	ReceivedDate *string                `json:"received_date,omitempty"`
	Supplier     string                 `json:"supplier,omitempty"`
	Notes        string                 `json:"notes,omitempty"`
	Stocks       []createBatchStockWire `json:"stocks"`
}

// CreateBatch POST /products/{id}/batches.
func (c *Client) CreateBatch(ctx context.Context, productID string, p ledger.CreateBatchPayload) error {
	body := createBatchWire{
		BatchNumber: p.BatchNumber,
		Supplier:    p.Supplier,
		Notes:       p.Notes,
	}
	if p.ReceivedDate != nil {
		s := p.ReceivedDate.Format("2006-01-02")
		body.ReceivedDate = &s
	}
	for _, st := range p.Stocks {
		w := createBatchStockWire{
			VariantOnLocationID:    st.VariantOnLocationID,
			Quantity:               st.Quantity.String(),
			ReservedQuantity:       st.ReservedQuantity.String(),
			IsAvailableForSale:     st.IsAvailableForSale,
			IsActiveOnMarketplace:  st.IsActiveOnMarketplace,
			IsActiveForOfflineSale: st.IsActiveForOfflineSale,
			IsActiveOnOwnSite:      st.IsActiveOnOwnSite,
		}
		if st.CostPrice != nil {
			s := st.CostPrice.String()
			w.CostPrice = &s
		}
		body.Stocks = append(body.Stocks, w)
	}
	return c.send(ctx, http.MethodPost, "/products/"+url.PathEscape(productID)+"/batches", body)
}

type adjustmentWire struct {
	Quantity     string `json:"quantity"`
	Reason       string `json:"reason"`
	ReasonDetail string `json:"reason_detail,omitempty"`
}

func adjustmentBody(p ledger.AdjustmentPayload) adjustmentWire {
	return adjustmentWire{Quantity: p.Quantity.String(), Reason: p.Reason, ReasonDetail: p.ReasonDetail}
}

// CreateDefect POST /stocks/{id}/defects.
func (c *Client) CreateDefect(ctx context.Context, stockID string, p ledger.AdjustmentPayload) error {
	return c.send(ctx, http.MethodPost, "/stocks/"+url.PathEscape(stockID)+"/defects", adjustmentBody(p))
}

// UpdateDefect PATCH /defects/{id}.
func (c *Client) UpdateDefect(ctx context.Context, defectID string, p ledger.AdjustmentPayload) error {
	return c.send(ctx, http.MethodPatch, "/defects/"+url.PathEscape(defectID), adjustmentBody(p))
}

// RemoveDefect POST /defects/{id}/remove (el contrato remoto usa POST aquí).
func (c *Client) RemoveDefect(ctx context.Context, defectID string) error {
	return c.send(ctx, http.MethodPost, "/defects/"+url.PathEscape(defectID)+"/remove", nil)
}

// CreateWriteoff POST /stocks/{id}/writeoffs.
func (c *Client) CreateWriteoff(ctx context.Context, stockID string, p ledger.AdjustmentPayload) error {
	return c.send(ctx, http.MethodPost, "/stocks/"+url.PathEscape(stockID)+"/writeoffs", adjustmentBody(p))
}

// UpdateWriteoff PATCH /writeoffs/{id}.
func (c *Client) UpdateWriteoff(ctx context.Context, writeoffID string, p ledger.AdjustmentPayload) error {
	return c.send(ctx, http.MethodPatch, "/writeoffs/"+url.PathEscape(writeoffID), adjustmentBody(p))
}

// DeleteWriteoff DELETE /writeoffs/{id}.
func (c *Client) DeleteWriteoff(ctx context.Context, writeoffID string) error {
	return c.send(ctx, http.MethodDelete, "/writeoffs/"+url.PathEscape(writeoffID), nil)
}

type priceWire struct {
	VariantID              string `json:"variant_id"`
	LocationID             string `json:"location_id"`
	SellingPrice           string `json:"selling_price"`
	IsActive               bool   `json:"is_active"`
	IsActiveOnMarketplace  *bool  `json:"is_active_on_marketplace,omitempty"`
	IsActiveForOfflineSale *bool  `json:"is_active_for_offline_sale,omitempty"`
	IsActiveOnOwnSite      *bool  `json:"is_active_on_own_site,omitempty"`
}

// UpsertPrice POST /prices: create-or-replace idempotente por (variante, sede).
func (c *Client) UpsertPrice(ctx context.Context, p ledger.PricePayload) error {
	return c.send(ctx, http.MethodPost, "/prices", priceWire{
		VariantID:              p.VariantID,
		LocationID:             p.LocationID,
		SellingPrice:           p.SellingPrice.String(),
		IsActive:               p.IsActive,
		IsActiveOnMarketplace:  p.IsActiveOnMarketplace,
		IsActiveForOfflineSale: p.IsActiveForOfflineSale,
		IsActiveOnOwnSite:      p.IsActiveOnOwnSite,
	})
}

// ── Plomería HTTP ─────────────────────────────────────────────────────────────

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return err
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decodificar respuesta de %s: %w", path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) error {
	resp, err := c.do(ctx, method, path, nil, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkStatus(resp)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("serializar body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("construir petición: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := session.TokenFrom(ctx); token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("petición al API de inventario fallida")
		return nil, fmt.Errorf("inventario %s %s: %w", method, path, err)
	}
	return resp, nil
}

// checkStatus mapea estados no-2xx a errores de dominio. El body de un error de
// validación se entrega tal cual (message + errors por campo) para que el
// formulario lo muestre sin traducir.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		var w errorWire
		if err := json.Unmarshal(raw, &w); err == nil && (w.Message != "" || len(w.Errors) > 0) {
			if w.Message == "" {
				w.Message = "validación rechazada por el sistema de inventario"
			}
			return &domain.ValidationError{Message: w.Message, Fields: w.Errors}
		}
		return domain.ErrInvalidInput
	default:
		return fmt.Errorf("inventario respondió %d: %s", resp.StatusCode, string(raw))
	}
}
