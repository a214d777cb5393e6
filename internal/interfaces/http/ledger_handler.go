package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/vendor-console/internal/application/dto"
	"github.com/invorya/vendor-console/internal/application/ledger"
)

// LedgerHandler peticiones de la vista de libro por producto (protegido).
type LedgerHandler struct {
	registry *ledger.Registry
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(registry *ledger.Registry) *LedgerHandler {
	return &LedgerHandler{registry: registry}
}

// view resuelve la vista del operador, cargándola si aún no tiene proyección.
func (h *LedgerHandler) view(c *fiber.Ctx) (*ledger.ProductLedgerOrchestrator, error) {
	o := h.registry.Get(GetOperatorID(c), c.Params("id"))
	if o.Product() == nil {
		if err := o.LoadProduct(requestContext(c)); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func ledgerResponse(o *ledger.ProductLedgerOrchestrator) dto.ProductLedgerResponse {
	product := o.Product()
	resp := dto.ProductLedgerResponse{Product: dto.ToProductResponse(product)}
	for _, st := range o.FeedStates() {
		resp.Feeds = append(resp.Feeds, feedResponse(st))
	}
	return resp
}

func feedResponse(st ledger.FeedState) dto.FeedResponse {
	fr := dto.FeedResponse{
		LocationID: st.LocationID,
		Filter:     st.Filter,
		Sort:       st.Sort,
		Pagination: dto.ToPagination(st.Pagination),
		Loading:    st.Loading,
	}
	for _, b := range st.Batches {
		fr.Batches = append(fr.Batches, dto.ToBatchResponse(b))
	}
	return fr
}

// GetLedger godoc
// @Summary      Proyección del libro de un producto
// @Description  Carga producto + sedes y un feed de lotes por sede. Con
//
//	reload=true fuerza la relectura completa del remoto.
//
// @Tags         ledger
// @Produce      json
// @Param        id      path   string  true   "Producto (UUID)"
// @Param        reload  query  bool    false  "Forzar recarga"
// @Success      200  {object}  dto.ProductLedgerResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/ledger [get]
func (h *LedgerHandler) GetLedger(c *fiber.Ctx) error {
	o := h.registry.Get(GetOperatorID(c), c.Params("id"))
	if o.Product() == nil || c.QueryBool("reload") {
		if err := o.LoadProduct(requestContext(c)); err != nil {
			return respondError(c, err)
		}
	}
	return c.JSON(ledgerResponse(o))
}

// GetFeed godoc
// @Summary      Estado del feed de lotes de una sede
// @Tags         ledger
// @Produce      json
// @Param        id   path  string  true  "Producto (UUID)"
// @Param        loc  path  string  true  "Sede (UUID)"
// @Success      200  {object}  dto.FeedResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/ledger/locations/{loc}/batches [get]
func (h *LedgerHandler) GetFeed(c *fiber.Ctx) error {
	o, err := h.view(c)
	if err != nil {
		return respondError(c, err)
	}
	feed, err := o.Feed(c.Params("loc"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feedResponse(feed.State()))
}

// LoadMore godoc
// @Summary      Cargar la página siguiente de un feed
// @Description  No-op si no hay más páginas o hay una carga en vuelo.
// @Tags         ledger
// @Produce      json
// @Success      200  {object}  dto.FeedResponse
// @Router       /api/products/{id}/ledger/locations/{loc}/batches/more [post]
func (h *LedgerHandler) LoadMore(c *fiber.Ctx) error {
	o, err := h.view(c)
	if err != nil {
		return respondError(c, err)
	}
	feed, err := o.Feed(c.Params("loc"))
	if err != nil {
		return respondError(c, err)
	}
	if err := feed.LoadMore(requestContext(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(feedResponse(feed.State()))
}

// SetFilter godoc
// @Summary      Cambiar el filtro de un feed
// @Description  Siempre vuelve a página 1 y reemplaza lo acumulado.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.FeedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/ledger/locations/{loc}/filter [put]
func (h *LedgerHandler) SetFilter(c *fiber.Ctx) error {
	var in dto.SetFilterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	switch in.Filter {
	case ledger.FilterAll, ledger.FilterHasStock, ledger.FilterSoldOut:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtro desconocido"})
	}
	o, err := h.view(c)
	if err != nil {
		return respondError(c, err)
	}
	feed, err := o.Feed(c.Params("loc"))
	if err != nil {
		return respondError(c, err)
	}
	if err := feed.SetFilter(requestContext(c), in.Filter); err != nil {
		return respondError(c, err)
	}
	return c.JSON(feedResponse(feed.State()))
}

// SetLocationFilter godoc
// @Summary      Filtrar la vista a una sede
// @Description  location_id vacío vuelve a mostrar todas las sedes. Las vistas
//
//	afectadas se limpian y recargan desde la página 1.
//
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.ProductLedgerResponse
// @Router       /api/products/{id}/ledger/location-filter [put]
func (h *LedgerHandler) SetLocationFilter(c *fiber.Ctx) error {
	var in dto.SetLocationFilterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	o := h.registry.Get(GetOperatorID(c), c.Params("id"))
	if err := o.SetLocationFilter(requestContext(c), in.LocationID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(ledgerResponse(o))
}

// Release godoc
// @Summary      Descartar la vista del producto
// @Description  Invalida las peticiones en vuelo y libera el estado de sesión.
// @Tags         ledger
// @Success      204
// @Router       /api/products/{id}/ledger [delete]
func (h *LedgerHandler) Release(c *fiber.Ctx) error {
	h.registry.Release(GetOperatorID(c), c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}
