package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/invorya/vendor-console/internal/application/dto"
	"github.com/invorya/vendor-console/internal/application/ledger"
)

// historyIdleTTL tiempo de inactividad tras el cual un visor se expulsa, igual
// que las vistas de libro en el registro de sesiones.
const historyIdleTTL = 30 * time.Minute

type historyEntry struct {
	viewer     *ledger.MovementHistoryViewer
	lastAccess time.Time
}

// HistoryHandler historial de movimientos por scope: una línea de stock o un
// precio (variante, sede). El visor acumula páginas por sesión de consulta;
// los visores inactivos se expulsan en el siguiente acceso.
type HistoryHandler struct {
	gateway ledger.RemoteLedgerGateway
	reports ledger.MovementReportGenerator
	log     zerolog.Logger

	mu      sync.Mutex
	viewers map[string]*historyEntry // operador/scope
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(gateway ledger.RemoteLedgerGateway, reports ledger.MovementReportGenerator, log zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		gateway: gateway,
		reports: reports,
		log:     log,
		viewers: make(map[string]*historyEntry),
	}
}

// viewer visor del operador para un scope, creándolo si no existe.
func (h *HistoryHandler) viewer(c *fiber.Ctx) *ledger.MovementHistoryViewer {
	key := GetOperatorID(c) + "/" + c.Params("scope")
	now := time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.pruneLocked(now)
	if e, ok := h.viewers[key]; ok {
		e.lastAccess = now
		return e.viewer
	}
	v := ledger.NewMovementHistoryViewer(h.gateway, h.reports, c.Params("scope"))
	h.viewers[key] = &historyEntry{viewer: v, lastAccess: now}
	return v
}

func (h *HistoryHandler) pruneLocked(now time.Time) {
	for key, e := range h.viewers {
		if now.Sub(e.lastAccess) > historyIdleTTL {
			delete(h.viewers, key)
		}
	}
}

// Open godoc
// @Summary      Abrir el historial de un scope
// @Description  Carga la primera página, reemplazando lo acumulado. El scope es
//
//	el id de una línea de stock o de un precio (variante, sede).
//
// @Tags         movements
// @Produce      json
// @Param        scope  path  string  true  "Scope (UUID)"
// @Success      200  {object}  dto.MovementHistoryResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/movements/{scope} [get]
func (h *HistoryHandler) Open(c *fiber.Ctx) error {
	v := h.viewer(c)
	if err := v.Open(requestContext(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementHistoryResponse(v.Days(), v.Pagination()))
}

// LoadMore godoc
// @Summary      Cargar la página siguiente del historial
// @Description  No-op si no hay más páginas o hay una carga en vuelo.
// @Tags         movements
// @Produce      json
// @Success      200  {object}  dto.MovementHistoryResponse
// @Router       /api/movements/{scope}/more [post]
func (h *HistoryHandler) LoadMore(c *fiber.Ctx) error {
	v := h.viewer(c)
	if err := v.LoadMore(requestContext(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementHistoryResponse(v.Days(), v.Pagination()))
}

// Export godoc
// @Summary      Exportar el historial como hoja de cálculo
// @Description  Passthrough del binario que genera el remoto, sin reintentos.
// @Tags         movements
// @Produce      application/octet-stream
// @Success      200  {file}    file
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/movements/{scope}/export [get]
func (h *HistoryHandler) Export(c *fiber.Ctx) error {
	v := h.viewer(c)
	file, err := v.Export(requestContext(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Send(file.Data)
}

// Report godoc
// @Summary      Reporte PDF del historial cargado
// @Description  Se genera localmente con lo acumulado en el visor; conviene
//
//	abrir el historial antes de pedirlo.
//
// @Tags         movements
// @Produce      application/pdf
// @Success      200  {file}    file
// @Router       /api/movements/{scope}/report.pdf [get]
func (h *HistoryHandler) Report(c *fiber.Ctx) error {
	v := h.viewer(c)
	pdf, err := v.RenderPDF(requestContext(c))
	if err != nil {
		h.log.Error().Err(err).Str("scope", c.Params("scope")).Msg("generación de reporte PDF")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "REPORT", Message: "no se pudo generar el reporte"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.pdf"`)
	return c.Send(pdf)
}
