package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/application/requestmgr"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/interfaces/binding"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// ViewNames nombres de los bindings que sirve cada endpoint.
type ViewNames struct {
	Inventory string // analítica + SKUs
	Platforms string // analítica multi-plataforma
	SKUs      string // listado paginado
}

// DashboardHandler expone el estado de las vistas montadas.
type DashboardHandler struct {
	views *binding.Group
	coord *requestmgr.Coordinator
	names ViewNames
	log   *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(views *binding.Group, coord *requestmgr.Coordinator, names ViewNames, log *logger.Logger) *DashboardHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardHandler{views: views, coord: coord, names: names, log: log}
}

// GetInventory estado de la vista de inventario.
// @Summary      Vista de inventario
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardSnapshotDTO
// @Router       /api/dashboard/inventory [get]
func (h *DashboardHandler) GetInventory(c *fiber.Ctx) error {
	return h.snapshot(c, h.names.Inventory)
}

// GetSKUs estado del listado paginado de SKUs.
// @Summary      Listado de SKUs
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardSnapshotDTO
// @Router       /api/dashboard/skus [get]
func (h *DashboardHandler) GetSKUs(c *fiber.Ctx) error {
	return h.snapshot(c, h.names.SKUs)
}

// GetPlatform datos de una plataforma (shopify, amazon o combined).
// Una plataforma sin datos se devuelve vacía, nunca con datos de otra.
// @Summary      Vista por plataforma
// @Tags         dashboard
// @Produce      json
// @Param        platform  path  string  true  "shopify | amazon | combined"
// @Success      200  {object}  dto.PlatformViewDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/platforms/{platform} [get]
func (h *DashboardHandler) GetPlatform(c *fiber.Ctx) error {
	p, err := entity.ParseView(c.Params("platform"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PLATFORM", Message: err.Error()})
	}
	b, err := h.views.Get(h.names.Platforms)
	if err != nil {
		return viewNotFound(c, err)
	}
	data, _ := b.View(p)
	if data == nil {
		data = &entity.AnalyticsPayload{}
	}
	return c.JSON(dto.PlatformViewDTO{Platform: string(p), Empty: data.IsEmpty(), Data: data})
}

// LoadPage carga una página del listado de SKUs.
// @Summary      Cambiar de página
// @Tags         dashboard
// @Produce      json
// @Param        page  path  int  true  "Página (1..total_pages)"
// @Success      200  {object}  dto.DashboardSnapshotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/dashboard/skus/page/{page} [post]
func (h *DashboardHandler) LoadPage(c *fiber.Ctx) error {
	page, err := c.ParamsInt("page")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PAGE", Message: "page debe ser un entero"})
	}
	b, err := h.views.Get(h.names.SKUs)
	if err != nil {
		return viewNotFound(c, err)
	}
	if pag := b.SKUs().Pagination; !pag.InRange(page) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "PAGE_OUT_OF_RANGE", Message: domain.ErrPageOutOfRange.Error(),
		})
	}
	if err := b.LoadPage(c.UserContext(), page); err != nil {
		return backendError(c, err)
	}
	return c.JSON(toSnapshotDTO(b.Snapshot()))
}

// Refresh recarga todas las vistas; ?force=true invalida antes la caché del backend.
// @Summary      Refrescar el dashboard
// @Tags         dashboard
// @Produce      json
// @Param        force  query  bool  false  "Omitir cachés"
// @Success      200  {object}  dto.RefreshResultDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/dashboard/refresh [post]
func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	force := c.QueryBool("force", false)
	names, err := h.views.RefreshAll(c.UserContext(), force)
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(dto.RefreshResultDTO{Forced: force, Refreshed: names})
}

type refreshIntervalRequest struct {
	Seconds int `json:"seconds"`
}

// SetRefreshInterval cambia el intervalo de auto-refresco de todas las vistas (0 = apagado).
// @Summary      Intervalo de auto-refresco
// @Tags         dashboard
// @Accept       json
// @Param        body  body  refreshIntervalRequest  true  "Segundos"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/refresh-interval [put]
func (h *DashboardHandler) SetRefreshInterval(c *fiber.Ctx) error {
	var req refreshIntervalRequest
	if err := c.BodyParser(&req); err != nil || req.Seconds < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "seconds debe ser un entero >= 0"})
	}
	h.views.SetRefreshInterval(time.Duration(req.Seconds) * time.Second)
	return c.SendStatus(fiber.StatusNoContent)
}

// ClearCache vacía la caché de peticiones compartida.
// @Summary      Vaciar caché local
// @Tags         dashboard
// @Success      204
// @Router       /api/dashboard/cache [delete]
func (h *DashboardHandler) ClearCache(c *fiber.Ctx) error {
	h.coord.ClearCache()
	return c.SendStatus(fiber.StatusNoContent)
}

// CacheStats contadores del coordinador de peticiones.
// @Summary      Estadísticas de caché
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.CoordinatorStatsDTO
// @Router       /api/dashboard/cache/stats [get]
func (h *DashboardHandler) CacheStats(c *fiber.Ctx) error {
	s := h.coord.Stats()
	return c.JSON(dto.CoordinatorStatsDTO{
		Hits: s.Hits, Misses: s.Misses, Coalesced: s.Coalesced,
		Cancelled: s.Cancelled, Entries: s.Entries, Pending: s.Pending,
	})
}

func (h *DashboardHandler) snapshot(c *fiber.Ctx, name string) error {
	b, err := h.views.Get(name)
	if err != nil {
		return viewNotFound(c, err)
	}
	return c.JSON(toSnapshotDTO(b.Snapshot()))
}

// ── mapeo ────────────────────────────────────────────────────────────────────

func toSnapshotDTO(s analytics.Snapshot) dto.DashboardSnapshotDTO {
	out := dto.DashboardSnapshotDTO{
		Name:        s.Name,
		Status:      string(s.Status),
		Loading:     s.Loading,
		Platform:    string(s.Platform),
		Cached:      s.Cached,
		CurrentPage: s.CurrentPage,
	}
	if s.Error != "" {
		msg := s.Error
		out.Error = &msg
	}
	if s.HasAnalytics {
		view := s.Platforms
		out.Platforms = &view
		out.Alerts = s.Alerts()
	}
	if s.HasSKUs {
		pag, sum := s.Pagination, s.Summary
		out.SKUs = s.SKUs
		out.Pagination = &pag
		out.Summary = &sum
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func viewNotFound(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "VIEW_NOT_FOUND", Message: err.Error()})
}

func backendError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNoSession) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: err.Error()})
	}
	return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "BACKEND_ERROR", Message: err.Error()})
}
