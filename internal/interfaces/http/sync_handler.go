package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/margin-sync/internal/application/dto"
	syncapp "github.com/tu-usuario/margin-sync/internal/application/sync"
	"github.com/tu-usuario/margin-sync/internal/domain"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/internal/domain/repository"
	"github.com/tu-usuario/margin-sync/internal/scheduler"
)

// SyncHandler maneja las peticiones HTTP del motor de sincronización (protegido).
type SyncHandler struct {
	service  *syncapp.Service
	autosync *scheduler.AutoSync
	runs     repository.SyncRunRepository
}

// NewSyncHandler construye el handler.
func NewSyncHandler(service *syncapp.Service, autosync *scheduler.AutoSync, runs repository.SyncRunRepository) *SyncHandler {
	return &SyncHandler{service: service, autosync: autosync, runs: runs}
}

// Full godoc
// @Summary      Sincronización completa (los tres streams, secuencial)
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.FullSyncReport
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sync/full [post]
func (h *SyncHandler) Full(c *fiber.Ctx) error {
	report, err := h.service.SyncAll(c.Context())
	if err != nil {
		return syncError(c, err)
	}
	return c.JSON(report)
}

// Test corre un solo lote por stream para validar credenciales y mapeos.
func (h *SyncHandler) Test(c *fiber.Ctx) error {
	report, err := h.service.TestSync(c.Context())
	if err != nil {
		return syncError(c, err)
	}
	return c.JSON(report)
}

// Batch godoc
// @Summary      Un lote acotado del stream indicado
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        stream  path  string  true  "products | warehouse | sales"
// @Success      200  {object}  dto.BatchReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sync/batch/{stream} [post]
func (h *SyncHandler) Batch(c *fiber.Ctx) error {
	stream := entity.Stream(c.Params("stream"))
	if !stream.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "stream desconocido: products, warehouse o sales"})
	}
	report, err := h.service.SyncBatch(c.Context(), stream)
	if err != nil {
		return syncError(c, err)
	}
	return c.JSON(report)
}

// Status devuelve el estado de los tres streams.
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	streams := []entity.Stream{entity.StreamProducts, entity.StreamWarehouse, entity.StreamSales}
	out := make([]*dto.StreamStatus, 0, len(streams))
	for _, stream := range streams {
		st, err := h.service.Status(c.Context(), stream)
		if err != nil {
			return syncError(c, err)
		}
		out = append(out, st)
	}
	return c.JSON(fiber.Map{"streams": out})
}

// Recompute recalcula márgenes de las filas de venta ya almacenadas sin
// tocar el API externo.
func (h *SyncHandler) Recompute(c *fiber.Ctx) error {
	report, err := h.service.RecomputeMargins(c.Context())
	if err != nil {
		return syncError(c, err)
	}
	return c.JSON(report)
}

// Runs devuelve las últimas corridas de auditoría, más reciente primero.
func (h *SyncHandler) Runs(c *fiber.Ctx) error {
	limit := 20
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 || n > 200 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit debe ser un entero entre 1 y 200"})
		}
		limit = n
	}
	runs, err := h.runs.ListRecent(c.Context(), limit)
	if err != nil {
		return syncError(c, err)
	}
	out := make([]dto.RunRecord, 0, len(runs))
	for _, r := range runs {
		out = append(out, dto.RunRecord{
			ID:        r.ID,
			Stream:    string(r.Stream),
			StartedAt: r.StartedAt,
			Duration:  r.Duration.String(),
			Synced:    r.Synced,
			Total:     r.Total,
			Status:    r.Status,
			Error:     r.Error,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "runs": out})
}

// AutoSyncStart activa el auto-sync recurrente.
func (h *SyncHandler) AutoSyncStart(c *fiber.Ctx) error {
	if err := h.autosync.Activate(c.Context()); err != nil {
		return syncError(c, err)
	}
	return c.JSON(fiber.Map{"message": "auto-sync activado"})
}

// AutoSyncStop desactiva el auto-sync. El lote en curso termina; los
// siguientes ticks no corren.
func (h *SyncHandler) AutoSyncStop(c *fiber.Ctx) error {
	if err := h.autosync.Deactivate(c.Context()); err != nil {
		return syncError(c, err)
	}
	return c.JSON(fiber.Map{"message": "auto-sync desactivado"})
}

// AutoSyncStatus devuelve el estado del auto-sync.
func (h *SyncHandler) AutoSyncStatus(c *fiber.Ctx) error {
	st, err := h.autosync.Status(c.Context())
	if err != nil {
		return syncError(c, err)
	}
	return c.JSON(st)
}

// syncError mapea errores de dominio a códigos HTTP.
func syncError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrSyncRunning):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SYNC_RUNNING", Message: "ya hay una sincronización en curso"})
	case errors.Is(err, domain.ErrAPIAuth):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM_AUTH", Message: "el API de facturación rechazó las credenciales"})
	case errors.Is(err, domain.ErrAPIUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM_UNAVAILABLE", Message: "el API de facturación no está disponible"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
