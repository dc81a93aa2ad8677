package http

import (
	"github.com/gofiber/fiber/v2"
	syncapp "github.com/tu-usuario/margin-sync/internal/application/sync"
	"github.com/tu-usuario/margin-sync/internal/domain/repository"
	"github.com/tu-usuario/margin-sync/internal/scheduler"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Service   *syncapp.Service
	AutoSync  *scheduler.AutoSync
	Runs      repository.SyncRunRepository
	JWTSecret string
}

// Router registra las rutas del panel de operación. Todo menos /health
// requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	handler := NewSyncHandler(deps.Service, deps.AutoSync, deps.Runs)

	syncGroup := api.Group("/sync")
	syncGroup.Post("/full", handler.Full)
	syncGroup.Post("/test", handler.Test)
	syncGroup.Post("/batch/:stream", handler.Batch)
	syncGroup.Get("/status", handler.Status)

	api.Post("/margins/recompute", handler.Recompute)
	api.Get("/runs", handler.Runs)

	autosync := api.Group("/autosync")
	autosync.Post("/start", handler.AutoSyncStart)
	autosync.Post("/stop", handler.AutoSyncStop)
	autosync.Get("/status", handler.AutoSyncStatus)
}
