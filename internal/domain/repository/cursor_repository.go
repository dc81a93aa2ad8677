package repository

import (
	"context"

	"github.com/tu-usuario/margin-sync/internal/domain/entity"
)

// CursorRepository puerto del cursor de reanudación persistido por stream.
// A lo sumo existe un cursor por stream; invocaciones simultáneas sobre el
// mismo stream no están protegidas y corromperían el cursor (limitación
// documentada, no resuelta).
type CursorRepository interface {
	// Get devuelve el cursor del stream, o nil si no hay.
	Get(ctx context.Context, stream entity.Stream) (*entity.SyncCursor, error)
	// Set crea o avanza el cursor a la siguiente página por procesar.
	Set(ctx context.Context, stream entity.Stream, nextPage int) error
	// Clear borra el cursor al observar el fin de la colección.
	Clear(ctx context.Context, stream entity.Stream) error
}
