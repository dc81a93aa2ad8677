package entity

// Stream identifica una colección paginada del API de facturación.
type Stream string

const (
	StreamProducts  Stream = "products"
	StreamWarehouse Stream = "warehouse"
	StreamSales     Stream = "sales"
)

// Valid indica si el stream es uno de los tres conocidos.
func (s Stream) Valid() bool {
	switch s {
	case StreamProducts, StreamWarehouse, StreamSales:
		return true
	}
	return false
}

// Estados del ciclo de sincronización de un stream.
const (
	SyncStateNotStarted = "not_started"
	SyncStateInProgress = "in_progress"
	SyncStateComplete   = "complete"
)
