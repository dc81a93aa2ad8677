package entity

import "time"

// SyncCursor punto de reanudación persistido de un barrido paginado.
// Ciclo de vida: ausente (stream completo o nunca iniciado) → creado en el
// primer lote → avanzado tras cada lote que no llega al final → borrado al
// observar una página corta o vacía (centinela de fin de colección).
//
// Un cursor ausente es ambiguo por sí solo: el orquestador distingue
// "no iniciado" de "completo" cruzando el conteo de filas ya almacenadas.
type SyncCursor struct {
	Stream    Stream
	NextPage  int
	UpdatedAt time.Time
}
