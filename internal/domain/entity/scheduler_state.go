package entity

import "time"

// SchedulerState estado persistido del auto-sync recurrente. Se carga al
// inicio de cada tick y se persiste al final: el cron es un bucle puro
// "cargar estado, invocar orquestador, guardar estado", sin globals.
//
// Los streams corren secuencialmente hasta completarse (warehouse antes que
// sales): el margen de una venta solo es confiable si el stream de almacén
// ya terminó cuando se construye el índice de costos.
type SchedulerState struct {
	Active        bool
	CurrentStream Stream // stream en curso; warehouse → sales
	TicksRun      int
	LastTickAt    time.Time
	UpdatedAt     time.Time
}
