package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tu-usuario/margin-sync/internal/application/dto"
	syncapp "github.com/tu-usuario/margin-sync/internal/application/sync"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/internal/domain/repository"
	"github.com/tu-usuario/margin-sync/pkg/logger"
)

// AutoSync corre lotes de sincronización de forma recurrente. Cada tick es
// un bucle puro sobre estado persistido: cargar SchedulerState, correr un
// lote del stream en curso, guardar el estado. Un reinicio del proceso no
// pierde el progreso y desactivar el flag detiene los ticks siguientes sin
// interrumpir el lote en curso.
//
// Los streams corren en orden fijo warehouse → sales; el auto-sync se
// desactiva solo cuando sales termina.
type AutoSync struct {
	cron    *cron.Cron
	service *syncapp.Service
	states  repository.SchedulerStateRepository
	log     *logger.Logger
	timeout time.Duration
}

// NewAutoSync construye el auto-sync con la expresión cron dada.
// Los ticks que encuentran el anterior todavía corriendo se descartan.
func NewAutoSync(spec string, service *syncapp.Service, states repository.SchedulerStateRepository, log *logger.Logger) (*AutoSync, error) {
	a := &AutoSync{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		service: service,
		states:  states,
		log:     log.Component("scheduler"),
		timeout: 30 * time.Minute,
	}
	if _, err := a.cron.AddFunc(spec, a.tick); err != nil {
		return nil, fmt.Errorf("scheduler: expresión cron inválida %q: %w", spec, err)
	}
	return a, nil
}

// Run arranca el cron. Los ticks no hacen nada hasta Activate.
func (a *AutoSync) Run() {
	a.cron.Start()
	a.log.Info().Msg("auto-sync arrancado")
}

// Shutdown detiene el cron y espera a que termine el tick en curso.
func (a *AutoSync) Shutdown() {
	<-a.cron.Stop().Done()
	a.log.Info().Msg("auto-sync detenido")
}

// Activate enciende el auto-sync. Si no hay corrida en curso, empieza
// por warehouse; si la hay, continúa donde quedó.
func (a *AutoSync) Activate(ctx context.Context) error {
	state, err := a.states.Get(ctx)
	if err != nil {
		return err
	}
	if !state.CurrentStream.Valid() {
		state.CurrentStream = entity.StreamWarehouse
	}
	state.Active = true
	state.UpdatedAt = time.Now()
	return a.states.Save(ctx, state)
}

// Deactivate apaga el flag persistido. El tick en curso termina su lote;
// los siguientes ven el flag apagado y no hacen nada.
func (a *AutoSync) Deactivate(ctx context.Context) error {
	state, err := a.states.Get(ctx)
	if err != nil {
		return err
	}
	state.Active = false
	state.UpdatedAt = time.Now()
	return a.states.Save(ctx, state)
}

// Status devuelve el estado observable del auto-sync.
func (a *AutoSync) Status(ctx context.Context) (*dto.SchedulerStatus, error) {
	state, err := a.states.Get(ctx)
	if err != nil {
		return nil, err
	}
	st := &dto.SchedulerStatus{
		Active:        state.Active,
		CurrentStream: string(state.CurrentStream),
		TicksRun:      state.TicksRun,
	}
	if !state.LastTickAt.IsZero() {
		t := state.LastTickAt
		st.LastTickAt = &t
	}
	return st, nil
}

func (a *AutoSync) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	state, err := a.states.Get(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("tick: no se pudo cargar el estado")
		return
	}
	if !state.Active {
		return
	}

	stream := state.CurrentStream
	report, err := a.service.SyncBatch(ctx, stream)

	state.TicksRun++
	state.LastTickAt = time.Now()
	state.UpdatedAt = state.LastTickAt

	if err != nil {
		// El cursor quedó donde estaba; el siguiente tick reintenta el mismo lote.
		a.log.Error().Err(err).Str("stream", string(stream)).Msg("tick: lote falló")
	} else if report.Complete {
		switch stream {
		case entity.StreamWarehouse:
			state.CurrentStream = entity.StreamSales
			a.log.Info().Msg("warehouse completo, auto-sync pasa a sales")
		default:
			state.Active = false
			state.CurrentStream = entity.StreamWarehouse
			a.log.Info().Str("stream", string(stream)).Msg("stream completo, auto-sync desactivado")
		}
	} else {
		a.log.Info().
			Str("stream", string(stream)).
			Int("synced", report.SyncedThisBatch).
			Msg("tick: lote parcial, continúa en el siguiente")
	}

	if err := a.states.Save(ctx, state); err != nil {
		a.log.Error().Err(err).Msg("tick: no se pudo guardar el estado")
	}
}
