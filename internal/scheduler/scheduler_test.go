package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/internal/scheduler"
	"github.com/tu-usuario/margin-sync/pkg/logger"
)

type fakeStateRepo struct {
	state entity.SchedulerState
}

func (r *fakeStateRepo) Get(context.Context) (*entity.SchedulerState, error) {
	s := r.state
	if !s.CurrentStream.Valid() {
		s.CurrentStream = entity.StreamWarehouse
	}
	return &s, nil
}

func (r *fakeStateRepo) Save(_ context.Context, state *entity.SchedulerState) error {
	r.state = *state
	return nil
}

func newAutoSync(t *testing.T, repo *fakeStateRepo) *scheduler.AutoSync {
	t.Helper()
	a, err := scheduler.NewAutoSync("*/5 * * * *", nil, repo, logger.Nop())
	require.NoError(t, err)
	return a
}

func TestNewAutoSync_CronInvalido(t *testing.T) {
	_, err := scheduler.NewAutoSync("no es cron", nil, &fakeStateRepo{}, logger.Nop())
	assert.Error(t, err)
}

// Activar sin corrida previa arranca por el stream de almacén.
func TestActivate_ArrancaPorAlmacen(t *testing.T) {
	repo := &fakeStateRepo{}
	a := newAutoSync(t, repo)

	require.NoError(t, a.Activate(context.Background()))

	assert.True(t, repo.state.Active)
	assert.Equal(t, entity.StreamWarehouse, repo.state.CurrentStream)
}

// Activar con una corrida a medias continúa donde quedó, no reinicia.
func TestActivate_ContinuaCorridaEnCurso(t *testing.T) {
	repo := &fakeStateRepo{state: entity.SchedulerState{
		CurrentStream: entity.StreamSales,
		TicksRun:      7,
	}}
	a := newAutoSync(t, repo)

	require.NoError(t, a.Activate(context.Background()))

	assert.Equal(t, entity.StreamSales, repo.state.CurrentStream)
	assert.Equal(t, 7, repo.state.TicksRun)
}

// Desactivar solo apaga el flag; el resto del estado queda intacto para
// poder reanudar.
func TestDeactivate_PreservaElProgreso(t *testing.T) {
	repo := &fakeStateRepo{state: entity.SchedulerState{
		Active:        true,
		CurrentStream: entity.StreamSales,
		TicksRun:      3,
	}}
	a := newAutoSync(t, repo)

	require.NoError(t, a.Deactivate(context.Background()))

	assert.False(t, repo.state.Active)
	assert.Equal(t, entity.StreamSales, repo.state.CurrentStream)
	assert.Equal(t, 3, repo.state.TicksRun)
}

func TestStatus_OmiteUltimoTickSiNuncaCorrio(t *testing.T) {
	a := newAutoSync(t, &fakeStateRepo{})

	st, err := a.Status(context.Background())
	require.NoError(t, err)

	assert.False(t, st.Active)
	assert.Equal(t, "warehouse", st.CurrentStream)
	assert.Nil(t, st.LastTickAt)
}

func TestStatus_ExponeUltimoTick(t *testing.T) {
	last := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := newAutoSync(t, &fakeStateRepo{state: entity.SchedulerState{
		Active:        true,
		CurrentStream: entity.StreamWarehouse,
		TicksRun:      9,
		LastTickAt:    last,
	}})

	st, err := a.Status(context.Background())
	require.NoError(t, err)

	assert.True(t, st.Active)
	assert.Equal(t, 9, st.TicksRun)
	require.NotNil(t, st.LastTickAt)
	assert.True(t, st.LastTickAt.Equal(last))
}
