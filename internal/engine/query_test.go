package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maitred-run/maitred/internal/entity"
)

func TestFindAvailableTables(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.AddTable(ctx, "two", 2)
	require.NoError(t, err)
	_, err = e.AddTable(ctx, "four", 4)
	require.NoError(t, err)
	_, err = e.AddTable(ctx, "six", 6)
	require.NoError(t, err)
	_, err = e.AddTable(ctx, "broken", 8)
	require.NoError(t, err)
	_, err = e.SetOutOfService(ctx, "broken")
	require.NoError(t, err)

	cust, err := e.RegisterCustomer(ctx, "Ada", "")
	require.NoError(t, err)

	tonight := entity.NewWindow(testNow.Add(time.Hour), 2*time.Hour)

	// Reserve the four-top over the queried window.
	_, err = e.ReserveTable(ctx, cust.ID, "four", 2, testNow.Add(time.Hour), 2*time.Hour)
	require.NoError(t, err)

	got := e.FindAvailableTables(3, tonight)
	require.Len(t, got, 1)
	assert.Equal(t, "six", got[0].ID, "out-of-service, too small and reserved tables drop out")

	// Tightest fit first.
	got = e.FindAvailableTables(1, entity.NewWindow(testNow.Add(6*time.Hour), time.Hour))
	require.Len(t, got, 3)
	assert.Equal(t, "two", got[0].ID)
	assert.Equal(t, "six", got[2].ID)
}

func TestFindAvailableTablesExcludesOccupiedNow(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.AddTable(ctx, "t1", 4)
	require.NoError(t, err)
	_, err = e.SeatWalkIn(ctx, "t1", 2)
	require.NoError(t, err)

	now := entity.NewWindow(testNow.Add(-time.Minute), time.Hour)
	assert.Empty(t, e.FindAvailableTables(2, now))

	later := entity.NewWindow(testNow.Add(4*time.Hour), time.Hour)
	assert.Len(t, e.FindAvailableTables(2, later), 1,
		"a currently occupied table can still host a future window")
}

func TestUtilization(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	for _, spec := range []struct {
		id  string
		cap int
	}{{"a", 2}, {"b", 4}, {"c", 4}, {"d", 6}} {
		_, err := e.AddTable(ctx, spec.id, spec.cap)
		require.NoError(t, err)
	}
	cust, err := e.RegisterCustomer(ctx, "Ada", "")
	require.NoError(t, err)

	_, err = e.SeatWalkIn(ctx, "a", 2)
	require.NoError(t, err)
	_, err = e.ReserveTable(ctx, cust.ID, "b", 4, testNow.Add(30*time.Minute), 0)
	require.NoError(t, err)
	_, err = e.ReserveTable(ctx, cust.ID, "c", 2, testNow.Add(3*time.Hour), 0)
	require.NoError(t, err)
	_, err = e.SetOutOfService(ctx, "d")
	require.NoError(t, err)

	rep := e.Utilization(testNow)
	assert.Equal(t, 4, rep.Tables)
	assert.Equal(t, 1, rep.Occupied)
	assert.Equal(t, 2, rep.Reserved)
	assert.Equal(t, 0, rep.Free)
	assert.Equal(t, 1, rep.OutOfService)
	assert.InDelta(t, 1.0/3.0, rep.Occupancy, 1e-9, "occupancy counts only in-service tables")
	assert.Equal(t, 2, rep.BookedReservations)
	assert.Equal(t, 1, rep.UpcomingHour)
}

func TestUtilizationEmptyFloor(t *testing.T) {
	e, _ := newTestEngine(t)
	rep := e.Utilization(time.Time{})
	assert.Zero(t, rep.Tables)
	assert.Zero(t, rep.Occupancy)
	assert.Equal(t, testNow, rep.At, "zero time means the engine's clock")
}
