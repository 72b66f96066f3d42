package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maitred-run/maitred/internal/entity"
)

var basePolicy = entity.DefaultPolicy()

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return v
}

func TestCheckCapacity(t *testing.T) {
	table := entity.Table{ID: "t1", Capacity: 4}

	assert.NoError(t, CheckCapacity(table, 4, basePolicy))
	assert.NoError(t, CheckCapacity(table, 1, basePolicy))

	err := CheckCapacity(table, 5, basePolicy)
	require.Error(t, err)
	assert.True(t, Is(err, KindCapacityExceeded))

	big := entity.Table{ID: "banquet", Capacity: 40}
	err = CheckCapacity(big, basePolicy.MaxPartySize+1, basePolicy)
	require.Error(t, err)
	assert.True(t, Is(err, KindCapacityExceeded), "the house cap applies even when the table is large enough")

	for _, party := range []int{0, -3} {
		err = CheckCapacity(table, party, basePolicy)
		require.Error(t, err, "party of %d", party)
		assert.True(t, Is(err, KindCapacityExceeded))
	}
}

func TestCheckReservationOverlap(t *testing.T) {
	start := ts(t, "2026-09-01T19:00:00Z")
	existing := []entity.Reservation{
		{ID: "r1", TableID: "t1", StartTime: start, Duration: 2 * time.Hour, Status: entity.ReservationBooked},
		{ID: "r2", TableID: "t2", StartTime: start, Duration: 2 * time.Hour, Status: entity.ReservationBooked},
		{ID: "r3", TableID: "t1", StartTime: start.Add(-4 * time.Hour), Duration: time.Hour, Status: entity.ReservationCancelled},
	}

	overlap := entity.NewWindow(start.Add(time.Hour), 2*time.Hour)
	err := CheckReservationOverlap("t1", overlap, existing, basePolicy)
	require.Error(t, err)
	assert.True(t, Is(err, KindTimeConflict))

	assert.NoError(t, CheckReservationOverlap("t3", overlap, existing, basePolicy),
		"reservations on other tables are ignored")

	adjacent := entity.NewWindow(start.Add(2*time.Hour), time.Hour)
	assert.NoError(t, CheckReservationOverlap("t1", adjacent, existing, basePolicy),
		"half-open windows make back-to-back bookings legal")

	cancelledSlot := entity.NewWindow(start.Add(-4*time.Hour), time.Hour)
	assert.NoError(t, CheckReservationOverlap("t1", cancelledSlot, existing, basePolicy),
		"cancelled reservations do not block the slot")
}

func TestCheckReservationOverlapDefaultDuration(t *testing.T) {
	start := ts(t, "2026-09-01T19:00:00Z")
	existing := []entity.Reservation{
		{ID: "r1", TableID: "t1", StartTime: start, Status: entity.ReservationBooked},
	}

	// The booked reservation has no duration hint, so it holds the
	// default service window.
	inside := entity.NewWindow(start.Add(90*time.Minute), time.Hour)
	err := CheckReservationOverlap("t1", inside, existing, basePolicy)
	require.Error(t, err)
	assert.True(t, Is(err, KindTimeConflict))

	after := entity.NewWindow(start.Add(basePolicy.DefaultDuration), time.Hour)
	assert.NoError(t, CheckReservationOverlap("t1", after, existing, basePolicy))
}

func TestCheckStatusTransition(t *testing.T) {
	tests := []struct {
		from, to entity.TableStatus
		ok       bool
	}{
		{entity.TableFree, entity.TableOccupied, true},
		{entity.TableFree, entity.TableReserved, true},
		{entity.TableReserved, entity.TableOccupied, true},
		{entity.TableReserved, entity.TableFree, true},
		{entity.TableOccupied, entity.TableFree, true},
		{entity.TableOutOfService, entity.TableFree, true},
		{entity.TableOccupied, entity.TableReserved, false},
		{entity.TableOccupied, entity.TableOccupied, false},
		{entity.TableFree, entity.TableFree, false},
		{entity.TableOutOfService, entity.TableOccupied, false},
		// any state may be taken out of service
		{entity.TableFree, entity.TableOutOfService, true},
		{entity.TableOccupied, entity.TableOutOfService, true},
		{entity.TableReserved, entity.TableOutOfService, true},
	}
	for _, tt := range tests {
		err := CheckStatusTransition(tt.from, tt.to)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
		} else {
			assert.True(t, Is(err, KindIllegalTransition), "%s -> %s", tt.from, tt.to)
		}
	}
}

func TestCheckOrderEligibility(t *testing.T) {
	assert.NoError(t, CheckOrderEligibility(entity.TableOccupied))
	assert.NoError(t, CheckOrderEligibility(entity.TableReserved))
	assert.True(t, Is(CheckOrderEligibility(entity.TableFree), KindTableNotOccupiable))
	assert.True(t, Is(CheckOrderEligibility(entity.TableOutOfService), KindTableNotOccupiable))
}

func TestCheckDuration(t *testing.T) {
	assert.NoError(t, CheckDuration(0, basePolicy), "zero means the default window")
	assert.NoError(t, CheckDuration(basePolicy.MinDuration, basePolicy))
	assert.NoError(t, CheckDuration(basePolicy.MaxDuration, basePolicy))
	assert.True(t, Is(CheckDuration(basePolicy.MinDuration-time.Minute, basePolicy), KindTimeConflict))
	assert.True(t, Is(CheckDuration(basePolicy.MaxDuration+time.Minute, basePolicy), KindTimeConflict))
}
