package journal

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maitred-run/maitred/internal/entity"
)

func seatingLog(start time.Time) []entity.Event {
	return []entity.Event{
		{Seq: 1, Kind: entity.EventTableAdded, TableID: "t1", Capacity: 4},
		{Seq: 2, Kind: entity.EventTableAdded, TableID: "t2", Capacity: 2},
		{Seq: 3, Kind: entity.EventCustomerRegistered, CustomerID: "c1", Name: "Ada", Phone: "555"},
		{Seq: 4, Kind: entity.EventReservationCreated, ReservationID: "r1", CustomerID: "c1", TableID: "t1", PartySize: 4, StartTime: start},
		{Seq: 5, Kind: entity.EventReservationFulfilled, ReservationID: "r1", TableID: "t1"},
		{Seq: 6, Kind: entity.EventOrderPlaced, OrderID: "o1", TableID: "t1", Items: []entity.OrderItem{{DishRef: "soup", Quantity: 2, Price: 600}}},
		{Seq: 7, Kind: entity.EventOrderItemsAdded, OrderID: "o1", TableID: "t1", Items: []entity.OrderItem{{DishRef: "wine", Quantity: 1, Price: 2400}}},
		{Seq: 8, Kind: entity.EventOrderClosed, OrderID: "o1", TableID: "t1"},
		{Seq: 9, Kind: entity.EventTableFreed, TableID: "t1"},
	}
}

func TestReplayRebuildsState(t *testing.T) {
	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	st, err := Replay(seatingLog(start))
	require.NoError(t, err)

	table, err := st.Table("t1")
	require.NoError(t, err)
	assert.Equal(t, entity.TableFree, table.Status)

	res, err := st.Reservation("r1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationFulfilled, res.Status)

	order, err := st.Order("o1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderClosed, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(2*600+2400), order.Total())
}

func TestReplayIsDeterministic(t *testing.T) {
	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	log := seatingLog(start)

	first, err := Replay(log)
	require.NoError(t, err)
	second, err := Replay(log)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first.Snapshot(), second.Snapshot()))
}

func TestReplayReservationCreatedReservesFreeTable(t *testing.T) {
	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	st, err := Replay([]entity.Event{
		{Seq: 1, Kind: entity.EventTableAdded, TableID: "t1", Capacity: 4},
		{Seq: 2, Kind: entity.EventReservationCreated, ReservationID: "r1", TableID: "t1", PartySize: 2, StartTime: start},
	})
	require.NoError(t, err)

	table, err := st.Table("t1")
	require.NoError(t, err)
	assert.Equal(t, entity.TableReserved, table.Status)
}

func TestReplayCancellationHonorsFreedFlag(t *testing.T) {
	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)

	base := []entity.Event{
		{Seq: 1, Kind: entity.EventTableAdded, TableID: "t1", Capacity: 4},
		{Seq: 2, Kind: entity.EventReservationCreated, ReservationID: "r1", TableID: "t1", PartySize: 2, StartTime: start},
	}

	st, err := Replay(append(base, entity.Event{
		Seq: 3, Kind: entity.EventReservationCancelled, ReservationID: "r1", TableID: "t1", FreedTable: true,
	}))
	require.NoError(t, err)
	table, _ := st.Table("t1")
	assert.Equal(t, entity.TableFree, table.Status)

	st, err = Replay(append(base, entity.Event{
		Seq: 3, Kind: entity.EventReservationCancelled, ReservationID: "r1", TableID: "t1", FreedTable: false,
	}))
	require.NoError(t, err)
	table, _ = st.Table("t1")
	assert.Equal(t, entity.TableReserved, table.Status,
		"the freed decision comes from the event, never from re-derivation")
}

func TestReplayTableLifecycle(t *testing.T) {
	st, err := Replay([]entity.Event{
		{Seq: 1, Kind: entity.EventTableAdded, TableID: "t1", Capacity: 2},
		{Seq: 2, Kind: entity.EventTableResized, TableID: "t1", Capacity: 6},
		{Seq: 3, Kind: entity.EventTableOutOfService, TableID: "t1"},
		{Seq: 4, Kind: entity.EventTableReturnedToService, TableID: "t1"},
		{Seq: 5, Kind: entity.EventStaffRegistered, StaffID: "s1", Name: "Bo", AssignedTables: []string{"t1"}},
	})
	require.NoError(t, err)

	table, err := st.Table("t1")
	require.NoError(t, err)
	assert.Equal(t, 6, table.Capacity)
	assert.Equal(t, entity.TableFree, table.Status)

	staff, err := st.Staff("s1")
	require.NoError(t, err)
	assert.True(t, staff.AssignedTo("t1"))
}

func TestReplayUnknownKind(t *testing.T) {
	_, err := Replay([]entity.Event{{Seq: 1, Kind: "table.exploded", TableID: "t1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestReplayDanglingReference(t *testing.T) {
	_, err := Replay([]entity.Event{{Seq: 1, Kind: entity.EventTableFreed, TableID: "ghost"}})
	require.Error(t, err)
}
