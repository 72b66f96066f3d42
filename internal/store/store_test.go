package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maitred-run/maitred/internal/entity"
)

func TestGetReturnsCopies(t *testing.T) {
	s := New()
	require.NoError(t, s.Upsert(entity.Order{
		ID:      "o1",
		TableID: "t1",
		Items:   []entity.OrderItem{{DishRef: "soup", Quantity: 1, Price: 600}},
		Status:  entity.OrderOpen,
	}))

	o, err := s.Order("o1")
	require.NoError(t, err)
	o.Items[0].Quantity = 99
	o.Items = append(o.Items, entity.OrderItem{DishRef: "injected", Quantity: 1})

	again, err := s.Order("o1")
	require.NoError(t, err)
	require.Len(t, again.Items, 1, "mutating a returned order must not touch the store")
	assert.Equal(t, 1, again.Items[0].Quantity)
}

func TestUpsertClonesInput(t *testing.T) {
	s := New()
	items := []entity.OrderItem{{DishRef: "soup", Quantity: 1, Price: 600}}
	require.NoError(t, s.Upsert(entity.Order{ID: "o1", TableID: "t1", Items: items, Status: entity.OrderOpen}))

	items[0].Quantity = 42

	o, err := s.Order("o1")
	require.NoError(t, err)
	assert.Equal(t, 1, o.Items[0].Quantity, "the store must not alias caller slices")
}

func TestGetNotFound(t *testing.T) {
	s := New()
	_, err := s.Table("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveTableConflicts(t *testing.T) {
	s := New()
	require.NoError(t, s.Upsert(entity.Table{ID: "t1", Capacity: 4, Status: entity.TableReserved}))
	require.NoError(t, s.Upsert(entity.Reservation{
		ID: "r1", TableID: "t1", PartySize: 2,
		StartTime: time.Now(), Status: entity.ReservationBooked,
	}))

	err := s.Remove(entity.KindTable, "t1")
	assert.ErrorIs(t, err, ErrConflict)

	// A cancelled reservation no longer blocks removal.
	require.NoError(t, s.Upsert(entity.Reservation{
		ID: "r1", TableID: "t1", PartySize: 2,
		StartTime: time.Now(), Status: entity.ReservationCancelled,
	}))
	require.NoError(t, s.Remove(entity.KindTable, "t1"))

	_, err = s.Table("t1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveTableBlockedByOpenOrder(t *testing.T) {
	s := New()
	require.NoError(t, s.Upsert(entity.Table{ID: "t1", Capacity: 4, Status: entity.TableOccupied}))
	require.NoError(t, s.Upsert(entity.Order{ID: "o1", TableID: "t1", Status: entity.OrderOpen}))

	assert.ErrorIs(t, s.Remove(entity.KindTable, "t1"), ErrConflict)

	require.NoError(t, s.Upsert(entity.Order{ID: "o1", TableID: "t1", Status: entity.OrderClosed}))
	assert.NoError(t, s.Remove(entity.KindTable, "t1"))
}

func TestListOrderedAndFiltered(t *testing.T) {
	s := New()
	for _, id := range []string{"t3", "t1", "t2"} {
		require.NoError(t, s.Upsert(entity.Table{ID: id, Capacity: 2, Status: entity.TableFree}))
	}

	recs, err := s.List(entity.KindTable, nil)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "t1", recs[0].RecordID())
	assert.Equal(t, "t3", recs[2].RecordID())

	recs, err = s.List(entity.KindTable, func(r entity.Record) bool {
		return r.(entity.Table).ID != "t2"
	})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestDiscardIgnoresMissing(t *testing.T) {
	s := New()
	s.Discard(entity.KindTable, "nope")

	require.NoError(t, s.Upsert(entity.Table{ID: "t1", Capacity: 2, Status: entity.TableFree}))
	s.Discard(entity.KindTable, "t1")
	_, err := s.Table("t1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New()
	require.NoError(t, s.Upsert(entity.Table{ID: "t1", Capacity: 4, Status: entity.TableOccupied}))
	require.NoError(t, s.Upsert(entity.Table{ID: "t2", Capacity: 2, Status: entity.TableFree}))
	require.NoError(t, s.Upsert(entity.Reservation{
		ID: "r1", CustomerID: "c1", TableID: "t1", PartySize: 4,
		StartTime: time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC),
		Status:    entity.ReservationFulfilled,
	}))
	require.NoError(t, s.Upsert(entity.Order{
		ID: "o1", TableID: "t1",
		Items:  []entity.OrderItem{{DishRef: "soup", Quantity: 2, Price: 600}},
		Status: entity.OrderOpen,
	}))
	require.NoError(t, s.Upsert(entity.Customer{ID: "c1", Name: "Ada", Phone: "555"}))
	require.NoError(t, s.Upsert(entity.Staff{ID: "s1", Name: "Bo", AssignedTables: []string{"t1"}}))

	snap := s.Snapshot()
	rebuilt := FromSnapshot(snap)

	assert.True(t, reflect.DeepEqual(snap, rebuilt.Snapshot()),
		"a snapshot loaded into a fresh store must snapshot identically")
}

func TestSnapshotIsStable(t *testing.T) {
	s := New()
	require.NoError(t, s.Upsert(entity.Table{ID: "b", Capacity: 2, Status: entity.TableFree}))
	require.NoError(t, s.Upsert(entity.Table{ID: "a", Capacity: 2, Status: entity.TableFree}))

	first := s.Snapshot()
	second := s.Snapshot()
	assert.True(t, reflect.DeepEqual(first, second), "snapshots of unchanged state must be identical")
	require.Len(t, first.Tables, 2)
	assert.Equal(t, "a", first.Tables[0].ID, "snapshot ordering is by id")
}
