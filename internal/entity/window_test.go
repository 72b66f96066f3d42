package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestWindowOverlaps(t *testing.T) {
	base := mustTime(t, "2026-09-01T19:00:00Z")
	w := NewWindow(base, 2*time.Hour) // 19:00 - 21:00

	tests := []struct {
		name  string
		other Window
		want  bool
	}{
		{"identical", NewWindow(base, 2*time.Hour), true},
		{"contained", NewWindow(base.Add(30*time.Minute), time.Hour), true},
		{"overlaps start", NewWindow(base.Add(-time.Hour), 90*time.Minute), true},
		{"overlaps end", NewWindow(base.Add(90*time.Minute), 2*time.Hour), true},
		{"adjacent before", NewWindow(base.Add(-2*time.Hour), 2*time.Hour), false},
		{"adjacent after", NewWindow(base.Add(2*time.Hour), time.Hour), false},
		{"disjoint", NewWindow(base.Add(5*time.Hour), time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(w), "overlap must be symmetric")
		})
	}
}

func TestWindowContains(t *testing.T) {
	base := mustTime(t, "2026-09-01T19:00:00Z")
	w := NewWindow(base, time.Hour)

	assert.True(t, w.Contains(base), "start is inclusive")
	assert.True(t, w.Contains(base.Add(59*time.Minute)))
	assert.False(t, w.Contains(base.Add(time.Hour)), "end is exclusive")
	assert.False(t, w.Contains(base.Add(-time.Second)))
}

func TestReservationWindowDefaultDuration(t *testing.T) {
	p := DefaultPolicy()
	start := mustTime(t, "2026-09-01T19:00:00Z")

	r := Reservation{ID: "r1", StartTime: start}
	w := r.Window(p)
	assert.Equal(t, start.Add(p.DefaultDuration), w.End, "zero duration means the default service window")

	r.Duration = 45 * time.Minute
	assert.Equal(t, start.Add(45*time.Minute), r.Window(p).End)
}

func TestPolicyArrivalWindow(t *testing.T) {
	p := DefaultPolicy()
	start := mustTime(t, "2026-09-01T19:00:00Z")
	w := p.ArrivalWindow(start)

	assert.True(t, w.Contains(start))
	assert.True(t, w.Contains(start.Add(-15*time.Minute)), "early bound is inclusive")
	assert.True(t, w.Contains(start.Add(29*time.Minute)))
	assert.False(t, w.Contains(start.Add(30*time.Minute)), "late bound is exclusive")
	assert.False(t, w.Contains(start.Add(-16*time.Minute)))
}

func TestOrderTotal(t *testing.T) {
	o := Order{Items: []OrderItem{
		{DishRef: "margherita", Quantity: 2, Price: 1250},
		{DishRef: "negroni", Quantity: 3, Price: 900},
	}}
	assert.Equal(t, int64(2*1250+3*900), o.Total())
}

func TestReservationStatusActive(t *testing.T) {
	assert.True(t, ReservationBooked.Active())
	assert.True(t, ReservationFulfilled.Active())
	assert.False(t, ReservationCancelled.Active())
	assert.False(t, ReservationNoShow.Active())
}
