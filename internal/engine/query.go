package engine

import (
	"sort"
	"time"

	"github.com/maitred-run/maitred/internal/entity"
)

// FindAvailableTables returns the tables that could host a party of the
// given size during the window, ordered by capacity then id so the
// tightest fit comes first. A table qualifies when it is in service,
// large enough, free of overlapping active reservations, and, for a
// window that has already begun, not currently occupied.
func (e *Engine) FindAvailableTables(partySize int, window entity.Window) []entity.Table {
	now := e.now()

	var out []entity.Table
	for _, t := range e.st.Tables() {
		if t.Status == entity.TableOutOfService || t.Capacity < partySize {
			continue
		}
		if t.Status == entity.TableOccupied && window.Start.Before(now) {
			continue
		}
		blocked := false
		for _, r := range e.st.ReservationsForTable(t.ID) {
			if r.Status.Active() && r.Window(e.policy).Overlaps(window) {
				blocked = true
				break
			}
		}
		if !blocked {
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// UtilizationReport summarizes floor usage at a point in time.
type UtilizationReport struct {
	At time.Time

	Tables       int
	Free         int
	Occupied     int
	Reserved     int
	OutOfService int

	// Occupancy is Occupied over the in-service table count, in [0, 1].
	Occupancy float64

	// BookedReservations counts reservations still waiting to be
	// fulfilled; UpcomingHour narrows that to the next hour from At.
	BookedReservations int
	UpcomingHour       int
}

// Utilization computes floor usage at the given instant. Pass a zero
// time to use the current wall clock.
func (e *Engine) Utilization(at time.Time) UtilizationReport {
	if at.IsZero() {
		at = e.now()
	}
	rep := UtilizationReport{At: at}

	for _, t := range e.st.Tables() {
		rep.Tables++
		switch t.Status {
		case entity.TableFree:
			rep.Free++
		case entity.TableOccupied:
			rep.Occupied++
		case entity.TableReserved:
			rep.Reserved++
		case entity.TableOutOfService:
			rep.OutOfService++
		}
	}

	hour := entity.Window{Start: at, End: at.Add(time.Hour)}
	recs, _ := e.st.List(entity.KindReservation, nil)
	for _, rec := range recs {
		r := rec.(entity.Reservation)
		if r.Status != entity.ReservationBooked {
			continue
		}
		rep.BookedReservations++
		if hour.Contains(r.StartTime) {
			rep.UpcomingHour++
		}
	}

	if inService := rep.Tables - rep.OutOfService; inService > 0 {
		rep.Occupancy = float64(rep.Occupied) / float64(inService)
	}
	return rep
}
