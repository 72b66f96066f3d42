package entity

import "time"

// Policy holds the named service-policy constants used during admission.
// The defaults mirror the house rules the engine shipped with; deployments
// may override them through configuration or the floor plan.
type Policy struct {
	// DefaultDuration is the service window assumed for reservations
	// that declare no duration hint.
	DefaultDuration time.Duration

	// MinDuration and MaxDuration bound declared reservation durations.
	MinDuration time.Duration
	MaxDuration time.Duration

	// MaxPartySize caps party sizes regardless of table capacity.
	MaxPartySize int

	// ArriveEarly and ArriveLate define the arrival window around a
	// reservation's start time: arrival is accepted within
	// [start-ArriveEarly, start+ArriveLate). Past the late bound the
	// reservation is a no-show candidate.
	ArriveEarly time.Duration
	ArriveLate  time.Duration
}

// DefaultPolicy returns the stock policy constants.
func DefaultPolicy() Policy {
	return Policy{
		DefaultDuration: 120 * time.Minute,
		MinDuration:     30 * time.Minute,
		MaxDuration:     8 * time.Hour,
		MaxPartySize:    20,
		ArriveEarly:     15 * time.Minute,
		ArriveLate:      30 * time.Minute,
	}
}

// ArrivalWindow returns the half-open interval during which arrival for
// a reservation starting at start is accepted.
func (p Policy) ArrivalWindow(start time.Time) Window {
	return Window{Start: start.Add(-p.ArriveEarly), End: start.Add(p.ArriveLate)}
}
