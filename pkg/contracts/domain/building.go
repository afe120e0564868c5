package domain

import (
	"time"
)

// MeterReading represents one measurement held by a Building entity.
type MeterReading struct {
	Timestamp time.Time `json:"timestamp" validate:"required"`
	KWH       float64   `json:"kwh"`
}

// ConsumptionReport represents the reporting snapshot of a single building.
type ConsumptionReport struct {
	Building         string  `json:"building" validate:"required"`
	TotalConsumption float64 `json:"total_consumption"`
}

// Building represents one campus building and the readings attributed to
// it. Readings are held in arrival order; the entity never rejects a
// reading and computes its totals on demand rather than caching them.
type Building struct {
	Name     string
	readings []MeterReading
}

// NewBuilding creates an empty building entity.
func NewBuilding(name string) *Building {
	return &Building{Name: name}
}

// AddReading appends one measurement to the building.
func (b *Building) AddReading(ts time.Time, kwh float64) {
	b.readings = append(b.readings, MeterReading{Timestamp: ts, KWH: kwh})
}

// TotalConsumption returns the sum of all readings. The value is
// recomputed on every call so it always reflects the current readings.
func (b *Building) TotalConsumption() float64 {
	var total float64
	for _, r := range b.readings {
		total += r.KWH
	}
	return total
}

// Len returns the number of readings attributed to the building.
func (b *Building) Len() int {
	return len(b.readings)
}

// Readings returns a copy of the building's readings in arrival order.
func (b *Building) Readings() []MeterReading {
	out := make([]MeterReading, len(b.readings))
	copy(out, b.readings)
	return out
}

// Report returns the building's reporting snapshot. Calling Report does
// not modify the building, so repeated calls give identical results for
// identical readings.
func (b *Building) Report() ConsumptionReport {
	return ConsumptionReport{
		Building:         b.Name,
		TotalConsumption: b.TotalConsumption(),
	}
}
