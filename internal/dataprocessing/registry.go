package dataprocessing

import (
	"sort"

	"energycli/pkg/contracts/domain"
)

// BuildingRegistry holds one Building entity per distinct building name
// observed in a dataset.
type BuildingRegistry struct {
	buildings map[string]*domain.Building
}

// NewBuildingRegistry creates an empty building registry
func NewBuildingRegistry() *BuildingRegistry {
	return &BuildingRegistry{
		buildings: make(map[string]*domain.Building),
	}
}

// BuildRegistry populates a registry from every reading in the dataset
func BuildRegistry(dataset domain.Dataset) *BuildingRegistry {
	registry := NewBuildingRegistry()
	for _, r := range dataset {
		registry.Observe(r)
	}
	return registry
}

// Observe records a reading against its building, creating the Building
// entity on first sight.
func (r *BuildingRegistry) Observe(reading domain.Reading) {
	building, ok := r.buildings[reading.Building]
	if !ok {
		building = domain.NewBuilding(reading.Building)
		r.buildings[reading.Building] = building
	}
	building.AddReading(reading.Timestamp, reading.KWH)
}

// Get returns the building entity for a name
func (r *BuildingRegistry) Get(name string) (*domain.Building, bool) {
	building, ok := r.buildings[name]
	return building, ok
}

// Len returns the number of distinct buildings observed
func (r *BuildingRegistry) Len() int {
	return len(r.buildings)
}

// Names returns every building name in alphabetical order
func (r *BuildingRegistry) Names() []string {
	names := make([]string, 0, len(r.buildings))
	for name := range r.buildings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Buildings returns every building entity in alphabetical name order
func (r *BuildingRegistry) Buildings() []*domain.Building {
	out := make([]*domain.Building, 0, len(r.buildings))
	for _, name := range r.Names() {
		out = append(out, r.buildings[name])
	}
	return out
}

// Reports returns a consumption report per building, in alphabetical
// name order.
func (r *BuildingRegistry) Reports() []domain.ConsumptionReport {
	out := make([]domain.ConsumptionReport, 0, len(r.buildings))
	for _, building := range r.Buildings() {
		out = append(out, building.Report())
	}
	return out
}

// TopBuilding returns the building with the highest total consumption.
// Alphabetical ordering breaks ties.
func (r *BuildingRegistry) TopBuilding() (*domain.Building, bool) {
	var top *domain.Building
	for _, building := range r.Buildings() {
		if top == nil || building.TotalConsumption() > top.TotalConsumption() {
			top = building
		}
	}
	return top, top != nil
}
