package model

import (
	"sort"
	"time"
)

// ConsumptionRecord is one raw meter reading: a household's consumption
// for a single hour. Timestamps are RFC3339 in JSON and must be
// hour-aligned.
type ConsumptionRecord struct {
	HouseholdID    int       `json:"household_id"`
	Timestamp      time.Time `json:"timestamp"`
	ConsumptionKWh float64   `json:"consumption_kwh"`
}

// Dataset is an immutable columnar view of consumption records for one
// evaluation window. It owns an ordered hourly time grid of length H and
// one length-H consumption vector per household, index-aligned with the
// grid. Built once via BuildDataset; accessors are read-only and safe
// for concurrent use. Callers must not modify returned slices.
type Dataset struct {
	grid   []time.Time
	ids    []int
	series map[int][]float64
	load   []float64
	total  float64
}

// BuildDataset validates raw records and assembles the columnar view.
// It fails with *MalformedDataError when:
//   - there are no records
//   - a household id is negative or a consumption value is negative
//   - a timestamp is not hour-aligned
//   - the union of timestamps is not a contiguous hourly grid
//   - a (household, timestamp) pair appears twice
//   - a household is missing hours present in the grid
func BuildDataset(records []ConsumptionRecord) (*Dataset, error) {
	if len(records) == 0 {
		return nil, &MalformedDataError{Reason: "no consumption records"}
	}

	gridSet := make(map[int64]time.Time)
	seen := make(map[[2]int64]bool, len(records))
	byHousehold := make(map[int]map[int64]float64)

	for i, r := range records {
		if r.HouseholdID < 0 {
			return nil, malformedf("record %d: household_id %d is negative", i, r.HouseholdID)
		}
		if r.ConsumptionKWh < 0 {
			return nil, malformedf("record %d: consumption %.6f kWh is negative", i, r.ConsumptionKWh)
		}
		if r.Timestamp.IsZero() {
			return nil, malformedf("record %d: timestamp is zero", i)
		}
		if !r.Timestamp.Equal(r.Timestamp.Truncate(time.Hour)) {
			return nil, malformedf("record %d: timestamp %s is not hour-aligned", i, r.Timestamp.Format(time.RFC3339))
		}

		key := r.Timestamp.Unix()
		pair := [2]int64{int64(r.HouseholdID), key}
		if seen[pair] {
			return nil, malformedf("duplicate record for household %d at %s", r.HouseholdID, r.Timestamp.Format(time.RFC3339))
		}
		seen[pair] = true

		if _, ok := gridSet[key]; !ok {
			gridSet[key] = r.Timestamp.UTC()
		}
		hh, ok := byHousehold[r.HouseholdID]
		if !ok {
			hh = make(map[int64]float64)
			byHousehold[r.HouseholdID] = hh
		}
		hh[key] = r.ConsumptionKWh
	}

	grid := make([]time.Time, 0, len(gridSet))
	for _, ts := range gridSet {
		grid = append(grid, ts)
	}
	sort.Slice(grid, func(i, j int) bool { return grid[i].Before(grid[j]) })

	for i := 1; i < len(grid); i++ {
		if grid[i].Sub(grid[i-1]) != time.Hour {
			return nil, malformedf("time grid is not contiguous hourly: gap between %s and %s",
				grid[i-1].Format(time.RFC3339), grid[i].Format(time.RFC3339))
		}
	}

	ids := make([]int, 0, len(byHousehold))
	for id := range byHousehold {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	h := len(grid)
	series := make(map[int][]float64, len(ids))
	load := make([]float64, h)
	total := 0.0

	for _, id := range ids {
		hh := byHousehold[id]
		if len(hh) != h {
			return nil, malformedf("household %d has %d hours, grid has %d", id, len(hh), h)
		}
		vec := make([]float64, h)
		for t, ts := range grid {
			v, ok := hh[ts.Unix()]
			if !ok {
				return nil, malformedf("household %d is missing hour %s", id, ts.Format(time.RFC3339))
			}
			vec[t] = v
			load[t] += v
			total += v
		}
		series[id] = vec
	}

	return &Dataset{
		grid:   grid,
		ids:    ids,
		series: series,
		load:   load,
		total:  total,
	}, nil
}

// TimeGrid returns the ordered hourly timestamps (UTC).
func (d *Dataset) TimeGrid() []time.Time { return d.grid }

// Hours returns H, the number of hours in the grid.
func (d *Dataset) Hours() int { return len(d.grid) }

// HouseholdIDs returns household ids in ascending order.
func (d *Dataset) HouseholdIDs() []int { return d.ids }

// Households returns the number of households.
func (d *Dataset) Households() int { return len(d.ids) }

// SeriesFor returns the length-H consumption vector for a household.
func (d *Dataset) SeriesFor(householdID int) ([]float64, bool) {
	s, ok := d.series[householdID]
	return s, ok
}

// LoadProfile returns the per-hour aggregate consumption across all
// households, index-aligned with TimeGrid.
func (d *Dataset) LoadProfile() []float64 { return d.load }

// TotalConsumption returns the sum of all consumption in the window (kWh).
func (d *Dataset) TotalConsumption() float64 { return d.total }

// Records flattens the dataset back into raw records, households in
// ascending id order and hours in grid order.
func (d *Dataset) Records() []ConsumptionRecord {
	recs := make([]ConsumptionRecord, 0, len(d.ids)*len(d.grid))
	for _, id := range d.ids {
		vec := d.series[id]
		for i, ts := range d.grid {
			recs = append(recs, ConsumptionRecord{
				HouseholdID:    id,
				Timestamp:      ts,
				ConsumptionKWh: vec[i],
			})
		}
	}
	return recs
}
