// Package data reads and writes consumption datasets and price curves
// and generates synthetic fleets for demos and load testing.
package data

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"tariff-engine/internal/model"
)

var csvHeader = []string{"household_id", "timestamp", "consumption_kwh"}

// ReadConsumptionCSV parses hourly consumption records from a CSV file
// with columns household_id, timestamp (RFC3339), consumption_kwh.
func ReadConsumptionCSV(path string) ([]model.ConsumptionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "data: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "data: parse %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("data: %s has no header row", path)
	}

	recs := make([]model.ConsumptionRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, eris.Wrapf(err, "data: row %d household_id", i+2)
		}
		ts, err := time.Parse(time.RFC3339, row[1])
		if err != nil {
			return nil, eris.Wrapf(err, "data: row %d timestamp", i+2)
		}
		kwh, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, eris.Wrapf(err, "data: row %d consumption_kwh", i+2)
		}
		recs = append(recs, model.ConsumptionRecord{
			HouseholdID:    id,
			Timestamp:      ts,
			ConsumptionKWh: kwh,
		})
	}
	return recs, nil
}

// WriteConsumptionCSV writes records in the layout ReadConsumptionCSV
// expects.
func WriteConsumptionCSV(path string, recs []model.ConsumptionRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range recs {
		row := []string{
			strconv.Itoa(rec.HouseholdID),
			fmtTime(rec.Timestamp),
			fmtFloat(rec.ConsumptionKWh),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WritePriceCurveCSV writes one price per grid hour with columns
// timestamp, price_per_kwh.
func WritePriceCurveCSV(path string, grid []time.Time, curve model.PriceCurve) error {
	if len(curve) != len(grid) {
		return &model.ShapeMismatchError{CurveLen: len(curve), GridLen: len(grid)}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"timestamp", "price_per_kwh"}); err != nil {
		return err
	}
	for i, ts := range grid {
		if err := w.Write([]string{fmtTime(ts), fmtFloat(curve[i])}); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
