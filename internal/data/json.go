package data

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"tariff-engine/internal/model"
)

// ReadConsumptionJSON parses a JSON array of consumption records.
func ReadConsumptionJSON(path string) ([]model.ConsumptionRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "data: read %s", path)
	}
	var recs []model.ConsumptionRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, eris.Wrapf(err, "data: parse %s", path)
	}
	return recs, nil
}

// WriteConsumptionJSON writes records as an indented JSON array.
func WriteConsumptionJSON(path string, recs []model.ConsumptionRecord) error {
	raw, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return eris.Wrap(err, "data: marshal records")
	}
	return os.WriteFile(path, raw, 0o644)
}
