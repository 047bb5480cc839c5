package domain

import (
	"encoding/json"
	"fmt"
	"os"
)

// BandMapping scales one frequency band's energy envelope into one mediator
// parameter's output range.
type BandMapping struct {
	Param   string  `json:"param"`
	FreqMin float64 `json:"freq_min"`
	FreqMax float64 `json:"freq_max"`
	OutMin  float64 `json:"out_min"`
	OutMax  float64 `json:"out_max"`
}

// bandMappingSpec distinguishes absent fields from zero values while parsing.
type bandMappingSpec struct {
	Param   string   `json:"param"`
	FreqMin *float64 `json:"freq_min"`
	FreqMax *float64 `json:"freq_max"`
	OutMin  *float64 `json:"out_min"`
	OutMax  *float64 `json:"out_max"`
}

// DefaultBandMappings routes the classic low/mid/high split onto the camera
// translation axes.
func DefaultBandMappings() []BandMapping {
	return []BandMapping{
		{Param: "translation_x", FreqMin: 20, FreqMax: 200, OutMin: -1.0, OutMax: 1.0},
		{Param: "translation_y", FreqMin: 200, FreqMax: 800, OutMin: -1.0, OutMax: 1.0},
		{Param: "translation_z", FreqMin: 800, FreqMax: 2000, OutMin: -1.0, OutMax: 1.0},
	}
}

// ParseBandMappings accepts either a file path or inline JSON text holding an
// array of band mapping objects. An empty argument yields the defaults.
// param, freq_min and freq_max are required; out_min/out_max default to 0/1.
func ParseBandMappings(arg string) ([]BandMapping, error) {
	if arg == "" {
		return DefaultBandMappings(), nil
	}
	blob := []byte(arg)
	if _, err := os.Stat(arg); err == nil {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("read mapping file: %w", err)
		}
		blob = data
	}
	var specs []bandMappingSpec
	if err := json.Unmarshal(blob, &specs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}
	mappings := make([]BandMapping, 0, len(specs))
	for i, spec := range specs {
		if spec.Param == "" {
			return nil, fmt.Errorf("%w: entry %d missing param", ErrInvalidMapping, i)
		}
		if spec.FreqMin == nil || spec.FreqMax == nil {
			return nil, fmt.Errorf("%w: entry %d (%s) missing freq_min/freq_max", ErrInvalidMapping, i, spec.Param)
		}
		m := BandMapping{
			Param:   spec.Param,
			FreqMin: *spec.FreqMin,
			FreqMax: *spec.FreqMax,
			OutMin:  0.0,
			OutMax:  1.0,
		}
		if spec.OutMin != nil {
			m.OutMin = *spec.OutMin
		}
		if spec.OutMax != nil {
			m.OutMax = *spec.OutMax
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}
