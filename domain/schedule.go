package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Schedule maps a parameter name to its per-frame values. Frame indices are
// 0-based and contiguous.
type Schedule map[string][]float64

// FrameCount returns the longest series length in the schedule.
func (s Schedule) FrameCount() int {
	max := 0
	for _, series := range s {
		if len(series) > max {
			max = len(series)
		}
	}
	return max
}

// Save writes the schedule as an indented JSON object of param → float array.
func (s Schedule) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	return nil
}

// KeyframeString renders a normalized [0,1] series as a compact Deforum
// keyframe schedule, "0:(v0), 1:(v1), ...". Values swing around base by up to
// ±strength: a normalized 0.5 maps to base itself.
func KeyframeString(normalized []float64, base, strength float64) string {
	if len(normalized) == 0 {
		return "0:(" + strconv.FormatFloat(base, 'f', -1, 64) + ")"
	}
	parts := make([]string, 0, len(normalized))
	for frame, norm := range normalized {
		value := base + (norm-0.5)*2*strength
		parts = append(parts, fmt.Sprintf("%d:(%.4f)", frame, value))
	}
	return strings.Join(parts, ", ")
}
