package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/glizzus/traytimer/internal/duration"
)

const maxPresetSeconds = math.MaxInt64 / int64(time.Second)

// Preset is a named brewing time.
type Preset struct {
	Name string
	Time time.Duration
}

// UnmarshalJSON accepts {"name": "Green Tea", "time": 180} as well as
// {"name": "Green Tea", "time": "3m"}.
func (p *Preset) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string          `json:"name"`
		Time json.RawMessage `json:"time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw.Name) == "" {
		return fmt.Errorf("preset name is required")
	}
	if len(raw.Time) == 0 {
		return fmt.Errorf("preset %q: time is required", raw.Name)
	}

	var seconds int64
	if err := json.Unmarshal(raw.Time, &seconds); err == nil {
		if seconds < 0 {
			return fmt.Errorf("preset %q: time must not be negative", raw.Name)
		}
		if seconds > maxPresetSeconds {
			return fmt.Errorf("preset %q: time must not exceed %d seconds", raw.Name, int64(maxPresetSeconds))
		}
		p.Name = raw.Name
		p.Time = time.Duration(seconds) * time.Second
		return nil
	}

	var expr string
	if err := json.Unmarshal(raw.Time, &expr); err != nil {
		return fmt.Errorf("preset %q: time must be a number of seconds or a duration string", raw.Name)
	}
	d, err := duration.Parse(expr)
	if err != nil {
		return fmt.Errorf("preset %q: %w", raw.Name, err)
	}
	p.Name = raw.Name
	p.Time = d
	return nil
}

// Presets is the content of the presets file.
type Presets struct {
	Tea   []Preset `json:"tea"`
	Water []Preset `json:"water"`
}

// LoadPresets reads a presets file. The returned error satisfies
// os.IsNotExist when the file does not exist.
func LoadPresets(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePresets(data)
}

func ParsePresets(data []byte) (*Presets, error) {
	var p Presets
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	return &p, nil
}
