package timetable

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Source identifies the upstream API in the payload metadata.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

const (
	// SourceName and SourceURL identify the upstream provider.
	SourceName = "London Unified Prayer Times API"
	SourceURL  = "https://www.londonprayertimes.com/api"

	// TimezoneLabel is the fixed zone label written to every payload.
	TimezoneLabel = "Europe/London"
)

// Payload is the on-disk timetable artifact. The window-descriptor
// fields depend on the variant: effective_today and fallback_used for
// the rolling feed, year or ramadan_year with start/end dates for the
// other two.
type Payload struct {
	Source         Source `json:"source"`
	Timezone       string `json:"timezone"`
	GeneratedAt    string `json:"generated_at"`
	EffectiveToday string `json:"effective_today,omitempty"`
	Year           int    `json:"year,omitempty"`
	RamadanYear    int    `json:"ramadan_year,omitempty"`
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
	DaysCount      int    `json:"days_count"`
	FallbackUsed   *bool  `json:"fallback_used,omitempty"`
	Days           []Day  `json:"days"`
}

// WriteFile writes the payload as indented JSON, creating the parent
// directory if needed. The whole file is rewritten in one pass.
func (p *Payload) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}

	return nil
}
