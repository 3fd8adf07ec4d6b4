package timetable

import (
	"encoding/json"
	"os"
)

// Snapshot indexes a previously written payload by date, used as an
// emergency substitute for dates that could not be freshly fetched.
// It is read once per run and never mutated; a successful run fully
// supersedes it on disk.
type Snapshot struct {
	days map[string]Day
}

// LoadSnapshot reads the payload at path and indexes its days by date.
// A missing or malformed file yields an empty snapshot, never an error.
func LoadSnapshot(path string) *Snapshot {
	s := &Snapshot{days: make(map[string]Day)}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return s
	}

	for _, d := range p.Days {
		if d.Date == "" {
			continue
		}
		s.days[d.Date] = d
	}

	return s
}

// Lookup returns the stale day record for the given ISO date, if any.
func (s *Snapshot) Lookup(date string) (Day, bool) {
	d, ok := s.days[date]
	return d, ok
}

// Len reports how many dates the snapshot covers.
func (s *Snapshot) Len() int {
	return len(s.days)
}
