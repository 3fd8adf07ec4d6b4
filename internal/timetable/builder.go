package timetable

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// YearFetcher fetches one calendar year of raw provider day records
// keyed by ISO date string.
type YearFetcher interface {
	FetchYear(ctx context.Context, year int) (map[string]map[string]string, error)
}

// GenerationError reports dates that neither the fresh fetch nor the
// stale snapshot could supply. Missing holds every gap, not just the
// first.
type GenerationError struct {
	Missing []string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("missing timetable data for dates: %s", strings.Join(e.Missing, ", "))
}

// FormatMissing joins up to max missing dates for display, noting how
// many more were omitted.
func FormatMissing(missing []string, max int) string {
	if len(missing) <= max {
		return strings.Join(missing, ", ")
	}
	return fmt.Sprintf("%s (and %d more)", strings.Join(missing[:max], ", "), len(missing)-max)
}

// Builder assembles a Payload for a Window.
//
// Snapshot is optional and only consulted for rolling windows: when the
// network fetch fails part-way, dates absent from the partial results
// fall back to the snapshot's records. Without a snapshot, a fetch
// failure propagates immediately.
type Builder struct {
	Fetcher  YearFetcher
	Snapshot *Snapshot

	// Now stamps generated_at. Defaults to the current time in
	// Europe/London.
	Now func() time.Time
}

// Build fetches every provider year the window spans, resolves a record
// for each date, and assembles the payload. Any date present in neither
// the fresh fetch nor the snapshot is a gap; gaps fail the build with a
// GenerationError listing all of them.
func (b *Builder) Build(ctx context.Context, w Window) (*Payload, error) {
	combined := make(map[string]map[string]string)
	networkFailed := false

	for _, year := range w.Years() {
		times, err := b.Fetcher.FetchYear(ctx, year)
		if err != nil {
			if b.Snapshot == nil {
				return nil, err
			}
			// Keep whatever earlier years produced; the fallback pass
			// fills the rest from the snapshot where it can.
			networkFailed = true
			log.Warn().Err(err).Msg("network fetch failed, attempting stale fallback")
			break
		}
		for date, record := range times {
			combined[date] = record
		}
	}

	days := make([]Day, 0, len(w.Dates))
	staleUsed := false
	var missing []string

	for i, date := range w.Dates {
		key := date.Format(DateLayout)

		raw, ok := combined[key]
		if !ok {
			if b.Snapshot != nil {
				if stale, found := b.Snapshot.Lookup(key); found {
					days = append(days, stale)
					staleUsed = true
					log.Debug().Str("date", key).Msg("using stale snapshot record")
					continue
				}
			}
			missing = append(missing, key)
			continue
		}

		if w.Kind == KindRamadan {
			// ramadan_day counts calendar position within the window,
			// so it is the 1-based date index.
			days = append(days, NormalizeRamadan(key, raw, i+1))
		} else {
			days = append(days, Normalize(key, raw))
		}
	}

	if len(missing) > 0 {
		return nil, &GenerationError{Missing: missing}
	}

	now := b.Now
	if now == nil {
		now = NowInLondon
	}

	p := &Payload{
		Source:      Source{Name: SourceName, URL: SourceURL},
		Timezone:    TimezoneLabel,
		GeneratedAt: now().Format(time.RFC3339),
		DaysCount:   len(days),
		Days:        days,
	}

	switch w.Kind {
	case KindRolling:
		p.EffectiveToday = w.EffectiveToday.Format(DateLayout)
		fallback := networkFailed || staleUsed
		p.FallbackUsed = &fallback
	case KindYear:
		p.Year = w.Year
		p.StartDate = w.Start.Format(DateLayout)
		p.EndDate = w.End.Format(DateLayout)
	case KindRamadan:
		p.RamadanYear = w.RamadanYear
		p.StartDate = w.Start.Format(DateLayout)
		p.EndDate = w.End.Format(DateLayout)
	}

	return p, nil
}
