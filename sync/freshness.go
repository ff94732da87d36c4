package sync

import "time"

// DefaultFreshnessWindow is how far back an update timestamp may be for a unit to be synced.
const DefaultFreshnessWindow = 24 * time.Hour

// UnitIDSet is a set of unit identifiers.
type UnitIDSet map[string]struct{}

func (s UnitIDSet) Add(id string) { s[id] = struct{}{} }

func (s UnitIDSet) Contains(id string) bool {
	_, exists := s[id]
	return exists
}

// IsFresh reports whether any of the update timestamps lies within [now-window, now].
func (r UnitRecord) IsFresh(now time.Time, window time.Duration) bool {
	threshold := now.Add(-window)
	for _, t := range r.UpdatedAt {
		if t.IsZero() {
			continue
		}
		if !t.Before(threshold) && !t.After(now) {
			return true
		}
	}
	return false
}

// RecentUnitIDs returns the ids of the records updated within the freshness window.
func RecentUnitIDs(records []UnitRecord, now time.Time, window time.Duration) UnitIDSet {
	result := make(UnitIDSet)
	for _, r := range records {
		if r.IsFresh(now, window) {
			result.Add(r.UnitID)
		}
	}
	return result
}
