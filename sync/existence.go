package sync

import "slices"

// PresenceMap records, for every candidate, whether it already exists downstream.
type PresenceMap map[string]bool

// SyncedUnitIDs collects the identifiers in the first column of the synced sheet.
// The header row and rows without cells are ignored.
func SyncedUnitIDs(rows []Row) UnitIDSet {
	result := make(UnitIDSet)
	if len(rows) < 2 {
		return result
	}
	for _, row := range rows[1:] {
		if id, ok := row.StringForColumn(0); ok {
			result.Add(id)
		}
	}
	return result
}

// ResolvePresence flags each candidate with its membership of synced.
func ResolvePresence(synced UnitIDSet, candidates UnitIDSet) PresenceMap {
	result := make(PresenceMap, len(candidates))
	for id := range candidates {
		result[id] = synced.Contains(id)
	}
	return result
}

// Missing returns the ids not yet present downstream, sorted.
func (p PresenceMap) Missing() []string {
	var result []string
	for id, exists := range p {
		if !exists {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}
