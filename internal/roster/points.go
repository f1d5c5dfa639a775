package roster

import "rygonet-server/internal/catalog"

// EntryCost is the per-model point cost of an entry: the unit's base cost
// plus the deltas of every selected option. Option indices that fall
// outside the unit's option list contribute nothing; a dangling selection
// must never break the points view.
func EntryCost(entry *Entry, unit *catalog.UnitDefinition) int {
	if unit == nil {
		return 0
	}

	cost := unit.Points.Value()
	for _, idx := range entry.Options {
		if idx >= 0 && idx < len(unit.Options) {
			cost += unit.Options[idx].Points
		}
	}
	return cost
}

// LineTotal is the entry cost multiplied by the entry's count.
func LineTotal(entry *Entry, unit *catalog.UnitDefinition) int {
	return EntryCost(entry, unit) * entry.Count
}

// TotalPoints sums line totals across the roster. Entries whose unit does
// not resolve in the catalog are excluded here; the validator reports them
// separately as dangling references.
func TotalPoints(r *Roster, src UnitSource) int {
	total := 0
	for i := range r.Entries {
		unit, ok := src.Unit(r.FactionID, r.Entries[i].UnitID)
		if !ok {
			continue
		}
		total += LineTotal(&r.Entries[i], unit)
	}
	return total
}
