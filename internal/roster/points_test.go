package roster

import (
	"strconv"
	"testing"

	"rygonet-server/internal/catalog"
)

// unitMap is a map-backed UnitSource for tests. The faction id is ignored;
// every test roster uses a single faction.
type unitMap map[string]*catalog.UnitDefinition

func (m unitMap) Unit(factionID, unitID string) (*catalog.UnitDefinition, bool) {
	unit, ok := m[unitID]
	return unit, ok
}

func testUnit(id, class string, points int, rules ...string) *catalog.UnitDefinition {
	return &catalog.UnitDefinition{
		ID:           id,
		Name:         id,
		Category:     "Test",
		Points:       catalog.NewCost(strconv.Itoa(points)),
		Stats:        catalog.UnitStats{UnitClass: class},
		SpecialRules: rules,
	}
}

func TestEntryCost(t *testing.T) {
	unit := testUnit("rifles", "Inf", 10)
	unit.Options = []catalog.UnitOption{
		{Description: "Upgrade A", Points: 3},
		{Description: "Upgrade B", Points: 5},
	}

	tests := []struct {
		name  string
		entry Entry
		unit  *catalog.UnitDefinition
		want  int
	}{
		{name: "base cost", entry: Entry{UnitID: "rifles", Count: 1}, unit: unit, want: 10},
		{name: "one option", entry: Entry{UnitID: "rifles", Count: 1, Options: []int{0}}, unit: unit, want: 13},
		{name: "both options", entry: Entry{UnitID: "rifles", Count: 1, Options: []int{0, 1}}, unit: unit, want: 18},
		{name: "out of range option ignored", entry: Entry{UnitID: "rifles", Count: 1, Options: []int{5}}, unit: unit, want: 10},
		{name: "negative option index ignored", entry: Entry{UnitID: "rifles", Count: 1, Options: []int{-1, 1}}, unit: unit, want: 15},
		{name: "nil unit", entry: Entry{UnitID: "ghost", Count: 1}, unit: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EntryCost(&tt.entry, tt.unit); got != tt.want {
				t.Errorf("EntryCost() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLineTotal(t *testing.T) {
	unit := testUnit("rifles", "Inf", 10)
	entry := Entry{UnitID: "rifles", Count: 3}

	if got := LineTotal(&entry, unit); got != 30 {
		t.Errorf("LineTotal() = %d, want 30", got)
	}
}

func TestTotalPoints(t *testing.T) {
	units := unitMap{
		"rifles":  testUnit("rifles", "Inf", 10),
		"carrier": testUnit("carrier", "Vec", 14),
	}

	r := &Roster{
		FactionID: "alpha",
		Entries: []Entry{
			{ID: "e1", UnitID: "rifles", Count: 2},
			{ID: "e2", UnitID: "carrier", Count: 1},
			{ID: "e3", UnitID: "missing-unit", Count: 4},
		},
	}

	// The dangling entry contributes nothing; the validator reports it.
	if got := TotalPoints(r, units); got != 34 {
		t.Errorf("TotalPoints() = %d, want 34", got)
	}
}

func TestTotalPointsEmptyRoster(t *testing.T) {
	r := &Roster{FactionID: "alpha", Entries: []Entry{}}

	if got := TotalPoints(r, unitMap{}); got != 0 {
		t.Errorf("TotalPoints() = %d, want 0", got)
	}
}
