package roster

import "testing"

func TestNormalize(t *testing.T) {
	r := &Roster{
		Entries: nil,
		Groups:  nil,
	}

	r.Normalize()

	if r.Entries == nil || r.Groups == nil {
		t.Fatal("Normalize left nil collections")
	}

	r.Entries = append(r.Entries, Entry{ID: "e1", UnitID: "rifles", Count: 0})
	r.Normalize()
	if r.Entries[0].Count != 1 {
		t.Errorf("count after normalize = %d, want 1", r.Entries[0].Count)
	}

	// Idempotent on an already-current document.
	before := len(r.Entries)
	r.Normalize()
	if len(r.Entries) != before || r.Entries[0].Count != 1 {
		t.Error("second Normalize changed the document")
	}
}

func TestRelationKindIsValid(t *testing.T) {
	for _, kind := range []RelationKind{RelationEmbarked, RelationDesanting, RelationTowed} {
		if !kind.IsValid() {
			t.Errorf("%s reported invalid", kind)
		}
	}
	if RelationKind("strapped").IsValid() {
		t.Error("unknown kind reported valid")
	}
	if RelationKind("").IsValid() {
		t.Error("empty kind reported valid")
	}
}

func TestEntryDisplayName(t *testing.T) {
	units := unitMap{"rifles": testUnit("rifles", "Inf", 10)}
	units["rifles"].Name = "Rifle Platoon"

	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{name: "custom name wins", entry: Entry{UnitID: "rifles", CustomName: "First Platoon"}, want: "First Platoon"},
		{name: "catalog name", entry: Entry{UnitID: "rifles"}, want: "Rifle Platoon"},
		{name: "dangling falls back to id", entry: Entry{UnitID: "retired-unit"}, want: "retired-unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.DisplayName("alpha", units); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRosterLookups(t *testing.T) {
	r := &Roster{
		Entries: []Entry{{ID: "e1", UnitID: "rifles", Count: 1}},
		Groups:  []Group{{ID: "g1", Name: "First Squad"}},
	}

	if entry := r.EntryByID("e1"); entry == nil || entry.UnitID != "rifles" {
		t.Error("EntryByID(e1) did not resolve")
	}
	if r.EntryByID("ghost") != nil {
		t.Error("EntryByID(ghost) resolved")
	}
	if group := r.GroupByID("g1"); group == nil || group.Name != "First Squad" {
		t.Error("GroupByID(g1) did not resolve")
	}
	if r.GroupByID("ghost") != nil {
		t.Error("GroupByID(ghost) resolved")
	}
}
