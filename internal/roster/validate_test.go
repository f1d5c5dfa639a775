package roster

import (
	"strings"
	"testing"

	"rygonet-server/internal/catalog"
)

func tacomsUnit(id string, points int) *catalog.UnitDefinition {
	unit := testUnit(id, "Vec", points)
	unit.Category = catalog.CategoryTACOMS
	return unit
}

func hasIssue(v Validation, severity Severity, fragment string) bool {
	for _, issue := range v.Issues {
		if issue.Severity == severity && strings.Contains(issue.Message, fragment) {
			return true
		}
	}
	return false
}

func TestValidateEmptyRoster(t *testing.T) {
	r := &Roster{FactionID: "alpha", PointsLimit: 100, Entries: []Entry{}}

	v := Validate(r, unitMap{})

	if v.TotalPoints != 0 || v.PointsLimit != 100 {
		t.Errorf("totals = %d/%d, want 0/100", v.TotalPoints, v.PointsLimit)
	}
	if !hasIssue(v, SeverityWarning, "no units") {
		t.Errorf("missing empty-roster warning, issues: %v", v.Issues)
	}
	if v.RequiredTACOMS != 0 {
		t.Errorf("required TACOMS for empty roster = %d, want 0", v.RequiredTACOMS)
	}
}

func TestValidateOverLimit(t *testing.T) {
	units := unitMap{
		"rifles": testUnit("rifles", "Inf", 60),
		"hq":     tacomsUnit("hq", 20),
	}
	r := &Roster{
		FactionID:   "alpha",
		PointsLimit: 100,
		Entries: []Entry{
			{ID: "e1", UnitID: "rifles", Count: 2},
			{ID: "e2", UnitID: "hq", Count: 2},
		},
	}

	v := Validate(r, units)

	if v.TotalPoints != 160 {
		t.Fatalf("total = %d, want 160", v.TotalPoints)
	}
	if !hasIssue(v, SeverityError, "60 points over the 100 point limit") {
		t.Errorf("missing over-limit error, issues: %v", v.Issues)
	}
}

func TestValidateDanglingReferences(t *testing.T) {
	units := unitMap{"rifles": testUnit("rifles", "Inf", 10)}
	r := &Roster{
		FactionID:   "alpha",
		PointsLimit: 100,
		Entries: []Entry{
			{ID: "e1", UnitID: "rifles", Count: 1},
			{ID: "e2", UnitID: "retired-unit", Count: 1},
			{ID: "e3", UnitID: "another-ghost", Count: 1},
		},
	}

	v := Validate(r, units)

	if !hasIssue(v, SeverityError, "2 unit(s) could not be found") {
		t.Errorf("missing dangling-reference error, issues: %v", v.Issues)
	}
	// Dangling entries are excluded from the points total.
	if v.TotalPoints != 10 {
		t.Errorf("total = %d, want 10", v.TotalPoints)
	}
}

func TestValidateTACOMSRequirement(t *testing.T) {
	units := unitMap{
		"rifles": testUnit("rifles", "Inf", 50),
		"hq":     tacomsUnit("hq", 25),
	}

	tests := []struct {
		name         string
		entries      []Entry
		wantRequired int
		wantActual   int
		wantError    bool
	}{
		{
			name:         "250 points needs three",
			entries:      []Entry{{ID: "e1", UnitID: "rifles", Count: 5}},
			wantRequired: 3,
			wantActual:   0,
			wantError:    true,
		},
		{
			name: "count multiplies TACOMS",
			entries: []Entry{
				{ID: "e1", UnitID: "rifles", Count: 3},
				{ID: "e2", UnitID: "hq", Count: 2},
			},
			wantRequired: 2,
			wantActual:   2,
			wantError:    false,
		},
		{
			name:         "exactly 100 needs one",
			entries:      []Entry{{ID: "e1", UnitID: "rifles", Count: 2}},
			wantRequired: 1,
			wantActual:   0,
			wantError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Roster{FactionID: "alpha", PointsLimit: 1000, Entries: tt.entries}
			v := Validate(r, units)

			if v.RequiredTACOMS != tt.wantRequired || v.ActualTACOMS != tt.wantActual {
				t.Errorf("TACOMS = %d/%d required/actual, want %d/%d",
					v.RequiredTACOMS, v.ActualTACOMS, tt.wantRequired, tt.wantActual)
			}
			if got := hasIssue(v, SeverityError, "TACOMS"); got != tt.wantError {
				t.Errorf("TACOMS error present = %v, want %v", got, tt.wantError)
			}
		})
	}
}

func TestValidateTransports(t *testing.T) {
	units := unitMap{
		"rifles":  testUnit("rifles", "Inf", 10),
		"scouts":  testUnit("scouts", "Inf(S)", 8),
		"carrier": testUnit("carrier", "Vec", 14, "PC(Rear, 2)"),
		"tractor": testUnit("tractor", "Vec", 9, "Tow(5)"),
	}
	gun := testUnit("gun", "Vec (W)", 11)
	gun.Stats.Toughness.FrontValue = catalog.StatValue{Raw: "6"}
	units["gun"] = gun

	r := &Roster{
		FactionID:   "alpha",
		PointsLimit: 1000,
		Entries: []Entry{
			{ID: "apc", UnitID: "carrier", Count: 1},
			{ID: "i1", UnitID: "rifles", Count: 1, Relationship: &Relationship{Kind: RelationEmbarked, Carrier: "apc"}},
			{ID: "i2", UnitID: "scouts", Count: 1, Relationship: &Relationship{Kind: RelationEmbarked, Carrier: "apc"}},
			{ID: "tr", UnitID: "tractor", Count: 1},
			{ID: "fg", UnitID: "gun", Count: 1, Relationship: &Relationship{Kind: RelationTowed, Carrier: "tr"}},
		},
	}

	reports := ValidateTransports(r, units)

	byEntry := make(map[string]TransportReport, len(reports))
	for _, report := range reports {
		byEntry[report.EntryID] = report
	}

	// Small-team scouts cost 2 slots, so 1+2 overflows the 2-slot pool.
	apc, ok := byEntry["apc"]
	if !ok {
		t.Fatal("no report for the carrier")
	}
	if apc.Embark.Load != 3 || apc.Embark.Capacity != 2 {
		t.Errorf("embark pool = %d/%d, want 3/2", apc.Embark.Load, apc.Embark.Capacity)
	}
	if apc.Valid || len(apc.Errors) != 1 || !strings.Contains(apc.Errors[0], "carry capacity exceeded (3/2)") {
		t.Errorf("carrier errors = %v, want one embark overflow", apc.Errors)
	}

	// The towed gun charges its front toughness against the tow budget.
	tr, ok := byEntry["tr"]
	if !ok {
		t.Fatal("no report for the tractor")
	}
	if tr.Tow.Load != 6 || tr.Tow.Capacity != 5 {
		t.Errorf("tow pool = %d/%d, want 6/5", tr.Tow.Load, tr.Tow.Capacity)
	}
	if tr.Valid || !strings.Contains(tr.Errors[0], "tow capacity exceeded (6/5 toughness)") {
		t.Errorf("tractor errors = %v, want one tow overflow", tr.Errors)
	}

	// An overflow in one pool never taints another.
	if apc.Desant.Over() || apc.Tow.Over() {
		t.Error("embark overflow leaked into the other pools")
	}

	// The aggregate validator folds pool errors into the issue list.
	v := Validate(r, units)
	if !hasIssue(v, SeverityError, "carry capacity exceeded") || !hasIssue(v, SeverityError, "tow capacity exceeded") {
		t.Errorf("transport overflows missing from issues: %v", v.Issues)
	}
}

func TestValidateTransportsDesantPool(t *testing.T) {
	units := unitMap{
		"rifles":  testUnit("rifles", "Inf", 10),
		"scouts":  testUnit("scouts", "Inf(S)", 8),
		"carrier": testUnit("carrier", "Vec", 14, "PC(Rear, 2)"),
	}

	r := &Roster{
		FactionID:   "alpha",
		PointsLimit: 1000,
		Entries: []Entry{
			{ID: "apc", UnitID: "carrier", Count: 1},
			{ID: "i1", UnitID: "rifles", Count: 1, Relationship: &Relationship{Kind: RelationEmbarked, Carrier: "apc"}},
			{ID: "s1", UnitID: "scouts", Count: 1, Relationship: &Relationship{Kind: RelationDesanting, Carrier: "apc"}},
		},
	}

	findReport := func(reports []TransportReport, entryID string) *TransportReport {
		for i := range reports {
			if reports[i].EntryID == entryID {
				return &reports[i]
			}
		}
		return nil
	}

	// A desanting small team costs 2, exactly filling the fixed desant
	// allowance while one embarked squad half-fills the embark pool.
	apc := findReport(ValidateTransports(r, units), "apc")
	if apc == nil {
		t.Fatal("no report for the carrier")
	}
	if apc.Embark.Load != 1 || apc.Embark.Capacity != 2 {
		t.Errorf("embark pool = %d/%d, want 1/2", apc.Embark.Load, apc.Embark.Capacity)
	}
	if apc.Desant.Load != 2 || apc.Desant.Capacity != 2 {
		t.Errorf("desant pool = %d/%d, want 2/2", apc.Desant.Load, apc.Desant.Capacity)
	}
	if !apc.Valid || len(apc.Errors) != 0 {
		t.Errorf("full-but-not-over pools reported errors: %v", apc.Errors)
	}

	// A second embarked small team overflows the embark pool alone; the
	// full desant pool stays valid.
	r.Entries = append(r.Entries, Entry{
		ID: "s2", UnitID: "scouts", Count: 1,
		Relationship: &Relationship{Kind: RelationEmbarked, Carrier: "apc"},
	})

	apc = findReport(ValidateTransports(r, units), "apc")
	if apc == nil {
		t.Fatal("no report for the carrier after the second team")
	}
	if apc.Embark.Load != 3 || !apc.Embark.Over() {
		t.Errorf("embark pool = %d/%d, want overflowing 3/2", apc.Embark.Load, apc.Embark.Capacity)
	}
	if apc.Desant.Load != 2 || apc.Desant.Over() {
		t.Errorf("desant pool = %d/%d, want full but valid", apc.Desant.Load, apc.Desant.Capacity)
	}
	if apc.Valid || len(apc.Errors) != 1 || !strings.Contains(apc.Errors[0], "carry capacity exceeded (3/2)") {
		t.Errorf("errors = %v, want exactly one embark overflow", apc.Errors)
	}
}

func TestValidateTransportsUnlimitedTow(t *testing.T) {
	units := unitMap{
		"hauler": testUnit("hauler", "Vec", 20, "Tow(Infinite)"),
	}
	gun := testUnit("gun", "Vec (W)", 11)
	gun.Stats.Toughness.FrontValue = catalog.StatValue{Raw: "9"}
	units["gun"] = gun

	r := &Roster{
		FactionID:   "alpha",
		PointsLimit: 1000,
		Entries: []Entry{
			{ID: "h", UnitID: "hauler", Count: 1},
			{ID: "g", UnitID: "gun", Count: 1, Relationship: &Relationship{Kind: RelationTowed, Carrier: "h"}},
		},
	}

	reports := ValidateTransports(r, units)
	if len(reports) == 0 {
		t.Fatal("no transport reports")
	}

	var hauler *TransportReport
	for i := range reports {
		if reports[i].EntryID == "h" {
			hauler = &reports[i]
		}
	}
	if hauler == nil {
		t.Fatal("no report for the hauler")
	}
	if !hauler.Unlimited {
		t.Error("unlimited tow not flagged")
	}
	if !hauler.Valid {
		t.Errorf("unlimited tow reported overflow: %v", hauler.Errors)
	}
}

func TestValidateTransportsCustomNameInErrors(t *testing.T) {
	units := unitMap{
		"rifles":  testUnit("rifles", "Inf", 10),
		"carrier": testUnit("carrier", "Vec", 14, "PC(Rear, 1)"),
	}
	r := &Roster{
		FactionID:   "alpha",
		PointsLimit: 1000,
		Entries: []Entry{
			{ID: "apc", UnitID: "carrier", Count: 1, CustomName: "Warthog"},
			{ID: "i1", UnitID: "rifles", Count: 1, Relationship: &Relationship{Kind: RelationEmbarked, Carrier: "apc"}},
			{ID: "i2", UnitID: "rifles", Count: 1, Relationship: &Relationship{Kind: RelationEmbarked, Carrier: "apc"}},
		},
	}

	reports := ValidateTransports(r, units)
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	if !strings.Contains(reports[0].Errors[0], "Warthog") {
		t.Errorf("error %q does not use the custom name", reports[0].Errors[0])
	}
}
