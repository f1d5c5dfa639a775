package catalog

import "testing"

func unitWith(class string, capacity int, rules ...string) *UnitDefinition {
	return &UnitDefinition{
		ID:           "test-unit",
		Name:         "Test Unit",
		SpecialRules: rules,
		Stats: UnitStats{
			UnitClass: class,
			Capacity:  capacity,
		},
	}
}

func TestParseTransportProfile(t *testing.T) {
	tests := []struct {
		name string
		unit *UnitDefinition
		want TransportProfile
	}{
		{
			name: "nil unit",
			unit: nil,
			want: TransportProfile{},
		},
		{
			name: "infantry without rules",
			unit: unitWith("Inf", 0),
			want: TransportProfile{Kind: TransportNone},
		},
		{
			name: "pc with exit point first",
			unit: unitWith("Vec", 0, "PC(Rear, 8)"),
			want: TransportProfile{Kind: TransportEmbark, Embark: 8, ExitPoint: "Rear", Desant: 2},
		},
		{
			name: "pc with count first",
			unit: unitWith("Vec", 0, "PC(8, Rear)"),
			want: TransportProfile{Kind: TransportEmbark, Embark: 8, ExitPoint: "Rear", Desant: 2},
		},
		{
			name: "pc lowercase with space before paren",
			unit: unitWith("Vec", 0, "pc (Side, 4)"),
			want: TransportProfile{Kind: TransportEmbark, Embark: 4, ExitPoint: "Side", Desant: 2},
		},
		{
			name: "tow numeric",
			unit: unitWith("Vec", 0, "Tow(6)"),
			want: TransportProfile{Kind: TransportTow, Tow: 6, Desant: 2},
		},
		{
			name: "tow infinite",
			unit: unitWith("Vec", 0, "Tow(Infinite)"),
			want: TransportProfile{Kind: TransportTow, Tow: TowUnlimited, Desant: 2},
		},
		{
			name: "both rules",
			unit: unitWith("Vec", 0, "PC(Rear, 6)", "Tow(4)"),
			want: TransportProfile{Kind: TransportEmbarkAndTow, Embark: 6, ExitPoint: "Rear", Tow: 4, Desant: 2},
		},
		{
			name: "legacy capacity stat",
			unit: unitWith("Vec", 5),
			want: TransportProfile{Kind: TransportLegacy, Embark: 5, Desant: 2},
		},
		{
			name: "pc rule wins over capacity stat",
			unit: unitWith("Vec", 5, "PC(Rear, 8)"),
			want: TransportProfile{Kind: TransportEmbark, Embark: 8, ExitPoint: "Rear", Desant: 2},
		},
		{
			name: "vehicle variant gets desant",
			unit: unitWith("Vec (W)", 0),
			want: TransportProfile{Kind: TransportNone, Desant: 2},
		},
		{
			name: "aircraft gets no desant",
			unit: unitWith("Air (CAS)", 0, "PC(Rear, 10)"),
			want: TransportProfile{Kind: TransportEmbark, Embark: 10, ExitPoint: "Rear"},
		},
		{
			name: "malformed pc rule ignored",
			unit: unitWith("Vec", 0, "PC(Rear)"),
			want: TransportProfile{Kind: TransportNone, Desant: 2},
		},
		{
			name: "unrelated rules ignored",
			unit: unitWith("Inf", 0, "Scout", "Infiltrate"),
			want: TransportProfile{Kind: TransportNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTransportProfile(tt.unit)
			if got != tt.want {
				t.Fatalf("ParseTransportProfile() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTransportProfileHasAnyCapacity(t *testing.T) {
	if (TransportProfile{}).HasAnyCapacity() {
		t.Error("empty profile should have no capacity")
	}
	if !(TransportProfile{Kind: TransportTow, Tow: 4}).HasAnyCapacity() {
		t.Error("tow profile should have capacity")
	}
	if !(TransportProfile{Desant: 2}).HasAnyCapacity() {
		t.Error("desant-only profile should have capacity")
	}
}

func TestPassengerCost(t *testing.T) {
	tests := []struct {
		name  string
		class string
		want  int
	}{
		{"infantry", "Inf", 1},
		{"small team", "Inf(S)", 2},
		{"small team with spaces", " Inf(S) ", 2},
		{"vehicle", "Vec", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PassengerCost(unitWith(tt.class, 0)); got != tt.want {
				t.Errorf("PassengerCost(%q) = %d, want %d", tt.class, got, tt.want)
			}
		})
	}

	if got := PassengerCost(nil); got != 1 {
		t.Errorf("PassengerCost(nil) = %d, want 1", got)
	}
}

func TestTowLoad(t *testing.T) {
	vehicle := unitWith("Vec", 0)
	vehicle.Stats.Toughness = Toughness{FrontValue: StatValue{Raw: "6"}}

	if got := TowLoad(vehicle); got != 6 {
		t.Errorf("TowLoad() = %d, want 6", got)
	}
	if got := TowLoad(nil); got != 0 {
		t.Errorf("TowLoad(nil) = %d, want 0", got)
	}
}
