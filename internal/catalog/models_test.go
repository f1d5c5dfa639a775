package catalog

import (
	"encoding/json"
	"testing"
)

func TestCostValue(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"10", 10},
		{"10/15", 10},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"7pts", 7},
		{"/15", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := (Cost{Raw: tt.raw}).Value(); got != tt.want {
				t.Errorf("Cost{%q}.Value() = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCostUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int
	}{
		{"number literal", `12`, 12},
		{"plain string", `"12"`, 12},
		{"split cost string", `"10/15"`, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cost
			if err := json.Unmarshal([]byte(tt.json), &c); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.json, err)
			}
			if got := c.Value(); got != tt.want {
				t.Errorf("Value() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToughnessUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantFront int
	}{
		{"scalar", `5`, 5},
		{"object", `{"front": 6, "side": 5, "rear": 4}`, 6},
		{"legacy string", `"T6/4/4"`, 644},
		{"marker string", `"*"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tough Toughness
			if err := json.Unmarshal([]byte(tt.json), &tough); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.json, err)
			}
			if got := tough.Front(); got != tt.wantFront {
				t.Errorf("Front() = %d, want %d", got, tt.wantFront)
			}
		})
	}
}

func TestToughnessRoundTrip(t *testing.T) {
	var scalar Toughness
	if err := json.Unmarshal([]byte(`5`), &scalar); err != nil {
		t.Fatalf("Unmarshal scalar failed: %v", err)
	}
	out, err := json.Marshal(scalar)
	if err != nil {
		t.Fatalf("Marshal scalar failed: %v", err)
	}
	if string(out) != "5" {
		t.Errorf("scalar round trip = %s, want 5", out)
	}

	var object Toughness
	if err := json.Unmarshal([]byte(`{"front":6,"side":5,"rear":4}`), &object); err != nil {
		t.Fatalf("Unmarshal object failed: %v", err)
	}
	out, err = json.Marshal(object)
	if err != nil {
		t.Fatalf("Marshal object failed: %v", err)
	}
	if string(out) != `{"front":6,"side":5,"rear":4}` {
		t.Errorf("object round trip = %s", out)
	}
}

func TestClassPredicates(t *testing.T) {
	tests := []struct {
		class     string
		vehicle   bool
		smallTeam bool
	}{
		{"Inf", false, false},
		{"Inf(S)", false, true},
		{"Vec", true, false},
		{"Vec (W)", true, false},
		{"Vec (C)", true, false},
		{"Air", false, false},
		{"Air (CAS)", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			if got := IsVehicleClass(tt.class); got != tt.vehicle {
				t.Errorf("IsVehicleClass(%q) = %v, want %v", tt.class, got, tt.vehicle)
			}
			if got := IsSmallTeamClass(tt.class); got != tt.smallTeam {
				t.Errorf("IsSmallTeamClass(%q) = %v, want %v", tt.class, got, tt.smallTeam)
			}
		})
	}
}
