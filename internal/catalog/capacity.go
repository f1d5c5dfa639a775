package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// TransportKind is the tagged shape of a unit's carrying capability. Keeping
// the combinations explicit lets every validator branch switch exhaustively
// instead of probing optional fields.
type TransportKind int

const (
	// TransportNone means the unit carries nothing.
	TransportNone TransportKind = iota
	// TransportEmbark means the unit has a PC(...) personnel-carrier rule.
	TransportEmbark
	// TransportTow means the unit has a Tow(...) rule.
	TransportTow
	// TransportEmbarkAndTow means the unit has both rules at once.
	TransportEmbarkAndTow
	// TransportLegacy means capacity comes from the raw capacity stat with
	// no PC/Tow rule to differentiate it.
	TransportLegacy
)

func (k TransportKind) String() string {
	switch k {
	case TransportEmbark:
		return "embark"
	case TransportTow:
		return "tow"
	case TransportEmbarkAndTow:
		return "embark+tow"
	case TransportLegacy:
		return "legacy"
	default:
		return "none"
	}
}

// TowUnlimited is the budget assigned by Tow(Infinite). Large enough that
// no sum of front-toughness values reaches it.
const TowUnlimited = 1 << 30

// DesantCapacity is the fixed ride-on-top allowance every vehicle has,
// independent of special rules.
const DesantCapacity = 2

// TransportProfile is the parsed capacity fact sheet for one unit.
// Embark and Desant are counted in passenger slots; Tow is a
// front-toughness budget.
type TransportProfile struct {
	Kind      TransportKind `json:"kind"`
	Embark    int           `json:"embark"`
	ExitPoint string        `json:"exitPoint,omitempty"`
	Tow       int           `json:"tow"`
	Desant    int           `json:"desant"`
}

// HasAnyCapacity reports whether any pool can take load.
func (p TransportProfile) HasAnyCapacity() bool {
	return p.Kind != TransportNone || p.Desant > 0
}

var (
	pcRulePattern  = regexp.MustCompile(`(?i)^PC\s*\(\s*([^,)]+?)\s*,\s*([^,)]+?)\s*\)$`)
	towRulePattern = regexp.MustCompile(`(?i)^Tow\s*\(\s*([^)]+?)\s*\)$`)
)

// ParseTransportProfile derives capacity facts from a unit's special-rule
// tags and stat block. The rules are free text, so matching is
// case-insensitive and tolerant of a space before the parenthesis:
//
//	PC(Rear, 8) or PC(8, Rear) - embark capacity with an exit-point label
//	Tow(6) or Tow(Infinite)   - tow budget in front-toughness points
//
// Units with neither rule fall back to a positive raw capacity stat as an
// undifferentiated legacy pool. Vehicles always get the fixed desant
// allowance on top, infantry and aircraft never do.
func ParseTransportProfile(unit *UnitDefinition) TransportProfile {
	var profile TransportProfile

	if unit == nil {
		return profile
	}

	hasEmbark := false
	hasTow := false

	for _, rule := range unit.SpecialRules {
		rule = strings.TrimSpace(rule)

		if m := pcRulePattern.FindStringSubmatch(rule); m != nil {
			count, exitPoint, ok := splitPCArgs(m[1], m[2])
			if ok {
				profile.Embark = count
				profile.ExitPoint = exitPoint
				hasEmbark = true
			}
			continue
		}

		if m := towRulePattern.FindStringSubmatch(rule); m != nil {
			arg := strings.TrimSpace(m[1])
			if strings.EqualFold(arg, "Infinite") {
				profile.Tow = TowUnlimited
				hasTow = true
			} else if n, err := strconv.Atoi(arg); err == nil {
				profile.Tow = n
				hasTow = true
			}
		}
	}

	switch {
	case hasEmbark && hasTow:
		profile.Kind = TransportEmbarkAndTow
	case hasEmbark:
		profile.Kind = TransportEmbark
	case hasTow:
		profile.Kind = TransportTow
	case unit.Stats.Capacity > 0:
		profile.Kind = TransportLegacy
		profile.Embark = unit.Stats.Capacity
	}

	if IsVehicleClass(unit.Stats.UnitClass) {
		profile.Desant = DesantCapacity
	}

	return profile
}

// splitPCArgs accepts both argument orders: PC(exit, N) and PC(N, exit).
func splitPCArgs(first, second string) (count int, exitPoint string, ok bool) {
	if n, err := strconv.Atoi(first); err == nil {
		return n, second, true
	}
	if n, err := strconv.Atoi(second); err == nil {
		return n, first, true
	}
	return 0, "", false
}

// PassengerCost is the capacity charge for one carried unit, identical for
// the embark and desant pools: 1 slot, or 2 for a small-team infantry unit.
func PassengerCost(unit *UnitDefinition) int {
	if unit == nil {
		return 1
	}
	if IsSmallTeamClass(unit.Stats.UnitClass) {
		return 2
	}
	return 1
}

// TowLoad is the budget charge for one towed unit: its front toughness.
func TowLoad(unit *UnitDefinition) int {
	if unit == nil {
		return 0
	}
	return unit.Stats.Toughness.Front()
}
