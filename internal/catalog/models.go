package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Unit classes form a closed vocabulary. Vehicle and aircraft variants keep
// their class prefix, which drives desant capacity and tow eligibility.
const (
	ClassInfantry       = "Inf"
	ClassInfantrySmall  = "Inf(S)"
	ClassVehiclePrefix  = "Vec"
	ClassAircraftPrefix = "Air"
)

// CategoryTACOMS is the command/logistics category counted against the
// roster-wide command-unit minimum.
const CategoryTACOMS = "TACOMS"

type Faction struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Version      string        `json:"version,omitempty"`
	SpecialRules []FactionRule `json:"specialRules,omitempty"`
}

type FactionRule struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FactionFile is the on-disk shape of one faction catalog document.
type FactionFile struct {
	Faction Faction          `json:"faction"`
	Units   []UnitDefinition `json:"units"`
}

type UnitDefinition struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Category            string       `json:"category"`
	DescriptiveCategory string       `json:"descriptiveCategory,omitempty"`
	Points              Cost         `json:"points"`
	Stats               UnitStats    `json:"stats"`
	SpecialRules        []string     `json:"specialRules,omitempty"`
	UnitAbility         string       `json:"unitAbility,omitempty"`
	Weapons             []Weapon     `json:"weapons,omitempty"`
	Options             []UnitOption `json:"options,omitempty"`
}

type UnitStats struct {
	UnitClass        string    `json:"unitClass"`
	Height           StatValue `json:"height,omitempty"`
	SpottingDistance StatValue `json:"spottingDistance,omitempty"`
	Movement         StatValue `json:"movement,omitempty"`
	Quality          StatValue `json:"quality,omitempty"`
	Toughness        Toughness `json:"toughness"`
	Command          StatValue `json:"command,omitempty"`
	Evasion          StatValue `json:"evasion,omitempty"`
	Capacity         int       `json:"capacity,omitempty"`
}

// Weapon stat lines are redisplayed by the client verbatim; accuracy and
// strength vary in shape (scalar, "4+", or stationary/moving and
// normal/halfRange objects) so they pass through as raw JSON.
type Weapon struct {
	Name         string          `json:"name"`
	Ammo         *int            `json:"ammo"`
	Target       string          `json:"target,omitempty"`
	Range        StatValue       `json:"range,omitempty"`
	Accuracy     json.RawMessage `json:"accuracy,omitempty"`
	Strength     json.RawMessage `json:"strength,omitempty"`
	Dice         StatValue       `json:"dice,omitempty"`
	SpecialRules []string        `json:"specialRules,omitempty"`
	ShotTypes    []ShotType      `json:"shotTypes,omitempty"`
}

type ShotType struct {
	Name         string          `json:"name"`
	Target       string          `json:"target,omitempty"`
	Range        StatValue       `json:"range,omitempty"`
	Accuracy     json.RawMessage `json:"accuracy,omitempty"`
	Strength     json.RawMessage `json:"strength,omitempty"`
	Dice         StatValue       `json:"dice,omitempty"`
	SpecialRules []string        `json:"specialRules,omitempty"`
}

type UnitOption struct {
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// IsVehicleClass reports whether a unit class is any vehicle variant.
func IsVehicleClass(unitClass string) bool {
	return strings.HasPrefix(unitClass, ClassVehiclePrefix)
}

// IsSmallTeamClass reports whether a unit class is the infantry small-team
// variant, which costs double against carry capacity.
func IsSmallTeamClass(unitClass string) bool {
	return strings.TrimSpace(unitClass) == ClassInfantrySmall
}

// Cost is a point cost that the catalog stores either as a number or as a
// split-cost string such as "10/15". Only the leading run of decimal digits
// is charged; the second value of a split cost is display-only. That
// asymmetry is an intentional modeling choice the catalog data relies on.
type Cost struct {
	Raw string
}

func NewCost(raw string) Cost {
	return Cost{Raw: raw}
}

func (c *Cost) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c.Raw = s
		return nil
	}
	c.Raw = string(data)
	return nil
}

func (c Cost) MarshalJSON() ([]byte, error) {
	if _, err := strconv.Atoi(c.Raw); err == nil {
		return []byte(c.Raw), nil
	}
	return json.Marshal(c.Raw)
}

// Value returns the charged point cost: the leading run of decimal digits,
// or 0 when none exist.
func (c Cost) Value() int {
	end := 0
	for end < len(c.Raw) && c.Raw[end] >= '0' && c.Raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	value, err := strconv.Atoi(c.Raw[:end])
	if err != nil {
		return 0
	}
	return value
}

// StatValue is a stat that the catalog stores as a number or as a marker
// string such as "*" or "1-". Numeric access defaults to 0 for markers.
type StatValue struct {
	Raw string
}

func (v *StatValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v.Raw = s
		return nil
	}
	if string(data) == "null" {
		v.Raw = ""
		return nil
	}
	v.Raw = string(data)
	return nil
}

func (v StatValue) MarshalJSON() ([]byte, error) {
	if v.Raw == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.Atoi(v.Raw); err == nil {
		return []byte(v.Raw), nil
	}
	return json.Marshal(v.Raw)
}

func (v StatValue) Int() int {
	n, err := strconv.Atoi(v.Raw)
	if err != nil {
		return 0
	}
	return n
}

// Toughness is stored as a single value (aircraft), a front/side/rear
// object (vehicles), or a legacy string such as "T6/4/4". Tow accounting
// reads only the front value.
type Toughness struct {
	FrontValue StatValue `json:"front"`
	SideValue  StatValue `json:"side,omitempty"`
	RearValue  StatValue `json:"rear,omitempty"`

	scalar bool
}

func (t *Toughness) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		type plain Toughness
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*t = Toughness(p)
		return nil
	}

	var v StatValue
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	t.FrontValue = v
	t.SideValue = StatValue{}
	t.RearValue = StatValue{}
	t.scalar = true
	return nil
}

func (t Toughness) MarshalJSON() ([]byte, error) {
	if t.scalar {
		return t.FrontValue.MarshalJSON()
	}
	type plain struct {
		Front StatValue `json:"front"`
		Side  StatValue `json:"side,omitempty"`
		Rear  StatValue `json:"rear,omitempty"`
	}
	return json.Marshal(plain{Front: t.FrontValue, Side: t.SideValue, Rear: t.RearValue})
}

// Front returns the numeric front toughness. String-encoded values keep
// only their digits; anything unparseable counts as 0.
func (t Toughness) Front() int {
	raw := t.FrontValue.Raw
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
