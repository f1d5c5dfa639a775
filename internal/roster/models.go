package roster

import (
	"time"

	"rygonet-server/internal/catalog"
)

// RelationKind distinguishes the three ways one unit can be carried by
// another. Each kind draws on a different capacity pool of the carrier.
type RelationKind string

const (
	// RelationEmbarked rides inside the carrier's PC capacity.
	RelationEmbarked RelationKind = "embarked"
	// RelationDesanting rides on top, using the vehicle desant allowance.
	RelationDesanting RelationKind = "desanting"
	// RelationTowed is dragged behind, charged in front-toughness points.
	RelationTowed RelationKind = "towed"
)

func (k RelationKind) IsValid() bool {
	return k == RelationEmbarked || k == RelationDesanting || k == RelationTowed
}

// Relationship links an entry to the entry carrying it. Carrier is an entry
// id within the same roster.
type Relationship struct {
	Kind    RelationKind `json:"kind"`
	Carrier string       `json:"carrier"`
}

// Entry is one line of a roster: a catalog unit reference plus the user's
// customization of it. Options holds indices into the referenced unit's
// option list; out-of-range indices are tolerated and contribute nothing.
type Entry struct {
	ID           string        `json:"id"`
	UnitID       string        `json:"unit_id"`
	Count        int           `json:"count"`
	CustomName   string        `json:"custom_name,omitempty"`
	Options      []int         `json:"options,omitempty"`
	GroupID      string        `json:"group_id,omitempty"`
	Relationship *Relationship `json:"relationship,omitempty"`
}

// Group is a purely organizational bucket; it carries no points or
// validation semantics. Entries reference it by id and a dangling group
// reference just renders the entry ungrouped.
type Group struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Collapsed bool   `json:"collapsed"`
}

// Roster is the aggregate root. Entries are ordered for display only;
// Groups are unordered. Shared marks a roster that arrived through a share
// link and can never enter edit mode without being cloned first.
type Roster struct {
	ID          string    `json:"id"`
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	FactionID   string    `json:"faction_id"`
	PointsLimit int       `json:"points_limit"`
	Entries     []Entry   `json:"entries"`
	Groups      []Group   `json:"groups"`
	Shared      bool      `json:"shared"`
	EditMode    bool      `json:"edit_mode"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UnitSource resolves catalog references for derivation functions. The
// catalog service satisfies it; tests use a map-backed stub.
type UnitSource interface {
	Unit(factionID, unitID string) (*catalog.UnitDefinition, bool)
}

// Normalize upgrades a stored document in place to the current format.
// Rosters persisted before groups and relationships existed lack those
// fields entirely; they default to empty. The upgrade is idempotent and
// safe to run on already-current documents, so the read path applies it
// unconditionally.
func (r *Roster) Normalize() {
	if r.Entries == nil {
		r.Entries = []Entry{}
	}
	if r.Groups == nil {
		r.Groups = []Group{}
	}
	for i := range r.Entries {
		if r.Entries[i].Count < 1 {
			r.Entries[i].Count = 1
		}
	}
}

// EntryByID returns the entry with the given id, or nil.
func (r *Roster) EntryByID(entryID string) *Entry {
	for i := range r.Entries {
		if r.Entries[i].ID == entryID {
			return &r.Entries[i]
		}
	}
	return nil
}

// GroupByID returns the group with the given id, or nil.
func (r *Roster) GroupByID(groupID string) *Group {
	for i := range r.Groups {
		if r.Groups[i].ID == groupID {
			return &r.Groups[i]
		}
	}
	return nil
}

// DisplayName is the entry's custom name when set, else the unit name from
// the catalog, else the raw unit id for dangling references.
func (e *Entry) DisplayName(factionID string, src UnitSource) string {
	if e.CustomName != "" {
		return e.CustomName
	}
	if unit, ok := src.Unit(factionID, e.UnitID); ok {
		return unit.Name
	}
	return e.UnitID
}
