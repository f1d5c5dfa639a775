package roster

import (
	"errors"

	"rygonet-server/internal/catalog"
)

var (
	// ErrEntryNotFound means the addressed entry is not in the roster.
	ErrEntryNotFound = errors.New("entry not found in roster")
	// ErrCarrierNotFound means the named carrier is not in the roster.
	ErrCarrierNotFound = errors.New("carrier entry not found in roster")
	// ErrSelfCarrier means an entry tried to carry itself.
	ErrSelfCarrier = errors.New("entry cannot carry itself")
	// ErrInvalidRelationKind means the kind is outside the closed set.
	ErrInvalidRelationKind = errors.New("invalid relationship kind")
)

// SetRelationship points an entry at a carrier, overwriting any existing
// relationship. Self-reference is rejected outright; deeper carrier cycles
// are not chased (a known, accepted gap in the model).
func (r *Roster) SetRelationship(entryID string, kind RelationKind, carrierID string) error {
	if entryID == carrierID {
		return ErrSelfCarrier
	}
	if !kind.IsValid() {
		return ErrInvalidRelationKind
	}

	entry := r.EntryByID(entryID)
	if entry == nil {
		return ErrEntryNotFound
	}
	if r.EntryByID(carrierID) == nil {
		return ErrCarrierNotFound
	}

	entry.Relationship = &Relationship{Kind: kind, Carrier: carrierID}
	return nil
}

// ClearRelationship removes an entry's relationship, if any.
func (r *Roster) ClearRelationship(entryID string) error {
	entry := r.EntryByID(entryID)
	if entry == nil {
		return ErrEntryNotFound
	}
	entry.Relationship = nil
	return nil
}

// RemoveEntry deletes an entry and un-relates every dependent that named it
// as carrier. Deletion cascades the relationship field only; the dependents
// themselves stay untouched. Reports whether the entry existed.
func (r *Roster) RemoveEntry(entryID string) bool {
	index := -1
	for i := range r.Entries {
		if r.Entries[i].ID == entryID {
			index = i
			break
		}
	}
	if index == -1 {
		return false
	}

	r.Entries = append(r.Entries[:index], r.Entries[index+1:]...)

	for i := range r.Entries {
		rel := r.Entries[i].Relationship
		if rel != nil && rel.Carrier == entryID {
			r.Entries[i].Relationship = nil
		}
	}
	return true
}

// CarrierOption is one roster entry that could carry the subject entry,
// with the relationship kinds it can offer.
type CarrierOption struct {
	CarrierID string         `json:"carrier_id"`
	Kinds     []RelationKind `json:"kinds"`
}

// CarrierCandidates enumerates which other entries could plausibly carry
// the given one. Embark needs PC capacity on the candidate, desant needs
// the vehicle desant allowance, and tow additionally requires the subject
// itself to be a vehicle class: infantry cannot be towed.
func CarrierCandidates(r *Roster, entryID string, src UnitSource) []CarrierOption {
	entry := r.EntryByID(entryID)
	if entry == nil {
		return nil
	}

	subjectIsVehicle := false
	if unit, ok := src.Unit(r.FactionID, entry.UnitID); ok {
		subjectIsVehicle = catalog.IsVehicleClass(unit.Stats.UnitClass)
	}

	var options []CarrierOption
	for i := range r.Entries {
		candidate := &r.Entries[i]
		if candidate.ID == entryID {
			continue
		}

		unit, ok := src.Unit(r.FactionID, candidate.UnitID)
		if !ok {
			continue
		}

		profile := catalog.ParseTransportProfile(unit)
		if !profile.HasAnyCapacity() {
			continue
		}

		var kinds []RelationKind
		if profile.Embark > 0 {
			kinds = append(kinds, RelationEmbarked)
		}
		if profile.Desant > 0 {
			kinds = append(kinds, RelationDesanting)
		}
		if profile.Tow > 0 && subjectIsVehicle {
			kinds = append(kinds, RelationTowed)
		}

		if len(kinds) > 0 {
			options = append(options, CarrierOption{CarrierID: candidate.ID, Kinds: kinds})
		}
	}
	return options
}
