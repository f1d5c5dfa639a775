package roster

import (
	"fmt"

	"rygonet-server/internal/catalog"
)

// PoolUsage pairs a capacity pool with the load placed on it. Embark and
// desant pools count passenger slots; the tow pool counts front-toughness
// points.
type PoolUsage struct {
	Capacity int `json:"capacity"`
	Load     int `json:"load"`
}

func (p PoolUsage) Over() bool {
	return p.Load > p.Capacity
}

// TransportReport is the capacity audit for one transport-capable entry:
// its pools, their loads, and a pool-specific error per overflow. The
// aggregate validator folds these into the roster diagnostics and the UI
// reads them directly for capacity indicators.
type TransportReport struct {
	EntryID   string    `json:"entry_id"`
	UnitName  string    `json:"unit_name"`
	Embark    PoolUsage `json:"embark"`
	Desant    PoolUsage `json:"desant"`
	Tow       PoolUsage `json:"tow"`
	Unlimited bool      `json:"tow_unlimited,omitempty"`
	Valid     bool      `json:"valid"`
	Errors    []string  `json:"errors,omitempty"`
}

// ValidateTransports audits every entry with any nonzero capacity pool.
// Dependents are partitioned by relationship kind, each pool is summed with
// its own cost rule, and a pool is violated only by its own load; an
// embark overflow never taints the desant or tow pools.
func ValidateTransports(r *Roster, src UnitSource) []TransportReport {
	var reports []TransportReport

	for i := range r.Entries {
		carrier := &r.Entries[i]
		unit, ok := src.Unit(r.FactionID, carrier.UnitID)
		if !ok {
			continue
		}

		profile := catalog.ParseTransportProfile(unit)
		if !profile.HasAnyCapacity() {
			continue
		}

		report := TransportReport{
			EntryID:   carrier.ID,
			UnitName:  unit.Name,
			Embark:    PoolUsage{Capacity: profile.Embark},
			Desant:    PoolUsage{Capacity: profile.Desant},
			Tow:       PoolUsage{Capacity: profile.Tow},
			Unlimited: profile.Tow == catalog.TowUnlimited,
		}

		for j := range r.Entries {
			dependent := &r.Entries[j]
			rel := dependent.Relationship
			if rel == nil || rel.Carrier != carrier.ID {
				continue
			}

			depUnit, _ := src.Unit(r.FactionID, dependent.UnitID)

			switch rel.Kind {
			case RelationEmbarked:
				report.Embark.Load += catalog.PassengerCost(depUnit)
			case RelationDesanting:
				report.Desant.Load += catalog.PassengerCost(depUnit)
			case RelationTowed:
				report.Tow.Load += catalog.TowLoad(depUnit)
			}
		}

		name := carrier.CustomName
		if name == "" {
			name = unit.Name
		}

		if report.Embark.Over() {
			report.Errors = append(report.Errors, fmt.Sprintf(
				"%s: carry capacity exceeded (%d/%d)", name, report.Embark.Load, report.Embark.Capacity))
		}
		if report.Desant.Over() {
			report.Errors = append(report.Errors, fmt.Sprintf(
				"%s: desant capacity exceeded (%d/%d)", name, report.Desant.Load, report.Desant.Capacity))
		}
		if report.Tow.Over() {
			report.Errors = append(report.Errors, fmt.Sprintf(
				"%s: tow capacity exceeded (%d/%d toughness)", name, report.Tow.Load, report.Tow.Capacity))
		}

		report.Valid = len(report.Errors) == 0
		reports = append(reports, report)
	}

	return reports
}
