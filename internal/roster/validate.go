package roster

import (
	"fmt"

	"rygonet-server/internal/catalog"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is one user-facing diagnostic. Issues are data, not failures: an
// invalid roster is still a roster, and producing issues never blocks the
// edit that caused them.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Validation is the derived, read-only view the UI renders after every
// roster change.
type Validation struct {
	TotalPoints    int               `json:"total_points"`
	PointsLimit    int               `json:"points_limit"`
	RequiredTACOMS int               `json:"required_tacoms"`
	ActualTACOMS   int               `json:"actual_tacoms"`
	Issues         []Issue           `json:"issues"`
	Transports     []TransportReport `json:"transports"`
}

// Validate derives the full diagnostic list from a roster snapshot, in a
// fixed order: points limit, emptiness, dangling catalog references, the
// TACOMS minimum, then per-pool transport overflows. Pure function;
// the snapshot is never mutated.
func Validate(r *Roster, src UnitSource) Validation {
	total := TotalPoints(r, src)

	result := Validation{
		TotalPoints: total,
		PointsLimit: r.PointsLimit,
		Issues:      []Issue{},
	}

	if total > r.PointsLimit {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityError,
			Message: fmt.Sprintf("Roster is %d points over the %d point limit",
				total-r.PointsLimit, r.PointsLimit),
		})
	}

	if len(r.Entries) == 0 {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityWarning,
			Message:  "Roster has no units",
		})
	}

	dangling := 0
	tacoms := 0
	for i := range r.Entries {
		unit, ok := src.Unit(r.FactionID, r.Entries[i].UnitID)
		if !ok {
			dangling++
			continue
		}
		if unit.Category == catalog.CategoryTACOMS {
			tacoms += r.Entries[i].Count
		}
	}

	if dangling > 0 {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("%d unit(s) could not be found in the catalog", dangling),
		})
	}

	// One TACOMS unit per full or started 100 points.
	required := (total + 99) / 100
	result.RequiredTACOMS = required
	result.ActualTACOMS = tacoms
	if tacoms < required {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityError,
			Message: fmt.Sprintf("Roster needs %d TACOMS unit(s) for %d points, has %d",
				required, total, tacoms),
		})
	}

	result.Transports = ValidateTransports(r, src)
	for _, report := range result.Transports {
		for _, msg := range report.Errors {
			result.Issues = append(result.Issues, Issue{
				Severity: SeverityError,
				Message:  msg,
			})
		}
	}

	return result
}
