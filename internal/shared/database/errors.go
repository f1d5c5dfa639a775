package database

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation is the postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether an error, anywhere in its chain, is a
// postgres unique-constraint violation. Repositories use it to turn the raw
// driver error into a conflict the API surface can report.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
