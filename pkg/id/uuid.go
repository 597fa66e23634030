// Package id generates the identifier flavors used across the console:
// UUIDs for opaque single-use tokens, ULIDs for time-sortable task ids and
// short ids for log correlation.
package id

import (
	"github.com/google/uuid"
)

// UUID generates a new random UUID string.
func UUID() string {
	return uuid.NewString()
}
