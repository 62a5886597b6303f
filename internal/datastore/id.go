package datastore

import "github.com/google/uuid"

// newOpaqueID mints a globally-unique opaque identifier for rows (oauth2
// account ids) whose uniqueness doesn't carry the retry-on-collision policy
// spec §4.9 reserves for user ids.
func newOpaqueID() string {
	return uuid.NewString()
}
