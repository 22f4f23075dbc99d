package store

import "github.com/google/uuid"

// NewID returns a collision-resistant opaque identifier. Random UUIDs give
// a 128-bit space with no coordination, which is plenty for a single-user
// local store.
func NewID() string {
	return uuid.NewString()
}
