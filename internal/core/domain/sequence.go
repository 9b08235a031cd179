package domain

import "time"

// Sequence is a named, monotonically increasing counter used to mint
// human-readable identifiers. The increment is a single atomic database
// operation, so concurrent callers never observe the same value twice.
type Sequence struct {
	Name      string    `json:"name" bson:"_id"`
	Seq       int64     `json:"seq" bson:"seq"`
	LastReset time.Time `json:"last_reset,omitempty" bson:"last_reset,omitempty"`
}
