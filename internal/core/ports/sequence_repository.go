package ports

import "context"

// SequenceRepository hands out unique, strictly increasing integers per named
// sequence. Next must be backed by a single atomic increment-or-create
// operation so concurrent callers never receive the same value.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
	// Current is a read-only peek; 0 when the sequence does not exist yet.
	Current(ctx context.Context, name string) (int64, error)
	// Reset zeroes the counter and stamps the reset time.
	Reset(ctx context.Context, name string) error
}
