package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinicore/emr-system/internal/core/domain"
)

const collectionSequences = "sequences"

// SequenceRepository hands out unique increasing integers per named counter.
// Next is a single findAndModify with $inc and upsert, so concurrent callers
// are serialized by the server and can never observe the same value. Counting
// documents is not a substitute: deletes and races both produce duplicates.
type SequenceRepository struct {
	col *mongo.Collection
}

func NewSequenceRepository(db *mongo.Database) *SequenceRepository {
	return &SequenceRepository{col: db.Collection(collectionSequences)}
}

// Next atomically increments the named counter and returns the new value,
// creating the counter at 1 on first use.
func (r *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	)

	var seq domain.Sequence
	if err := res.Decode(&seq); err != nil {
		return 0, fmt.Errorf("next sequence %q: %w", name, err)
	}
	return seq.Seq, nil
}

// Current is a read-only peek; 0 when the sequence does not exist yet.
func (r *SequenceRepository) Current(ctx context.Context, name string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var seq domain.Sequence
	if err := r.col.FindOne(ctx, bson.M{"_id": name}).Decode(&seq); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("current sequence %q: %w", name, err)
	}
	return seq.Seq, nil
}

// Reset zeroes the counter and stamps the reset time. Used for the annual
// identifier rollover.
func (r *SequenceRepository) Reset(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$set": bson.M{"seq": int64(0), "last_reset": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("reset sequence %q: %w", name, err)
	}
	return nil
}
