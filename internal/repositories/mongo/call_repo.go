package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/hearthline/hearthline/internal/models"
	"github.com/hearthline/hearthline/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CallRepository interface {
	Create(ctx context.Context, c *models.Call) error
	GetByCallID(ctx context.Context, callID string) (*models.Call, error)
	End(ctx context.Context, callID string, endedAt time.Time, durationSeconds int64) error
	ListByResident(ctx context.Context, residentID string, limit int64) ([]models.Call, error)
}

type callRepo struct {
	col *mongo.Collection
}

func NewCallRepo(db *mongo.Database) CallRepository {
	return &callRepo{col: db.Collection("calls")}
}

func (r *callRepo) Create(ctx context.Context, c *models.Call) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *callRepo) GetByCallID(ctx context.Context, callID string) (*models.Call, error) {
	var c models.Call
	err := r.col.FindOne(ctx, bson.M{"call_id": callID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *callRepo) End(ctx context.Context, callID string, endedAt time.Time, durationSeconds int64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"call_id": callID},
		bson.M{"$set": bson.M{
			"status":           "ended",
			"ended_at":         endedAt.UTC(),
			"duration_seconds": durationSeconds,
		}},
	)
	return err
}

func (r *callRepo) ListByResident(ctx context.Context, residentID string, limit int64) ([]models.Call, error) {
	if limit <= 0 {
		limit = 50
	}

	cur, err := r.col.Find(ctx,
		bson.M{"resident_id": residentID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Call
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
