package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trendora/backend/internal/settings/domain"
)

// configID is the well-defined key of the single configuration record.
const configID = "config"

type Repository struct {
	settings *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{settings: db.Collection("settings")}
}

// Get returns the configuration record, or a zero-valued one when the
// platform has never been configured.
func (r *Repository) Get(ctx context.Context) (domain.Config, error) {
	var doc struct {
		domain.Config `bson:",inline"`
	}
	err := r.settings.FindOne(ctx, bson.M{"_id": configID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Config{}, nil
		}
		return domain.Config{}, fmt.Errorf("get config: %w", err)
	}
	return doc.Config, nil
}

func (r *Repository) Save(ctx context.Context, cfg domain.Config) error {
	update := bson.M{"$set": cfg}
	opts := options.Update().SetUpsert(true)
	if _, err := r.settings.UpdateOne(ctx, bson.M{"_id": configID}, update, opts); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
