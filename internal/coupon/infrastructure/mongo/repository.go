package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trendora/backend/internal/coupon/application"
	"github.com/trendora/backend/internal/coupon/domain"
)

type Repository struct {
	coupons *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coupons: db.Collection("coupons")}
}

func (r *Repository) Insert(ctx context.Context, c domain.Coupon) (string, error) {
	result, err := r.coupons.InsertOne(ctx, c)
	if err != nil {
		return "", fmt.Errorf("insert coupon: %w", err)
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *Repository) FindByCode(ctx context.Context, normalizedCode string) (domain.Coupon, error) {
	var c domain.Coupon
	err := r.coupons.FindOne(ctx, bson.M{"code": normalizedCode}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Coupon{}, application.ErrNotFound
		}
		return domain.Coupon{}, fmt.Errorf("find coupon: %w", err)
	}
	return c, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Coupon, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coupons.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.Coupon
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode coupons: %w", err)
	}
	return out, nil
}

func (r *Repository) SetActive(ctx context.Context, id string, active bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return application.ErrNotFound
	}
	result, err := r.coupons.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"active": active}})
	if err != nil {
		return fmt.Errorf("set coupon active: %w", err)
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return application.ErrNotFound
	}
	result, err := r.coupons.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if result.DeletedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}
