package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trendora/backend/internal/catalog/application"
	"github.com/trendora/backend/internal/catalog/domain"
)

type Repository struct {
	products *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{products: db.Collection("products")}
}

func (r *Repository) Insert(ctx context.Context, p domain.Product) (string, error) {
	result, err := r.products.InsertOne(ctx, p)
	if err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Product{}, application.ErrNotFound
	}

	var p domain.Product
	err = r.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Product{}, application.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.Product
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return out, nil
}

func (r *Repository) ListIDs(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode product ids: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID.Hex())
	}
	return ids, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return application.ErrNotFound
	}
	result, err := r.products.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *Repository) SetBestseller(ctx context.Context, id string, bestseller bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return application.ErrNotFound
	}
	result, err := r.products.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"bestseller": bestseller}})
	if err != nil {
		return fmt.Errorf("set bestseller: %w", err)
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *Repository) FindByCouponCode(ctx context.Context, normalizedCode string) (domain.Product, error) {
	var p domain.Product
	err := r.products.FindOne(ctx, bson.M{"coupon.code": normalizedCode}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Product{}, application.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("find by coupon code: %w", err)
	}
	return p, nil
}
