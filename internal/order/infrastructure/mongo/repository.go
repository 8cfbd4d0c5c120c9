package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trendora/backend/internal/order/application"
	"github.com/trendora/backend/internal/order/domain"
)

type Repository struct {
	orders *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{orders: db.Collection("orders")}
}

func (r *Repository) Insert(ctx context.Context, o domain.Order) (string, error) {
	result, err := r.orders.InsertOne(ctx, o)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Order{}, application.ErrOrderNotFound
	}
	var o domain.Order
	err = r.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Order{}, application.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *Repository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (domain.Order, error) {
	var o domain.Order
	err := r.orders.FindOne(ctx, bson.M{"gatewayOrderId": gatewayOrderID}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Order{}, application.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order by gateway id: %w", err)
	}
	return o, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *Repository) list(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "placedAt", Value: -1}})
	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return out, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status, refundDue bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return application.ErrOrderNotFound
	}
	update := bson.M{"$set": bson.M{
		"status":    status,
		"refundDue": refundDue,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.orders.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if result.MatchedCount == 0 {
		return application.ErrOrderNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return application.ErrOrderNotFound
	}
	result, err := r.orders.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return application.ErrOrderNotFound
	}
	return nil
}
