package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trendora/backend/internal/cart/domain"
)

var ErrUserNotFound = errors.New("user not found")

// Repository persists the cart embedded on the user document, so a cart
// write is one document update and inherits MongoDB's per-document atomicity.
type Repository struct {
	users *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{users: db.Collection("users")}
}

type cartDoc struct {
	Cart domain.Cart `bson:"cart"`
}

func (r *Repository) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var doc cartDoc
	err = r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if doc.Cart == nil {
		doc.Cart = domain.Cart{}
	}
	return doc.Cart, nil
}

func (r *Repository) SaveCart(ctx context.Context, userID string, cart domain.Cart) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}
	if cart == nil {
		cart = domain.Cart{}
	}

	update := bson.M{"$set": bson.M{"cart": cart, "updatedAt": time.Now().UTC()}}
	result, err := r.users.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
