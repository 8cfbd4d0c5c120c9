package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the account record; the shopping cart lives on this same document
// but is managed by the cart context.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Admin     bool               `bson:"admin" json:"admin"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
