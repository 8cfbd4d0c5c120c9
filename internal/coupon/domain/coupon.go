package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon is a global discount code, not tied to any single product. Codes
// share one namespace with product-embedded coupon codes.
type Coupon struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code            string             `bson:"code" json:"code"`
	DiscountPercent int                `bson:"discountPercent" json:"discountPercent"`
	Active          bool               `bson:"active" json:"active"`
	ExpiresAt       *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

func (c Coupon) Usable(now time.Time) bool {
	if !c.Active {
		return false
	}
	return c.ExpiresAt == nil || now.Before(*c.ExpiresAt)
}
