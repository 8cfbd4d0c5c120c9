package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCoupon is a discount embedded on a single product. Its code shares
// one namespace with global coupon codes.
type ProductCoupon struct {
	Code            string `bson:"code" json:"code"`
	DiscountPercent int    `bson:"discountPercent" json:"discountPercent"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	PriceCents  int64              `bson:"priceCents" json:"priceCents"`
	Images      []string           `bson:"images" json:"images"`
	Category    string             `bson:"category" json:"category"`
	SubCategory string             `bson:"subCategory" json:"subCategory"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Colors      []string           `bson:"colors" json:"colors"`
	Bestseller  bool               `bson:"bestseller" json:"bestseller"`
	Coupon      *ProductCoupon     `bson:"coupon,omitempty" json:"coupon,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
