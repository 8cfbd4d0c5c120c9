package application

import (
	"context"

	"github.com/trendora/backend/internal/cart/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, userID string) (domain.Cart, error)
	SaveCart(ctx context.Context, userID string, cart domain.Cart) error
}

// ProductSnapshot is the slice of the catalog a cart entry denormalizes.
type ProductSnapshot struct {
	ID         string
	Name       string
	PriceCents int64
	Image      string
	Sizes      []string
}

type CatalogReader interface {
	Product(ctx context.Context, id string) (ProductSnapshot, error)
	ProductIDs(ctx context.Context) (map[string]bool, error)
}
