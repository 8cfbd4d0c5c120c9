package catalog

import (
	"context"
	"errors"

	cartapp "github.com/trendora/backend/internal/cart/application"
	catalogapp "github.com/trendora/backend/internal/catalog/application"
)

// Reader adapts the catalog service to the cart's CatalogReader port.
type Reader struct {
	catalog *catalogapp.Service
}

func NewReader(catalog *catalogapp.Service) *Reader {
	return &Reader{catalog: catalog}
}

func (r *Reader) Product(ctx context.Context, id string) (cartapp.ProductSnapshot, error) {
	p, err := r.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, catalogapp.ErrNotFound) {
			return cartapp.ProductSnapshot{}, cartapp.ErrProductNotFound
		}
		return cartapp.ProductSnapshot{}, err
	}
	var image string
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	return cartapp.ProductSnapshot{
		ID:         p.ID.Hex(),
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Image:      image,
		Sizes:      p.Sizes,
	}, nil
}

func (r *Reader) ProductIDs(ctx context.Context) (map[string]bool, error) {
	return r.catalog.ProductIDs(ctx)
}
