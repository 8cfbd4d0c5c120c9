package application

import (
	"context"

	"github.com/trendora/backend/internal/catalog/domain"
)

type ProductRepository interface {
	Insert(ctx context.Context, p domain.Product) (string, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
	SetBestseller(ctx context.Context, id string, bestseller bool) error
	FindByCouponCode(ctx context.Context, normalizedCode string) (domain.Product, error)
}

// Uploader proxies image files to the CDN.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (url string, err error)
	Delete(ctx context.Context, url string) error
}
