package application

import (
	"context"

	"github.com/trendora/backend/internal/coupon/domain"
)

type CouponRepository interface {
	Insert(ctx context.Context, c domain.Coupon) (string, error)
	FindByCode(ctx context.Context, normalizedCode string) (domain.Coupon, error)
	List(ctx context.Context) ([]domain.Coupon, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// ProductCoupons exposes the product-embedded side of the shared code
// namespace.
type ProductCoupons interface {
	CouponPercent(ctx context.Context, code string) (percent int, ok bool, err error)
}
