package application

import (
	"context"

	cartdomain "github.com/trendora/backend/internal/cart/domain"
	"github.com/trendora/backend/internal/order/domain"
	settingsdomain "github.com/trendora/backend/internal/settings/domain"
)

type OrderRepository interface {
	Insert(ctx context.Context, o domain.Order) (string, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, refundDue bool) error
	Delete(ctx context.Context, id string) error
}

type CartProvider interface {
	Get(ctx context.Context, userID string) (cartdomain.Cart, []string, error)
	Clear(ctx context.Context, userID string) error
}

// CouponValidator resolves a shopper-entered code against both the
// product-scoped and the global coupon tables. ok=false means the code is
// unknown, inactive or expired; err is reserved for infrastructure failures.
type CouponValidator interface {
	Validate(ctx context.Context, code string) (discountPercent int, ok bool, err error)
}

type FeeProvider interface {
	Fees(ctx context.Context) (settingsdomain.Config, error)
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountCents int64, currency, receipt string) (gatewayOrderID string, err error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
}
