package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/trendora/backend/internal/cart/domain"
	"github.com/trendora/backend/internal/order/domain"
	"github.com/trendora/backend/pkg/idempotency"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidCoupon        = errors.New("coupon is not valid")
	ErrCouponAlreadyApplied = errors.New("coupon already applied")
	ErrBadSignature         = errors.New("payment signature mismatch")
	ErrOrderNotFound        = errors.New("order not found")
	ErrBadTransition        = errors.New("status transition not allowed")
	ErrUnknownStatus        = errors.New("unknown order status")
)

const currency = "INR"

type Service struct {
	log     *slog.Logger
	repo    OrderRepository
	cart    CartProvider
	coupons CouponValidator
	fees    FeeProvider
	gateway PaymentGateway
	locks   *idempotency.Store
}

func NewService(log *slog.Logger, repo OrderRepository, cart CartProvider, coupons CouponValidator, fees FeeProvider, gateway PaymentGateway, locks *idempotency.Store) *Service {
	return &Service{
		log:     log,
		repo:    repo,
		cart:    cart,
		coupons: coupons,
		fees:    fees,
		gateway: gateway,
		locks:   locks,
	}
}

// Quote prices the user's current cart, optionally with a coupon code.
func (s *Service) Quote(ctx context.Context, userID, couponCode string) (domain.Quote, error) {
	cart, _, err := s.cart.Get(ctx, userID)
	if err != nil {
		return domain.Quote{}, err
	}
	if cart.IsEmpty() {
		return domain.Quote{}, ErrEmptyCart
	}
	return s.quoteCart(ctx, cart.SubtotalCents(), couponCode)
}

func (s *Service) quoteCart(ctx context.Context, subtotalCents int64, couponCode string) (domain.Quote, error) {
	cfg, err := s.fees.Fees(ctx)
	if err != nil {
		return domain.Quote{}, err
	}

	var percent int
	if couponCode != "" {
		var ok bool
		percent, ok, err = s.coupons.Validate(ctx, couponCode)
		if err != nil {
			return domain.Quote{}, err
		}
		if !ok {
			return domain.Quote{}, ErrInvalidCoupon
		}
	}

	q := domain.ComputeQuote(subtotalCents, cfg.ShippingFeeCents, cfg.PlatformFeeCents, percent)
	q.CouponCode = couponCode
	return q, nil
}

// ApplyCoupon validates and locks a coupon for the user's checkout session.
// The first successful application wins; applying again is a no-op surfaced
// as ErrCouponAlreadyApplied so the handler can answer without recomputing.
func (s *Service) ApplyCoupon(ctx context.Context, userID, code string) (domain.Quote, error) {
	cart, _, err := s.cart.Get(ctx, userID)
	if err != nil {
		return domain.Quote{}, err
	}
	if cart.IsEmpty() {
		return domain.Quote{}, ErrEmptyCart
	}

	quote, err := s.quoteCart(ctx, cart.SubtotalCents(), code)
	if err != nil {
		return domain.Quote{}, err
	}

	seen, err := s.locks.Seen(ctx, idempotency.Key("coupon", userID))
	if err != nil {
		return domain.Quote{}, err
	}
	if seen {
		return domain.Quote{}, ErrCouponAlreadyApplied
	}
	s.log.Info("coupon applied", "user_id", userID, "percent", quote.DiscountPercent)
	return quote, nil
}

type PlaceCODInput struct {
	Address    domain.Address
	CouponCode string
	PaidCents  int64
	DueCents   *int64 // derived as amount - paid when not supplied
}

// PlaceCOD creates a cash-on-delivery order immediately; payment is not
// captured and the due amount tracks the deferred balance.
func (s *Service) PlaceCOD(ctx context.Context, userID string, in PlaceCODInput) (domain.Order, error) {
	cart, _, err := s.cart.Get(ctx, userID)
	if err != nil {
		return domain.Order{}, err
	}
	if cart.IsEmpty() {
		return domain.Order{}, ErrEmptyCart
	}

	quote, err := s.quoteCart(ctx, cart.SubtotalCents(), in.CouponCode)
	if err != nil {
		return domain.Order{}, err
	}

	due := quote.TotalCents - in.PaidCents
	if in.DueCents != nil {
		due = *in.DueCents
	}

	o := s.newOrder(userID, cart, quote, in.Address)
	o.PaymentMethod = domain.MethodCOD
	o.PaidCents = in.PaidCents
	o.DueCents = due

	id, err := s.repo.Insert(ctx, o)
	if err != nil {
		return domain.Order{}, err
	}
	s.finishCheckout(ctx, userID)
	s.log.Info("cod order placed", "order_id", id, "ref", o.Ref, "amount_cents", o.AmountCents)
	return s.repo.Get(ctx, id)
}

// InitiateOnline delegates order creation to the payment gateway. Nothing is
// persisted until the gateway callback verifies.
func (s *Service) InitiateOnline(ctx context.Context, userID, couponCode string) (gatewayOrderID string, amountCents int64, err error) {
	cart, _, err := s.cart.Get(ctx, userID)
	if err != nil {
		return "", 0, err
	}
	if cart.IsEmpty() {
		return "", 0, ErrEmptyCart
	}

	quote, err := s.quoteCart(ctx, cart.SubtotalCents(), couponCode)
	if err != nil {
		return "", 0, err
	}

	gatewayOrderID, err = s.gateway.CreateOrder(ctx, quote.TotalCents, currency, uuid.NewString())
	if err != nil {
		return "", 0, fmt.Errorf("gateway create order: %w", err)
	}
	s.log.Info("gateway order created", "gateway_order_id", gatewayOrderID, "amount_cents", quote.TotalCents)
	return gatewayOrderID, quote.TotalCents, nil
}

type VerifyInput struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
	CouponCode     string
	Address        domain.Address
}

// VerifyPayment checks the gateway callback signature and, on the first
// successful verification, snapshots the cart into a captured order and
// clears it. A duplicate callback returns the already-created order.
func (s *Service) VerifyPayment(ctx context.Context, userID string, in VerifyInput) (domain.Order, error) {
	if !s.gateway.VerifySignature(in.GatewayOrderID, in.PaymentID, in.Signature) {
		return domain.Order{}, ErrBadSignature
	}

	key := idempotency.Key("payment", in.GatewayOrderID)
	seen, err := s.locks.Seen(ctx, key)
	if err != nil {
		return domain.Order{}, err
	}
	if seen {
		return s.repo.GetByGatewayOrderID(ctx, in.GatewayOrderID)
	}

	cart, _, err := s.cart.Get(ctx, userID)
	if err != nil {
		_ = s.locks.Release(ctx, key)
		return domain.Order{}, err
	}
	if cart.IsEmpty() {
		_ = s.locks.Release(ctx, key)
		return domain.Order{}, ErrEmptyCart
	}

	quote, err := s.quoteCart(ctx, cart.SubtotalCents(), in.CouponCode)
	if err != nil {
		_ = s.locks.Release(ctx, key)
		return domain.Order{}, err
	}

	o := s.newOrder(userID, cart, quote, in.Address)
	o.PaymentMethod = domain.MethodOnline
	o.PaymentCaptured = true
	o.PaidCents = quote.TotalCents
	o.GatewayOrderID = in.GatewayOrderID

	id, err := s.repo.Insert(ctx, o)
	if err != nil {
		_ = s.locks.Release(ctx, key)
		return domain.Order{}, err
	}
	s.finishCheckout(ctx, userID)
	s.log.Info("online order verified", "order_id", id, "ref", o.Ref, "gateway_order_id", in.GatewayOrderID)
	return s.repo.Get(ctx, id)
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// UpdateStatus applies an admin transition. Deleted hard-deletes the
// document; Cancelled flags a refund when payment had been captured.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, to domain.Status) error {
	if !to.Valid() {
		return ErrUnknownStatus
	}
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if to == domain.StatusDeleted {
		s.log.Info("order hard-deleted", "order_id", orderID, "ref", o.Ref)
		return s.repo.Delete(ctx, orderID)
	}
	if !domain.CanTransition(o.Status, to) {
		return ErrBadTransition
	}
	refundDue := o.RefundDue
	if to == domain.StatusCancelled && o.PaymentCaptured {
		refundDue = true
	}
	return s.repo.UpdateStatus(ctx, orderID, to, refundDue)
}

func (s *Service) newOrder(userID string, cart cartdomain.Cart, quote domain.Quote, addr domain.Address) domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		Ref:              domain.NewRef(),
		UserID:           userID,
		Items:            domain.ItemsFromCart(cart),
		Address:          addr,
		AmountCents:      quote.TotalCents,
		ShippingFeeCents: quote.ShippingFeeCents,
		PlatformFeeCents: quote.PlatformFeeCents,
		DiscountPercent:  quote.DiscountPercent,
		CouponCode:       quote.CouponCode,
		Status:           domain.StatusPlaced,
		PlacedAt:         now,
		UpdatedAt:        now,
	}
}

func (s *Service) finishCheckout(ctx context.Context, userID string) {
	if err := s.cart.Clear(ctx, userID); err != nil {
		s.log.Error("cart clear after checkout failed", "user_id", userID, "err", err)
	}
	if err := s.locks.Release(ctx, idempotency.Key("coupon", userID)); err != nil {
		s.log.Error("coupon lock release failed", "user_id", userID, "err", err)
	}
}
