package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/trendora/backend/internal/coupon/domain"
)

var (
	ErrNotFound      = errors.New("coupon not found")
	ErrDuplicateCode = errors.New("coupon code already in use")
	ErrBadPercent    = errors.New("discount percent must be between 1 and 100")
	ErrEmptyCode     = errors.New("coupon code is required")
)

type Service struct {
	log      *slog.Logger
	repo     CouponRepository
	products ProductCoupons
	now      func() time.Time
}

func NewService(log *slog.Logger, repo CouponRepository, products ProductCoupons) *Service {
	return &Service{log: log, repo: repo, products: products, now: time.Now}
}

// Create inserts a global coupon after checking the code against both the
// global and the product-embedded tables. The check-then-act race is
// accepted: coupon creation is low-frequency and single-operator.
func (s *Service) Create(ctx context.Context, code string, percent int, active bool, expiresAt *time.Time) (string, error) {
	code = Normalize(code)
	if code == "" {
		return "", ErrEmptyCode
	}
	if percent < 1 || percent > 100 {
		return "", ErrBadPercent
	}

	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return "", ErrDuplicateCode
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}
	if _, ok, err := s.products.CouponPercent(ctx, code); err != nil {
		return "", err
	} else if ok {
		return "", ErrDuplicateCode
	}

	id, err := s.repo.Insert(ctx, domain.Coupon{
		Code:            code,
		DiscountPercent: percent,
		Active:          active,
		ExpiresAt:       expiresAt,
		CreatedAt:       s.now().UTC(),
	})
	if err != nil {
		return "", err
	}
	s.log.Info("coupon created", "coupon_id", id, "code", code, "percent", percent)
	return id, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.List(ctx)
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Validate resolves a shopper-entered code against both coupon sources,
// case-insensitive and whitespace-trimmed. Product coupons take precedence
// on a collision (creation prevents collisions, but old data may carry one).
func (s *Service) Validate(ctx context.Context, code string) (int, bool, error) {
	code = Normalize(code)
	if code == "" {
		return 0, false, nil
	}

	if percent, ok, err := s.products.CouponPercent(ctx, code); err != nil {
		return 0, false, err
	} else if ok {
		return percent, true, nil
	}

	c, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if !c.Usable(s.now()) {
		return 0, false, nil
	}
	return c.DiscountPercent, true, nil
}

// Normalize lowercases and trims a code; both coupon tables store codes in
// this form.
func Normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
