package application

import (
	"context"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendora/backend/internal/coupon/domain"
)

type mockCouponRepo struct {
	coupons map[string]domain.Coupon
	seq     int
}

func newMockCouponRepo() *mockCouponRepo {
	return &mockCouponRepo{coupons: map[string]domain.Coupon{}}
}

func (r *mockCouponRepo) Insert(_ context.Context, c domain.Coupon) (string, error) {
	r.seq++
	id := "c" + strconv.Itoa(r.seq)
	r.coupons[id] = c
	return id, nil
}

func (r *mockCouponRepo) FindByCode(_ context.Context, code string) (domain.Coupon, error) {
	for _, c := range r.coupons {
		if c.Code == code {
			return c, nil
		}
	}
	return domain.Coupon{}, ErrNotFound
}

func (r *mockCouponRepo) List(_ context.Context) ([]domain.Coupon, error) {
	var out []domain.Coupon
	for _, c := range r.coupons {
		out = append(out, c)
	}
	return out, nil
}

func (r *mockCouponRepo) SetActive(_ context.Context, id string, active bool) error {
	c, ok := r.coupons[id]
	if !ok {
		return ErrNotFound
	}
	c.Active = active
	r.coupons[id] = c
	return nil
}

func (r *mockCouponRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.coupons[id]; !ok {
		return ErrNotFound
	}
	delete(r.coupons, id)
	return nil
}

type mockProductCoupons struct {
	codes map[string]int
}

func (m *mockProductCoupons) CouponPercent(_ context.Context, code string) (int, bool, error) {
	p, ok := m.codes[code]
	return p, ok, nil
}

func newCouponService(repo *mockCouponRepo, products *mockProductCoupons) *Service {
	if products == nil {
		products = &mockProductCoupons{}
	}
	return NewService(slog.New(slog.DiscardHandler), repo, products)
}

func TestCreate_NormalizesCode(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newCouponService(repo, nil)

	id, err := svc.Create(context.Background(), "  SAVE10 ", 10, true, nil)
	require.NoError(t, err)
	assert.Equal(t, "save10", repo.coupons[id].Code)
}

func TestCreate_RejectsDuplicateGlobalCode(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newCouponService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "save10", 10, true, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "SAVE10", 20, true, nil)
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestCreate_RejectsCodeUsedByProductCoupon(t *testing.T) {
	svc := newCouponService(newMockCouponRepo(), &mockProductCoupons{codes: map[string]int{"festive": 25}})

	_, err := svc.Create(context.Background(), "FESTIVE", 10, true, nil)
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestCreate_ValidatesPercentRange(t *testing.T) {
	svc := newCouponService(newMockCouponRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "zero", 0, true, nil)
	assert.ErrorIs(t, err, ErrBadPercent)
	_, err = svc.Create(ctx, "over", 101, true, nil)
	assert.ErrorIs(t, err, ErrBadPercent)
	_, err = svc.Create(ctx, "   ", 10, true, nil)
	assert.ErrorIs(t, err, ErrEmptyCode)
}

func TestValidate_GlobalCouponCaseInsensitive(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newCouponService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "save10", 10, true, nil)
	require.NoError(t, err)

	percent, ok, err := svc.Validate(ctx, " Save10 ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, percent)
}

func TestValidate_ProductCouponTakesPrecedence(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newCouponService(repo, &mockProductCoupons{codes: map[string]int{"save10": 30}})
	repo.coupons["c1"] = domain.Coupon{Code: "save10", DiscountPercent: 10, Active: true}

	percent, ok, err := svc.Validate(context.Background(), "save10")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 30, percent)
}

func TestValidate_InactiveCouponRejected(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newCouponService(repo, nil)
	ctx := context.Background()

	id, err := svc.Create(ctx, "paused", 15, false, nil)
	require.NoError(t, err)

	_, ok, err := svc.Validate(ctx, "paused")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.SetActive(ctx, id, true))
	_, ok, err = svc.Validate(ctx, "paused")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidate_ExpiredCouponRejected(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newCouponService(repo, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	past := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, "gone", 20, true, &past)
	require.NoError(t, err)

	_, ok, err := svc.Validate(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, ok)

	svc.now = func() time.Time { return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC) }
	_, ok, err = svc.Validate(ctx, "gone")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidate_UnknownCodeIsNotAnError(t *testing.T) {
	svc := newCouponService(newMockCouponRepo(), nil)

	percent, ok, err := svc.Validate(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, percent)

	_, ok, err = svc.Validate(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete_RemovesCoupon(t *testing.T) {
	repo := newMockCouponRepo()
	svc := newCouponService(repo, nil)
	ctx := context.Background()

	id, err := svc.Create(ctx, "temp", 5, true, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))

	_, ok, err := svc.Validate(ctx, "temp")
	require.NoError(t, err)
	assert.False(t, ok)
}
