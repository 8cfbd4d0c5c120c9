package application

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/trendora/backend/internal/catalog/domain"
)

var (
	ErrNotFound       = errors.New("product not found")
	ErrMissingFields  = errors.New("name, price and category are required")
	ErrBadCouponRange = errors.New("discount percent must be between 1 and 100")
)

type Service struct {
	log      *slog.Logger
	repo     ProductRepository
	uploader Uploader
}

func NewService(log *slog.Logger, repo ProductRepository, uploader Uploader) *Service {
	return &Service{log: log, repo: repo, uploader: uploader}
}

type AddProductInput struct {
	Name        string
	Description string
	PriceCents  int64
	Category    string
	SubCategory string
	Sizes       []string
	Colors      []string
	Bestseller  bool
	Coupon      *domain.ProductCoupon
	ImagePaths  []string // local temp files, removed after upload regardless of outcome
}

func (s *Service) AddProduct(ctx context.Context, in AddProductInput) (string, error) {
	if in.Name == "" || in.PriceCents <= 0 || in.Category == "" {
		return "", ErrMissingFields
	}
	if in.Coupon != nil {
		in.Coupon.Code = NormalizeCode(in.Coupon.Code)
		if in.Coupon.DiscountPercent < 1 || in.Coupon.DiscountPercent > 100 {
			return "", ErrBadCouponRange
		}
	}

	var images []string
	for _, path := range in.ImagePaths {
		url, err := s.uploader.Upload(ctx, path)
		if removeErr := os.Remove(path); removeErr != nil {
			s.log.Warn("temp file cleanup failed", "path", path, "err", removeErr)
		}
		if err != nil {
			return "", err
		}
		images = append(images, url)
	}

	p := domain.Product{
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Images:      images,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		Sizes:       in.Sizes,
		Colors:      in.Colors,
		Bestseller:  in.Bestseller,
		Coupon:      in.Coupon,
		CreatedAt:   time.Now().UTC(),
	}
	id, err := s.repo.Insert(ctx, p)
	if err != nil {
		return "", err
	}
	s.log.Info("product added", "product_id", id, "name", in.Name)
	return id, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ProductIDs(ctx context.Context) (map[string]bool, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// Remove deletes the product and then its CDN images; image deletion is
// best-effort, a dangling CDN asset is preferable to a dangling product.
func (s *Service) Remove(ctx context.Context, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	for _, url := range p.Images {
		if err := s.uploader.Delete(ctx, url); err != nil {
			s.log.Warn("cdn image delete failed", "url", url, "err", err)
		}
	}
	s.log.Info("product removed", "product_id", id)
	return nil
}

func (s *Service) SetBestseller(ctx context.Context, id string, bestseller bool) error {
	return s.repo.SetBestseller(ctx, id, bestseller)
}

// CouponPercent resolves a product-embedded coupon code.
func (s *Service) CouponPercent(ctx context.Context, code string) (int, bool, error) {
	p, err := s.repo.FindByCouponCode(ctx, NormalizeCode(code))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return p.Coupon.DiscountPercent, true, nil
}

// NormalizeCode is the shared coupon-code normalization: case-insensitive,
// whitespace-trimmed.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
