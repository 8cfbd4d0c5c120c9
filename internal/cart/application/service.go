package application

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/trendora/backend/internal/cart/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSizeNotOffered  = errors.New("size not offered for product")
	ErrBadQuantity     = errors.New("quantity must be positive")
)

type Service struct {
	log     *slog.Logger
	repo    CartRepository
	catalog CatalogReader
}

func NewService(log *slog.Logger, repo CartRepository, catalog CatalogReader) *Service {
	return &Service{log: log, repo: repo, catalog: catalog}
}

// Get returns the user's cart pruned against the current catalog. Removed
// product IDs are reported so the caller can notify the user; the pruned
// cart is persisted. There is no atomicity between the catalog read and the
// prune, a product deleted mid-session may race with another tab.
func (s *Service) Get(ctx context.Context, userID string) (domain.Cart, []string, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	ids, err := s.catalog.ProductIDs(ctx)
	if err != nil {
		return nil, nil, err
	}
	removed := cart.Prune(ids)
	if len(removed) > 0 {
		if err := s.repo.SaveCart(ctx, userID, cart); err != nil {
			return nil, nil, err
		}
		s.log.Info("pruned stale cart entries", "user_id", userID, "removed", len(removed))
	}
	return cart, removed, nil
}

// AddItem adds quantity of a (size, color) variant, snapshotting price and
// display fields from the catalog.
func (s *Service) AddItem(ctx context.Context, userID, productID, size, color string, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrBadQuantity
	}
	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(p.Sizes) > 0 && !slices.Contains(p.Sizes, size) {
		return nil, ErrSizeNotOffered
	}
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Add(productID, domain.Variant{
		Quantity:   quantity,
		Size:       size,
		Color:      color,
		PriceCents: p.PriceCents,
		Name:       p.Name,
		Image:      p.Image,
	})
	if err := s.repo.SaveCart(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the exact quantity for a variant. Zero or below removes
// the variant; removing the last variant removes the product entry.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID, size, color string, quantity int) (domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	key := domain.VariantKey(size, color)
	existing, ok := cart[productID][key]
	if !ok && quantity > 0 {
		return nil, ErrProductNotFound
	}
	existing.Size = size
	existing.Color = color
	existing.Quantity = quantity
	cart.Set(productID, existing)
	if err := s.repo.SaveCart(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// MergeGuest merges a client-local guest cart into the user's server cart on
// login. Server wins per variant key.
func (s *Service) MergeGuest(ctx context.Context, userID string, guest domain.Cart) (domain.Cart, error) {
	guest.Normalize()
	server, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	merged := domain.Merge(server, guest)
	if err := s.repo.SaveCart(ctx, userID, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.SaveCart(ctx, userID, domain.Cart{})
}
