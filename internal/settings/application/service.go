package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/trendora/backend/internal/settings/domain"
)

var ErrNegativeFee = errors.New("fees cannot be negative")

const cacheKey = "settings:config"

// Service serves the platform configuration record. Reads go through a
// Redis cache with a singleflight guard so a cache miss triggers a single
// database read; writes invalidate the cache.
type Service struct {
	log      *slog.Logger
	repo     ConfigRepository
	uploader Uploader
	rdb      *redis.Client
	ttl      time.Duration
	sfg      singleflight.Group
}

func NewService(log *slog.Logger, repo ConfigRepository, uploader Uploader, rdb *redis.Client) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		uploader: uploader,
		rdb:      rdb,
		ttl:      5 * time.Minute,
	}
}

// Fees returns the current configuration, cache first.
func (s *Service) Fees(ctx context.Context) (domain.Config, error) {
	v, err, _ := s.sfg.Do(cacheKey, func() (any, error) {
		data, err := s.rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var cfg domain.Config
			if err := json.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn("config cache read failed", "err", err)
		}

		cfg, err := s.repo.Get(ctx)
		if err != nil {
			return domain.Config{}, err
		}
		s.fillCache(cfg)
		return cfg, nil
	})
	if err != nil {
		return domain.Config{}, err
	}
	return v.(domain.Config), nil
}

func (s *Service) SetFees(ctx context.Context, platformCents, shippingCents int64) (domain.Config, error) {
	if platformCents < 0 || shippingCents < 0 {
		return domain.Config{}, ErrNegativeFee
	}
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return domain.Config{}, err
	}
	cfg.PlatformFeeCents = platformCents
	cfg.ShippingFeeCents = shippingCents
	if err := s.repo.Save(ctx, cfg); err != nil {
		return domain.Config{}, err
	}
	s.invalidate(ctx)
	s.log.Info("fees updated", "platform_cents", platformCents, "shipping_cents", shippingCents)
	return cfg, nil
}

func (s *Service) Carousel(ctx context.Context) ([]string, error) {
	cfg, err := s.Fees(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.CarouselImages, nil
}

// AddCarouselImage uploads a local temp file to the CDN and appends the
// resulting URL; the temp file is removed regardless of outcome.
func (s *Service) AddCarouselImage(ctx context.Context, localPath string) (string, error) {
	url, err := s.uploader.Upload(ctx, localPath)
	if removeErr := os.Remove(localPath); removeErr != nil {
		s.log.Warn("temp file cleanup failed", "path", localPath, "err", removeErr)
	}
	if err != nil {
		return "", fmt.Errorf("carousel upload: %w", err)
	}

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	cfg.CarouselImages = append(cfg.CarouselImages, url)
	if err := s.repo.Save(ctx, cfg); err != nil {
		return "", err
	}
	s.invalidate(ctx)
	return url, nil
}

func (s *Service) RemoveCarouselImage(ctx context.Context, url string) error {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	if err := cfg.RemoveCarouselImage(url); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		return err
	}
	s.invalidate(ctx)
	if err := s.uploader.Delete(ctx, url); err != nil {
		s.log.Warn("cdn carousel delete failed", "url", url, "err", err)
	}
	return nil
}

func (s *Service) fillCache(cfg domain.Config) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.rdb.Set(ctx, cacheKey, data, s.ttl).Err(); err != nil {
		s.log.Warn("config cache write failed", "err", err)
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.log.Warn("config cache invalidate failed", "err", err)
	}
}
