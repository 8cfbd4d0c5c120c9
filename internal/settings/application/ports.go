package application

import (
	"context"

	"github.com/trendora/backend/internal/settings/domain"
)

type ConfigRepository interface {
	Get(ctx context.Context) (domain.Config, error)
	Save(ctx context.Context, cfg domain.Config) error
}

type Uploader interface {
	Upload(ctx context.Context, localPath string) (url string, err error)
	Delete(ctx context.Context, url string) error
}
