package application

import (
	"context"

	"github.com/trendora/backend/internal/user/domain"
)

type UserRepository interface {
	UpsertByEmail(ctx context.Context, email, name string, admin bool) (domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
}

// Mailer delivers one-time codes through the email relay.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}
