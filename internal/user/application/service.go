package application

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trendora/backend/internal/user/domain"
	"github.com/trendora/backend/pkg/auth"
)

var (
	ErrBadEmail   = errors.New("a valid email is required")
	ErrInvalidOTP = errors.New("invalid or expired code")
)

const otpTTL = 5 * time.Minute

type Service struct {
	log        *slog.Logger
	users      UserRepository
	rdb        *redis.Client
	mailer     Mailer
	issuer     *auth.Issuer
	adminEmail string
}

func NewService(log *slog.Logger, users UserRepository, rdb *redis.Client, mailer Mailer, issuer *auth.Issuer, adminEmail string) *Service {
	return &Service{
		log:        log,
		users:      users,
		rdb:        rdb,
		mailer:     mailer,
		issuer:     issuer,
		adminEmail: strings.ToLower(adminEmail),
	}
}

// RequestOTP stores a fresh 6-digit code under the email with a 5-minute TTL
// and sends it through the relay. Requesting again overwrites the old code.
func (s *Service) RequestOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return ErrBadEmail
	}

	code, err := newOTP()
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, otpKey(email), code, otpTTL).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	s.log.Info("otp sent", "email", email)
	return nil
}

// VerifyOTP checks the submitted code, upserts the user and issues a session
// token. The stored code is consumed on success.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (string, domain.User, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return "", domain.User{}, ErrBadEmail
	}

	stored, err := s.rdb.Get(ctx, otpKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.User{}, ErrInvalidOTP
		}
		return "", domain.User{}, fmt.Errorf("load otp: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return "", domain.User{}, ErrInvalidOTP
	}
	if err := s.rdb.Del(ctx, otpKey(email)).Err(); err != nil {
		s.log.Warn("otp delete failed", "email", email, "err", err)
	}

	name := email[:strings.Index(email, "@")]
	user, err := s.users.UpsertByEmail(ctx, email, name, email == s.adminEmail)
	if err != nil {
		return "", domain.User{}, err
	}

	token, err := s.issuer.Issue(user.ID.Hex(), user.Admin)
	if err != nil {
		return "", domain.User{}, err
	}
	s.log.Info("user logged in", "user_id", user.ID.Hex(), "admin", user.Admin)
	return token, user, nil
}

func (s *Service) Me(ctx context.Context, userID string) (domain.User, error) {
	return s.users.Get(ctx, userID)
}

func otpKey(email string) string {
	return "otp:" + email
}

func newOTP() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = '0' + b%10
	}
	return string(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
