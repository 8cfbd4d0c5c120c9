package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trendora/backend/internal/user/domain"
	"github.com/trendora/backend/pkg/auth"
)

type mockUserRepo struct {
	byEmail map[string]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: map[string]domain.User{}}
}

func (r *mockUserRepo) UpsertByEmail(_ context.Context, email, name string, admin bool) (domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		u = domain.User{ID: primitive.NewObjectID(), Email: email, Name: name, CreatedAt: time.Now().UTC()}
	}
	u.Admin = admin
	r.byEmail[email] = u
	return u, nil
}

func (r *mockUserRepo) Get(_ context.Context, id string) (domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return domain.User{}, errors.New("user not found")
}

type mockMailer struct {
	sent []string // codes in send order
	to   []string
}

func (m *mockMailer) SendOTP(_ context.Context, email, code string) error {
	m.to = append(m.to, email)
	m.sent = append(m.sent, code)
	return nil
}

func setupUsers(t *testing.T) (*Service, *mockUserRepo, *mockMailer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	repo := newMockUserRepo()
	mailer := &mockMailer{}
	issuer := auth.NewIssuer("test-secret", time.Hour)
	svc := NewService(slog.New(slog.DiscardHandler), repo, rdb, mailer, issuer, "admin@trendora.in")
	return svc, repo, mailer, mr
}

func TestRequestOTP_StoresCodeWithTTL(t *testing.T) {
	svc, _, mailer, mr := setupUsers(t)

	require.NoError(t, svc.RequestOTP(context.Background(), " Shopper@Example.com "))
	require.Len(t, mailer.sent, 1)
	assert.Len(t, mailer.sent[0], 6)
	assert.Equal(t, []string{"shopper@example.com"}, mailer.to)

	stored, err := mr.Get("otp:shopper@example.com")
	require.NoError(t, err)
	assert.Equal(t, mailer.sent[0], stored)
	assert.Equal(t, 5*time.Minute, mr.TTL("otp:shopper@example.com"))
}

func TestRequestOTP_SecondRequestOverwrites(t *testing.T) {
	svc, _, mailer, mr := setupUsers(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, "shopper@example.com"))
	require.NoError(t, svc.RequestOTP(ctx, "shopper@example.com"))

	stored, err := mr.Get("otp:shopper@example.com")
	require.NoError(t, err)
	assert.Equal(t, mailer.sent[1], stored)
}

func TestRequestOTP_RejectsBadEmail(t *testing.T) {
	svc, _, _, _ := setupUsers(t)

	assert.ErrorIs(t, svc.RequestOTP(context.Background(), "not-an-email"), ErrBadEmail)
	assert.ErrorIs(t, svc.RequestOTP(context.Background(), "@nouser"), ErrBadEmail)
	assert.ErrorIs(t, svc.RequestOTP(context.Background(), "trailing@"), ErrBadEmail)
}

func TestVerifyOTP_IssuesTokenAndConsumesCode(t *testing.T) {
	svc, repo, mailer, mr := setupUsers(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, "shopper@example.com"))
	token, user, err := svc.VerifyOTP(ctx, "shopper@example.com", mailer.sent[0])
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "shopper", user.Name)
	assert.False(t, user.Admin)
	assert.False(t, mr.Exists("otp:shopper@example.com"))
	assert.Contains(t, repo.byEmail, "shopper@example.com")

	// consumed code cannot be replayed
	_, _, err = svc.VerifyOTP(ctx, "shopper@example.com", mailer.sent[0])
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	svc, _, mailer, mr := setupUsers(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, "shopper@example.com"))
	_, _, err := svc.VerifyOTP(ctx, "shopper@example.com", "000000")
	if mailer.sent[0] == "000000" {
		t.Skip("generated code collided with the guess")
	}
	assert.ErrorIs(t, err, ErrInvalidOTP)
	assert.True(t, mr.Exists("otp:shopper@example.com"))
}

func TestVerifyOTP_ExpiredCode(t *testing.T) {
	svc, _, mailer, mr := setupUsers(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, "shopper@example.com"))
	mr.FastForward(6 * time.Minute)

	_, _, err := svc.VerifyOTP(ctx, "shopper@example.com", mailer.sent[0])
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyOTP_AdminEmailGetsAdminClaim(t *testing.T) {
	svc, _, mailer, _ := setupUsers(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, "Admin@Trendora.in"))
	token, user, err := svc.VerifyOTP(ctx, "admin@trendora.in", mailer.sent[0])
	require.NoError(t, err)
	assert.True(t, user.Admin)

	claims, err := auth.NewIssuer("test-secret", time.Hour).Parse(token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
	assert.Equal(t, user.ID.Hex(), claims.Subject)
}

func TestMe_ReturnsStoredUser(t *testing.T) {
	svc, repo, mailer, _ := setupUsers(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, "shopper@example.com"))
	_, user, err := svc.VerifyOTP(ctx, "shopper@example.com", mailer.sent[0])
	require.NoError(t, err)

	got, err := svc.Me(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, repo.byEmail["shopper@example.com"].Email, got.Email)
}
