package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pookietodo/core/internal/adapters/storage"
	"github.com/pookietodo/core/internal/domain/entities"
	"github.com/pookietodo/core/internal/infrastructure/config"
	"github.com/pookietodo/core/internal/infrastructure/logger"
	"github.com/pookietodo/core/internal/ports"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:   "test-secret",
		TokenTTL: 168 * time.Hour,
	}
}

func TestAuthService_SignupThenLogin(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewAuthService(store, testJWTConfig(), logger.NewNop())
	ctx := context.Background()

	signupResp, err := svc.Signup(ctx, ports.SignupRequest{Email: "pookie@example.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "1", signupResp.UserID)
	assert.NotEmpty(t, signupResp.Token)

	loginResp, err := svc.Login(ctx, ports.LoginRequest{Email: "pookie@example.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "1", loginResp.UserID)

	userID, err := svc.ValidateToken(loginResp.Token)
	require.NoError(t, err)
	assert.Equal(t, "1", userID)
}

func TestAuthService_SignupAssignsSequentialIDs(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewAuthService(store, testJWTConfig(), logger.NewNop())
	ctx := context.Background()

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		resp, err := svc.Signup(ctx, ports.SignupRequest{Email: email, Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}[i], resp.UserID)
	}
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewAuthService(store, testJWTConfig(), logger.NewNop())
	ctx := context.Background()

	_, err := svc.Signup(ctx, ports.SignupRequest{Email: "pookie@example.com", Password: "hunter2"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, ports.SignupRequest{Email: "pookie@example.com", Password: "other"})
	assert.ErrorIs(t, err, entities.ErrUserExists)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Users, 1)
	assert.Equal(t, 2, doc.Metadata.NextUserID)
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewAuthService(store, testJWTConfig(), logger.NewNop())

	_, err := svc.Login(context.Background(), ports.LoginRequest{Email: "nobody@example.com", Password: "pw"})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewAuthService(store, testJWTConfig(), logger.NewNop())
	ctx := context.Background()

	_, err := svc.Signup(ctx, ports.SignupRequest{Email: "pookie@example.com", Password: "hunter2"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, ports.LoginRequest{Email: "pookie@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestAuthService_LoginMalformedStoredHash(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewAuthService(store, testJWTConfig(), logger.NewNop())
	ctx := context.Background()

	err := store.Update(ctx, func(doc *entities.Document) error {
		doc.Users = append(doc.Users, entities.User{
			ID:           "1",
			Email:        "broken@example.com",
			PasswordHash: "not-a-bcrypt-hash",
			CreatedAt:    time.Now().UTC(),
		})
		return nil
	})
	require.NoError(t, err)

	// A malformed hash must read as verification failure, not a crash.
	_, err = svc.Login(ctx, ports.LoginRequest{Email: "broken@example.com", Password: "anything"})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	store := storage.NewMemoryStore()

	expiredCfg := testJWTConfig()
	expiredCfg.TokenTTL = -8 * 24 * time.Hour
	issuer := NewAuthService(store, expiredCfg, logger.NewNop())

	token, err := issuer.issueToken("1")
	require.NoError(t, err)

	svc := NewAuthService(store, testJWTConfig(), logger.NewNop())
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, entities.ErrInvalidToken)
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	store := storage.NewMemoryStore()

	otherCfg := testJWTConfig()
	otherCfg.Secret = "a-different-secret"
	issuer := NewAuthService(store, otherCfg, logger.NewNop())

	token, err := issuer.issueToken("1")
	require.NoError(t, err)

	svc := NewAuthService(store, testJWTConfig(), logger.NewNop())
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, entities.ErrInvalidToken)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	svc := NewAuthService(storage.NewMemoryStore(), testJWTConfig(), logger.NewNop())

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, entities.ErrInvalidToken)
	}
}
