package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pookietodo/core/internal/domain/entities"
	"github.com/pookietodo/core/internal/infrastructure/config"
	"github.com/pookietodo/core/internal/infrastructure/logger"
	"github.com/pookietodo/core/internal/ports"
)

// AuthService handles signup, login and token validation. Tokens are
// stateless HS256 JWTs carrying the user id as subject; there is no
// server-side session table, so a token stays valid until it expires or
// the signing secret rotates.
type AuthService struct {
	store  ports.DocumentStore
	cfg    config.JWTConfig
	logger *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store ports.DocumentStore, cfg config.JWTConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Signup creates a new account and returns a fresh token. The user id comes
// from the persisted counter, so ids stay sequential without depending on
// the user count.
func (s *AuthService) Signup(ctx context.Context, req ports.SignupRequest) (*ports.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var userID string
	err = s.store.Update(ctx, func(doc *entities.Document) error {
		if doc.FindUserByEmail(req.Email) != nil {
			return entities.ErrUserExists
		}

		userID = strconv.Itoa(doc.Metadata.NextUserID)
		doc.Metadata.NextUserID++

		doc.Users = append(doc.Users, entities.User{
			ID:           userID,
			Email:        req.Email,
			PasswordHash: string(hash),
			CreatedAt:    time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(userID)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("user signed up", "user_id", userID, "email", req.Email)

	return &ports.AuthResponse{Token: token, UserID: userID}, nil
}

// Login verifies credentials and returns a fresh token for an existing user.
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.AuthResponse, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	user := doc.FindUserByEmail(req.Email)
	if user == nil {
		s.logger.Warnw("login attempt with unknown email", "email", req.Email)
		return nil, entities.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warnw("login attempt with invalid password", "email", req.Email, "user_id", user.ID)
		return nil, entities.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("user logged in", "user_id", user.ID, "email", user.Email)

	return &ports.AuthResponse{Token: token, UserID: user.ID}, nil
}

// ValidateToken checks signature, shape and expiry, returning the user id.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", entities.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", entities.ErrInvalidToken
	}

	return claims.Subject, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
