// Package security provides password hashing and JWT session management.
package security

import (
	"context"
	"fmt"
	"time"

	"github.com/fitchef/fitchef/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and validates the stateless access tokens used by the
// API. Redis is optional: with a client configured, logout revokes tokens
// via a denylist; without one, revocation degrades to token expiry.
type AuthService struct {
	config      *config.Config
	logger      *zap.Logger
	redisClient *redis.Client
	jwtSecret   []byte
}

// NewAuthService creates a new authentication service. redisClient may be nil.
func NewAuthService(cfg *config.Config, logger *zap.Logger, redisClient *redis.Client) *AuthService {
	return &AuthService{
		config:      cfg,
		logger:      logger,
		redisClient: redisClient,
		jwtSecret:   []byte(cfg.Auth.JWTSecret),
	}
}

// Claims represents the JWT claims structure
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed access token for the account.
func (a *AuthService) IssueToken(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "fitchef",
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.config.Auth.JWTExpiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates and parses an access token.
func (a *AuthService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if revoked, err := a.isTokenRevoked(ctx, claims.ID); err != nil {
		a.logger.Warn("Failed to check token revocation", zap.Error(err))
	} else if revoked {
		return nil, fmt.Errorf("token has been revoked")
	}

	return claims, nil
}

// RevokeToken adds the token to the denylist until it would have expired
// anyway. Without Redis this is a logged no-op.
func (a *AuthService) RevokeToken(ctx context.Context, claims *Claims) error {
	if a.redisClient == nil {
		a.logger.Debug("token revocation skipped, no redis configured",
			zap.String("token_id", claims.ID))
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	key := fmt.Sprintf("session:revoked:%s", claims.ID)
	return a.redisClient.Set(ctx, key, "revoked", ttl).Err()
}

// isTokenRevoked checks the denylist for the token id.
func (a *AuthService) isTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if a.redisClient == nil {
		return false, nil
	}
	key := fmt.Sprintf("session:revoked:%s", tokenID)
	exists, err := a.redisClient.Exists(ctx, key).Result()
	return exists > 0, err
}

// HashPassword securely hashes a password using bcrypt
func (a *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.config.Auth.BCryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against its hash
func (a *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
