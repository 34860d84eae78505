package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/outbound"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret            string
	Issuer            string
	AccessTokenExpiry time.Duration
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		Issuer:            "collabhub",
		AccessTokenExpiry: 15 * time.Minute,
	}
}

// jwtManager implements outbound.TokenPort.
type jwtManager struct {
	secret            []byte
	issuer            string
	accessTokenExpiry time.Duration
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(cfg *JWTConfig) outbound.TokenPort {
	if cfg == nil {
		cfg = DefaultJWTConfig()
	}
	expiry := cfg.AccessTokenExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &jwtManager{
		secret:            []byte(cfg.Secret),
		issuer:            cfg.Issuer,
		accessTokenExpiry: expiry,
	}
}

// GenerateAccessToken generates an access token.
func (m *jwtManager) GenerateAccessToken(c outbound.TokenClaims) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.accessTokenExpiry)

	claims := jwt.MapClaims{
		"sub":  c.UserID.String(),
		"role": string(c.Role),
		"name": c.Name,
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}
	if m.issuer != "" {
		claims["iss"] = m.issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// ValidateAccessToken validates an access token.
func (m *jwtManager) ValidateAccessToken(tokenString string) (*outbound.TokenClaims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token")
	}
	if !model.Role(role).IsValid() {
		return nil, fmt.Errorf("invalid role in token: %q", role)
	}

	return &outbound.TokenClaims{
		UserID: userID,
		Role:   model.Role(role),
		Name:   name,
	}, nil
}

var _ outbound.TokenPort = (*jwtManager)(nil)
