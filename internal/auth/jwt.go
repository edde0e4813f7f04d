package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"callerdesk-console/internal/config"
)

type Manager struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	accessTTL, refreshTTL := cfg.AccessTokenTTL, cfg.RefreshTokenTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.JWTIssuer,
		audience:   cfg.JWTAudience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IssuePair signs a fresh access/refresh pair for id.
//
// The console keeps no user store, so the refresh token carries the role too;
// Refresh re-issues the same identity.
func (m *Manager) IssuePair(now time.Time, id Identity) (TokenPair, error) {
	if id.UserID == "" || id.WorkspaceID == "" || id.Role == "" {
		return TokenPair{}, errors.New("auth: user_id, workspace_id and role are required")
	}
	access, err := m.issue(now, TokenTypeAccess, id, m.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.issue(now, TokenTypeRefresh, id, m.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: now.Add(m.accessTTL)}, nil
}

// Refresh verifies a refresh token and issues a new pair for the same identity.
func (m *Manager) Refresh(refreshToken string, now time.Time) (TokenPair, error) {
	claims, err := m.Verify(refreshToken, TokenTypeRefresh, now)
	if err != nil {
		return TokenPair{}, err
	}
	return m.IssuePair(now, claims.Identity())
}

func (m *Manager) Verify(tokenString string, expected TokenType, now time.Time) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return Claims{}, err
	}

	if claims.TokenType != expected {
		return Claims{}, errors.New("token_type mismatch")
	}
	if claims.UserID == "" {
		return Claims{}, errors.New("user_id missing")
	}
	if claims.WorkspaceID == "" {
		return Claims{}, errors.New("workspace_id missing")
	}
	if claims.Role == "" {
		return Claims{}, errors.New("role missing")
	}
	return claims, nil
}

func (m *Manager) issue(now time.Time, tokenType TokenType, id Identity, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  audienceOrNil(m.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		UserID:      id.UserID,
		WorkspaceID: id.WorkspaceID,
		Role:        id.Role,
		TokenType:   tokenType,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
