package utils

import (
	"Go_Stow/config"
	"Go_Stow/internal/logging"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenIssuer signs and verifies HS256 tokens. The active key signs; retired keys only verify.
type TokenIssuer struct {
	keyID      string
	keys       map[string][]byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Tokens is the process-wide issuer set up by InitTokenIssuer.
var Tokens *TokenIssuer

// NewTokenIssuer builds an issuer signing with secret under keyID.
func NewTokenIssuer(keyID string, secret []byte, accessTTL, refreshTTL time.Duration, retired map[string][]byte) (*TokenIssuer, error) {
	if keyID == "" {
		return nil, errors.New("jwt key id required")
	}
	if len(secret) == 0 {
		return nil, errors.New("jwt secret required")
	}
	keys := make(map[string][]byte, len(retired)+1)
	for kid, key := range retired {
		if kid == "" || len(key) == 0 {
			continue
		}
		keys[kid] = key
	}
	keys[keyID] = secret
	return &TokenIssuer{
		keyID:      keyID,
		keys:       keys,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// NewTokenIssuerFromConfig builds an issuer from configuration. Without JWT_SECRET a random
// secret is generated, so tokens do not survive a restart.
func NewTokenIssuerFromConfig(cfg config.Config) (*TokenIssuer, error) {
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		secret = make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		logging.L().Warn("JWT_SECRET not set; using a random per-process secret")
	}
	retired := make(map[string][]byte, len(cfg.JWTRetiredKeys))
	for kid, key := range cfg.JWTRetiredKeys {
		retired[kid] = []byte(key)
	}
	return NewTokenIssuer(cfg.JWTKeyID, secret, cfg.AccessTokenTTL, cfg.RefreshTTL, retired)
}

// InitTokenIssuer sets Tokens from configuration.
func InitTokenIssuer(cfg config.Config) error {
	issuer, err := NewTokenIssuerFromConfig(cfg)
	if err != nil {
		return err
	}
	Tokens = issuer
	return nil
}

// IssueAccess creates a short-lived access token for userNo.
func (i *TokenIssuer) IssueAccess(userNo uint64) (string, error) {
	return i.issue(userNo, TokenTypeAccess, i.accessTTL)
}

// IssueRefresh creates a long-lived refresh token for userNo.
func (i *TokenIssuer) IssueRefresh(userNo uint64) (string, error) {
	return i.issue(userNo, TokenTypeRefresh, i.refreshTTL)
}

// IssuePair creates an access and a refresh token.
func (i *TokenIssuer) IssuePair(userNo uint64) (TokenPair, error) {
	access, err := i.IssueAccess(userNo)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.IssueRefresh(userNo)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(i.accessTTL / time.Second),
	}, nil
}

func (i *TokenIssuer) issue(userNo uint64, tokenType string, ttl time.Duration) (string, error) {
	if userNo == 0 {
		return "", errors.New("token subject required")
	}
	now := i.now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userNo, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = i.keyID
	signed, err := token.SignedString(i.keys[i.keyID])
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and type, and returns the subject user number.
// Every failure is reported as ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString, wantType string) (uint64, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, i.keyFunc)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || claims.TokenType != wantType {
		return 0, ErrInvalidToken
	}
	userNo, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userNo == 0 {
		return 0, ErrInvalidToken
	}
	return userNo, nil
}

func (i *TokenIssuer) keyFunc(token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		kid = i.keyID
	}
	key, ok := i.keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}
