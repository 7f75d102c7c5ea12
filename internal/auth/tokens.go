package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// minKeyBytes is the smallest key accepted for HS512.
const minKeyBytes = 64

var ErrInvalidToken = errors.New("invalid token")

// SigningKey derives the HMAC key from the configured secret. A base64 secret
// that decodes to at least 64 bytes is used as is. Shorter secrets are hashed
// with SHA-256 and the digest is repeated until the key is 64 bytes long.
func SigningKey(secret string) []byte {
	if decoded, err := decodeSecret(secret); err == nil && len(decoded) >= minKeyBytes {
		return decoded
	}

	raw := []byte(secret)
	if len(raw) >= minKeyBytes {
		return raw
	}

	digest := sha256.Sum256(raw)
	key := make([]byte, minKeyBytes)
	for i := range key {
		key[i] = digest[i%len(digest)]
	}
	return key
}

// decodeSecret accepts standard base64 with or without its trailing padding.
func decodeSecret(secret string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err == nil {
		return decoded, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(secret, "="))
}

// TokenProvider issues and verifies HS512 bearer tokens whose subject is the
// username.
type TokenProvider struct {
	key      []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenProvider(secret string, validity time.Duration) *TokenProvider {
	return &TokenProvider{key: SigningKey(secret), validity: validity, now: time.Now}
}

// Generate issues a token for username.
func (p *TokenProvider) Generate(username string) (string, error) {
	now := p.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.validity)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(p.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Validate reports whether token is well formed, signed with this provider's
// key and not expired.
func (p *TokenProvider) Validate(token string) bool {
	_, err := p.parse(token)
	return err == nil
}

// Subject returns the username carried by a valid token.
func (p *TokenProvider) Subject(token string) (string, error) {
	claims, err := p.parse(token)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (p *TokenProvider) parse(token string) (*jwt.RegisteredClaims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
