// Package auth is the thin token layer the HTTP surface hangs off.
// Tokens are HMAC-SHA256-signed JSON claims; the rest of the identity
// problem (password resets, verification mail) is out of scope.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/example/shopmate/pkg/config"
	"github.com/example/shopmate/pkg/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type Claims struct {
	UserID    string `json:"uid"`
	Name      string `json:"name"`
	IsAdmin   bool   `json:"adm"`
	IsSeller  bool   `json:"sel"`
	ExpiresAt int64  `json:"exp"`
}

type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(cfg *config.AuthConfig) *Tokens {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Tokens{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
	}
}

func (t *Tokens) Issue(user *models.User) (string, error) {
	claims := Claims{
		UserID:    user.ID,
		Name:      user.Name,
		IsAdmin:   user.IsAdmin,
		IsSeller:  user.IsSeller,
		ExpiresAt: time.Now().Add(t.ttl).Unix(),
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + t.sign(encoded), nil
}

func (t *Tokens) Verify(token string) (*Claims, error) {
	encoded, signature, ok := strings.Cut(token, ".")
	if !ok {
		return nil, ErrInvalidToken
	}
	if !hmac.Equal([]byte(t.sign(encoded)), []byte(signature)) {
		return nil, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidToken
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, ErrExpiredToken
	}
	return &claims, nil
}

func (t *Tokens) sign(encoded string) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
