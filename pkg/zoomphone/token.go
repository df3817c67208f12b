package zoomphone

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// TokenSource provides bearer tokens for API requests
type TokenSource interface {
	Token() (string, error)
}

// StaticTokenSource returns a fixed, pre-issued bearer token
type StaticTokenSource string

// Token returns the static token
func (s StaticTokenSource) Token() (string, error) {
	if s == "" {
		return "", errors.New("empty bearer token")
	}
	return string(s), nil
}

// JWTSource mints short-lived HS256 JWTs from an API key and secret, the
// token format the Zoom marketplace API accepts. Tokens are cached and
// re-minted shortly before expiry.
type JWTSource struct {
	apiKey    string
	apiSecret string
	lifetime  time.Duration
	now       func() time.Time

	mu     sync.Mutex
	cached string
	expiry time.Time
}

// NewJWTSource creates a token source for the given API key and secret
func NewJWTSource(apiKey, apiSecret string, lifetime time.Duration) *JWTSource {
	if lifetime <= 0 {
		lifetime = 30 * time.Minute
	}
	return &JWTSource{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		lifetime:  lifetime,
		now:       time.Now,
	}
}

// Token returns a valid JWT, minting a new one if the cached token is
// expired or within a minute of expiring
func (s *JWTSource) Token() (string, error) {
	if s.apiKey == "" || s.apiSecret == "" {
		return "", errors.New("API key and secret are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cached != "" && now.Add(time.Minute).Before(s.expiry) {
		return s.cached, nil
	}

	expiry := now.Add(s.lifetime)
	token, err := signHS256(s.apiKey, s.apiSecret, expiry)
	if err != nil {
		return "", err
	}

	s.cached = token
	s.expiry = expiry
	return token, nil
}

// signHS256 builds a JWT with iss and exp claims signed with HMAC-SHA256
func signHS256(issuer, secret string, expiry time.Time) (string, error) {
	header, err := json.Marshal(map[string]string{
		"alg": "HS256",
		"typ": "JWT",
	})
	if err != nil {
		return "", err
	}

	claims, err := json.Marshal(map[string]interface{}{
		"iss": issuer,
		"exp": expiry.Unix(),
	})
	if err != nil {
		return "", err
	}

	enc := base64.RawURLEncoding
	signingInput := enc.EncodeToString(header) + "." + enc.EncodeToString(claims)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signingInput))
	signature := enc.EncodeToString(mac.Sum(nil))

	return signingInput + "." + signature, nil
}
