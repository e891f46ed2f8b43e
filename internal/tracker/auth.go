package tracker

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// tokenCacheTTL is shorter than the upstream token lifetime (60 min)
	// so cached tokens never outlive their validity.
	tokenCacheTTL  = 50 * time.Minute
	tokenCacheSize = 100

	appJWTLifetime = 9 * time.Minute
	// appJWTBackdate absorbs clock drift between us and the service.
	appJWTBackdate = 60 * time.Second
)

// TokenSource yields an API token for one installation.
type TokenSource interface {
	Token(ctx context.Context, installationID int64) (string, error)
}

// TokenFunc adapts a function to a TokenSource.
type TokenFunc func(ctx context.Context, installationID int64) (string, error)

func (f TokenFunc) Token(ctx context.Context, installationID int64) (string, error) {
	return f(ctx, installationID)
}

// StaticToken is a fixed-token source for development and tests.
func StaticToken(token string) TokenSource {
	return TokenFunc(func(context.Context, int64) (string, error) {
		return token, nil
	})
}

// AppAuth exchanges a signed app JWT for short-lived installation tokens
// and caches them in a process-global bounded TTL cache.
type AppAuth struct {
	appID   string
	key     *rsa.PrivateKey
	baseURL string
	http    *http.Client
	cache   *expirable.LRU[int64, string]
}

// NewAppAuth parses the app's PEM private key and builds the token source.
func NewAppAuth(appID string, privateKeyPEM []byte, baseURL string) (*AppAuth, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing app private key: %w", err)
	}
	return &AppAuth{
		appID:   appID,
		key:     key,
		baseURL: baseURL,
		http:    &http.Client{Timeout: callTimeout},
		cache:   expirable.NewLRU[int64, string](tokenCacheSize, nil, tokenCacheTTL),
	}, nil
}

func (a *AppAuth) Token(ctx context.Context, installationID int64) (string, error) {
	if token, ok := a.cache.Get(installationID); ok {
		return token, nil
	}

	appJWT, err := a.mintAppJWT(time.Now())
	if err != nil {
		return "", fmt.Errorf("minting app jwt: %w", err)
	}

	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", a.baseURL, installationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+appJWT)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting installation token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("installation token request: status %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding installation token: %w", err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("installation token response missing token")
	}

	a.cache.Add(installationID, body.Token)
	return body.Token, nil
}

func (a *AppAuth) mintAppJWT(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    a.appID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-appJWTBackdate)),
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTLifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.key)
}
