package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource supplies the bearer token attached to API requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed, never-refreshed token.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// LoginTokenSource logs in against the API's auth endpoint and caches the
// issued JWT, re-authenticating shortly before the token expires.
type LoginTokenSource struct {
	loginURL string
	username string
	password string

	httpClient *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// refreshSkew is how long before expiry a cached token is considered stale.
const refreshSkew = 30 * time.Second

// NewLoginTokenSource creates a token source that authenticates with
// username/password at baseURL+pathPrefix+"/auth/login".
func NewLoginTokenSource(baseURL, pathPrefix, username, password string) *LoginTokenSource {
	return &LoginTokenSource{
		loginURL:   strings.TrimRight(baseURL, "/") + pathPrefix + "/auth/login",
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *LoginTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expiresAt.Add(-refreshSkew)) {
		return s.token, nil
	}

	token, err := s.login(ctx)
	if err != nil {
		return "", err
	}

	s.token = token
	s.expiresAt = tokenExpiry(token)
	return s.token, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Username  string `json:"username"`
	Tenant    string `json:"tenant"`
}

func (s *LoginTokenSource) login(ctx context.Context) (string, error) {
	data, err := json.Marshal(loginRequest{Username: s.username, Password: s.password})
	if err != nil {
		return "", fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.loginURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var parsed errorResponse
		if json.Unmarshal(body, &parsed) == nil {
			apiErr.Message = parsed.Error
		}
		return "", apiErr
	}

	var result loginResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse login response: %w", err)
	}
	if result.Token == "" {
		return "", fmt.Errorf("login response contained no token")
	}

	return result.Token, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client only needs to know when to re-login, the server still validates.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Opaque token: treat as valid for a short window.
		return time.Now().Add(5 * time.Minute)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Now().Add(5 * time.Minute)
	}
	return exp.Time
}
