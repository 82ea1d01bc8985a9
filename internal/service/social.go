package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bako110/backend/internal/domain"
)

// Supported social platforms
const (
	PlatformGoogle   = "google"
	PlatformFacebook = "facebook"
)

// Default token-introspection endpoints
const (
	GoogleTokenInfoURL   = "https://oauth2.googleapis.com/tokeninfo"
	FacebookTokenInfoURL = "https://graph.facebook.com/me"
)

// SocialClaims are the identity claims returned by a provider's
// token-introspection endpoint.
type SocialClaims struct {
	Email     string
	FirstName string
	LastName  string
}

// ProviderVerifier resolves a social access token into identity claims
type ProviderVerifier interface {
	VerifyToken(ctx context.Context, platform, accessToken string) (*SocialClaims, error)
}

// HTTPProviderVerifier calls the Google/Facebook introspection endpoints over
// HTTP. Every call carries the configured client timeout; introspection is a
// suspension point and must not block indefinitely.
type HTTPProviderVerifier struct {
	client      *http.Client
	googleURL   string
	facebookURL string
}

// NewHTTPProviderVerifier creates a verifier with the given request timeout
func NewHTTPProviderVerifier(timeout time.Duration) *HTTPProviderVerifier {
	return &HTTPProviderVerifier{
		client:      &http.Client{Timeout: timeout},
		googleURL:   GoogleTokenInfoURL,
		facebookURL: FacebookTokenInfoURL,
	}
}

// VerifyToken introspects the access token with the platform's endpoint.
// Unknown platforms, rejected tokens and claim payloads without an email all
// fail with typed errors.
func (v *HTTPProviderVerifier) VerifyToken(ctx context.Context, platform, accessToken string) (*SocialClaims, error) {
	switch platform {
	case PlatformGoogle:
		return v.verifyGoogle(ctx, accessToken)
	case PlatformFacebook:
		return v.verifyFacebook(ctx, accessToken)
	default:
		return nil, &domain.ValidationError{Message: "unsupported platform", Field: "platform"}
	}
}

func (v *HTTPProviderVerifier) verifyGoogle(ctx context.Context, accessToken string) (*SocialClaims, error) {
	params := url.Values{"id_token": {accessToken}}
	payload, err := v.introspect(ctx, PlatformGoogle, v.googleURL, params)
	if err != nil {
		return nil, err
	}
	return &SocialClaims{
		Email:     payload["email"],
		FirstName: payload["given_name"],
		LastName:  payload["family_name"],
	}, nil
}

func (v *HTTPProviderVerifier) verifyFacebook(ctx context.Context, accessToken string) (*SocialClaims, error) {
	params := url.Values{
		"access_token": {accessToken},
		"fields":       {"id,email,first_name,last_name"},
	}
	payload, err := v.introspect(ctx, PlatformFacebook, v.facebookURL, params)
	if err != nil {
		return nil, err
	}
	return &SocialClaims{
		Email:     payload["email"],
		FirstName: payload["first_name"],
		LastName:  payload["last_name"],
	}, nil
}

func (v *HTTPProviderVerifier) introspect(ctx context.Context, platform, endpoint string, params url.Values) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &domain.InternalError{Message: "failed to build introspection request", Err: err}
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Message: fmt.Sprintf("%s introspection unreachable", platform), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid %s token", platform), Field: "access_token"}
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &domain.UpstreamError{Message: fmt.Sprintf("%s introspection returned malformed payload", platform), Err: err}
	}

	payload := make(map[string]string, len(raw))
	for k, val := range raw {
		if s, ok := val.(string); ok {
			payload[k] = s
		}
	}
	return payload, nil
}
