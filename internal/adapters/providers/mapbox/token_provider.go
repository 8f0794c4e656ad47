package mapbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/providers"
	"github.com/JamesKof/ghana-health-connect-sub000/pkg/config"
	apperrors "github.com/JamesKof/ghana-health-connect-sub000/pkg/errors"
)

const (
	tokenCacheKey = "mapbox:token"

	// Minted tokens are refreshed this long before they expire.
	tokenRefreshMargin = 2 * time.Minute
)

// Scopes granted to minted public tokens; enough to render styles and tiles.
var tokenScopes = []string{"styles:read", "styles:tiles", "fonts:read", "datasets:read"}

// TokenProvider hands out map tokens for client SDKs. With a secret token and
// username it mints short-lived tokens through the Tokens API and caches them;
// otherwise it returns the configured public token.
type TokenProvider struct {
	*client
	publicToken string
	secretToken string
	username    string
	ttl         time.Duration
	cache       providers.CacheProvider
	now         func() time.Time
}

// NewTokenProvider creates a token provider. cache may be nil.
func NewTokenProvider(cfg *config.MapboxConfig, cache providers.CacheProvider, opts Options) *TokenProvider {
	return &TokenProvider{
		client:      newClient("mapbox-tokens", cfg, opts),
		publicToken: cfg.PublicToken,
		secretToken: cfg.SecretToken,
		username:    cfg.Username,
		ttl:         cfg.TokenTTL,
		cache:       cache,
		now:         time.Now,
	}
}

// Token implements providers.MapTokenProvider
func (p *TokenProvider) Token(ctx context.Context) (*providers.MapToken, error) {
	if p.secretToken == "" || p.username == "" {
		if p.publicToken == "" {
			return nil, apperrors.NewExternalError("map token is not configured", nil)
		}
		return &providers.MapToken{Token: p.publicToken}, nil
	}

	if token := p.cached(ctx); token != nil {
		return token, nil
	}

	token, err := p.mint(ctx)
	if err != nil {
		if p.publicToken != "" {
			p.logger.Warn().Err(err).Msg("Token minting failed, falling back to public token")
			return &providers.MapToken{Token: p.publicToken}, nil
		}
		return nil, apperrors.NewExternalError("failed to obtain map token", err)
	}

	p.store(ctx, token)
	return token, nil
}

func (p *TokenProvider) cached(ctx context.Context) *providers.MapToken {
	if p.cache == nil {
		return nil
	}
	data, err := p.cache.Get(ctx, tokenCacheKey)
	if err != nil {
		return nil
	}
	var token providers.MapToken
	if err := json.Unmarshal(data, &token); err != nil || token.Token == "" {
		return nil
	}
	if !token.ExpiresAt.IsZero() && !p.now().Add(tokenRefreshMargin).Before(token.ExpiresAt) {
		return nil
	}
	return &token
}

func (p *TokenProvider) store(ctx context.Context, token *providers.MapToken) {
	if p.cache == nil {
		return
	}
	ttl := token.ExpiresAt.Sub(p.now()) - tokenRefreshMargin
	if ttl <= 0 {
		return
	}
	data, err := json.Marshal(token)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, tokenCacheKey, data, ttl); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to cache map token")
	}
}

type mintRequest struct {
	Expires time.Time `json:"expires"`
	Scopes  []string  `json:"scopes"`
}

type mintResponse struct {
	Token string `json:"token"`
}

func (p *TokenProvider) mint(ctx context.Context) (*providers.MapToken, error) {
	expires := p.now().Add(p.ttl).UTC().Truncate(time.Second)
	payload, err := json.Marshal(mintRequest{Expires: expires, Scopes: tokenScopes})
	if err != nil {
		return nil, fmt.Errorf("failed to encode token request: %w", err)
	}

	query := url.Values{}
	query.Set("access_token", p.secretToken)
	endpoint := fmt.Sprintf("%s/tokens/v2/%s?%s", p.baseURL, url.PathEscape(p.username), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := p.do(ctx, "tokens.mint", req)
	if err != nil {
		return nil, err
	}

	var resp mintResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("mapbox returned an empty token")
	}

	p.logger.Debug().Time("expires_at", expires).Msg("Minted map token")
	return &providers.MapToken{Token: resp.Token, ExpiresAt: expires}, nil
}
