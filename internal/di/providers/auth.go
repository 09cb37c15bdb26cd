package providers

import (
	"github.com/samber/do/v2"

	"github.com/daydeskapp/daydesk-server/internal/auth"
	"github.com/daydeskapp/daydesk-server/internal/config"
	"github.com/daydeskapp/daydesk-server/internal/logger"
	"github.com/daydeskapp/daydesk-server/internal/ratelimit"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the authentication key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Storage.BasePath)
	if err != nil {
		return nil, err
	}

	// Update config with the loaded key
	cfg.Auth.AccessTokenKey = key

	log.Info("Authentication key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenServiceFromBytes([]byte(authKey), cfg.Auth.AccessTokenDuration)
}

// AuthLimiter is the per-IP rate limiter guarding public auth endpoints.
type AuthLimiter struct {
	*ratelimit.KeyedRateLimiter
}

// ProvideAuthLimiter provides the rate limiter for auth endpoints.
func ProvideAuthLimiter(i do.Injector) (*AuthLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &AuthLimiter{
		KeyedRateLimiter: ratelimit.New(cfg.Auth.RateLimitRPS, cfg.Auth.RateLimitBurst),
	}, nil
}
