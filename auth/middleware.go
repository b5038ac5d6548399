// Package auth gates requests: bearer-token verification against the
// provider's signing keys, scope checking, and identity resolution via
// the provider's userinfo endpoint.
package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Config holds the token-verification settings.
type Config struct {
	IssuerURL string
	Audience  string
	// JWKSURL overrides the key-set location derived from the issuer.
	JWKSURL string
	// Algorithm is the single allowed asymmetric signing algorithm.
	// Empty means RS256.
	Algorithm        string
	KeyCacheTTL      time.Duration
	KeyFetchesPerMin int
}

// NewMiddleware builds the request gate that validates bearer tokens
// before any handler runs: signature against the cached key set,
// issuer, audience, and the allowed algorithm.
func NewMiddleware(cfg Config, log zerolog.Logger) (*jwtmiddleware.JWTMiddleware, error) {
	issuer, err := url.Parse(cfg.IssuerURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse issuer URL")
	}

	var opts []jwks.ProviderOption
	if cfg.JWKSURL != "" {
		jwksURL, err := url.Parse(cfg.JWKSURL)
		if err != nil {
			return nil, errors.Wrap(err, "parse key-set URL")
		}
		opts = append(opts, jwks.WithCustomJWKSURI(jwksURL))
	}
	provider := jwks.NewProvider(issuer, opts...)
	keys := NewKeyProvider(provider.KeyFunc, cfg.KeyCacheTTL, cfg.KeyFetchesPerMin)

	alg, err := signatureAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	v, err := validator.New(
		keys.KeyFunc,
		alg,
		issuer.String(),
		[]string{cfg.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims { return &Claims{} }),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create token validator")
	}

	return jwtmiddleware.New(
		v.ValidateToken,
		jwtmiddleware.WithErrorHandler(ErrorHandler(log)),
	), nil
}

func signatureAlgorithm(name string) (validator.SignatureAlgorithm, error) {
	switch name {
	case "", "RS256":
		return validator.RS256, nil
	case "PS256":
		return validator.PS256, nil
	case "ES256":
		return validator.ES256, nil
	}
	return "", errors.Errorf("unsupported signing algorithm %q", name)
}

// ErrorHandler turns every token failure, missing or invalid, into the
// unauthorized body before a handler is reached.
func ErrorHandler(log zerolog.Logger) jwtmiddleware.ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn().Err(err).Str("method", r.Method).Msg("bearer token rejected")
		writeStatus(w, http.StatusUnauthorized, "unauthorized")
	}
}

func writeStatus(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  code,
		"message": message,
	})
}
