package middlewares

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/trueweb/internal"
)

// jwtClaimsKey is the context key for parsed JWT claims.
type jwtClaimsKey struct{}

// JWTConfig configures the JWT gate.
type JWTConfig struct {
	// Keyfunc supplies the verification key. Takes priority over Secret.
	Keyfunc jwt.Keyfunc

	// NewClaims returns the value claims are decoded into.
	// Defaults to jwt.MapClaims.
	NewClaims func() jwt.Claims

	// ErrorHandler renders the 401 response. Defaults to internal.DefaultErrorHandler.
	ErrorHandler internal.ErrorHandler

	// Extractor locates the token. Defaults to the Authorization bearer header.
	Extractor *internal.Extractor

	// Secret is the HMAC key for HS256/HS384/HS512 tokens.
	Secret []byte

	// Methods restricts the accepted signing algorithms.
	// Defaults to HS256 when Secret is used.
	Methods []string

	// Issuer and Audience, when set, must match the token's claims.
	Issuer   string
	Audience string
}

// JWT returns a gate that admits requests carrying a valid, unexpired JWT.
// Parsed claims are available through GetJWTClaims and the "sub" claim
// through GetPrincipal.
//
// Example:
//
//	auth, err := middlewares.JWT(middlewares.JWTConfig{Secret: []byte(cfg.JWTSecret)})
//	r.Group("/api/*", apiRoutes, auth)
func JWT(cfg JWTConfig) (internal.Gate, error) {
	keyfunc := cfg.Keyfunc
	if keyfunc == nil {
		if len(cfg.Secret) == 0 {
			return nil, ErrNoSigningKey
		}
		secret := cfg.Secret
		keyfunc = func(*jwt.Token) (any, error) { return secret, nil }
		if len(cfg.Methods) == 0 {
			cfg.Methods = []string{jwt.SigningMethodHS256.Alg()}
		}
	}

	newClaims := cfg.NewClaims
	if newClaims == nil {
		newClaims = func() jwt.Claims { return jwt.MapClaims{} }
	}

	extractor := internal.NewExtractor(internal.FromBearerToken())
	if cfg.Extractor != nil {
		extractor = *cfg.Extractor
	}

	parserOpts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if len(cfg.Methods) > 0 {
		parserOpts = append(parserOpts, jwt.WithValidMethods(cfg.Methods))
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(cfg.Audience))
	}
	parser := jwt.NewParser(parserOpts...)

	return func(c internal.Context) bool {
		raw, ok := extractor.Extract(c)
		if !ok {
			c.SetHeader("WWW-Authenticate", `Bearer`)
			return deny(c, cfg.ErrorHandler, internal.ErrUnauthorized("Missing token"))
		}

		token, err := parser.ParseWithClaims(raw, newClaims(), keyfunc)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			c.LogDebug("jwt rejected", "error", err)
			c.SetHeader("WWW-Authenticate", `Bearer error="invalid_token"`)
			return deny(c, cfg.ErrorHandler, internal.ErrUnauthorized(msg))
		}

		c.Set(jwtClaimsKey{}, token.Claims)
		if sub, err := token.Claims.GetSubject(); err == nil {
			setPrincipal(c, sub)
		}
		return true
	}, nil
}

// GetJWTClaims returns the claims the JWT gate stored, asserted to T.
// T must match what JWTConfig.NewClaims returns (jwt.MapClaims by default).
func GetJWTClaims[T jwt.Claims](c internal.Context) (T, bool) {
	claims, ok := c.Get(jwtClaimsKey{}).(T)
	return claims, ok
}
