package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
)

// DevSigningKey is the fixed HMAC key used when no JWT_SECRET is configured.
// Development only; config.Validate refuses to start production without a
// real secret.
var DevSigningKey = []byte("carevault-dev-signing-key-do-not-use")

type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

type JWTConfig struct {
	Issuer     string
	SigningKey []byte
	TokenTTL   time.Duration
}

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

func (cfg JWTConfig) signingKey() []byte {
	if len(cfg.SigningKey) > 0 {
		return cfg.SigningKey
	}
	return DevSigningKey
}

func (cfg JWTConfig) tokenTTL() time.Duration {
	if cfg.TokenTTL > 0 {
		return cfg.TokenTTL
	}
	return DefaultTokenTTL
}

// IssueToken creates a signed HS256 JWT for the given user.
func IssueToken(cfg JWTConfig, userID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.tokenTTL())),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cfg.signingKey())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a signed token and returns its claims.
func ParseToken(cfg JWTConfig, tokenStr string) (*Claims, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return cfg.signingKey(), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// JWTMiddleware authenticates requests with a Bearer token and places the
// user identity on the request context.
func JWTMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := ParseToken(cfg, parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// DevUserID is the fixed identity assumed for unauthenticated requests
// when the dev bypass is active.
const DevUserID = "00000000-0000-0000-0000-000000000001"

// DevAuthMiddleware is a permissive middleware for development. Requests
// without credentials run as the fixed dev identity; a Bearer token, when
// present, is parsed so locally issued tokens keep their own identity.
// Unparseable tokens fall back to the dev identity instead of failing.
func DevAuthMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, email := DevUserID, "dev@localhost"

			authHeader := c.Request().Header.Get("Authorization")
			if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				if claims, err := ParseToken(cfg, parts[1]); err == nil {
					userID, email = claims.Subject, claims.Email
				}
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, UserIDKey, userID)
			ctx = context.WithValue(ctx, UserEmailKey, email)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}
