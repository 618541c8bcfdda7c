package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/anonto42/nano-midea/social/pkg/firebase"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	claimsKey = "user"
	viewerKey = "viewer"
)

// AuthConfig configures Authenticate. Firebase and Users are optional; when both are set,
// bearer tokens that are not local JWTs are tried as Firebase ID tokens.
type AuthConfig struct {
	Secret   string
	Firebase firebase.TokenVerifier
	Users    FirebaseUserResolver
}

// Authenticate resolves the request's viewer from a bearer token.
// No Authorization header means an anonymous viewer; a malformed or invalid token is 401.
func Authenticate(cfg AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				c.Set(viewerKey, services.Anonymous())
				return next(c)
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}
			tokenString := parts[1]

			claims, err := ParseToken(tokenString, cfg.Secret)
			if err != nil {
				if cfg.Firebase == nil || cfg.Users == nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
				}
				userID, ferr := verifyFirebaseToken(c, cfg.Firebase, cfg.Users, tokenString)
				if ferr != nil {
					return ferr
				}
				c.Set(viewerKey, services.AuthenticatedAs(userID))
				return next(c)
			}

			// Store user claims in context
			c.Set(claimsKey, claims)
			c.Set(viewerKey, services.AuthenticatedAs(claims.UserID))
			return next(c)
		}
	}
}

// ParseToken validates an HS256 token signed with secret and returns its claims
func ParseToken(tokenString, secret string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GenerateToken issues a signed token for user that expires after ttl
func GenerateToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ViewerFrom returns the viewer set by Authenticate, anonymous when none was set
func ViewerFrom(c echo.Context) services.Viewer {
	if v, ok := c.Get(viewerKey).(services.Viewer); ok {
		return v
	}
	return services.Anonymous()
}

// RequireUser returns the authenticated user id or a 401
func RequireUser(c echo.Context) (uint, error) {
	id, ok := ViewerFrom(c).ID()
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return id, nil
}
