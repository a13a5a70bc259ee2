// Package auth validates the access-token cookie issued by the external auth
// service and exposes the principal (id, role, username) to handlers. Token
// issuance and refresh live outside this service.
package auth

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	JWTSecret []byte
}

func New(secret []byte) *Middleware {
	return &Middleware{JWTSecret: secret}
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.parseClaims(c)
		if err != nil {
			return err
		}

		setPrincipal(c, claims)
		return next(c)
	}
}

// RequireRole gates a route to the given roles on top of RequireAuth.
func (m *Middleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := m.parseClaims(c)
			if err != nil {
				return err
			}

			role, _ := claims["role"].(string)
			for _, allowed := range roles {
				if role == allowed {
					setPrincipal(c, claims)
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}

func (m *Middleware) parseClaims(c echo.Context) (jwt.MapClaims, error) {
	cookie, err := c.Cookie("accessToken")
	if err != nil || cookie.Value == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	if sub, _ := claims["sub"].(string); sub == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
	}

	return claims, nil
}

func setPrincipal(c echo.Context, claims jwt.MapClaims) {
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	username, _ := claims["username"].(string)

	c.Set("user_id", sub)
	c.Set("role", role)
	c.Set("username", username)
}
