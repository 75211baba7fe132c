package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/velocity-h/peoplepulse/internal/domain"
	"github.com/velocity-h/peoplepulse/internal/service"
)

const (
	contextKeyIdentity = "identity"

	// AuthCookieName is the HTTP-only session cookie carrying the JWT.
	AuthCookieName = "auth-token"

	authCookieMaxAge = 7 * 24 * 60 * 60
)

// RequestLogger logs each HTTP request with structured fields.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return err
		}
	}
}

// JWTAuth validates the session token and injects the identity into echo
// context. The token is read from the auth-token cookie, falling back to a
// Bearer header.
func JWTAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c)
			if token == "" {
				return domain.ErrUnauthorized
			}

			identity, err := auth.ValidateToken(token)
			if err != nil {
				return domain.ErrUnauthorized
			}

			c.Set(contextKeyIdentity, identity)
			return next(c)
		}
	}
}

// GetIdentity extracts the authenticated identity from echo context.
func GetIdentity(c echo.Context) (*service.Identity, bool) {
	identity, ok := c.Get(contextKeyIdentity).(*service.Identity)
	return identity, ok
}

// SetAuthCookie attaches the session cookie to the response.
func SetAuthCookie(c echo.Context, token string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   authCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie expires the session cookie.
func ClearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
