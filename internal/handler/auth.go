package handler

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/velocity-h/peoplepulse/internal/domain"
	"github.com/velocity-h/peoplepulse/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth         *service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie should be true in
// production so the auth cookie is only sent over HTTPS.
func NewAuthHandler(auth *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup registers a new HR account and sets the session cookie.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hr, token, err := h.auth.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	SetAuthCookie(c, token, h.secureCookie)
	return JSON(c, http.StatusCreated, map[string]any{"user": hr})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hr, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	SetAuthCookie(c, token, h.secureCookie)
	return JSON(c, http.StatusOK, map[string]any{"user": hr})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	ClearAuthCookie(c)
	return JSON(c, http.StatusOK, map[string]any{"message": "logged out"})
}

// Me returns the currently authenticated HR account, or null when the
// session is absent or invalid.
func (h *AuthHandler) Me(c echo.Context) error {
	token := tokenFromRequest(c)
	if token == "" {
		return JSON(c, http.StatusOK, map[string]any{"user": nil})
	}

	identity, err := h.auth.ValidateToken(token)
	if err != nil {
		return JSON(c, http.StatusOK, map[string]any{"user": nil})
	}

	hr, err := h.auth.GetHR(c.Request().Context(), identity.UserID)
	if err != nil {
		return JSON(c, http.StatusOK, map[string]any{"user": nil})
	}
	return JSON(c, http.StatusOK, map[string]any{"user": hr})
}

// GoogleRedirect redirects the user to Google's OAuth consent page.
func (h *AuthHandler) GoogleRedirect(c echo.Context) error {
	state := generateState()
	c.SetCookie(&http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})
	return c.Redirect(http.StatusTemporaryRedirect, h.auth.GoogleAuthURL(state))
}

// GoogleCallback handles the OAuth callback from Google and sets the session
// cookie.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	if err := validateOAuthState(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	code := c.QueryParam("code")
	if code == "" {
		return fmt.Errorf("%w: missing code parameter", domain.ErrInvalidInput)
	}

	hr, token, err := h.auth.GoogleCallback(c.Request().Context(), code)
	if err != nil {
		return err
	}

	SetAuthCookie(c, token, h.secureCookie)
	return JSON(c, http.StatusOK, map[string]any{"user": hr})
}

func generateState() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "fallback-state"
	}
	return base64.URLEncoding.EncodeToString(b)
}

func validateOAuthState(c echo.Context) error {
	cookie, err := c.Cookie("oauth_state")
	if err != nil {
		return fmt.Errorf("missing oauth_state cookie")
	}

	queryState := c.QueryParam("state")
	if queryState == "" || queryState != cookie.Value {
		return fmt.Errorf("state mismatch")
	}

	return nil
}
