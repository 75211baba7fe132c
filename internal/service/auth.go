package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"

	"github.com/velocity-h/peoplepulse/internal/domain"
)

const (
	bcryptCost     = 12
	tokenLifetime  = 7 * 24 * time.Hour
	minPasswordLen = 6
)

// HRStore defines the account data access interface consumed by AuthService.
type HRStore interface {
	FindByID(ctx context.Context, id int64) (*domain.HR, error)
	FindByEmail(ctx context.Context, email string) (*domain.HR, error)
	Create(ctx context.Context, hr domain.HR) (*domain.HR, error)
	Upsert(ctx context.Context, hr domain.HR) (*domain.HR, error)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	FrontendURL        string
}

// Identity is the verified content of a session token.
type Identity struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

// AuthService handles HR account authentication.
type AuthService struct {
	hrs       HRStore
	jwtSecret []byte
	google    *oauth2.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(hrs HRStore, cfg AuthConfig) *AuthService {
	return &AuthService{
		hrs:       hrs,
		jwtSecret: []byte(cfg.JWTSecret),
		google: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     googleOAuth.Endpoint,
			Scopes:       []string{"openid", "profile", "email"},
			RedirectURL:  cfg.FrontendURL + "/auth/google/callback",
		},
	}
}

// Signup registers a new HR account and returns it with a session token.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.HR, string, error) {
	if len(password) < minPasswordLen {
		return nil, "", &domain.ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", minPasswordLen),
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	hr, err := s.hrs.Create(ctx, domain.HR{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(hr.ID, hr.Email)
	if err != nil {
		return nil, "", err
	}
	return hr, token, nil
}

// Login verifies credentials and returns the account with a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.HR, string, error) {
	hr, err := s.hrs.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hr.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := s.GenerateToken(hr.ID, hr.Email)
	if err != nil {
		return nil, "", err
	}
	return hr, token, nil
}

// GetHR retrieves an HR account by ID.
func (s *AuthService) GetHR(ctx context.Context, id int64) (*domain.HR, error) {
	return s.hrs.FindByID(ctx, id)
}

// GenerateToken signs a 7-day session token carrying the user ID and email.
func (s *AuthService) GenerateToken(userID int64, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenLifetime).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a session token and returns the identity it carries.
// Expired, tampered, or malformed tokens all yield ErrUnauthorized.
func (s *AuthService) ValidateToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	userIDFloat, ok := claims["sub"].(float64)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	email, _ := claims["email"].(string)

	return &Identity{UserID: int64(userIDFloat), Email: email}, nil
}

// GoogleAuthURL returns the Google OAuth authorization URL.
func (s *AuthService) GoogleAuthURL(state string) string {
	return s.google.AuthCodeURL(state)
}

// GoogleCallback exchanges the authorization code, upserts the HR account by
// email, and returns it with a session token.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*domain.HR, string, error) {
	token, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("google token exchange: %w", err)
	}

	info, err := fetchGoogleUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, "", fmt.Errorf("fetch google user info: %w", err)
	}

	// OAuth accounts carry no usable password; an unguessable sentinel hash
	// keeps password login permanently failing for them.
	hr, err := s.hrs.Upsert(ctx, domain.HR{
		Name:         info.Name,
		Email:        info.Email,
		PasswordHash: "!oauth",
	})
	if err != nil {
		return nil, "", fmt.Errorf("upsert google hr: %w", err)
	}

	sessionToken, err := s.GenerateToken(hr.ID, hr.Email)
	if err != nil {
		return nil, "", err
	}
	return hr, sessionToken, nil
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func fetchGoogleUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google user info returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}
