package session

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/smartconsult/smartconsult-backend/app/models"
	"github.com/smartconsult/smartconsult-backend/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSecretNotSet       = errors.New("JWT secret not set")
)

type UserStore interface {
	GetUserByEmail(email string) (models.User, error)
	GetUserByID(id uuid.UUID) (models.User, error)
}

type TokenStore interface {
	CreateRefreshToken(rt *models.RefreshToken) error
	GetRefreshTokenByToken(token string) (models.RefreshToken, error)
	RevokeRefreshTokenByToken(token string) error
	RevokeRefreshTokensByUser(userID uuid.UUID) error
	SweepExpired(now time.Time) (int64, error)
}

type Tokens struct {
	AccessToken      string     `json:"access_token"`
	ExpiresIn        int        `json:"expires_in"`
	RefreshToken     string     `json:"refresh_token"`
	RefreshExpiresAt *time.Time `json:"refresh_expires_at,omitempty"`
}

// Manager owns session state: it issues and validates bearer tokens, rotates
// refresh tokens, and sweeps expired ones in the background. The clock is
// injectable so expiry behavior is testable.
type Manager struct {
	Users         UserStore
	Tokens        TokenStore
	Secret        string
	AccessTTL     time.Duration // zero means tokens without an exp claim
	RefreshTTL    time.Duration // zero means refresh tokens without expiry
	SweepInterval time.Duration
	Clock         func() time.Time
}

func NewManager(users UserStore, tokens TokenStore) *Manager {
	m := &Manager{
		Users:         users,
		Tokens:        tokens,
		Secret:        os.Getenv("JWT_SECRET"),
		SweepInterval: 15 * time.Minute,
		Clock:         time.Now,
	}
	if v := os.Getenv("ACCESS_TOKEN_MINUTES"); v != "" {
		if iv, err := strconv.Atoi(v); err == nil && iv > 0 {
			m.AccessTTL = time.Duration(iv) * time.Minute
		}
	}
	if v := os.Getenv("REFRESH_TOKEN_HOURS"); v != "" {
		if iv, err := strconv.Atoi(v); err == nil && iv > 0 {
			m.RefreshTTL = time.Duration(iv) * time.Hour
		}
	}
	return m
}

func (m *Manager) now() time.Time {
	if m.Clock != nil {
		return m.Clock()
	}
	return time.Now()
}

func (m *Manager) signAccessToken(user models.User) (string, error) {
	if m.Secret == "" {
		return "", ErrSecretNotSet
	}
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
	}
	if m.AccessTTL > 0 {
		claims["exp"] = m.now().Add(m.AccessTTL).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.Secret))
}

// IssueTokens mints an access token and stores a fresh refresh token for the
// user. Used by both password and Google sign-in.
func (m *Manager) IssueTokens(user models.User) (Tokens, error) {
	out := Tokens{}

	accessToken, err := m.signAccessToken(user)
	if err != nil {
		return out, err
	}
	out.AccessToken = accessToken
	if m.AccessTTL > 0 {
		out.ExpiresIn = int(m.AccessTTL.Seconds())
	}

	rtStr, err := utils.GenerateRandomToken(32)
	if err != nil {
		return out, errors.New("failed to generate refresh token")
	}

	var rtExpiresAt time.Time
	if m.RefreshTTL > 0 {
		rtExpiresAt = m.now().Add(m.RefreshTTL)
		out.RefreshExpiresAt = &rtExpiresAt
	}
	rt := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     rtStr,
		ExpiresAt: rtExpiresAt,
		Revoked:   false,
		CreatedAt: m.now(),
	}
	if err := m.Tokens.CreateRefreshToken(rt); err != nil {
		return out, errors.New("failed to store refresh token")
	}
	out.RefreshToken = rtStr

	return out, nil
}

func (m *Manager) Login(email, password string) (Tokens, models.User, error) {
	user, err := m.Users.GetUserByEmail(email)
	if err != nil {
		return Tokens{}, models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Tokens{}, models.User{}, ErrInvalidCredentials
	}

	tokens, err := m.IssueTokens(user)
	if err != nil {
		return Tokens{}, models.User{}, err
	}
	return tokens, user, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (m *Manager) Refresh(refreshToken string) (string, int, error) {
	rt, err := m.Tokens.GetRefreshTokenByToken(refreshToken)
	if err != nil {
		return "", 0, ErrInvalidToken
	}
	if rt.Revoked || (!rt.ExpiresAt.IsZero() && m.now().After(rt.ExpiresAt)) {
		return "", 0, ErrInvalidToken
	}

	user, err := m.Users.GetUserByID(rt.UserID)
	if err != nil {
		return "", 0, ErrInvalidToken
	}

	accessToken, err := m.signAccessToken(user)
	if err != nil {
		return "", 0, err
	}

	expiresIn := 0
	if m.AccessTTL > 0 {
		expiresIn = int(m.AccessTTL.Seconds())
	}
	return accessToken, expiresIn, nil
}

// CurrentUser resolves the bearer token in the Authorization header to the
// authenticated user.
func (m *Manager) CurrentUser(authHeader string) (models.User, error) {
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return models.User{}, ErrInvalidToken
	}
	if m.Secret == "" {
		return models.User{}, ErrSecretNotSet
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) { return []byte(m.Secret), nil })
	if err != nil || !token.Valid {
		return models.User{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.User{}, ErrInvalidToken
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return models.User{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}

	return m.Users.GetUserByID(userID)
}

// Logout revokes the given refresh token, or every token of the bearer when
// no refresh token is supplied.
func (m *Manager) Logout(authHeader, refreshToken string) error {
	if refreshToken != "" {
		return m.Tokens.RevokeRefreshTokenByToken(refreshToken)
	}

	user, err := m.CurrentUser(authHeader)
	if err != nil {
		return err
	}
	return m.Tokens.RevokeRefreshTokensByUser(user.ID)
}

// StartSweeper runs the background sweep that revokes expired refresh tokens.
// Returns immediately; the loop exits when ctx is cancelled.
func (m *Manager) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := m.Tokens.SweepExpired(m.now())
				if err != nil {
					log.Printf("event=session_sweep_error error=%v", err)
					continue
				}
				if n > 0 {
					log.Printf("event=session_sweep revoked=%d", n)
				}
			}
		}
	}()
}
