package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pageza/pantrychef/backend/internal/cache"
	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/repository"
	"github.com/pageza/pantrychef/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid token")
)

// Session lifetimes. Remember-me selects the durable tier.
const (
	RememberedSessionTTL = 30 * 24 * time.Hour
	SessionTTL           = 12 * time.Hour
)

// Session is a signed-in user with the token bound to it.
type Session struct {
	ID         string
	Token      string
	ExpiresAt  time.Time
	Persistent bool
	User       models.User
}

type AuthService struct {
	users     UserStore
	sessions  cache.Store
	jwtSecret []byte
	now       func() time.Time
}

func NewAuthService(users UserStore, sessions cache.Store, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

func sessionKey(id string) string { return "session:" + id }

func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// Check if user already exists
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// Login checks the credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string, remember bool) (Session, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	ttl := SessionTTL
	if remember {
		ttl = RememberedSessionTTL
	}
	now := s.now()
	session := Session{
		ID:         uuid.NewString(),
		ExpiresAt:  now.Add(ttl),
		Persistent: remember,
		User:       user,
	}
	if err := s.sessions.Set(ctx, sessionKey(session.ID), []byte(user.ID.String()), ttl); err != nil {
		return Session{}, fmt.Errorf("failed to store session: %w", err)
	}

	session.Token, err = s.generateToken(user.ID, session.ID, now, session.ExpiresAt)
	if err != nil {
		return Session{}, err
	}
	return session, nil
}

func (s *AuthService) generateToken(userID uuid.UUID, sessionID string, issued, expires time.Time) (string, error) {
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID:    userID,
		SessionID: sessionID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken checks the signature and expiry and that the session the
// token is bound to still exists.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	owner, err := s.sessions.Get(ctx, sessionKey(claims.SessionID))
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if string(owner) != claims.UserID.String() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, err
}

// Logout deletes the session, revoking every token bound to it.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionKey(sessionID))
}
