package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/blogi/backend/internal/config"
	"github.com/blogi/backend/internal/db"
	"github.com/blogi/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrMisconfigured      = errors.New("auth config invalid")
)

type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

type AuthService struct {
	repo      UserStore
	logger    *slog.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(repo UserStore, cfg config.AuthConfig, logger *slog.Logger) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	tokenTTL, err := time.ParseDuration(cfg.AccessTokenTTL)
	if err != nil || tokenTTL <= 0 {
		return nil, fmt.Errorf("%w: invalid ACCESS_TOKEN_TTL", ErrMisconfigured)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		repo:      repo,
		logger:    logger,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  tokenTTL,
	}, nil
}

// Register hashes the password and persists a new user. Username uniqueness is
// guaranteed by the store's unique constraint, not by a prior lookup, so a
// concurrent duplicate still surfaces as ErrDuplicateUsername.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, username, hash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return user, nil
}

// Login returns a signed access token. An unknown username and a wrong password
// produce the identical error so usernames cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if db.IsNoRows(err) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !verifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(user.Username)
}

// ResolveUser turns a bearer token into the current user. The token is
// re-verified and the subject re-fetched on every call; a token issued for a
// user that no longer exists does not authenticate.
func (s *AuthService) ResolveUser(ctx context.Context, tokenStr string) (*model.AuthUser, error) {
	subject, err := s.parseToken(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByUsername(ctx, subject)
	if err != nil {
		if db.IsNoRows(err) {
			s.logger.Debug("token subject no longer exists", "subject", subject)
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	return &model.AuthUser{
		ID:       user.ID,
		Username: user.Username,
	}, nil
}

func (s *AuthService) issueToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) parseToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		// The caller sees one uniform rejection; the distinction only feeds logs.
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug("access token expired")
		} else {
			s.logger.Debug("access token rejected", "reason", err.Error())
		}
		return "", ErrUnauthorized
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword fails closed: a malformed stored hash compares as a mismatch
// rather than an error.
func verifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
