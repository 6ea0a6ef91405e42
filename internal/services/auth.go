package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/repos"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	User         *types.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"-"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	// ParseAccessToken validates a bearer token and returns the subject user.
	ParseAccessToken(tokenString string) (uuid.UUID, error)
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	cfg       AuthConfig
	userRepo  repos.UserRepo
	tokenRepo repos.UserTokenRepo
	avatars   AvatarService
}

func NewAuthService(db *gorm.DB, log *logger.Logger, cfg AuthConfig, userRepo repos.UserRepo, tokenRepo repos.UserTokenRepo, avatars AvatarService) AuthService {
	return &authService{
		db:        db,
		log:       log.With("service", "AuthService"),
		cfg:       cfg,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		avatars:   avatars,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	if email == "" || input.Password == "" || name == "" {
		return nil, apierr.BadRequest("email, password and name are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	var result *AuthResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.userRepo.EmailExists(ctx, tx, email)
		if err != nil {
			return apierr.Internal(err)
		}
		if exists {
			return apierr.BadRequest("email already registered")
		}
		user := &types.User{
			ID:       uuid.New(),
			Email:    email,
			Password: string(hash),
			Name:     name,
		}
		if s.avatars != nil {
			key, url, avErr := s.avatars.Generate(ctx, name, user.ID)
			if avErr != nil {
				s.log.Warn("avatar generation failed", "error", avErr)
			} else {
				user.AvatarKey = key
				user.AvatarURL = url
			}
		}
		if _, err := s.userRepo.Create(ctx, tx, user); err != nil {
			return apierr.Internal(err)
		}
		result, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, apierr.BadRequest("email and password are required")
	}

	var result *AuthResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.GetByEmail(ctx, tx, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.Unauthorized("invalid credentials")
			}
			return apierr.Internal(err)
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
			return apierr.Unauthorized("invalid credentials")
		}
		result, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apierr.Unauthorized("missing refresh token")
	}

	var result *AuthResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.tokenRepo.GetByRefreshToken(ctx, tx, refreshToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.Unauthorized("invalid refresh token")
			}
			return apierr.Internal(err)
		}
		if time.Now().After(row.ExpiresAt) {
			_ = s.tokenRepo.Delete(ctx, tx, row.ID)
			return apierr.Unauthorized("refresh token expired")
		}
		user, err := s.userRepo.GetByID(ctx, tx, row.UserID)
		if err != nil {
			return apierr.Internal(err)
		}
		// Rotation: the presented token is consumed either way.
		if err := s.tokenRepo.Delete(ctx, tx, row.ID); err != nil {
			return apierr.Internal(err)
		}
		result, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tokenRepo.DeleteByUserID(ctx, tx, userID); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
}

func (s *authService) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, apierr.Unauthorized("invalid access token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, apierr.Unauthorized("invalid access token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apierr.Unauthorized("invalid access token")
	}
	return userID, nil
}

func (s *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (*AuthResult, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, apierr.Internal(err)
	}
	refresh, err := randomToken()
	if err != nil {
		return nil, apierr.Internal(err)
	}
	row := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.cfg.RefreshTTL),
	}
	if _, err := s.tokenRepo.Create(ctx, tx, row); err != nil {
		return nil, apierr.Internal(err)
	}
	return &AuthResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
