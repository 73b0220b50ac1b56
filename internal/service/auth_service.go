package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogCMS/internal/config"
	"blogCMS/internal/models"
	"blogCMS/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the author a bearer token was issued to.
type Principal struct {
	UserID int64
	Email  string
}

type AuthService interface {
	Enabled() bool
	IssueToken(ctx context.Context, userID int64) (string, error)
	ValidateToken(tokenString string) (*Principal, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *authService) Enabled() bool {
	return s.cfg.AuthEnabled()
}

// IssueToken signs an access token for an existing user.
func (s *authService) IssueToken(ctx context.Context, userID int64) (string, error) {
	if !s.Enabled() {
		return "", errors.New("JWT_SECRET_KEY is not set")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", &models.ValidationError{Fields: []string{"userId"}, Reason: fmt.Sprintf("user %d does not exist", userID)}
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"userId": user.ID,
		"email":  user.Email,
		"exp":    now.Add(s.cfg.AccessTokenDuration).Unix(),
		"iat":    now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (s *authService) ValidateToken(tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", models.ErrUnauthorized)
	}

	// numeric claims decode as float64
	userID, ok1 := claims["userId"].(float64)
	email, ok2 := claims["email"].(string)
	if !ok1 || !ok2 || userID < 1 {
		return nil, fmt.Errorf("%w: malformed token claims", models.ErrUnauthorized)
	}

	return &Principal{UserID: int64(userID), Email: email}, nil
}
