package service

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/globuddy/globuddy-server/internal/entity"
	searchService "github.com/globuddy/globuddy-server/internal/modules/search/service"
	"github.com/globuddy/globuddy-server/internal/modules/user/dto"
	"github.com/globuddy/globuddy-server/internal/modules/user/repository"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	repo     repository.UserRepository
	search   searchService.SearchService
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(repo repository.UserRepository, search searchService.SearchService) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	ttl := 24 * time.Hour
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	return &authService{
		repo:     repo,
		search:   search,
		secret:   secret,
		tokenTTL: ttl,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(input.Languages) != len(input.Levels) {
		return nil, apperror.Invalid("languages and levels must have the same length")
	}

	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperror.Conflict("username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.Conflict("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	languages := make([]entity.LearningLanguage, 0, len(input.Languages))
	for i, lang := range input.Languages {
		languages = append(languages, entity.LearningLanguage{
			Language: lang,
			Level:    input.Levels[i],
			Position: i,
		})
	}

	user := &entity.User{
		Username:       input.Username,
		Email:          input.Email,
		PasswordHash:   string(hashedPassword),
		Country:        input.Country,
		NativeLanguage: input.NativeLanguage,
		Interests:      "[]",
		Languages:      languages,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexUser(user); err != nil {
			log.Printf("failed to index user %s: %v", user.Username, err)
		}
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(401, "invalid credentials", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.New(401, "invalid credentials", apperror.ErrUnauthorized)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: signed,
		User:  dto.NewUserResponse(user),
	}, nil
}
