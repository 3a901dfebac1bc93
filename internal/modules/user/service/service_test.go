package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/globuddy/globuddy-server/internal/entity"
	"github.com/globuddy/globuddy-server/internal/modules/user/dto"
	"github.com/globuddy/globuddy-server/internal/modules/user/repository"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(&entity.User{}, &entity.LearningLanguage{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newService(db *gorm.DB) AuthService {
	return NewAuthService(repository.NewUserRepository(db), nil)
}

func registerRequest(username string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:       username,
		Email:          username + "@example.com",
		Password:       "secret-password",
		Country:        "Spain",
		NativeLanguage: "Spanish",
		Languages:      []string{"English", "French"},
		Levels:         []string{entity.LevelBeginner, entity.LevelAdvanced},
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	svc := newService(db)

	resp, err := svc.Register(context.Background(), registerRequest("alice"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("no token issued")
	}
	if resp.User.Username != "alice" {
		t.Errorf("username = %s, want alice", resp.User.Username)
	}
	if len(resp.User.Languages) != 2 {
		t.Errorf("languages = %d, want 2", len(resp.User.Languages))
	}

	// The token subject is the username.
	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}); err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("token subject = %s, want alice", claims.Subject)
	}

	// The password is stored hashed.
	var user entity.User
	if err := db.First(&user, "username = ?", "alice").Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if user.PasswordHash == "secret-password" {
		t.Error("password stored in plain text")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("alice")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	req := registerRequest("alice")
	req.Email = "other@example.com"
	_, err := svc.Register(ctx, req)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate username error = %v, want conflict", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("alice")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	req := registerRequest("bob")
	req.Email = "alice@example.com"
	_, err := svc.Register(ctx, req)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate email error = %v, want conflict", err)
	}
}

func TestRegisterRejectsMismatchedLanguages(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)

	req := registerRequest("alice")
	req.Levels = []string{entity.LevelBeginner}
	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("mismatched arrays error = %v, want invalid input", err)
	}
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("alice")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "secret-password"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("no token issued")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("alice")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "wrong"})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("wrong password error = %v, want unauthorized", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "whatever"})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("unknown user error = %v, want unauthorized", err)
	}
}
