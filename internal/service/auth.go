package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecom/internal/hash"
	"ecom/internal/logging"
	"ecom/internal/models"
	"ecom/internal/mykafka"
	"ecom/internal/repo"
	"ecom/internal/tokens"
	"ecom/internal/transport"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	Users     repo.UserRepository
	Producer  *mykafka.Producer
	JWTSecret []byte
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) error {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if req.Name == "" || req.Password == "" || !validEmail(req.Email) {
		return ErrValidation
	}

	// Fast path for the friendly error. The unique index on email is what
	// actually closes the check-then-insert race.
	if _, err := s.Users.FindByEmail(ctx, req.Email); err == nil {
		return ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		l.Error("register_error", "reason", "email lookup failed", "error", err)
		return err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: pwHash,
	}
	if err := s.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			return ErrConflict
		}
		l.Error("register_error", "reason", "cannot insert user", "error", err)
		return err
	}

	s.publish(ctx, "user_events", user.ID.Hex(), map[string]any{
		"type":   "user_registered",
		"userID": user.ID.Hex(),
		"email":  user.Email,
	})

	l.Info("register_success", "user_id", user.ID.Hex())
	return nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if req.Email == "" || req.Password == "" {
		return nil, ErrValidation
	}

	user, err := s.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Same answer as a wrong password so callers cannot probe
			// which emails are registered.
			return nil, ErrInvalidCredentials
		}
		l.Error("login_error", "reason", "email lookup failed", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	exp := time.Now().Add(tokens.AccessTTL)
	token, err := tokens.SignAccessToken(user.ID.Hex(), user.IsAdmin, s.JWTSecret, exp)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign access token", "error", err)
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID.Hex())
	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		User:      *user,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, topic, key string, event map[string]any) {
	event["eventID"] = uuid.NewString()
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "topic", topic, "error", err)
	}
}

func validEmail(email string) bool {
	return email != "" && strings.Contains(email, "@")
}
