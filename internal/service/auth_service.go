package service

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ycelik/miniblog/internal/models"
	"github.com/ycelik/miniblog/internal/repository"
	"github.com/ycelik/miniblog/internal/session"
	"github.com/ycelik/miniblog/internal/utils"
	"github.com/ycelik/miniblog/pkg/logger"
)

const maxUsernameLength = 80

type AuthService struct {
	userRepo *repository.UserRepository
	sessions *session.Store
}

func NewAuthService(userRepo *repository.UserRepository, sessions *session.Store) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
	}
}

// Register creates a new account with role user. Admin accounts are only
// created through the seed command, never through registration.
func (s *AuthService) Register(username, password string) (*models.User, error) {
	start := time.Now()

	logger.Log.Debug("Processing user registration",
		zap.String("username", username),
	)

	if err := validateRegisterInput(username, password); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}

	existingUser, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to check username existence",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, persistenceError(err)
	}
	if existingUser != nil {
		logger.Log.Warn("Username already exists",
			zap.String("username", username),
		)
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password",
			zap.Error(err),
		)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, persistenceError(err)
	}

	logger.Log.Info("User registered successfully",
		zap.Uint("user_id", user.ID),
		zap.String("username", username),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, nil
}

// Authenticate checks a username/password pair. An unknown user and a wrong
// password both surface as ErrInvalidCredentials.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to get user by username",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, persistenceError(err)
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found",
			zap.String("username", username),
		)
		return nil, ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("username", username),
			zap.Uint("user_id", user.ID),
		)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and opens a server-side session for the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *session.Session, error) {
	start := time.Now()

	user, err := s.Authenticate(username, password)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		logger.Log.Error("Failed to create session",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return nil, nil, persistenceError(err)
	}

	logger.Log.Info("User logged in successfully",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, sess, nil
}

// Logout deletes the session. A token that is already gone is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		logger.Log.Error("Failed to delete session",
			zap.Error(err),
		)
		return persistenceError(err)
	}

	logger.Log.Info("User logged out")
	return nil
}

func validateRegisterInput(username, password string) error {
	if username == "" {
		return validationError("username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return validationError("username must be at most 80 characters")
	}
	if password == "" {
		return validationError("password is required")
	}
	return nil
}
