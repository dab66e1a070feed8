package service

import (
	"errors"
	"time"

	"github.com/ikkim/wishwall-backend/internal/app/model"
	"github.com/ikkim/wishwall-backend/internal/app/repository"
	apperrors "github.com/ikkim/wishwall-backend/internal/errors"
	"github.com/ikkim/wishwall-backend/pkg/googleauth"
	"github.com/ikkim/wishwall-backend/pkg/logger"
	"github.com/ikkim/wishwall-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidGoogleToken = errors.New("invalid google id token")
)

// GoogleVerifier validates Google ID tokens. Satisfied by
// googleauth.Verifier; tests substitute an HS256 variant.
type GoogleVerifier interface {
	Verify(idToken string) (*googleauth.Profile, error)
}

// TokenConfig carries the JWT signing parameters.
type TokenConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type AuthService interface {
	Register(req model.RegisterRequest) (*model.User, *util.TokenPair, error)
	Login(req model.LoginRequest) (*model.User, *util.TokenPair, error)
	// GoogleSignIn verifies the ID token and signs the Google account in,
	// creating a local user on first sight.
	GoogleSignIn(idToken string) (*model.User, *util.TokenPair, error)
	GetUserByID(userID uint) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	verifier GoogleVerifier
	tokens   TokenConfig
}

// NewAuthService wires the auth use cases. verifier may be nil, which
// disables Google sign-in.
func NewAuthService(userRepo repository.UserRepository, verifier GoogleVerifier, tokens TokenConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		verifier: verifier,
		tokens:   tokens,
	}
}

func (s *authService) Register(req model.RegisterRequest) (*model.User, *util.TokenPair, error) {
	logger.Info("Registering new user", map[string]interface{}{
		"email": req.Email,
	})

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, nil)
		return nil, nil, err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, nil, ErrEmailAlreadyExists
		}
		logger.Error("Failed to create user", err, map[string]interface{}{
			"email": req.Email,
		})
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, tokens, nil
}

func (s *authService) Login(req model.LoginRequest) (*model.User, *util.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	// Google-only accounts have no password to check
	if user.PasswordHash == "" || !util.VerifyPassword(user.PasswordHash, req.Password) {
		logger.Warn("Login failed: bad credentials", map[string]interface{}{
			"email": req.Email,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

func (s *authService) GoogleSignIn(idToken string) (*model.User, *util.TokenPair, error) {
	if s.verifier == nil {
		return nil, nil, ErrInvalidGoogleToken
	}

	profile, err := s.verifier.Verify(idToken)
	if err != nil {
		logger.Warn("Google ID token rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil, ErrInvalidGoogleToken
	}

	user, err := s.userRepo.FindByGoogleSub(profile.Sub)
	if err == nil {
		tokens, err := s.issueTokens(user)
		if err != nil {
			return nil, nil, err
		}
		return user, tokens, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	// First Google sign-in: link to an existing account by email, or
	// create a fresh one.
	user, err = s.userRepo.FindByEmail(profile.Email)
	if err == nil {
		sub := profile.Sub
		user.GoogleSub = &sub
		if err := s.userRepo.Update(user); err != nil {
			logger.Error("Failed to link google account", err, map[string]interface{}{
				"user_id": user.ID,
			})
			return nil, nil, err
		}
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		sub := profile.Sub
		name := profile.Name
		if name == "" {
			name = profile.Email
		}
		user = &model.User{
			Email:     profile.Email,
			Name:      name,
			GoogleSub: &sub,
			Role:      model.RoleUser,
		}
		if err := s.userRepo.Create(user); err != nil {
			logger.Error("Failed to create google user", err, map[string]interface{}{
				"email": profile.Email,
			})
			return nil, nil, err
		}
		logger.Info("Google user created", map[string]interface{}{
			"user_id": user.ID,
		})
	} else {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *authService) GetUserByID(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.tokens.Secret,
		s.tokens.AccessTokenExpiry,
		s.tokens.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}
