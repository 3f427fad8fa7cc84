package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/rcc-portal/internal/models"
	"github.com/noah-isme/rcc-portal/internal/repository"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

type sessionStore interface {
	Students() repository.Collection[models.User]
	CurrentUser(ctx context.Context) (*models.User, error)
	SaveCurrentUser(ctx context.Context, user models.User) error
	ClearCurrentUser(ctx context.Context) error
}

// SessionConfig holds the fixed portal credentials and token settings.
type SessionConfig struct {
	TeacherUsername   string
	TeacherPassphrase string
	StudentPassphrase string
	TokenSecret       string
	TokenExpiry       time.Duration
	Issuer            string
	HashCost          int
}

// SessionService keeps the single logged in identity.
type SessionService struct {
	store       sessionStore
	validator   *validator.Validate
	logger      *zap.Logger
	config      SessionConfig
	teacherHash []byte
	studentHash []byte
	now         func() time.Time
}

// NewSessionService hashes the configured passphrases once so logins compare against bcrypt digests.
func NewSessionService(store sessionStore, validate *validator.Validate, logger *zap.Logger, config SessionConfig) (*SessionService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 24 * time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = "rcc-portal"
	}
	if config.HashCost == 0 {
		config.HashCost = bcrypt.DefaultCost
	}

	teacherHash, err := bcrypt.GenerateFromPassword([]byte(config.TeacherPassphrase), config.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash teacher passphrase: %w", err)
	}
	studentHash, err := bcrypt.GenerateFromPassword([]byte(config.StudentPassphrase), config.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash student passphrase: %w", err)
	}

	return &SessionService{
		store:       store,
		validator:   validate,
		logger:      logger,
		config:      config,
		teacherHash: teacherHash,
		studentHash: studentHash,
		now:         time.Now,
	}, nil
}

// Login checks the credentials for the selected tab and replaces the session on success.
// A failed attempt leaves the current session untouched.
func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationFailure(err, "invalid login payload")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "role must be TEACHER or STUDENT")
	}

	var user models.User
	switch req.Role {
	case models.RoleTeacher:
		if req.Identifier != s.config.TeacherUsername || !matches(s.teacherHash, req.Password) {
			s.logger.Info("teacher login rejected")
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid teacher username or access key")
		}
		user = repository.SeedTeacher()
	default:
		students, err := s.store.Students().Get(ctx)
		if err != nil {
			return nil, storageFailure(err, "failed to load roster")
		}
		student, ok := findByMobile(students, req.Identifier)
		if !ok || !matches(s.studentHash, req.Password) {
			s.logger.Info("student login rejected")
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid student mobile or access key")
		}
		user = student
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create session token")
	}
	if err := s.store.SaveCurrentUser(ctx, user); err != nil {
		return nil, storageFailure(err, "failed to persist session")
	}
	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		User:        user,
	}, nil
}

// Logout clears the persisted identity.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.ClearCurrentUser(ctx); err != nil {
		return storageFailure(err, "failed to clear session")
	}
	return nil
}

// Current returns the logged in user or nil.
func (s *SessionService) Current(ctx context.Context) (*models.User, error) {
	user, err := s.store.CurrentUser(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load session")
	}
	return user, nil
}

// Authenticate validates the token and requires it to belong to the persisted session.
func (s *SessionService) Authenticate(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil || current.ID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session has ended")
	}
	if !current.Role.Valid() {
		s.logger.Warn("stored session carries an unknown role", zap.String("user_id", current.ID), zap.String("role", string(current.Role)))
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session has ended")
	}
	claims.Name = current.Name
	claims.Role = current.Role
	return claims, nil
}

// ValidateToken parses and validates a session token.
func (s *SessionService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *SessionService) issueToken(user models.User) (string, error) {
	issuedAt := s.now().UTC()
	claims := &models.JWTClaims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.TokenExpiry)),
			ID:        repository.NewID("sess"),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}

func matches(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

func findByMobile(students []models.User, mobile string) (models.User, bool) {
	for _, s := range students {
		if s.Mobile == mobile {
			return s, true
		}
	}
	return models.User{}, false
}
