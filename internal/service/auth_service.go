package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cirqle/cirqle-api/internal/models"
	"github.com/cirqle/cirqle-api/internal/repository"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UsernameTaken(ctx context.Context, username, exceptUserID string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	MarkEmailVerified(ctx context.Context, id string, updatedAt time.Time) error
}

type oneTimeTokenStore interface {
	Issue(ctx context.Context, purpose repository.TokenPurpose, userID string, ttl time.Duration) (string, error)
	Consume(ctx context.Context, purpose repository.TokenPurpose, token string) (string, error)
}

type authNotifier interface {
	QueueVerification(ctx context.Context, user *models.User, token string, ttl time.Duration)
	QueuePasswordReset(ctx context.Context, user *models.User, token string, ttl time.Duration)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret    string
	AccessTokenExpiry    time.Duration
	Issuer               string
	VerificationTokenTTL time.Duration
	ResetTokenTTL        time.Duration
	IOTimeout            time.Duration
}

// AuthService is the local identity provider: bcrypt passwords and HS256 access tokens.
type AuthService struct {
	repo      authUserRepository
	tokens    oneTimeTokenStore
	notifier  authNotifier
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, tokens oneTimeTokenStore, notifier authNotifier, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	if config.VerificationTokenTTL <= 0 {
		config.VerificationTokenTTL = 48 * time.Hour
	}
	if config.ResetTokenTTL <= 0 {
		config.ResetTokenTTL = time.Hour
	}
	return &AuthService{repo: repo, tokens: tokens, notifier: notifier, validator: validate, logger: logger, config: config, now: time.Now}
}

// Signup registers a host, sends the verification e-mail and signs them in.
// The e-mail local part becomes the default username when it is free.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid signup payload")
	}

	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, storeError(err, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		DisplayName:  displayName(req.FirstName, req.LastName, req.Email),
	}
	if candidate := defaultUsername(req.Email); candidate != "" {
		taken, err := s.repo.UsernameTaken(ctx, candidate, user.ID)
		if err != nil {
			s.logger.Warn("default username check failed", zap.Error(err))
		} else if !taken {
			user.Username = &candidate
		}
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email or username already registered")
		}
		return nil, storeError(err, "failed to create account")
	}

	s.sendVerification(ctx, user)
	return s.issueSession(user)
}

// Login authenticates a user and returns an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid login payload")
	}

	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, storeError(err, "failed to fetch user")
	}

	if user.PasswordHash == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	return s.issueSession(user)
}

// Me returns the current user's profile.
func (s *AuthService) Me(ctx context.Context, session models.AuthSession) (*models.UserInfo, error) {
	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	user, err := s.repo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, storeError(err, "failed to load user")
	}
	info := user.Info()
	return &info, nil
}

// SendVerificationEmail sends a fresh verification link to the signed-in user.
func (s *AuthService) SendVerificationEmail(ctx context.Context, session models.AuthSession) error {
	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	user, err := s.repo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return storeError(err, "failed to load user")
	}
	if user.EmailVerified {
		return appErrors.Clone(appErrors.ErrConflict, "email already verified")
	}
	token, err := s.tokens.Issue(ctx, repository.TokenEmailVerification, user.ID, s.config.VerificationTokenTTL)
	if err != nil {
		return storeError(err, "failed to issue verification link")
	}
	s.notifier.QueueVerification(ctx, user, token, s.config.VerificationTokenTTL)
	return nil
}

// VerifyEmail consumes a verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, req models.VerifyEmailRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid verification payload")
	}

	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	userID, err := s.tokens.Consume(ctx, repository.TokenEmailVerification, req.Token)
	if err != nil {
		return tokenError(err, "verification link is invalid or expired")
	}
	if err := s.repo.MarkEmailVerified(ctx, userID, s.now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return storeError(err, "failed to verify email")
	}
	return nil
}

// ResetPassword e-mails a reset link. Unknown addresses succeed silently.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid reset payload")
	}

	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return storeError(err, "failed to fetch user")
	}
	token, err := s.tokens.Issue(ctx, repository.TokenPasswordReset, user.ID, s.config.ResetTokenTTL)
	if err != nil {
		return storeError(err, "failed to issue reset link")
	}
	s.notifier.QueuePasswordReset(ctx, user, token, s.config.ResetTokenTTL)
	return nil
}

// ConfirmPasswordReset sets a new password using a reset token.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req models.ConfirmResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid reset password payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	ctx, cancel := withTimeout(ctx, s.config.IOTimeout)
	defer cancel()

	userID, err := s.tokens.Consume(ctx, repository.TokenPasswordReset, req.Token)
	if err != nil {
		return tokenError(err, "reset link is invalid or expired")
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash), s.now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return storeError(err, "failed to update password")
	}
	return nil
}

// ValidateToken parses and validates an access token.
func (s *AuthService) ValidateToken(_ context.Context, tokenString string) (*models.AuthSession, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return &models.AuthSession{UserID: claims.UserID, Email: claims.Email, Username: claims.Username, Verified: claims.Verified}, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *models.User) {
	token, err := s.tokens.Issue(ctx, repository.TokenEmailVerification, user.ID, s.config.VerificationTokenTTL)
	if err != nil {
		s.logger.Warn("failed to issue verification token", zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	s.notifier.QueueVerification(ctx, user, token, s.config.VerificationTokenTTL)
}

func (s *AuthService) issueSession(user *models.User) (*models.LoginResponse, error) {
	issuedAt := s.now().UTC()
	accessToken, err := s.generateAccessToken(user, issuedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	return &models.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		User:        user.Info(),
		IssuedAt:    issuedAt,
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User, issuedAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.UsernameValue(),
		Verified: user.EmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}

func tokenError(err error, message string) error {
	if errors.Is(err, repository.ErrKeyNotFound) {
		return appErrors.Validation(message, map[string]string{"token": "is invalid or expired"})
	}
	return storeError(err, "failed to read token")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func defaultUsername(email string) string {
	local := email
	if idx := strings.Index(email, "@"); idx >= 0 {
		local = email[:idx]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == '.' || r == '+':
			b.WriteRune('-')
		}
	}
	candidate := strings.Trim(b.String(), "-")
	if !validUsername(candidate) {
		return ""
	}
	return candidate
}

func displayName(first, last, email string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name != "" {
		return name
	}
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return email
}
