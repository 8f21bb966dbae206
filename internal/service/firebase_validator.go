package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cirqle/cirqle-api/internal/models"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type firebaseUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// FirebaseTokenValidator accepts Firebase ID tokens as bearer tokens. Hosts
// signing in for the first time get a local account keyed by their e-mail.
type FirebaseTokenValidator struct {
	verifier  idTokenVerifier
	users     firebaseUserRepository
	logger    *zap.Logger
	ioTimeout time.Duration
}

// NewFirebaseTokenValidator constructs the validator. *auth.Client satisfies verifier.
func NewFirebaseTokenValidator(verifier idTokenVerifier, users firebaseUserRepository, logger *zap.Logger, ioTimeout time.Duration) *FirebaseTokenValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FirebaseTokenValidator{verifier: verifier, users: users, logger: logger, ioTimeout: ioTimeout}
}

// ValidateToken verifies the ID token and resolves the local account.
func (v *FirebaseTokenValidator) ValidateToken(ctx context.Context, idToken string) (*models.AuthSession, error) {
	ctx, cancel := withTimeout(ctx, v.ioTimeout)
	defer cancel()

	token, err := v.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, appErrors.Transient(err, "identity provider unavailable")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	email, _ := token.Claims["email"].(string)
	email = normalizeEmail(email)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token carries no email")
	}
	verified, _ := token.Claims["email_verified"].(bool)

	user, err := v.users.FindByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		user, err = v.provision(ctx, token, email, verified)
	}
	if err != nil {
		return nil, storeError(err, "failed to resolve account")
	}

	session := user.Session()
	session.Verified = session.Verified || verified
	return &session, nil
}

func (v *FirebaseTokenValidator) provision(ctx context.Context, token *auth.Token, email string, verified bool) (*models.User, error) {
	name, _ := token.Claims["name"].(string)
	first, last := splitName(name)
	user := &models.User{
		ID:            uuid.NewString(),
		Email:         email,
		FirstName:     first,
		LastName:      last,
		DisplayName:   displayName(first, last, email),
		EmailVerified: verified,
	}
	if err := v.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return v.users.FindByEmail(ctx, email)
		}
		return nil, err
	}
	v.logger.Info("provisioned account from firebase", zap.String("user_id", user.ID), zap.String("firebase_uid", token.UID))
	return user, nil
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
