package service

import (
	"context"
	"time"

	"github.com/cirqle/cirqle-api/pkg/database"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

// withTimeout bounds one collaborator call. A non-positive d only adds cancellation.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// storeError classifies a failed store or identity call as transient.
func storeError(err error, message string) error {
	if typed, ok := err.(*appErrors.Error); ok {
		return typed
	}
	return appErrors.Transient(err, message)
}

func isUniqueViolation(err error, constraint ...string) bool {
	return database.IsUniqueViolation(err, constraint...)
}
