package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cirqle/cirqle-api/internal/middleware"
	"github.com/cirqle/cirqle-api/internal/models"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

// sessionFromContext returns the session attached by the JWT middleware.
func sessionFromContext(c *gin.Context) (models.AuthSession, bool) {
	session := middleware.Session(c)
	if session == nil {
		return models.AuthSession{}, false
	}
	return *session, true
}

func bindError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}
