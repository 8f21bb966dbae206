package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cirqle/cirqle-api/internal/models"
	"github.com/cirqle/cirqle-api/internal/service"
	"github.com/cirqle/cirqle-api/pkg/logger"
	"github.com/cirqle/cirqle-api/pkg/response"
)

const (
	msgMissingFields = "Missing required fields"
	msgInvalidEmail  = "Invalid email address"
	msgSendFailed    = "Failed to send email"
)

type emailNotifier interface {
	SendWelcome(ctx context.Context, email, extension string) models.EmailResult
	SendContact(ctx context.Context, req models.ContactRequest) models.EmailResult
}

// EmailHandler serves the transactional e-mail endpoints used by the landing page.
type EmailHandler struct {
	notifier emailNotifier
	logger   *zap.Logger
}

// NewEmailHandler constructs the handler.
func NewEmailHandler(notifier emailNotifier, logger *zap.Logger) *EmailHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailHandler{notifier: notifier, logger: logger}
}

// Welcome godoc
// @Summary Send the welcome e-mail
// @Tags Email
// @Accept json
// @Produce json
// @Param payload body models.WelcomeEmailRequest true "Recipient and personal link"
// @Success 200 {object} response.Result
// @Failure 400 {object} response.Result
// @Failure 500 {object} response.Result
// @Router /api/email/welcome [post]
func (h *EmailHandler) Welcome(c *gin.Context) {
	var req models.WelcomeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Status(c, http.StatusBadRequest, msgMissingFields)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Extension = strings.TrimSpace(req.Extension)
	if req.Email == "" || req.Extension == "" {
		response.Status(c, http.StatusBadRequest, msgMissingFields)
		return
	}
	if !service.IsEmailShape(req.Email) {
		response.Status(c, http.StatusBadRequest, msgInvalidEmail)
		return
	}

	if res := h.notifier.SendWelcome(c.Request.Context(), req.Email, req.Extension); !res.Success {
		logger.FromContext(c, h.logger).Warn("welcome email failed", zap.String("error", res.Error))
		response.Status(c, http.StatusInternalServerError, msgSendFailed)
		return
	}
	response.Status(c, http.StatusOK, "Welcome email sent successfully")
}

// Contact godoc
// @Summary Forward a contact-form message
// @Tags Email
// @Accept json
// @Produce json
// @Param payload body models.ContactRequest true "Contact form"
// @Success 200 {object} response.Result
// @Failure 400 {object} response.Result
// @Failure 500 {object} response.Result
// @Router /api/email/contact [post]
func (h *EmailHandler) Contact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Status(c, http.StatusBadRequest, msgMissingFields)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || strings.TrimSpace(req.Message) == "" {
		response.Status(c, http.StatusBadRequest, msgMissingFields)
		return
	}
	if !service.IsEmailShape(req.Email) {
		response.Status(c, http.StatusBadRequest, msgInvalidEmail)
		return
	}

	if res := h.notifier.SendContact(c.Request.Context(), req); !res.Success {
		logger.FromContext(c, h.logger).Warn("contact email failed", zap.String("error", res.Error))
		response.Status(c, http.StatusInternalServerError, msgSendFailed)
		return
	}
	response.Status(c, http.StatusOK, "Email sent successfully")
}
