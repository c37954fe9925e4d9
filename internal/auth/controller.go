package auth

import (
	"encoding/json"
	"net/http"

	"orderdesk/internal/dto"
	apperrors "orderdesk/internal/errors"

	"go.uber.org/zap"
)

type Controller struct {
	tokens *TokenService
	logger *zap.Logger
}

func NewController(tokens *TokenService, logger *zap.Logger) *Controller {
	return &Controller{
		tokens: tokens,
		logger: logger,
	}
}

// HandleIssueToken exchanges admin credentials for a signed API token.
func (c *Controller) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.Username == "" || req.Password == "" {
		c.writeValidationError(w, "validation failed", apperrors.ValidationDetail{
			Field:   "username",
			Message: "username and password are required",
		})
		return
	}

	user, err := c.tokens.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if _, ok := apperrors.IsUnauthorizedError(err); ok {
			c.writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":   "UNAUTHORIZED",
				"message": "invalid credentials",
			})
			return
		}
		c.logger.Error("authenticating admin user", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	token, expiresAt, err := c.tokens.IssueToken(user)
	if err != nil {
		c.logger.Error("issuing token", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, dto.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
