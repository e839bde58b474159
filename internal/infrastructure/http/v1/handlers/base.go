package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orderdesk/internal/core/apperror"
	"orderdesk/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, bindError("invalid request body", err))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, bindError("invalid query parameters", err))
		return false
	}
	return true
}

func bindError(message string, err error) *apperror.AppError {
	appErr := apperror.NewValidation(message)
	if fields := dto.ValidationDetails(err); fields != nil {
		return appErr.WithDetail("fields", fields)
	}
	return appErr.WithDetail("error", err.Error())
}

// Error registers err on the gin context and aborts. The response body is
// written by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
