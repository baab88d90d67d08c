package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/justsurfingit/job-application-tracker/internal/auth"
	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/models"
	"github.com/justsurfingit/job-application-tracker/internal/services"
)

// ApplicationService is what the handlers need from the service layer. Tests
// swap in a mock.
type ApplicationService interface {
	Create(ctx context.Context, ownerID string, req *dtos.ApplicationCreateRequest) (*models.Application, error)
	List(ctx context.Context, ownerID string) ([]models.Application, error)
	Get(ctx context.Context, id, ownerID string) (*models.Application, error)
	Update(ctx context.Context, id, ownerID string, req *dtos.ApplicationUpdateRequest) (*models.Application, error)
	Delete(ctx context.Context, id, ownerID string) error
	Search(ctx context.Context, ownerID, query string) ([]models.Application, error)
	Stats(ctx context.Context, ownerID string) (*dtos.StatsResponse, error)
}

type ApplicationHandler struct {
	Apps ApplicationService
}

// NewApplicationHandler creates the handler with dependencies
func NewApplicationHandler(apps ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Apps: apps}
}

// owner pulls the verified subject the auth middleware stored. Requests that
// somehow reach a handler without one are rejected, not guessed at.
func owner(c *gin.Context) (string, bool) {
	sub, ok := auth.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "no authenticated caller on this request",
		})
	}
	return sub, ok
}

// CreateApplication is the POST /applications endpoint
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	var req dtos.ApplicationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "ValidationFailed",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	app, err := h.Apps.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ListApplications is the GET /applications endpoint
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	apps, err := h.Apps.List(c.Request.Context(), ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// GetApplication is the GET /applications/:id endpoint
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	app, err := h.Apps.Get(c.Request.Context(), c.Param("id"), ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// UpdateApplication is the PUT /applications/:id endpoint
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	var req dtos.ApplicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "ValidationFailed",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	app, err := h.Apps.Update(c.Request.Context(), c.Param("id"), ownerID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// DeleteApplication is the DELETE /applications/:id endpoint
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	if err := h.Apps.Delete(c.Request.Context(), c.Param("id"), ownerID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStats is the GET /applications/stats endpoint
func (h *ApplicationHandler) GetStats(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	stats, err := h.Apps.Stats(c.Request.Context(), ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SearchApplications is the GET /applications/search endpoint
func (h *ApplicationHandler) SearchApplications(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "ValidationFailed",
			"message": "query parameter 'q' is required",
		})
		return
	}

	apps, err := h.Apps.Search(c.Request.Context(), ownerID, query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// fail maps service errors onto the API error envelope.
func (h *ApplicationHandler) fail(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "ValidationFailed",
			"message": "one or more fields failed validation",
			"details": verr.Fields,
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "NotFound",
			"message": "application not found",
		})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("record store request failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "UpstreamFailure",
			"message": "the record store could not be reached",
		})
	}
}
