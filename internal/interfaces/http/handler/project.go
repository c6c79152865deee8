package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProjectService lists the organization's Azure DevOps projects
type ProjectService interface {
	List(ctx context.Context) (json.RawMessage, error)
}

// ProjectHandler handles project listing API endpoints
type ProjectHandler struct {
	BaseHandler
	service ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(service ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// List relays the organization's project listing from Azure DevOps.
func (h *ProjectHandler) List(c *gin.Context) {
	body, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleProxyError(c, "Azure DevOps API error fetching projects", err)
		return
	}
	writeUpstreamJSON(c, http.StatusOK, body)
}
