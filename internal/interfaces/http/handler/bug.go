package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azproxy/backend/internal/domain/workitem"
	"github.com/azproxy/backend/internal/interfaces/http/dto"
	"github.com/azproxy/backend/internal/interfaces/http/middleware"
)

// BugService creates Bug work items in Azure DevOps
type BugService interface {
	Create(ctx context.Context, req *workitem.BugCreateRequest) (json.RawMessage, error)
}

// BugHandler handles bug creation API endpoints
type BugHandler struct {
	BaseHandler
	service BugService
}

// NewBugHandler creates a new BugHandler
func NewBugHandler(service BugService) *BugHandler {
	return &BugHandler{service: service}
}

// Create validates the incoming payload and relays the created work
// item from Azure DevOps.
func (h *BugHandler) Create(c *gin.Context) {
	var req workitem.BugCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorBody{
			Detail: middleware.FieldErrors(err),
		})
		return
	}

	body, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleProxyError(c, "Azure DevOps API error creating bug", err)
		return
	}
	writeUpstreamJSON(c, http.StatusCreated, body)
}
