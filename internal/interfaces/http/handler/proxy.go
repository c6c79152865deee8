package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appworkitem "github.com/azproxy/backend/internal/application/workitem"
	"github.com/azproxy/backend/internal/domain/shared"
	"github.com/azproxy/backend/internal/infrastructure/azuredevops"
	"github.com/azproxy/backend/internal/infrastructure/logger"
	"github.com/azproxy/backend/internal/interfaces/http/dto"
)

// writeUpstreamJSON relays an upstream response body verbatim. Bodies
// that are not valid JSON are wrapped as {"raw_text": "..."} so the
// response stays machine-readable.
func writeUpstreamJSON(c *gin.Context, status int, body json.RawMessage) {
	if !json.Valid(body) {
		c.JSON(status, dto.RawTextBody{RawText: string(body)})
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

// HandleProxyError maps service errors onto the detail-shaped bodies the
// proxy endpoints expose: 502 for upstream rejections with the Azure
// response embedded, 404 for a missing tester entitlement, 422 for
// domain validation failures, 500 for configuration errors and 502 for
// any other communication failure. gatewayMessage names the operation
// that was talking to Azure DevOps when the upstream rejected it.
func (h *BaseHandler) HandleProxyError(c *gin.Context, gatewayMessage string, err error) {
	var upstreamErr *azuredevops.UpstreamError
	if errors.As(err, &upstreamErr) {
		c.JSON(http.StatusBadGateway, dto.GatewayErrorBody{
			Detail: dto.GatewayErrorDetail{
				Message:       gatewayMessage,
				AzureStatus:   upstreamErr.StatusCode,
				AzureResponse: upstreamErr.JSONBody(),
			},
		})
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case appworkitem.CodeTesterNotFound:
			c.JSON(http.StatusNotFound, dto.DetailErrorBody{Detail: domainErr.Message})
			return
		case shared.CodeInvalidInput:
			c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorBody{
				Detail: []dto.FieldError{{
					Field:   fieldFromMessage(domainErr.Message),
					Message: domainErr.Message,
				}},
			})
			return
		case shared.CodeConfiguration:
			c.JSON(http.StatusInternalServerError, dto.DetailErrorBody{Detail: domainErr.Message})
			return
		}
	}

	// Network-level failures (dial errors, timeouts) surface as gateway
	// errors like upstream rejections do.
	logger.GetGinLogger(c).Error("Azure DevOps request failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, dto.DetailErrorBody{
		Detail: "Error communicating with Azure DevOps: " + err.Error(),
	})
}

// fieldFromMessage derives the offending field from a domain validation
// message, which always leads with the field name.
func fieldFromMessage(message string) string {
	if fields := strings.Fields(message); len(fields) > 0 {
		return fields[0]
	}
	return "body"
}
