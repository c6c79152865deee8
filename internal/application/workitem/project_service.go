package workitem

import (
	"context"
	"encoding/json"
	"time"

	"github.com/azproxy/backend/internal/infrastructure/telemetry"
)

// ProjectServiceImpl lists the organization's projects through the
// Azure DevOps gateway.
type ProjectServiceImpl struct {
	gateway AzureDevOpsGateway
	metrics *telemetry.UpstreamMetrics
}

// NewProjectService creates a new ProjectServiceImpl
func NewProjectService(gateway AzureDevOpsGateway, metrics *telemetry.UpstreamMetrics) *ProjectServiceImpl {
	return &ProjectServiceImpl{
		gateway: gateway,
		metrics: metrics,
	}
}

// List returns the upstream project listing verbatim.
func (s *ProjectServiceImpl) List(ctx context.Context) (json.RawMessage, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "project", "list")
	defer span.End()

	start := time.Now()
	body, err := s.gateway.ListProjects(ctx)
	s.metrics.RecordRequest(ctx, "list_projects", upstreamStatus(err), time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetOK(span)
	return body, nil
}
