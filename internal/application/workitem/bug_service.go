package workitem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/azproxy/backend/internal/domain/shared"
	"github.com/azproxy/backend/internal/domain/workitem"
	"github.com/azproxy/backend/internal/infrastructure/azuredevops"
	"github.com/azproxy/backend/internal/infrastructure/telemetry"
)

// CodeTesterNotFound identifies a failed tester entitlement lookup.
const CodeTesterNotFound = "TESTER_NOT_FOUND"

// NewTesterNotFoundError reports that the configured tester has no
// entitlement in the organization, naming the identity that was
// searched for.
func NewTesterNotFoundError(displayName string) *shared.DomainError {
	return shared.NewDomainError(CodeTesterNotFound,
		fmt.Sprintf("User %q not found in organization entitlements", displayName))
}

// BugServiceImpl creates Bug work items through the Azure DevOps
// gateway. Every bug is attributed to a fixed tester identity resolved
// at creation time via the entitlements API.
type BugServiceImpl struct {
	gateway           AzureDevOpsGateway
	testerDisplayName string
	metrics           *telemetry.UpstreamMetrics
}

// NewBugService creates a new BugServiceImpl
func NewBugService(gateway AzureDevOpsGateway, testerDisplayName string, metrics *telemetry.UpstreamMetrics) *BugServiceImpl {
	return &BugServiceImpl{
		gateway:           gateway,
		testerDisplayName: testerDisplayName,
		metrics:           metrics,
	}
}

// Create validates the request, resolves the tester principal and posts
// the work-item patch document. No upstream write happens unless both
// validation and the tester lookup succeed.
func (s *BugServiceImpl) Create(ctx context.Context, req *workitem.BugCreateRequest) (json.RawMessage, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bug", "create",
		telemetry.WithAttribute(telemetry.SpanAttrProject, req.Project),
		telemetry.WithAttribute(telemetry.SpanAttrUserStoryID, req.UserStoryID),
	)
	defer span.End()

	if err := req.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	start := time.Now()
	principal, found, err := s.gateway.FindUserPrincipalName(ctx, s.testerDisplayName)
	s.metrics.RecordRequest(ctx, "find_tester", upstreamStatus(err), time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !found {
		err := NewTesterNotFoundError(s.testerDisplayName)
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrTester, principal)

	ops := workitem.BuildBugPatchDocument(req, principal, s.gateway.BaseURL(), s.gateway.Organization())

	start = time.Now()
	body, err := s.gateway.CreateBug(ctx, req.Project, ops)
	s.metrics.RecordRequest(ctx, "create_bug", upstreamStatus(err), time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if id, ok := workItemID(body); ok {
		telemetry.SetAttribute(span, telemetry.SpanAttrWorkItemID, id)
	}
	telemetry.SetOK(span)
	return body, nil
}

// workItemID extracts the created work item's id for span attribution.
func workItemID(body json.RawMessage) (int64, bool) {
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.ID == 0 {
		return 0, false
	}
	return created.ID, true
}

// upstreamStatus derives the metric status label from a gateway result.
func upstreamStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var upstreamErr *azuredevops.UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.StatusCode
	}
	return 0
}
