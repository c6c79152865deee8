// Package workitem contains the application services that orchestrate
// Azure DevOps project listing and bug creation.
package workitem

import (
	"context"
	"encoding/json"

	"github.com/azproxy/backend/internal/domain/workitem"
)

// AzureDevOpsGateway abstracts the outbound Azure DevOps REST client so
// services can be tested without network access.
type AzureDevOpsGateway interface {
	// ListProjects returns the organization's project listing verbatim.
	ListProjects(ctx context.Context) (json.RawMessage, error)

	// FindUserPrincipalName resolves a user's sign-in principal by
	// display name. A lookup failure is reported as a miss, not an error.
	FindUserPrincipalName(ctx context.Context, displayName string) (string, bool, error)

	// CreateBug posts the patch document and returns the created
	// work item's representation verbatim.
	CreateBug(ctx context.Context, project string, ops []workitem.PatchOperation) (json.RawMessage, error)

	// Organization returns the organization slug the gateway is bound to.
	Organization() string

	// BaseURL returns the REST endpoint the gateway is bound to.
	BaseURL() string
}
