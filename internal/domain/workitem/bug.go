// Package workitem holds the value objects and field mapping for Azure
// DevOps "Bug" work items.
package workitem

import (
	"fmt"
	"time"

	"github.com/azproxy/backend/internal/domain/shared"
)

// PlannedStartDateLayout is the calendar-date format accepted for
// fechaInicioPlaneada.
const PlannedStartDateLayout = "2006-01-02"

// plannedStartTimeSuffix converts the calendar date into the fixed
// local-midnight timestamp the upstream field expects (UTC-5).
const plannedStartTimeSuffix = "T00:00:00-05:00"

// Priority bounds for Azure DevOps work items.
const (
	MinPriority = 1
	MaxPriority = 4
)

// BugCreateRequest is the validated input for creating a Bug work item.
// Field names mirror the upstream integration contract, including the
// Spanish-named custom business fields.
type BugCreateRequest struct {
	Project             string  `json:"project" binding:"required"`
	UserStoryID         int     `json:"userStoryId" binding:"required"`
	Title               string  `json:"title" binding:"required"`
	AssignedTo          string  `json:"assignedTo" binding:"required,email"`
	ReproSteps          string  `json:"reproSteps" binding:"required"`
	Effort              float64 `json:"effort" binding:"required"`
	Cliente             string  `json:"cliente" binding:"required"`
	Priority            int     `json:"priority" binding:"required,gte=1,lte=4"`
	Severity            string  `json:"severity" binding:"required"`
	Activity            string  `json:"activity" binding:"required"`
	TipoDeError         string  `json:"tipoDeError" binding:"required"`
	FechaInicioPlaneada string  `json:"fechaInicioPlaneada" binding:"required"`
	ResponsableBug      string  `json:"responsableBug" binding:"required,email"`
	Aplicacion          string  `json:"aplicacion" binding:"required"`
	TareaAsociada       int     `json:"tareaAsociada" binding:"required"`
	VersionAplicacion   string  `json:"versionAplicacion" binding:"required"`
	Funcionalidad       string  `json:"funcionalidad" binding:"required"`
}

// Validate enforces the domain invariants that must hold before any
// upstream call is made. Binding tags already cover presence and email
// format; this re-checks the bounded priority and the date format so the
// invariants hold regardless of the transport used to build the request.
func (r *BugCreateRequest) Validate() error {
	if r.Priority < MinPriority || r.Priority > MaxPriority {
		return shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("priority must be between %d and %d, got %d", MinPriority, MaxPriority, r.Priority))
	}
	if _, err := time.Parse(PlannedStartDateLayout, r.FechaInicioPlaneada); err != nil {
		return shared.NewDomainError(shared.CodeInvalidInput,
			"fechaInicioPlaneada must use the YYYY-MM-DD format")
	}
	return nil
}

// PlannedStartDateTime returns the planned start date expanded to the
// timestamp value written into Custom.FechaInicioPlaneada.
func (r *BugCreateRequest) PlannedStartDateTime() string {
	return r.FechaInicioPlaneada + plannedStartTimeSuffix
}
