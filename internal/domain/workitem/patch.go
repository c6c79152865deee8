package workitem

import (
	"fmt"
	"strconv"
)

// Upstream field paths targeted by the bug creation patch document.
const (
	FieldTitle               = "/fields/System.Title"
	FieldAssignedTo          = "/fields/System.AssignedTo"
	FieldReproSteps          = "/fields/Microsoft.VSTS.TCM.ReproSteps"
	FieldEffort              = "/fields/Microsoft.VSTS.Scheduling.Effort"
	FieldPriority            = "/fields/Microsoft.VSTS.Common.Priority"
	FieldSeverity            = "/fields/Microsoft.VSTS.Common.Severity"
	FieldActivity            = "/fields/Microsoft.VSTS.Common.Activity"
	FieldValueArea           = "/fields/Microsoft.VSTS.Common.ValueArea"
	FieldTester              = "/fields/Custom.Tester"
	FieldCliente             = "/fields/Custom.Cliente"
	FieldTipoDeError         = "/fields/Custom.Tipodeerror"
	FieldFechaInicioPlaneada = "/fields/Custom.FechaInicioPlaneada"
	FieldResponsableBug      = "/fields/Custom.ResponsableBug"
	FieldAplicacion          = "/fields/Custom.33ece249-f3ca-4b23-a86a-0c605534caa3"
	FieldTareaAsociada       = "/fields/Custom.Tareaasociada"
	FieldVersionAplicacion   = "/fields/Custom.f82dc49a-eb67-44c3-ac65-de18fee91f0b"
	FieldFuncionalidad       = "/fields/Custom.Funcionalidadquepresentaelerror"

	// RelationsPath appends a relation to the work item's relation list.
	RelationsPath = "/relations/-"
)

// ValueAreaBusiness is the fixed ValueArea written for every bug.
const ValueAreaBusiness = "Business"

// ParentLinkRel is the hierarchy link type pointing at the parent item.
const ParentLinkRel = "System.LinkTypes.Hierarchy-Reverse"

// PatchOperation is a single JSON Patch add-operation in the work-item
// creation document (content type application/json-patch+json).
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// RelationLink is the value of the parent-link patch operation.
type RelationLink struct {
	Rel        string            `json:"rel"`
	URL        string            `json:"url"`
	Attributes map[string]string `json:"attributes"`
}

func add(path string, value any) PatchOperation {
	return PatchOperation{Op: "add", Path: path, Value: value}
}

// BuildBugPatchDocument maps a validated BugCreateRequest to the ordered
// patch document the work-item creation endpoint expects: exactly one
// add-operation per mapped field plus one relation operation linking the
// new bug to its parent user story. The operation list is enumerated
// here rather than built from dynamic JSON so the mapping is fixed at
// compile time.
func BuildBugPatchDocument(req *BugCreateRequest, testerPrincipal, baseURL, organization string) []PatchOperation {
	parentURL := fmt.Sprintf("%s/%s/%s/_apis/wit/workItems/%d",
		baseURL, organization, req.Project, req.UserStoryID)

	return []PatchOperation{
		add(FieldTitle, req.Title),
		add(FieldAssignedTo, req.AssignedTo),
		add(FieldReproSteps, req.ReproSteps),
		add(FieldEffort, req.Effort),
		add(FieldPriority, req.Priority),
		add(FieldSeverity, req.Severity),
		add(FieldActivity, req.Activity),
		add(FieldValueArea, ValueAreaBusiness),
		add(FieldTester, testerPrincipal),
		add(FieldCliente, req.Cliente),
		add(FieldTipoDeError, req.TipoDeError),
		add(FieldFechaInicioPlaneada, req.PlannedStartDateTime()),
		add(FieldResponsableBug, req.ResponsableBug),
		add(FieldAplicacion, req.Aplicacion),
		// The upstream custom field stores the associated task id as text.
		add(FieldTareaAsociada, strconv.Itoa(req.TareaAsociada)),
		add(FieldVersionAplicacion, req.VersionAplicacion),
		add(FieldFuncionalidad, req.Funcionalidad),
		add(RelationsPath, RelationLink{
			Rel: ParentLinkRel,
			URL: parentURL,
			Attributes: map[string]string{
				"comment": "Parent User Story",
			},
		}),
	}
}
