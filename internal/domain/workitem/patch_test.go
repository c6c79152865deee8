package workitem

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *BugCreateRequest {
	return &BugCreateRequest{
		Project:             "Phoenix",
		UserStoryID:         4512,
		Title:               "Login fails with expired token",
		AssignedTo:          "dev@example.com",
		ReproSteps:          "<div>1. Log in with an expired token</div>",
		Effort:              3.5,
		Cliente:             "Acme",
		Priority:            2,
		Severity:            "2 - High",
		Activity:            "Development",
		TipoDeError:         "Funcional",
		FechaInicioPlaneada: "2026-03-15",
		ResponsableBug:      "qa@example.com",
		Aplicacion:          "Portal",
		TareaAsociada:       9981,
		VersionAplicacion:   "2.4.1",
		Funcionalidad:       "Autenticacion",
	}
}

func TestBuildBugPatchDocument(t *testing.T) {
	req := validRequest()
	ops := BuildBugPatchDocument(req, "tester@example.com", "https://dev.azure.com", "contoso")

	require.Len(t, ops, 18)
	for _, op := range ops {
		assert.Equal(t, "add", op.Op)
	}

	byPath := make(map[string]PatchOperation, len(ops))
	for _, op := range ops {
		_, dup := byPath[op.Path]
		require.False(t, dup, "duplicate path %s", op.Path)
		byPath[op.Path] = op
	}

	t.Run("maps each field to its upstream path exactly once", func(t *testing.T) {
		assert.Equal(t, "Login fails with expired token", byPath["/fields/System.Title"].Value)
		assert.Equal(t, "dev@example.com", byPath["/fields/System.AssignedTo"].Value)
		assert.Equal(t, "<div>1. Log in with an expired token</div>", byPath["/fields/Microsoft.VSTS.TCM.ReproSteps"].Value)
		assert.Equal(t, 3.5, byPath["/fields/Microsoft.VSTS.Scheduling.Effort"].Value)
		assert.Equal(t, 2, byPath["/fields/Microsoft.VSTS.Common.Priority"].Value)
		assert.Equal(t, "2 - High", byPath["/fields/Microsoft.VSTS.Common.Severity"].Value)
		assert.Equal(t, "Development", byPath["/fields/Microsoft.VSTS.Common.Activity"].Value)
		assert.Equal(t, "Business", byPath["/fields/Microsoft.VSTS.Common.ValueArea"].Value)
		assert.Equal(t, "tester@example.com", byPath["/fields/Custom.Tester"].Value)
		assert.Equal(t, "Acme", byPath["/fields/Custom.Cliente"].Value)
		assert.Equal(t, "Funcional", byPath["/fields/Custom.Tipodeerror"].Value)
		assert.Equal(t, "2026-03-15T00:00:00-05:00", byPath["/fields/Custom.FechaInicioPlaneada"].Value)
		assert.Equal(t, "qa@example.com", byPath["/fields/Custom.ResponsableBug"].Value)
		assert.Equal(t, "Portal", byPath["/fields/Custom.33ece249-f3ca-4b23-a86a-0c605534caa3"].Value)
		assert.Equal(t, "9981", byPath["/fields/Custom.Tareaasociada"].Value)
		assert.Equal(t, "2.4.1", byPath["/fields/Custom.f82dc49a-eb67-44c3-ac65-de18fee91f0b"].Value)
		assert.Equal(t, "Autenticacion", byPath["/fields/Custom.Funcionalidadquepresentaelerror"].Value)
	})

	t.Run("links the parent user story", func(t *testing.T) {
		rel, ok := byPath["/relations/-"]
		require.True(t, ok)

		link, ok := rel.Value.(RelationLink)
		require.True(t, ok)
		assert.Equal(t, "System.LinkTypes.Hierarchy-Reverse", link.Rel)
		assert.Equal(t, "https://dev.azure.com/contoso/Phoenix/_apis/wit/workItems/4512", link.URL)
		assert.Equal(t, "Parent User Story", link.Attributes["comment"])
	})

	t.Run("serializes as a json patch document", func(t *testing.T) {
		raw, err := json.Marshal(ops)
		require.NoError(t, err)

		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))
		require.Len(t, decoded, 18)
		assert.Equal(t, "add", decoded[0]["op"])
		assert.Equal(t, "/fields/System.Title", decoded[0]["path"])
	})
}
