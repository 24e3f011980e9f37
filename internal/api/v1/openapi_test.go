package apiv1

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIDocumentIsValid(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile("../../../public/docs/v1/openapi.yml")
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	for _, path := range []string{
		"/ping",
		"/plans",
		"/plan",
		"/plan/can-create",
		"/plan/features/{name}",
		"/plan/upgrade",
		"/plan/cancel",
		"/tasks",
		"/ai/description",
		"/ai/subtasks",
		"/ai/routine",
		"/statistics",
	} {
		assert.NotNil(t, doc.Paths.Find(path), "missing path %s", path)
	}

	denial := doc.Components.Schemas["DenialResponse"]
	require.NotNil(t, denial)
	codes := denial.Value.Properties["code"].Value.Enum
	assert.Contains(t, codes, "PLAN_LIMIT_REACHED")
	assert.Contains(t, codes, "AI_LIMIT_REACHED")
	assert.Contains(t, codes, "AI_NOT_AVAILABLE")
	assert.Contains(t, codes, "FEATURE_NOT_AVAILABLE")
}
