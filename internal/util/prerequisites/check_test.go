package prerequisites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFindsExistingTool(t *testing.T) {
	// sh is present on every platform we support.
	results := Check([]Tool{{Name: "sh", Required: true}})

	require.Len(t, results.Results, 1)
	assert.True(t, results.Results[0].Found)
	assert.NotEmpty(t, results.Results[0].Path)
	assert.False(t, results.HasErrors())
	assert.NoError(t, results.Error())
}

func TestCheckReportsMissingRequiredTool(t *testing.T) {
	missing := Tool{
		Name:       "definitely-not-a-real-binary-xyz",
		Required:   true,
		InstallURL: "https://example.com",
	}

	results := Check([]Tool{missing})

	assert.True(t, results.HasErrors())
	err := results.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing.Name)
	assert.Contains(t, err.Error(), missing.InstallURL)
}

func TestCheckToleratesMissingOptionalTool(t *testing.T) {
	results := Check([]Tool{{Name: "definitely-not-a-real-binary-xyz", Required: false}})

	assert.False(t, results.HasErrors())
	assert.NoError(t, results.Error())
	assert.Len(t, results.Missing, 1)
}

func TestDefaultToolsRequireIncus(t *testing.T) {
	tools := DefaultTools()

	require.Len(t, tools, 1)
	assert.Equal(t, "incus", tools[0].Name)
	assert.True(t, tools[0].Required)
}
