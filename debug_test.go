package vkcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vkngwrapper/extensions/v2/ext_debug_utils"
)

func TestSeverityFromFlags(t *testing.T) {
	assert.Equal(t, SeverityError, severityFromFlags(ext_debug_utils.SeverityError))
	assert.Equal(t, SeverityWarning, severityFromFlags(ext_debug_utils.SeverityWarning))
	assert.Equal(t, SeverityInfo, severityFromFlags(ext_debug_utils.SeverityInfo))
	assert.Equal(t, SeverityVerbose, severityFromFlags(ext_debug_utils.SeverityVerbose))

	// The highest severity bit wins when the driver sets several.
	assert.Equal(t, SeverityError, severityFromFlags(ext_debug_utils.SeverityError|ext_debug_utils.SeverityInfo))
}

func TestCategoryFromFlags(t *testing.T) {
	assert.Equal(t, CategoryValidation, categoryFromFlags(ext_debug_utils.TypeValidation))
	assert.Equal(t, CategoryPerformance, categoryFromFlags(ext_debug_utils.TypePerformance))
	assert.Equal(t, CategoryGeneral, categoryFromFlags(ext_debug_utils.TypeGeneral))
	assert.Equal(t, CategoryValidation, categoryFromFlags(ext_debug_utils.TypeValidation|ext_debug_utils.TypePerformance))
}

func TestDiagnosticStrings(t *testing.T) {
	assert.Equal(t, "WARNING", SeverityWarning.String())
	assert.Equal(t, "VALIDATION", CategoryValidation.String())
	assert.Equal(t, "UNKNOWN", Severity(99).String())
}
