package vkcontext

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	capability := capabilityAbsentf("no queue family supports %s", "presentation")
	assert.True(t, IsCapabilityAbsent(capability))
	assert.False(t, IsCreateFailed(capability))
	assert.False(t, IsPresentFatal(capability))

	cause := errors.New("VK_ERROR_OUT_OF_DEVICE_MEMORY")
	create := createFailed(cause, "createSwapchain")
	assert.True(t, IsCreateFailed(create))
	assert.ErrorIs(t, create, cause)
	assert.Contains(t, create.Error(), "createSwapchain")

	fatal := presentFatal(nil, "queuePresent")
	assert.True(t, IsPresentFatal(fatal))
	assert.Contains(t, fatal.Error(), "queuePresent")

	// The classes survive further wrapping.
	wrapped := errors.Wrap(create, "preparing context")
	assert.True(t, IsCreateFailed(wrapped))
}
