package vkcontext

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
)

func supportAt(supported ...int) func(int) (bool, error) {
	return func(familyIndex int) (bool, error) {
		for _, s := range supported {
			if s == familyIndex {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestResolveQueueFamiliesFirstMatchWins(t *testing.T) {
	families := []*core1_0.QueueFamilyProperties{
		{QueueFlags: core1_0.QueueTransfer},
		{QueueFlags: core1_0.QueueGraphics | core1_0.QueueTransfer},
		{QueueFlags: core1_0.QueueGraphics},
	}

	indices, err := resolveQueueFamilies(families, supportAt(2))
	require.NoError(t, err)
	require.True(t, indices.IsComplete())

	assert.Equal(t, 1, *indices.Graphics)
	assert.Equal(t, 2, *indices.Present)
	assert.Equal(t, 0, *indices.Transfer)
}

func TestResolveQueueFamiliesDeterministic(t *testing.T) {
	families := []*core1_0.QueueFamilyProperties{
		{QueueFlags: core1_0.QueueCompute},
		{QueueFlags: core1_0.QueueGraphics | core1_0.QueueTransfer},
		{QueueFlags: core1_0.QueueGraphics | core1_0.QueueTransfer},
	}

	first, err := resolveQueueFamilies(families, supportAt(1, 2))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		indices, err := resolveQueueFamilies(families, supportAt(1, 2))
		require.NoError(t, err)
		assert.Equal(t, *first.Graphics, *indices.Graphics)
		assert.Equal(t, *first.Present, *indices.Present)
		assert.Equal(t, *first.Transfer, *indices.Transfer)
	}
}

func TestResolveQueueFamiliesSingleFamilyServesAllRoles(t *testing.T) {
	families := []*core1_0.QueueFamilyProperties{
		{QueueFlags: core1_0.QueueGraphics | core1_0.QueueTransfer},
	}

	indices, err := resolveQueueFamilies(families, supportAt(0))
	require.NoError(t, err)
	require.True(t, indices.IsComplete())

	assert.Equal(t, 0, *indices.Graphics)
	assert.Equal(t, 0, *indices.Present)
	assert.Equal(t, 0, *indices.Transfer)
	assert.Equal(t, []int{0}, indices.uniqueFamilies())
}

func TestResolveQueueFamiliesStopsWhenComplete(t *testing.T) {
	families := []*core1_0.QueueFamilyProperties{
		{QueueFlags: core1_0.QueueGraphics | core1_0.QueueTransfer},
		{QueueFlags: core1_0.QueueGraphics},
		{QueueFlags: core1_0.QueueGraphics},
	}

	var probed []int
	_, err := resolveQueueFamilies(families, func(familyIndex int) (bool, error) {
		probed = append(probed, familyIndex)
		return true, nil
	})
	require.NoError(t, err)

	// All roles resolve at family 0; no further families are probed.
	assert.Equal(t, []int{0}, probed)
}

func TestResolveQueueFamiliesIncomplete(t *testing.T) {
	families := []*core1_0.QueueFamilyProperties{
		{QueueFlags: core1_0.QueueTransfer},
	}

	indices, err := resolveQueueFamilies(families, supportAt())
	require.NoError(t, err)
	assert.False(t, indices.IsComplete())
	assert.Nil(t, indices.Graphics)
	assert.Nil(t, indices.Present)
}

func TestResolveQueueFamiliesPropagatesProbeError(t *testing.T) {
	families := []*core1_0.QueueFamilyProperties{
		{QueueFlags: core1_0.QueueGraphics | core1_0.QueueTransfer},
	}

	probeErr := errors.New("lost surface")
	_, err := resolveQueueFamilies(families, func(int) (bool, error) {
		return false, probeErr
	})
	assert.ErrorIs(t, err, probeErr)
}

func TestMissingNames(t *testing.T) {
	available := map[string]struct{}{
		"VK_KHR_surface":     {},
		"VK_EXT_debug_utils": {},
		"VK_KHR_xcb_surface": {},
	}

	assert.Nil(t, missingNames([]string{"VK_KHR_surface"}, available))
	assert.Equal(t,
		[]string{"VK_KHR_wayland_surface", "VK_KHR_display"},
		missingNames([]string{"VK_KHR_wayland_surface", "VK_KHR_surface", "VK_KHR_display"}, available))
}
