package vkcontext

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
)

// QueueFamilyIndices maps each capability role to a queue family. A role is
// nil until resolved; roles may share a family.
type QueueFamilyIndices struct {
	Graphics *int
	Present  *int
	Transfer *int
}

// IsComplete reports whether every required role has resolved.
func (i QueueFamilyIndices) IsComplete() bool {
	return i.Graphics != nil && i.Present != nil && i.Transfer != nil
}

// uniqueFamilies returns the distinct family indices across all roles, in
// role order (graphics, present, transfer).
func (i QueueFamilyIndices) uniqueFamilies() []int {
	var families []int
	for _, role := range []*int{i.Graphics, i.Present, i.Transfer} {
		seen := false
		for _, f := range families {
			if f == *role {
				seen = true
				break
			}
		}
		if !seen {
			families = append(families, *role)
		}
	}
	return families
}

// SwapchainSupport is a snapshot of what the device/surface pairing can do.
// It is queried fresh before every swapchain creation; support is a property
// of the pairing, not of the device alone.
type SwapchainSupport struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

// Adequate reports whether the pairing offers at least one format and one
// present mode.
func (s SwapchainSupport) Adequate() bool {
	return len(s.Formats) > 0 && len(s.PresentModes) > 0
}

// resolveQueueFamilies scans the family list in order and assigns the first
// matching family to each role. The scan stops as soon as all roles have
// resolved, so the result is stable for a fixed family list and support
// mapping.
func resolveQueueFamilies(families []*core1_0.QueueFamilyProperties, presentSupport func(familyIndex int) (bool, error)) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{}

	for familyIndex, family := range families {
		if indices.Graphics == nil && (family.QueueFlags&core1_0.QueueGraphics) != 0 {
			index := familyIndex
			indices.Graphics = &index
		}

		if indices.Transfer == nil && (family.QueueFlags&core1_0.QueueTransfer) != 0 {
			index := familyIndex
			indices.Transfer = &index
		}

		if indices.Present == nil {
			supported, err := presentSupport(familyIndex)
			if err != nil {
				return indices, err
			}
			if supported {
				index := familyIndex
				indices.Present = &index
			}
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}

func (c *Context) findQueueFamilies(device core1_0.PhysicalDevice) (QueueFamilyIndices, error) {
	return resolveQueueFamilies(device.QueueFamilyProperties(), func(familyIndex int) (bool, error) {
		supported, _, err := c.surface.PhysicalDeviceSurfaceSupport(device, familyIndex)
		return supported, err
	})
}

func (c *Context) querySwapchainSupport(device core1_0.PhysicalDevice) (SwapchainSupport, error) {
	var support SwapchainSupport
	var err error

	support.Capabilities, _, err = c.surface.PhysicalDeviceSurfaceCapabilities(device)
	if err != nil {
		return support, err
	}

	support.Formats, _, err = c.surface.PhysicalDeviceSurfaceFormats(device)
	if err != nil {
		return support, err
	}

	support.PresentModes, _, err = c.surface.PhysicalDeviceSurfacePresentModes(device)
	return support, err
}

func (c *Context) deviceExtensionsSupported(device core1_0.PhysicalDevice) bool {
	available, _, err := device.EnumerateDeviceExtensionProperties()
	if err != nil {
		return false
	}

	for _, name := range c.config.DeviceExtensions {
		if _, ok := available[name]; !ok {
			return false
		}
	}
	return true
}

// isDeviceSuitable requires complete queue-family indices, the swapchain
// device extension, and a non-empty format and present-mode set.
func (c *Context) isDeviceSuitable(device core1_0.PhysicalDevice) bool {
	indices, err := c.findQueueFamilies(device)
	if err != nil || !indices.IsComplete() {
		return false
	}

	if !c.deviceExtensionsSupported(device) {
		return false
	}

	support, err := c.querySwapchainSupport(device)
	if err != nil {
		return false
	}
	return support.Adequate()
}

// missingNames returns the entries of required that are absent from the
// available set, preserving order.
func missingNames[T any](required []string, available map[string]T) []string {
	var missing []string
	for _, name := range required {
		if _, ok := available[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
