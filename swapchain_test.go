package vkcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
)

func TestChooseSurfaceFormat(t *testing.T) {
	preferred := khr_surface.SurfaceFormat{
		Format:     core1_0.FormatB8G8R8A8SRGB,
		ColorSpace: khr_surface.ColorSpaceSRGBNonlinear,
	}
	unorm := khr_surface.SurfaceFormat{
		Format:     core1_0.FormatR8G8B8A8UnsignedNormalized,
		ColorSpace: khr_surface.ColorSpaceSRGBNonlinear,
	}

	// The preferred format wins regardless of position.
	assert.Equal(t, preferred, chooseSurfaceFormat([]khr_surface.SurfaceFormat{unorm, preferred}))
	assert.Equal(t, preferred, chooseSurfaceFormat([]khr_surface.SurfaceFormat{preferred, unorm}))

	// Without it, the surface's first listing is taken as-is.
	assert.Equal(t, unorm, chooseSurfaceFormat([]khr_surface.SurfaceFormat{unorm}))
}

func TestChoosePresentMode(t *testing.T) {
	assert.Equal(t, khr_surface.PresentModeMailbox,
		choosePresentMode([]khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeMailbox}))
	assert.Equal(t, khr_surface.PresentModeFIFO,
		choosePresentMode([]khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeImmediate}))
	assert.Equal(t, khr_surface.PresentModeFIFO,
		choosePresentMode(nil))
}

func TestChooseExtentDefined(t *testing.T) {
	capabilities := &khr_surface.SurfaceCapabilities{
		CurrentExtent:  core1_0.Extent2D{Width: 1280, Height: 720},
		MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
	}

	// A defined current extent is authoritative; the framebuffer size is
	// ignored.
	extent := chooseExtent(capabilities, 800, 600)
	assert.Equal(t, core1_0.Extent2D{Width: 1280, Height: 720}, extent)
}

func TestChooseExtentUndefinedClampsPerAxis(t *testing.T) {
	capabilities := &khr_surface.SurfaceCapabilities{
		CurrentExtent:  core1_0.Extent2D{Width: -1, Height: -1},
		MinImageExtent: core1_0.Extent2D{Width: 200, Height: 200},
		MaxImageExtent: core1_0.Extent2D{Width: 1000, Height: 1000},
	}

	tests := []struct {
		name     string
		fbWidth  int
		fbHeight int
		want     core1_0.Extent2D
	}{
		{"within range", 800, 600, core1_0.Extent2D{Width: 800, Height: 600}},
		{"both below min", 100, 50, core1_0.Extent2D{Width: 200, Height: 200}},
		{"both above max", 5000, 3000, core1_0.Extent2D{Width: 1000, Height: 1000}},
		{"width low, height high", 100, 3000, core1_0.Extent2D{Width: 200, Height: 1000}},
		{"width high, height low", 5000, 100, core1_0.Extent2D{Width: 1000, Height: 200}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, chooseExtent(capabilities, test.fbWidth, test.fbHeight))
		})
	}
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		name string
		min  int
		max  int
		want int
	}{
		{"one above minimum", 2, 8, 3},
		{"clamped by maximum", 2, 2, 2},
		{"zero max is unbounded", 3, 0, 4},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			capabilities := &khr_surface.SurfaceCapabilities{
				MinImageCount: test.min,
				MaxImageCount: test.max,
			}
			assert.Equal(t, test.want, chooseImageCount(capabilities))
		})
	}
}

func TestResolveSwapchainConfig(t *testing.T) {
	support := SwapchainSupport{
		Capabilities: &khr_surface.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  4,
			CurrentExtent:  core1_0.Extent2D{Width: 800, Height: 600},
			MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
		},
		Formats: []khr_surface.SurfaceFormat{
			{Format: core1_0.FormatR8G8B8A8UnsignedNormalized, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
			{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
		},
		PresentModes: []khr_surface.PresentMode{
			khr_surface.PresentModeFIFO,
			khr_surface.PresentModeMailbox,
		},
	}

	config := resolveSwapchainConfig(support, 800, 600)
	assert.Equal(t, core1_0.FormatB8G8R8A8SRGB, config.surfaceFormat.Format)
	assert.Equal(t, khr_surface.ColorSpaceSRGBNonlinear, config.surfaceFormat.ColorSpace)
	assert.Equal(t, khr_surface.PresentModeMailbox, config.presentMode)
	assert.Equal(t, core1_0.Extent2D{Width: 800, Height: 600}, config.extent)
	assert.Equal(t, 3, config.imageCount)

	// Resolution is pure; the same snapshot resolves the same way again.
	assert.Equal(t, config, resolveSwapchainConfig(support, 800, 600))
}

func TestResolveSwapchainConfigFIFOOnly(t *testing.T) {
	support := SwapchainSupport{
		Capabilities: &khr_surface.SurfaceCapabilities{
			MinImageCount: 2,
			CurrentExtent: core1_0.Extent2D{Width: 640, Height: 480},
		},
		Formats: []khr_surface.SurfaceFormat{
			{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
		},
		PresentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO},
	}

	config := resolveSwapchainConfig(support, 640, 480)
	assert.Equal(t, khr_surface.PresentModeFIFO, config.presentMode)
}
