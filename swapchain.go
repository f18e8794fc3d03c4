package vkcontext

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
)

// swapchainConfig is the fully resolved shape of the next swapchain. It is
// computed from a SwapchainSupport snapshot and the host framebuffer size,
// with no driver calls, so identical inputs resolve identically.
type swapchainConfig struct {
	surfaceFormat khr_surface.SurfaceFormat
	presentMode   khr_surface.PresentMode
	extent        core1_0.Extent2D
	imageCount    int
}

func resolveSwapchainConfig(support SwapchainSupport, fbWidth, fbHeight int) swapchainConfig {
	return swapchainConfig{
		surfaceFormat: chooseSurfaceFormat(support.Formats),
		presentMode:   choosePresentMode(support.PresentModes),
		extent:        chooseExtent(support.Capabilities, fbWidth, fbHeight),
		imageCount:    chooseImageCount(support.Capabilities),
	}
}

// chooseSurfaceFormat prefers 8-bit BGRA with the sRGB nonlinear color
// space, falling back to whatever the surface lists first.
func chooseSurfaceFormat(availableFormats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range availableFormats {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}

	return availableFormats[0]
}

// choosePresentMode prefers mailbox (triple buffering, low latency). FIFO is
// the only mode the spec guarantees, so it is the fallback.
func choosePresentMode(availablePresentModes []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, presentMode := range availablePresentModes {
		if presentMode == khr_surface.PresentModeMailbox {
			return presentMode
		}
	}

	return khr_surface.PresentModeFIFO
}

// chooseExtent returns the surface's current extent when defined. Otherwise
// the window manager lets us pick, and the host framebuffer size is clamped
// per-axis into the supported range.
func chooseExtent(capabilities *khr_surface.SurfaceCapabilities, fbWidth, fbHeight int) core1_0.Extent2D {
	if capabilities.CurrentExtent.Width != -1 {
		return capabilities.CurrentExtent
	}

	width := fbWidth
	height := fbHeight

	if width < capabilities.MinImageExtent.Width {
		width = capabilities.MinImageExtent.Width
	}
	if width > capabilities.MaxImageExtent.Width {
		width = capabilities.MaxImageExtent.Width
	}
	if height < capabilities.MinImageExtent.Height {
		height = capabilities.MinImageExtent.Height
	}
	if height > capabilities.MaxImageExtent.Height {
		height = capabilities.MaxImageExtent.Height
	}

	return core1_0.Extent2D{Width: width, Height: height}
}

// chooseImageCount requests one image more than the driver minimum so the
// CPU never stalls waiting for the driver to hand one back. MaxImageCount of
// zero means unbounded.
func chooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

func (c *Context) createSwapchain() error {
	if c.swapchainExtension == nil {
		c.swapchainExtension = khr_swapchain.CreateExtensionFromDevice(c.device)
	}

	support, err := c.querySwapchainSupport(c.physicalDevice)
	if err != nil {
		return err
	}
	if !support.Adequate() {
		return capabilityAbsentf("createSwapchain: surface reports no formats or present modes")
	}

	fbWidth, fbHeight := c.window.DrawableSize()
	config := resolveSwapchainConfig(support, fbWidth, fbHeight)

	// Images only need ownership transfer handling when the graphics and
	// presentation queues live in different families.
	sharingMode := core1_0.SharingModeExclusive
	var queueFamilyIndices []int
	if *c.queueIndices.Graphics != *c.queueIndices.Present {
		sharingMode = core1_0.SharingModeConcurrent
		queueFamilyIndices = append(queueFamilyIndices, *c.queueIndices.Graphics, *c.queueIndices.Present)
	}

	swapchain, _, err := c.swapchainExtension.CreateSwapchain(c.device, nil, khr_swapchain.SwapchainCreateInfo{
		Surface: c.surface,

		MinImageCount:    config.imageCount,
		ImageFormat:      config.surfaceFormat.Format,
		ImageColorSpace:  config.surfaceFormat.ColorSpace,
		ImageExtent:      config.extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: queueFamilyIndices,

		PreTransform:   support.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    config.presentMode,
		Clipped:        true,
	})
	if err != nil {
		return createFailed(err, "createSwapchain")
	}

	c.swapchain = swapchain
	c.swapchainFormat = config.surfaceFormat.Format
	c.swapchainExtent = config.extent

	images, _, err := swapchain.SwapchainImages()
	if err != nil {
		return err
	}
	c.swapchainImages = images

	return nil
}

func (c *Context) createImageViews() error {
	var imageViews []core1_0.ImageView
	for _, image := range c.swapchainImages {
		view, _, err := c.device.CreateImageView(nil, core1_0.ImageViewCreateInfo{
			ViewType: core1_0.ImageViewType2D,
			Image:    image,
			Format:   c.swapchainFormat,
			Components: core1_0.ComponentMapping{
				R: core1_0.ComponentSwizzleIdentity,
				G: core1_0.ComponentSwizzleIdentity,
				B: core1_0.ComponentSwizzleIdentity,
				A: core1_0.ComponentSwizzleIdentity,
			},
			SubresourceRange: core1_0.ImageSubresourceRange{
				AspectMask:     core1_0.ImageAspectColor,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		})
		if err != nil {
			return createFailed(err, "createImageViews")
		}

		imageViews = append(imageViews, view)
	}
	c.swapchainViews = imageViews

	return nil
}

func (c *Context) createFramebuffers() error {
	for _, imageView := range c.swapchainViews {
		framebuffer, _, err := c.device.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
			RenderPass: c.renderPass,
			Layers:     1,
			Attachments: []core1_0.ImageView{
				imageView,
			},
			Width:  c.swapchainExtent.Width,
			Height: c.swapchainExtent.Height,
		})
		if err != nil {
			return createFailed(err, "createFramebuffers")
		}

		c.framebuffers = append(c.framebuffers, framebuffer)
	}

	return nil
}

// cleanupSwapchain destroys framebuffers, then views, then the swapchain.
// The render pass and pipeline are instance-scope and survive.
func (c *Context) cleanupSwapchain() {
	for _, framebuffer := range c.framebuffers {
		framebuffer.Destroy(nil)
	}
	c.framebuffers = nil

	for _, imageView := range c.swapchainViews {
		imageView.Destroy(nil)
	}
	c.swapchainViews = nil

	if c.swapchain != nil {
		c.swapchain.Destroy(nil)
		c.swapchain = nil
	}
	c.swapchainImages = nil
}

// recreateSwapchain rebuilds the swapchain-scope resources after the surface
// went stale or the host flagged a resize. The device must be fully idle
// before the old chain is destroyed; a device-wide wait is the coarse lock
// used here. A zero-sized framebuffer (minimized window) leaves the old
// chain in place.
func (c *Context) recreateSwapchain() error {
	w, h := c.window.DrawableSize()
	if w == 0 || h == 0 {
		return nil
	}

	_, err := c.device.WaitIdle()
	if err != nil {
		return err
	}

	c.cleanupSwapchain()

	err = c.createSwapchain()
	if err != nil {
		return err
	}

	err = c.createImageViews()
	if err != nil {
		return err
	}

	err = c.createFramebuffers()
	if err != nil {
		return err
	}

	c.framebufferDirty = false
	return nil
}
