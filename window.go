package vkcontext

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
)

// Window is the windowing collaborator. The context never creates windows or
// polls input; it only needs a surface bound to the instance and the current
// framebuffer size in pixels when the surface reports an undefined extent.
type Window interface {
	// CreateSurface binds a presentation surface to the instance.
	CreateSurface(instance core1_0.Instance, surfaceExtension khr_surface.Extension) (khr_surface.Surface, error)

	// DrawableSize returns the framebuffer size in pixels. It may differ
	// from the window size on high-DPI displays.
	DrawableSize() (width, height int)
}
