package main

import (
	"flag"
	"log"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v2"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v2"

	"github.com/glaciergfx/vkcontext"
)

var (
	vertPath = flag.String("vert", "shaders/vert.spv", "path to the vertex shader SPIR-V")
	fragPath = flag.String("frag", "shaders/frag.spv", "path to the fragment shader SPIR-V")
	validate = flag.Bool("validate", true, "enable the Khronos validation layer")
)

// sdlWindow adapts an SDL window to the context's windowing collaborator.
type sdlWindow struct {
	*sdl.Window
}

func (w sdlWindow) CreateSurface(instance core1_0.Instance, surfaceExtension khr_surface.Extension) (khr_surface.Surface, error) {
	return vkng_sdl2.CreateSurface(instance, surfaceExtension, w.Window)
}

func (w sdlWindow) DrawableSize() (int, int) {
	width, height := w.Window.VulkanGetDrawableSize()
	return int(width), int(height)
}

func run() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "sdl init")
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("Triangle", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, 800, 600, sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	defer window.Destroy()

	loader, err := core.CreateLoaderFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return errors.Wrap(err, "create loader")
	}

	vertShader, err := os.ReadFile(*vertPath)
	if err != nil {
		return errors.Wrapf(err, "read vertex shader %s", *vertPath)
	}
	fragShader, err := os.ReadFile(*fragPath)
	if err != nil {
		return errors.Wrapf(err, "read fragment shader %s", *fragPath)
	}

	ctx, err := vkcontext.NewContext(loader, sdlWindow{window}, vkcontext.Config{
		AppName:            "Triangle",
		EnableDiagnostics:  *validate,
		InstanceExtensions: window.VulkanGetInstanceExtensions(),
	})
	if err != nil {
		return err
	}
	defer ctx.Destroy()

	err = ctx.Prepare(vertShader, fragShader)
	if err != nil {
		return err
	}

	err = mainLoop(ctx, window)
	if err != nil {
		return err
	}

	return ctx.WaitIdle()
}

func mainLoop(ctx *vkcontext.Context, window *sdl.Window) error {
	rendering := true
	frames := 0
	windowStart := hrtime.Now()

appLoop:
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				break appLoop
			case *sdl.KeyboardEvent:
				if e.Keysym.Sym == sdl.K_ESCAPE && e.State == sdl.PRESSED {
					break appLoop
				}
			case *sdl.WindowEvent:
				switch e.Event {
				case sdl.WINDOWEVENT_MINIMIZED:
					rendering = false
				case sdl.WINDOWEVENT_RESTORED:
					rendering = true
				case sdl.WINDOWEVENT_SIZE_CHANGED:
					w, h := window.GetSize()
					if w > 0 && h > 0 {
						rendering = true
						ctx.NotifyFramebufferResized()
					} else {
						rendering = false
					}
				}
			}
		}

		if !rendering {
			continue
		}

		err := ctx.DrawFrame()
		if err != nil {
			return err
		}

		frames++
		if elapsed := (hrtime.Now() - windowStart).Seconds(); elapsed >= 2 {
			log.Printf("%.1f fps", float64(frames)/elapsed)
			frames = 0
			windowStart = hrtime.Now()
		}
	}

	return nil
}

func main() {
	flag.Parse()

	err := run()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
}
