package vkcontext

import (
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
)

// MaxFramesInFlight bounds how many frames may be recorded and submitted
// before the CPU blocks on the oldest one's fence.
const MaxFramesInFlight = 2

// frameSlot is the reusable per-frame record: one command buffer, the two
// GPU-side ordering semaphores, and the CPU-waitable completion fence.
type frameSlot struct {
	commandBuffer  core1_0.CommandBuffer
	imageAvailable core1_0.Semaphore
	renderFinished core1_0.Semaphore
	inFlight       core1_0.Fence
}

// frameAction classifies an acquire or present result.
type frameAction int

const (
	frameProceed frameAction = iota
	frameRecreate
	frameFatal
)

// classifyAcquire maps an image-acquisition result. Out-of-date abandons the
// frame and rebuilds the swapchain; suboptimal still yields a usable image,
// so the frame proceeds and the present path handles the rebuild.
func classifyAcquire(res common.VkResult) frameAction {
	switch res {
	case khr_swapchain.VKErrorOutOfDate:
		return frameRecreate
	case core1_0.VKSuccess, khr_swapchain.VKSuboptimal:
		return frameProceed
	}
	return frameFatal
}

// classifyPresent maps a presentation result. Suboptimal is a rebuild signal
// here because the frame has already been handed off.
func classifyPresent(res common.VkResult) frameAction {
	switch res {
	case khr_swapchain.VKErrorOutOfDate, khr_swapchain.VKSuboptimal:
		return frameRecreate
	case core1_0.VKSuccess:
		return frameProceed
	}
	return frameFatal
}

func nextFrameIndex(current int) int {
	return (current + 1) % MaxFramesInFlight
}

// createFrameSlots allocates one command buffer per slot and the sync
// objects that gate its reuse. Fences start signaled; there is no previous
// frame to wait on the first time through.
func (c *Context) createFrameSlots() error {
	buffers, _, err := c.device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        c.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: MaxFramesInFlight,
	})
	if err != nil {
		return err
	}

	for i := 0; i < MaxFramesInFlight; i++ {
		imageAvailable, _, err := c.device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return createFailed(err, "createFrameSlots: semaphore")
		}

		renderFinished, _, err := c.device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return createFailed(err, "createFrameSlots: semaphore")
		}

		fence, _, err := c.device.CreateFence(nil, core1_0.FenceCreateInfo{
			Flags: core1_0.FenceCreateSignaled,
		})
		if err != nil {
			return createFailed(err, "createFrameSlots: fence")
		}

		c.frames[i] = frameSlot{
			commandBuffer:  buffers[i],
			imageAvailable: imageAvailable,
			renderFinished: renderFinished,
			inFlight:       fence,
		}
	}

	return nil
}

func (c *Context) destroyFrameSlots() {
	for i := range c.frames {
		slot := &c.frames[i]

		if slot.inFlight != nil {
			slot.inFlight.Destroy(nil)
			slot.inFlight = nil
		}
		if slot.renderFinished != nil {
			slot.renderFinished.Destroy(nil)
			slot.renderFinished = nil
		}
		if slot.imageAvailable != nil {
			slot.imageAvailable.Destroy(nil)
			slot.imageAvailable = nil
		}
		// Command buffers are released with their pool.
		slot.commandBuffer = nil
	}
}

// recordFrame writes the slot's command buffer for the acquired image:
// begin, render pass with the fixed clear color, pipeline and vertex-buffer
// binds, dynamic viewport/scissor at the current extent, one draw, end.
func (c *Context) recordFrame(buffer core1_0.CommandBuffer, imageIndex int) error {
	_, err := buffer.Begin(core1_0.CommandBufferBeginInfo{})
	if err != nil {
		return err
	}

	err = buffer.CmdBeginRenderPass(core1_0.SubpassContentsInline,
		core1_0.RenderPassBeginInfo{
			RenderPass:  c.renderPass,
			Framebuffer: c.framebuffers[imageIndex],
			RenderArea: core1_0.Rect2D{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: c.swapchainExtent,
			},
			ClearValues: []core1_0.ClearValue{
				core1_0.ClearValueFloat{0.2, 0.2, 0.2, 1},
			},
		})
	if err != nil {
		return err
	}

	buffer.CmdBindPipeline(core1_0.PipelineBindPointGraphics, c.graphicsPipeline)
	buffer.CmdBindVertexBuffers(0, []core1_0.Buffer{c.vertexBuffer}, []int{0})

	buffer.CmdSetViewport([]core1_0.Viewport{
		{
			X:        0,
			Y:        0,
			Width:    float32(c.swapchainExtent.Width),
			Height:   float32(c.swapchainExtent.Height),
			MinDepth: 0,
			MaxDepth: 1,
		},
	})
	buffer.CmdSetScissor([]core1_0.Rect2D{
		{
			Offset: core1_0.Offset2D{X: 0, Y: 0},
			Extent: c.swapchainExtent,
		},
	})

	buffer.CmdDraw(len(triangleVertices), 1, 0, 0)
	buffer.CmdEndRenderPass()

	_, err = buffer.End()
	return err
}

// DrawFrame executes one iteration of the per-frame protocol: wait on the
// slot's fence, acquire an image, re-record the slot's command buffer,
// submit, present, advance. A stale surface at acquire abandons the frame
// cleanly: no fence reset, no submission, no slot advance.
func (c *Context) DrawFrame() error {
	slot := &c.frames[c.currentFrame]

	_, err := c.device.WaitForFences(true, common.NoTimeout, []core1_0.Fence{slot.inFlight})
	if err != nil {
		return err
	}

	imageIndex, res, err := c.swapchain.AcquireNextImage(common.NoTimeout, slot.imageAvailable, nil)
	switch classifyAcquire(res) {
	case frameRecreate:
		return c.recreateSwapchain()
	case frameFatal:
		return presentFatal(err, "acquireNextImage")
	}

	_, err = slot.commandBuffer.Reset(0)
	if err != nil {
		return err
	}

	err = c.recordFrame(slot.commandBuffer, imageIndex)
	if err != nil {
		return err
	}

	// The fence is only reset once this frame is certain to submit. An
	// earlier reset would leave the slot unsignaled on a recording failure
	// and the next wait on it would never return.
	_, err = c.device.ResetFences([]core1_0.Fence{slot.inFlight})
	if err != nil {
		return err
	}

	// Only color-attachment output waits for the image; earlier stages
	// (vertex work) may overlap with the presentation engine.
	_, err = c.graphicsQueue.Submit(slot.inFlight, []core1_0.SubmitInfo{
		{
			WaitSemaphores:   []core1_0.Semaphore{slot.imageAvailable},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
			CommandBuffers:   []core1_0.CommandBuffer{slot.commandBuffer},
			SignalSemaphores: []core1_0.Semaphore{slot.renderFinished},
		},
	})
	if err != nil {
		return err
	}

	res, err = c.swapchainExtension.QueuePresent(c.presentQueue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{slot.renderFinished},
		Swapchains:     []khr_swapchain.Swapchain{c.swapchain},
		ImageIndices:   []int{imageIndex},
	})
	switch action := classifyPresent(res); {
	case action == frameFatal:
		return presentFatal(err, "queuePresent")
	case action == frameRecreate || c.framebufferDirty:
		err = c.recreateSwapchain()
		if err != nil {
			return err
		}
	}

	c.currentFrame = nextFrameIndex(c.currentFrame)

	return nil
}
