// Package vkcontext is a minimal real-time rendering context on Vulkan: it
// bootstraps an instance, device, and queues, owns a swapchain and a
// fixed-function graphics pipeline, uploads a fixed vertex buffer through a
// staging copy, and drives a two-frames-in-flight render loop that draws a
// triangle each frame.
//
// Window creation, input polling, and shader compilation stay with the host:
// the context consumes a Window collaborator for surface creation and
// framebuffer-size queries, and precompiled SPIR-V blobs for the two shader
// stages. All methods are single-threaded; the only concurrency is between
// this thread and the GPU's queues, ordered by the semaphores and fences the
// frame executor owns.
package vkcontext
