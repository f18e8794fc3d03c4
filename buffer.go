package vkcontext

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// createCommandPools builds the two pools the context records from: the
// graphics pool, whose buffers are reset and re-recorded every frame, and a
// transient pool on the transfer family for one-shot staging copies.
func (c *Context) createCommandPools() error {
	graphicsPool, _, err := c.device.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: *c.queueIndices.Graphics,
		Flags:            core1_0.CommandPoolCreateResetBuffer,
	})
	if err != nil {
		return createFailed(err, "createCommandPools: graphics pool")
	}
	c.commandPool = graphicsPool

	transferPool, _, err := c.device.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: *c.queueIndices.Transfer,
		Flags:            core1_0.CommandPoolCreateTransient,
	})
	if err != nil {
		return createFailed(err, "createCommandPools: transfer pool")
	}
	c.transferPool = transferPool

	return nil
}

// writeData serializes data into mapped device memory at offset.
func writeData(memory core1_0.DeviceMemory, offset int, data any) error {
	bufferSize := binary.Size(data)

	memoryPtr, _, err := memory.Map(offset, bufferSize, 0)
	if err != nil {
		return err
	}
	defer memory.Unmap()

	dataBuffer := unsafe.Slice((*byte)(memoryPtr), bufferSize)

	buf := &bytes.Buffer{}
	err = binary.Write(buf, common.ByteOrder, data)
	if err != nil {
		return err
	}

	copy(dataBuffer, buf.Bytes())
	return nil
}

// createBuffer allocates a buffer and backing memory matching the requested
// usage and visibility, and binds them.
func (c *Context) createBuffer(size int, usage core1_0.BufferUsageFlags, properties core1_0.MemoryPropertyFlags) (core1_0.Buffer, core1_0.DeviceMemory, error) {
	buffer, _, err := c.device.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return nil, nil, createFailed(err, "createBuffer")
	}

	memRequirements := buffer.MemoryRequirements()
	memoryTypeIndex, err := c.findMemoryType(memRequirements.MemoryTypeBits, properties)
	if err != nil {
		return buffer, nil, err
	}

	memory, _, err := c.device.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  memRequirements.Size,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		return buffer, nil, createFailed(err, "createBuffer: allocate memory")
	}

	_, err = buffer.BindBufferMemory(memory, 0)
	return buffer, memory, err
}

// findMemoryType picks the first device memory type that both matches the
// buffer's requirement mask and carries all the requested property flags.
func (c *Context) findMemoryType(typeFilter uint32, properties core1_0.MemoryPropertyFlags) (int, error) {
	memProperties := c.physicalDevice.MemoryProperties()
	for i, memoryType := range memProperties.MemoryTypes {
		typeBit := uint32(1 << i)

		if (typeFilter&typeBit) != 0 && (memoryType.PropertyFlags&properties) == properties {
			return i, nil
		}
	}

	return 0, capabilityAbsentf("findMemoryType: no memory type matches filter %#x with properties %#x", typeFilter, properties)
}

// copyBuffer records a one-shot copy on the transfer queue and blocks until
// that queue drains. This path runs once at startup, so synchronous blocking
// is the whole synchronization story.
func (c *Context) copyBuffer(srcBuffer core1_0.Buffer, dstBuffer core1_0.Buffer, size int) error {
	buffers, _, err := c.device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        c.transferPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return err
	}
	defer c.device.FreeCommandBuffers(buffers)

	buffer := buffers[0]
	_, err = buffer.Begin(core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err != nil {
		return err
	}

	buffer.CmdCopyBuffer(srcBuffer, dstBuffer, []core1_0.BufferCopy{
		{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      size,
		},
	})

	_, err = buffer.End()
	if err != nil {
		return err
	}

	_, err = c.transferQueue.Submit(nil, []core1_0.SubmitInfo{
		{
			CommandBuffers: []core1_0.CommandBuffer{buffer},
		},
	})
	if err != nil {
		return err
	}

	_, err = c.transferQueue.WaitIdle()
	return err
}

// createVertexBuffer stages the fixed vertex list through a host-visible
// buffer into a device-local one. The staging pair is destroyed as soon as
// the copy has drained; the device-local buffer lives until Destroy.
func (c *Context) createVertexBuffer() error {
	bufferSize := binary.Size(triangleVertices)

	stagingBuffer, stagingBufferMemory, err := c.createBuffer(bufferSize, core1_0.BufferUsageTransferSrc, core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
	if stagingBuffer != nil {
		defer stagingBuffer.Destroy(nil)
	}
	if stagingBufferMemory != nil {
		defer stagingBufferMemory.Free(nil)
	}

	if err != nil {
		return err
	}

	err = writeData(stagingBufferMemory, 0, triangleVertices)
	if err != nil {
		return err
	}

	c.vertexBuffer, c.vertexBufferMemory, err = c.createBuffer(bufferSize, core1_0.BufferUsageTransferDst|core1_0.BufferUsageVertexBuffer, core1_0.MemoryPropertyDeviceLocal)
	if err != nil {
		return err
	}

	return c.copyBuffer(stagingBuffer, c.vertexBuffer, bufferSize)
}
