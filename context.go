package vkcontext

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v2/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v2/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
)

// Context owns the rendering context: instance, surface, device, queues, the
// swapchain and its dependents, and the per-frame synchronization state. All
// methods must be called from the single thread driving the host event loop.
type Context struct {
	loader core.Loader
	window Window
	config Config
	sink   DiagnosticSink

	instance       core1_0.Instance
	debugMessenger ext_debug_utils.DebugUtilsMessenger
	surface        khr_surface.Surface

	physicalDevice core1_0.PhysicalDevice
	device         core1_0.Device

	queueIndices  QueueFamilyIndices
	graphicsQueue core1_0.Queue
	presentQueue  core1_0.Queue
	transferQueue core1_0.Queue

	swapchainExtension khr_swapchain.Extension
	swapchain          khr_swapchain.Swapchain
	swapchainImages    []core1_0.Image
	swapchainFormat    core1_0.Format
	swapchainExtent    core1_0.Extent2D
	swapchainViews     []core1_0.ImageView
	framebuffers       []core1_0.Framebuffer

	renderPass       core1_0.RenderPass
	pipelineLayout   core1_0.PipelineLayout
	graphicsPipeline core1_0.Pipeline

	commandPool  core1_0.CommandPool
	transferPool core1_0.CommandPool

	vertexBuffer       core1_0.Buffer
	vertexBufferMemory core1_0.DeviceMemory

	frames       [MaxFramesInFlight]frameSlot
	currentFrame int

	framebufferDirty bool
}

// NewContext bootstraps the context through logical-device creation:
// instance, optional debug messenger, surface, physical-device selection,
// logical device, and queue retrieval. Call Prepare afterward to build the
// render resources. On error the partially built context is torn down.
func NewContext(loader core.Loader, window Window, config Config) (*Context, error) {
	c := &Context{
		loader: loader,
		window: window,
		config: config.withDefaults(),
	}
	c.sink = c.config.Sink

	err := c.createInstance()
	if err != nil {
		return nil, err
	}

	err = c.setupDebugMessenger()
	if err != nil {
		c.Destroy()
		return nil, err
	}

	err = c.createSurface()
	if err != nil {
		c.Destroy()
		return nil, err
	}

	err = c.pickPhysicalDevice()
	if err != nil {
		c.Destroy()
		return nil, err
	}

	err = c.createLogicalDevice()
	if err != nil {
		c.Destroy()
		return nil, err
	}

	return c, nil
}

// Prepare builds everything the frame executor needs: swapchain, image
// views, render pass, graphics pipeline, framebuffers, command pools, the
// device-local vertex buffer, and the frame slots. The shader arguments are
// opaque SPIR-V blobs; only module creation validates them.
func (c *Context) Prepare(vertShaderCode, fragShaderCode []byte) error {
	err := c.createSwapchain()
	if err != nil {
		return err
	}

	err = c.createImageViews()
	if err != nil {
		return err
	}

	err = c.createRenderPass()
	if err != nil {
		return err
	}

	err = c.createGraphicsPipeline(vertShaderCode, fragShaderCode)
	if err != nil {
		return err
	}

	err = c.createFramebuffers()
	if err != nil {
		return err
	}

	err = c.createCommandPools()
	if err != nil {
		return err
	}

	err = c.createVertexBuffer()
	if err != nil {
		return err
	}

	return c.createFrameSlots()
}

func (c *Context) createInstance() error {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    c.config.AppName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	extensions, _, err := c.loader.AvailableExtensions()
	if err != nil {
		return err
	}

	if absent := missingNames(c.config.InstanceExtensions, extensions); len(absent) > 0 {
		return capabilityAbsentf("createInstance: required instance extensions unavailable: %v", absent)
	}
	instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, c.config.InstanceExtensions...)

	if c.config.EnableDiagnostics {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext_debug_utils.ExtensionName)
	}

	// Necessary to run on top of MoltenVK and other portability drivers.
	_, enumerationSupported := extensions[khr_portability_enumeration.ExtensionName]
	if enumerationSupported {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if c.config.EnableDiagnostics {
		layers, _, err := c.loader.AvailableLayers()
		if err != nil {
			return err
		}

		if absent := missingNames(c.config.ValidationLayers, layers); len(absent) > 0 {
			return capabilityAbsentf("createInstance: validation layers unavailable: %v - install the LunarG Vulkan SDK", absent)
		}
		instanceOptions.EnabledLayerNames = append(instanceOptions.EnabledLayerNames, c.config.ValidationLayers...)

		// Covers vkCreateInstance and vkDestroyInstance, which the
		// messenger object itself cannot observe.
		instanceOptions.Next = c.debugMessengerCreateInfo()
	}

	c.instance, _, err = c.loader.CreateInstance(nil, instanceOptions)
	if err != nil {
		return createFailed(err, "createInstance")
	}

	return nil
}

func (c *Context) setupDebugMessenger() error {
	if !c.config.EnableDiagnostics {
		return nil
	}

	var err error
	debugLoader := ext_debug_utils.CreateExtensionFromInstance(c.instance)
	c.debugMessenger, _, err = debugLoader.CreateDebugUtilsMessenger(c.instance, nil, c.debugMessengerCreateInfo())
	if err != nil {
		return createFailed(err, "setupDebugMessenger")
	}

	return nil
}

func (c *Context) createSurface() error {
	surfaceLoader := khr_surface.CreateExtensionFromInstance(c.instance)

	surface, err := c.window.CreateSurface(c.instance, surfaceLoader)
	if err != nil {
		return createFailed(err, "createSurface")
	}

	c.surface = surface
	return nil
}

// pickPhysicalDevice selects the first suitable device. First-fit is the
// documented policy; scoring devices would change which GPU multi-GPU hosts
// end up on.
func (c *Context) pickPhysicalDevice() error {
	physicalDevices, _, err := c.instance.EnumeratePhysicalDevices()
	if err != nil {
		return err
	}
	if len(physicalDevices) == 0 {
		return capabilityAbsentf("pickPhysicalDevice: no GPU with Vulkan support")
	}

	for _, device := range physicalDevices {
		if c.isDeviceSuitable(device) {
			c.physicalDevice = device
			break
		}
	}

	if c.physicalDevice == nil {
		return capabilityAbsentf("pickPhysicalDevice: no suitable GPU found")
	}

	return nil
}

func (c *Context) createLogicalDevice() error {
	indices, err := c.findQueueFamilies(c.physicalDevice)
	if err != nil {
		return err
	}
	if !indices.IsComplete() {
		return capabilityAbsentf("createLogicalDevice: device queue families incomplete")
	}

	// One queue per distinct family; a family serving several roles gets a
	// single shared queue.
	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, family := range indices.uniqueFamilies() {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: family,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	var extensionNames []string
	extensionNames = append(extensionNames, c.config.DeviceExtensions...)

	extensions, _, err := c.physicalDevice.EnumerateDeviceExtensionProperties()
	if err != nil {
		return err
	}

	_, supported := extensions[khr_portability_subset.ExtensionName]
	if supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	c.device, _, err = c.physicalDevice.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return createFailed(err, "createLogicalDevice")
	}

	c.queueIndices = indices
	c.graphicsQueue = c.device.GetQueue(*indices.Graphics, 0)
	c.presentQueue = c.device.GetQueue(*indices.Present, 0)
	c.transferQueue = c.device.GetQueue(*indices.Transfer, 0)
	return nil
}

// NotifyFramebufferResized flags the swapchain for recreation on the next
// present. Hosts call this from their resize notification.
func (c *Context) NotifyFramebufferResized() {
	c.framebufferDirty = true
}

// WaitIdle blocks until the device has drained all submitted work. Hosts
// call this before teardown.
func (c *Context) WaitIdle() error {
	if c.device == nil {
		return nil
	}
	_, err := c.device.WaitIdle()
	return errors.Wrap(err, "waitIdle")
}

// Destroy releases every owned resource in strict reverse-dependency order.
// Safe to call on a partially constructed context; each handle is released
// at most once.
func (c *Context) Destroy() {
	c.destroyFrameSlots()

	if c.transferPool != nil {
		c.transferPool.Destroy(nil)
		c.transferPool = nil
	}

	if c.commandPool != nil {
		c.commandPool.Destroy(nil)
		c.commandPool = nil
	}

	if c.vertexBuffer != nil {
		c.vertexBuffer.Destroy(nil)
		c.vertexBuffer = nil
	}

	if c.vertexBufferMemory != nil {
		c.vertexBufferMemory.Free(nil)
		c.vertexBufferMemory = nil
	}

	c.cleanupSwapchain()

	if c.graphicsPipeline != nil {
		c.graphicsPipeline.Destroy(nil)
		c.graphicsPipeline = nil
	}

	if c.pipelineLayout != nil {
		c.pipelineLayout.Destroy(nil)
		c.pipelineLayout = nil
	}

	if c.renderPass != nil {
		c.renderPass.Destroy(nil)
		c.renderPass = nil
	}

	if c.device != nil {
		c.device.Destroy(nil)
		c.device = nil
	}

	if c.debugMessenger != nil {
		c.debugMessenger.Destroy(nil)
		c.debugMessenger = nil
	}

	if c.surface != nil {
		c.surface.Destroy(nil)
		c.surface = nil
	}

	if c.instance != nil {
		c.instance.Destroy(nil)
		c.instance = nil
	}
}
