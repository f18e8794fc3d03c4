package vkcontext

import (
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
)

// Config carries everything the bootstrap needs that the host decides:
// which layers and extensions to request and whether driver diagnostics are
// wired up. Passing it in explicitly (rather than reading package-level
// lists) lets tests and unusual hosts substitute their own capability sets.
type Config struct {
	// AppName is reported to the driver in the instance application info.
	AppName string

	// EnableDiagnostics requests the validation layers and attaches a debug
	// messenger that forwards driver messages to Sink for the lifetime of
	// the instance. Diagnostics are observational only; they never abort
	// the call that triggered them.
	EnableDiagnostics bool

	// InstanceExtensions are the extensions the host's windowing backend
	// needs on the instance, e.g. the surface extensions SDL reports.
	InstanceExtensions []string

	// ValidationLayers defaults to the Khronos validation layer.
	ValidationLayers []string

	// DeviceExtensions defaults to the swapchain extension.
	DeviceExtensions []string

	// Sink receives driver diagnostics when EnableDiagnostics is set.
	// Defaults to a sink that writes to the process log.
	Sink DiagnosticSink
}

func (c Config) withDefaults() Config {
	if c.AppName == "" {
		c.AppName = "vkcontext"
	}
	if len(c.ValidationLayers) == 0 {
		c.ValidationLayers = []string{"VK_LAYER_KHRONOS_validation"}
	}
	if len(c.DeviceExtensions) == 0 {
		c.DeviceExtensions = []string{khr_swapchain.ExtensionName}
	}
	if c.Sink == nil {
		c.Sink = LogSink{}
	}
	return c
}
