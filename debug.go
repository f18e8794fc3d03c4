package vkcontext

import (
	"log"

	"github.com/vkngwrapper/extensions/v2/ext_debug_utils"
)

// Severity of a driver diagnostic message.
type Severity int

const (
	SeverityVerbose Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityVerbose:
		return "VERBOSE"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Category of a driver diagnostic message.
type Category int

const (
	CategoryGeneral Category = iota
	CategoryValidation
	CategoryPerformance
)

func (c Category) String() string {
	switch c {
	case CategoryGeneral:
		return "GENERAL"
	case CategoryValidation:
		return "VALIDATION"
	case CategoryPerformance:
		return "PERFORMANCE"
	}
	return "UNKNOWN"
}

// DiagnosticSink receives every driver-level diagnostic event when
// diagnostics are enabled. Implementations must not assume they are called
// from any particular goroutine and must not block.
type DiagnosticSink interface {
	Message(severity Severity, category Category, message string)
}

// LogSink forwards diagnostics to the process-wide log stream.
type LogSink struct{}

func (LogSink) Message(severity Severity, category Category, message string) {
	log.Printf("[%s][%s] validation layer: %s", severity, category, message)
}

func severityFromFlags(flags ext_debug_utils.DebugUtilsMessageSeverityFlags) Severity {
	switch {
	case flags&ext_debug_utils.SeverityError != 0:
		return SeverityError
	case flags&ext_debug_utils.SeverityWarning != 0:
		return SeverityWarning
	case flags&ext_debug_utils.SeverityInfo != 0:
		return SeverityInfo
	}
	return SeverityVerbose
}

func categoryFromFlags(flags ext_debug_utils.DebugUtilsMessageTypeFlags) Category {
	switch {
	case flags&ext_debug_utils.TypeValidation != 0:
		return CategoryValidation
	case flags&ext_debug_utils.TypePerformance != 0:
		return CategoryPerformance
	}
	return CategoryGeneral
}

func (c *Context) debugMessengerCreateInfo() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityVerbose | ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityError,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    c.forwardDiagnostic,
	}
}

// forwardDiagnostic never aborts the triggering call.
func (c *Context) forwardDiagnostic(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	c.sink.Message(severityFromFlags(severity), categoryFromFlags(msgType), data.Message)
	return false
}
