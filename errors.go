package vkcontext

import (
	"github.com/cockroachdb/errors"
)

// Sentinel markers for the failure taxonomy. Callers can test for them with
// errors.Is regardless of how deeply the cause has been wrapped.
var (
	// ErrCapabilityAbsent marks failures detected before a creation call:
	// a missing layer or extension, no usable device, empty format or
	// present-mode sets.
	ErrCapabilityAbsent = errors.New("required capability absent")

	// ErrCreateFailed marks a creation call rejected by the driver. These
	// are never retried.
	ErrCreateFailed = errors.New("object creation failed")

	// ErrPresentFatal marks an acquire or present result outside the known
	// success/stale/suboptimal set.
	ErrPresentFatal = errors.New("unrecoverable presentation failure")
)

func capabilityAbsentf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrCapabilityAbsent)
}

func createFailed(err error, op string) error {
	return errors.Mark(errors.Wrapf(err, "%s", op), ErrCreateFailed)
}

func presentFatal(err error, op string) error {
	if err == nil {
		return errors.Mark(errors.Newf("%s: unexpected result", op), ErrPresentFatal)
	}
	return errors.Mark(errors.Wrapf(err, "%s", op), ErrPresentFatal)
}

// IsCapabilityAbsent reports whether err stems from a missing layer,
// extension, device, or surface capability.
func IsCapabilityAbsent(err error) bool { return errors.Is(err, ErrCapabilityAbsent) }

// IsCreateFailed reports whether err stems from a rejected creation call.
func IsCreateFailed(err error) bool { return errors.Is(err, ErrCreateFailed) }

// IsPresentFatal reports whether err stems from an unrecoverable
// acquire/present result.
func IsPresentFatal(err error) bool { return errors.Is(err, ErrPresentFatal) }
