package device

import "github.com/cogentcore/webgpu/wgpu"

type deviceBuilderOptions struct {
	forceFallbackAdapter bool
	presentMode          wgpu.PresentMode
}

// DeviceBuilderOption configures a device created with New.
type DeviceBuilderOption func(*deviceBuilderOptions)

// WithForceFallbackAdapter forces adapter selection to the fallback (software)
// adapter. Useful on machines without a usable GPU and for headless testing.
//
// Returns:
//   - DeviceBuilderOption: the option to apply
func WithForceFallbackAdapter() DeviceBuilderOption {
	return func(o *deviceBuilderOptions) {
		o.forceFallbackAdapter = true
	}
}

// WithPresentMode sets the initial present mode for the surface.
//
// Parameters:
//   - mode: the PresentMode to use (PresentModeUncapped or PresentModeVSync)
//
// Returns:
//   - DeviceBuilderOption: the option to apply
func WithPresentMode(mode PresentMode) DeviceBuilderOption {
	return func(o *deviceBuilderOptions) {
		switch mode {
		case PresentModeVSync:
			o.presentMode = wgpu.PresentModeFifo
		default:
			o.presentMode = wgpu.PresentModeImmediate
		}
	}
}
