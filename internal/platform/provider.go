package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles the platform backends for the current OS. Fields may
// be nil when a backend is unavailable; callers check before use.
type Provider struct {
	Accessibility Accessibility
	Windows       WindowOps
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("winauto is not supported on %s/%s; supported: windows/amd64, windows/arm64", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/win/init.go for the Windows registration.
var NewProviderFunc func() (*Provider, error)

// NewAccessibilityFunc is set by an accessibility backend via init(),
// if one is linked in. The engine degrades to raw window operations
// when no backend is registered.
var NewAccessibilityFunc func() (Accessibility, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
