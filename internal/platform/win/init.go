//go:build windows

package win

import "winauto-mcp/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		p := &platform.Provider{
			Windows: NewWindowOps(),
		}
		if platform.NewAccessibilityFunc != nil {
			acc, err := platform.NewAccessibilityFunc()
			if err != nil {
				return nil, err
			}
			p.Accessibility = acc
		}
		return p, nil
	}
}
