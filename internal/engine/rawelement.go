package engine

import (
	"fmt"
	"image"

	"winauto-mcp/internal/platform"
)

// rawElement is the window-handle-backed element variant. It is built
// from WindowOps alone, so it stays usable while the accessibility
// layer is wedged behind a modal dialog. Name comes from the window
// text, control type from the window class, and click is a posted
// button-click message.
type rawElement struct {
	ops         platform.WindowOps
	hwnd        uintptr
	name        string
	controlType string
}

func newRawElement(ops platform.WindowOps, hwnd uintptr) *rawElement {
	return &rawElement{
		ops:         ops,
		hwnd:        hwnd,
		name:        ops.WindowText(hwnd),
		controlType: controlTypeForClass(ops.ClassName(hwnd)),
	}
}

func (e *rawElement) Name() string         { return e.name }
func (e *rawElement) ControlType() string  { return e.controlType }
func (e *rawElement) AutomationID() string { return "" }
func (e *rawElement) Handle() uintptr      { return e.hwnd }
func (e *rawElement) WindowText() string   { return e.name }

func (e *rawElement) Children() ([]platform.Element, error) {
	handles, err := e.ops.ChildWindows(e.hwnd)
	if err != nil {
		return nil, err
	}
	kids := make([]platform.Element, 0, len(handles))
	for _, h := range handles {
		kids = append(kids, newRawElement(e.ops, h))
	}
	return kids, nil
}

func (e *rawElement) Descendants() ([]platform.Element, error) {
	var all []platform.Element
	var walk func(el platform.Element) error
	walk = func(el platform.Element) error {
		kids, err := el.Children()
		if err != nil {
			return err
		}
		for _, k := range kids {
			all = append(all, k)
			if err := walk(k); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(e); err != nil {
		return nil, err
	}
	return all, nil
}

func (e *rawElement) Exists() bool    { return e.ops.IsWindow(e.hwnd) }
func (e *rawElement) Minimized() bool { return e.ops.IsMinimized(e.hwnd) }
func (e *rawElement) SetFocus() error { return e.ops.SetForeground(e.hwnd) }

func (e *rawElement) Invoke() error { return e.ops.PostClick(e.hwnd) }
func (e *rawElement) Click() error  { return e.ops.PostClick(e.hwnd) }
func (e *rawElement) Close() error  { return e.ops.PostClose(e.hwnd) }

func (e *rawElement) Toggle() error {
	return e.patternErr("toggle")
}

func (e *rawElement) ExpandState() (platform.ExpandState, error) {
	return platform.ExpandStateLeafNode, e.patternErr("expand/collapse")
}

func (e *rawElement) Expand() error   { return e.patternErr("expand") }
func (e *rawElement) Collapse() error { return e.patternErr("collapse") }

func (e *rawElement) Value() (string, error) {
	return "", e.patternErr("value read")
}

func (e *rawElement) SetValue(string) error    { return e.patternErr("value set") }
func (e *rawElement) SetEditText(string) error { return e.patternErr("edit-text set") }
func (e *rawElement) Select() error            { return e.patternErr("selection") }

// Keyboard input and capture require the accessibility layer; for modal
// dialogs they are a documented limitation, not a bug.

func (e *rawElement) TypeKeys(string) error {
	return fmt.Errorf("send_keys to a modal dialog is not supported; use click_element to interact with dialog buttons: %w", ErrUnsupported)
}

func (e *rawElement) CaptureImage() (image.Image, error) {
	return nil, fmt.Errorf("screenshot of a modal dialog is not supported; close the dialog first: %w", ErrUnsupported)
}

func (e *rawElement) patternErr(pattern string) error {
	return fmt.Errorf("%s is not available for window-handle elements: %w", pattern, ErrUnsupported)
}
