package platform

import (
	"image"
	"time"
)

// ExpandState mirrors the UI Automation ExpandCollapseState values.
type ExpandState int

const (
	ExpandStateCollapsed ExpandState = iota
	ExpandStateExpanded
	ExpandStatePartiallyExpanded
	ExpandStateLeafNode
)

// Element is the capability surface shared by both element variants:
// rich elements backed by the accessibility tree, and raw elements
// backed only by a window handle. Operations a variant cannot perform
// return an error rather than panic, so call sites never branch on
// which variant they hold.
type Element interface {
	Name() string
	ControlType() string
	AutomationID() string

	// Handle returns the native window handle, or 0 when the element
	// is not backed by a top-level window.
	Handle() uintptr

	// Children returns the element's direct children in tree order.
	Children() ([]Element, error)
	// Descendants returns all elements below this one, pre-order.
	Descendants() ([]Element, error)

	Exists() bool
	Minimized() bool
	SetFocus() error
	WindowText() string

	// Control patterns. Unsupported patterns return an error.
	Invoke() error
	Toggle() error
	ExpandState() (ExpandState, error)
	Expand() error
	Collapse() error
	Value() (string, error)
	SetValue(text string) error
	SetEditText(text string) error
	Select() error

	// Click performs a synthetic low-level click, bypassing control
	// patterns entirely.
	Click() error

	TypeKeys(keys string) error
	CaptureImage() (image.Image, error)

	// Close asks the window to close. Best-effort.
	Close() error
}

// Accessibility is the accessibility-tree collaborator: it attaches to
// running applications and hands out rich elements. Implementations
// live outside this repository and register through the Provider.
type Accessibility interface {
	// Connect attaches to a running application whose top-level window
	// title matches the regular expression, returning the window
	// element and the owning process id.
	Connect(titlePattern string, timeout time.Duration) (Element, int, error)

	// FromHandle wraps an existing native window handle as a rich
	// element.
	FromHandle(handle uintptr) (Element, error)
}

// Rect is a screen rectangle in native (left, top, right, bottom)
// coordinates.
type Rect struct {
	Left, Top, Right, Bottom int
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// WindowOps performs window-manager operations using only low-level
// primitives. None of its calls go through the accessibility layer, so
// they keep working when a modal dialog has wedged the target process's
// UI thread mid-invocation.
type WindowOps interface {
	// TopLevelWindows enumerates all top-level windows in Z/creation order.
	TopLevelWindows() ([]uintptr, error)
	// ChildWindows returns the direct children of parent, filtered from
	// the full descendant enumeration by parent-handle equality.
	ChildWindows(parent uintptr) ([]uintptr, error)

	WindowPID(hwnd uintptr) int
	IsWindow(hwnd uintptr) bool
	IsVisible(hwnd uintptr) bool
	IsMinimized(hwnd uintptr) bool
	WindowText(hwnd uintptr) string
	ClassName(hwnd uintptr) string

	// PostClick posts a synthetic button-click message. Fire-and-forget:
	// it never waits for the target to process the message.
	PostClick(hwnd uintptr) error
	SetForeground(hwnd uintptr) error
	// PostClose posts a close request to the window. Fire-and-forget.
	PostClose(hwnd uintptr) error

	// WindowRect returns the full window rectangle, including any
	// window-manager shadow/extended frame.
	WindowRect(hwnd uintptr) (Rect, error)
	// VisibleBounds returns the visible rectangle without the shadow
	// frame. Returns an error when the underlying query is unavailable;
	// callers then skip cropping.
	VisibleBounds(hwnd uintptr) (Rect, error)
}
