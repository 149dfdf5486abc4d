package engine

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"
	"time"

	"winauto-mcp/internal/platform"
)

// fakeElement is a scriptable in-memory element for engine tests.
type fakeElement struct {
	name        string
	controlType string
	autoID      string
	handle      uintptr
	children    []*fakeElement
	childrenErr error

	gone      bool
	minimized bool

	invokeErr      error
	invokeHook     func()
	invokeDelay    time.Duration
	toggleErr      error
	expandErr      error
	expandDelay    time.Duration
	collapseErr    error
	collapseDelay  time.Duration
	expandState    platform.ExpandState
	expandStateErr error
	value          string
	valueErr       error
	setValueErr    error
	setEditErr     error
	selectErr      error
	focusErr       error
	typeKeysErr    error
	captureImg     image.Image
	captureErr     error
	closeErr       error

	invoked   int
	toggled   int
	expanded  int
	collapsed int
	selected  int
	focused   int
	closed    int
	typedKeys []string
	setValues []string
	setEdits  []string
}

func (f *fakeElement) Name() string         { return f.name }
func (f *fakeElement) ControlType() string  { return f.controlType }
func (f *fakeElement) AutomationID() string { return f.autoID }
func (f *fakeElement) Handle() uintptr      { return f.handle }
func (f *fakeElement) WindowText() string   { return f.name }
func (f *fakeElement) Exists() bool         { return !f.gone }
func (f *fakeElement) Minimized() bool      { return f.minimized }

func (f *fakeElement) Children() ([]platform.Element, error) {
	if f.childrenErr != nil {
		return nil, f.childrenErr
	}
	kids := make([]platform.Element, len(f.children))
	for i, c := range f.children {
		kids[i] = c
	}
	return kids, nil
}

func (f *fakeElement) Descendants() ([]platform.Element, error) {
	if f.childrenErr != nil {
		return nil, f.childrenErr
	}
	var all []platform.Element
	for _, c := range f.children {
		all = append(all, c)
		sub, err := c.Descendants()
		if err != nil {
			return nil, err
		}
		all = append(all, sub...)
	}
	return all, nil
}

func (f *fakeElement) SetFocus() error {
	f.focused++
	return f.focusErr
}

func (f *fakeElement) Invoke() error {
	f.invoked++
	if f.invokeHook != nil {
		f.invokeHook()
	}
	if f.invokeDelay > 0 {
		time.Sleep(f.invokeDelay)
	}
	return f.invokeErr
}

func (f *fakeElement) Toggle() error {
	f.toggled++
	return f.toggleErr
}

func (f *fakeElement) ExpandState() (platform.ExpandState, error) {
	return f.expandState, f.expandStateErr
}

func (f *fakeElement) Expand() error {
	f.expanded++
	if f.expandDelay > 0 {
		time.Sleep(f.expandDelay)
	}
	return f.expandErr
}

func (f *fakeElement) Collapse() error {
	f.collapsed++
	if f.collapseDelay > 0 {
		time.Sleep(f.collapseDelay)
	}
	return f.collapseErr
}

func (f *fakeElement) Value() (string, error) { return f.value, f.valueErr }

func (f *fakeElement) SetValue(text string) error {
	if f.setValueErr != nil {
		return f.setValueErr
	}
	f.setValues = append(f.setValues, text)
	return nil
}

func (f *fakeElement) SetEditText(text string) error {
	if f.setEditErr != nil {
		return f.setEditErr
	}
	f.setEdits = append(f.setEdits, text)
	return nil
}

func (f *fakeElement) Select() error {
	f.selected++
	return f.selectErr
}

func (f *fakeElement) Click() error {
	f.invoked++
	return f.invokeErr
}

func (f *fakeElement) TypeKeys(keys string) error {
	if f.typeKeysErr != nil {
		return f.typeKeysErr
	}
	f.typedKeys = append(f.typedKeys, keys)
	return nil
}

func (f *fakeElement) CaptureImage() (image.Image, error) {
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	if f.captureImg != nil {
		return f.captureImg, nil
	}
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

func (f *fakeElement) Close() error {
	f.closed++
	return f.closeErr
}

// fakeWindow is one native window known to fakeWindowOps.
type fakeWindow struct {
	pid       int
	title     string
	class     string
	visible   bool
	minimized bool
	children  []uintptr
}

// fakeWindowOps is a scriptable raw window accessor. It is
// mutex-guarded because tests register windows from operations running
// on the executor's worker goroutine.
type fakeWindowOps struct {
	mu      sync.Mutex
	order   []uintptr
	windows map[uintptr]*fakeWindow
	enumErr error

	rects            map[uintptr]platform.Rect
	visibleRects     map[uintptr]platform.Rect
	visibleRectsErr  error
	clicked          []uintptr
	closedWindows    []uintptr
	foregroundCalled []uintptr
}

func newFakeWindowOps() *fakeWindowOps {
	return &fakeWindowOps{
		windows:      map[uintptr]*fakeWindow{},
		rects:        map[uintptr]platform.Rect{},
		visibleRects: map[uintptr]platform.Rect{},
	}
}

func (o *fakeWindowOps) add(hwnd uintptr, w *fakeWindow) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.order = append(o.order, hwnd)
	o.windows[hwnd] = w
}

func (o *fakeWindowOps) get(hwnd uintptr) *fakeWindow {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.windows[hwnd]
}

func (o *fakeWindowOps) TopLevelWindows() ([]uintptr, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.enumErr != nil {
		return nil, o.enumErr
	}
	return append([]uintptr(nil), o.order...), nil
}

func (o *fakeWindowOps) ChildWindows(parent uintptr) ([]uintptr, error) {
	if w := o.get(parent); w != nil {
		return append([]uintptr(nil), w.children...), nil
	}
	return nil, nil
}

func (o *fakeWindowOps) WindowPID(hwnd uintptr) int {
	if w := o.get(hwnd); w != nil {
		return w.pid
	}
	return 0
}

func (o *fakeWindowOps) IsWindow(hwnd uintptr) bool { return o.get(hwnd) != nil }

func (o *fakeWindowOps) IsVisible(hwnd uintptr) bool {
	w := o.get(hwnd)
	return w != nil && w.visible
}

func (o *fakeWindowOps) IsMinimized(hwnd uintptr) bool {
	w := o.get(hwnd)
	return w != nil && w.minimized
}

func (o *fakeWindowOps) WindowText(hwnd uintptr) string {
	if w := o.get(hwnd); w != nil {
		return w.title
	}
	return ""
}

func (o *fakeWindowOps) ClassName(hwnd uintptr) string {
	if w := o.get(hwnd); w != nil {
		return w.class
	}
	return ""
}

func (o *fakeWindowOps) PostClick(hwnd uintptr) error {
	o.clicked = append(o.clicked, hwnd)
	return nil
}

func (o *fakeWindowOps) SetForeground(hwnd uintptr) error {
	o.foregroundCalled = append(o.foregroundCalled, hwnd)
	return nil
}

func (o *fakeWindowOps) PostClose(hwnd uintptr) error {
	o.closedWindows = append(o.closedWindows, hwnd)
	return nil
}

func (o *fakeWindowOps) WindowRect(hwnd uintptr) (platform.Rect, error) {
	if r, ok := o.rects[hwnd]; ok {
		return r, nil
	}
	return platform.Rect{}, fmt.Errorf("no rect for handle %#x", hwnd)
}

func (o *fakeWindowOps) VisibleBounds(hwnd uintptr) (platform.Rect, error) {
	if o.visibleRectsErr != nil {
		return platform.Rect{}, o.visibleRectsErr
	}
	if r, ok := o.visibleRects[hwnd]; ok {
		return r, nil
	}
	return platform.Rect{}, fmt.Errorf("no visible bounds for handle %#x", hwnd)
}

// fakeAccessibility connects to a prepared window element.
type fakeAccessibility struct {
	root       *fakeElement
	pid        int
	connectErr error
	byHandle   map[uintptr]*fakeElement
}

func (a *fakeAccessibility) Connect(string, time.Duration) (platform.Element, int, error) {
	if a.connectErr != nil {
		return nil, 0, a.connectErr
	}
	return a.root, a.pid, nil
}

func (a *fakeAccessibility) FromHandle(hwnd uintptr) (platform.Element, error) {
	if el, ok := a.byHandle[hwnd]; ok {
		return el, nil
	}
	return nil, fmt.Errorf("no element for handle %#x", hwnd)
}

const (
	testPID        = 1234
	testMainHandle = uintptr(0x100)
)

var errTest = errors.New("boom")

func testOptions() Options {
	return Options{
		Timeout:     50 * time.Millisecond,
		SettleDelay: time.Millisecond,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// newConnectedSession builds a session already connected to root as the
// main window, with ops as the raw accessor.
func newConnectedSession(root *fakeElement, ops *fakeWindowOps) *Session {
	root.handle = testMainHandle
	s := New(&platform.Provider{Windows: ops}, testOptions())
	s.conn = &connection{
		id:         "test-session",
		pid:        testPID,
		mainHandle: testMainHandle,
		window:     root,
	}
	return s
}

// withMainWindow registers the main window with the fake accessor so
// dialog detection sees it.
func withMainWindow(ops *fakeWindowOps, title string) {
	ops.add(testMainHandle, &fakeWindow{pid: testPID, title: title, class: "MainWClass", visible: true})
}

func newTestProvider() *platform.Provider {
	return &platform.Provider{Windows: newFakeWindowOps()}
}

func str(s string) *string { return &s }
