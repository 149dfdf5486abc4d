package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/process"

	"winauto-mcp/internal/platform"
)

const connectTimeout = 5 * time.Second

// Options tunes a session. Zero values take the defaults below; the
// heuristic lists exist so localized UI text matching can be adjusted
// per target application instead of hard-coded.
type Options struct {
	// Timeout bounds every operation that can reach the target
	// process's UI thread.
	Timeout time.Duration
	// SettleDelay is the wait after expanding a combo/menu before its
	// items are searched.
	SettleDelay time.Duration
	// MenuSeparator splits menu paths, e.g. "File->Open".
	MenuSeparator string
	// GridRowTypes are the control types counted as data rows.
	GridRowTypes []string
	// GridHeaderMarkers exclude rows whose name contains any marker
	// (case-insensitive).
	GridHeaderMarkers []string
	// SystemMenuNames are menu-bar names to skip when locating the
	// application menu bar.
	SystemMenuNames []string

	Logger *slog.Logger
}

func (o *Options) setDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = 300 * time.Millisecond
	}
	if o.MenuSeparator == "" {
		o.MenuSeparator = "->"
	}
	if len(o.GridRowTypes) == 0 {
		o.GridRowTypes = []string{"Custom", "DataItem"}
	}
	if len(o.GridHeaderMarkers) == 0 {
		o.GridHeaderMarkers = []string{"トップ", "header"}
	}
	if len(o.SystemMenuNames) == 0 {
		o.SystemMenuNames = []string{"システム", "System"}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// connection is the state established by Connect. Exactly one may be
// active per session.
type connection struct {
	id          string
	pid         int
	processName string
	mainHandle  uintptr
	window      platform.Element
}

// Session is the automation engine: one connection, one executor, one
// explicit current-window pointer. All state is private to the session;
// the transport serializes calls into it.
type Session struct {
	provider *platform.Provider
	opts     Options
	exec     *executor
	log      *slog.Logger

	conn *connection
	// currentHandle is the explicitly selected target window, 0 while
	// the main window is targeted. A detected dialog overrides it.
	currentHandle uintptr
}

// New creates a session over the given platform provider.
func New(provider *platform.Provider, opts Options) *Session {
	opts.setDefaults()
	return &Session{
		provider: provider,
		opts:     opts,
		exec:     newExecutor(),
		log:      opts.Logger,
	}
}

// Connect attaches to a running application by window-title regular
// expression and returns the window title. A failed connect clears any
// previous connection.
func (s *Session) Connect(titlePattern string) (string, error) {
	acc := s.provider.Accessibility
	if acc == nil {
		return "", fmt.Errorf("no accessibility backend is available on this platform")
	}

	window, pid, err := acc.Connect(titlePattern, connectTimeout)
	if err != nil {
		s.conn = nil
		s.currentHandle = 0
		return "", fmt.Errorf("could not connect to app matching %q: %w", titlePattern, err)
	}

	conn := &connection{
		id:         uuid.NewString(),
		pid:        pid,
		mainHandle: window.Handle(),
		window:     window,
	}
	if proc, perr := process.NewProcess(int32(pid)); perr == nil {
		if name, nerr := proc.Name(); nerr == nil {
			conn.processName = name
		}
	}

	s.conn = conn
	s.currentHandle = 0
	s.log.Info("connected",
		"session", conn.id,
		"pid", conn.pid,
		"process", conn.processName,
		"title", window.WindowText())
	return window.WindowText(), nil
}

// Close asks the current target window to close, best-effort, and
// clears the session state regardless of whether the close was honored.
func (s *Session) Close() string {
	if target, err := s.target(); err == nil {
		if cerr := target.Close(); cerr != nil {
			s.log.Debug("close request failed", "err", cerr)
		}
	}
	s.conn = nil
	s.currentHandle = 0
	return "Window closed"
}

// Connected reports whether a connection is active.
func (s *Session) Connected() bool { return s.conn != nil }

// ProcessName reports the connected process's executable name, "" when
// it could not be resolved or no connection is active.
func (s *Session) ProcessName() string {
	if s.conn == nil {
		return ""
	}
	return s.conn.processName
}

// target resolves "where to operate" for the current call: a detected
// modal dialog overrides everything, otherwise the explicitly selected
// window (main by default) after existence and restore-state checks.
// Elements are never cached across calls; accessibility references go
// stale as soon as the UI changes.
func (s *Session) target() (platform.Element, error) {
	if s.conn == nil {
		return nil, ErrNotConnected
	}

	if dialog := s.findDialog(); dialog != nil {
		return dialog, nil
	}

	if h := s.currentHandle; h != 0 && h != s.conn.mainHandle {
		return s.resolveWindow(h)
	}

	win := s.conn.window
	if !win.Exists() {
		return nil, ErrWindowGone
	}
	if win.Minimized() {
		return nil, ErrWindowMinimized
	}
	return win, nil
}

// resolveWindow re-validates an explicitly selected non-main window and
// wraps it as an element, rich when the accessibility backend can bind
// the handle, raw otherwise.
func (s *Session) resolveWindow(hwnd uintptr) (platform.Element, error) {
	ops := s.provider.Windows
	if ops == nil || !ops.IsWindow(hwnd) || !ops.IsVisible(hwnd) {
		return nil, ErrWindowGone
	}
	if ops.IsMinimized(hwnd) {
		return nil, ErrWindowMinimized
	}
	if acc := s.provider.Accessibility; acc != nil {
		if el, err := acc.FromHandle(hwnd); err == nil {
			return el, nil
		}
	}
	return newRawElement(ops, hwnd), nil
}
