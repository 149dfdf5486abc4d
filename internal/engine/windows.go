package engine

import (
	"fmt"
	"strings"
)

// WindowInfo is one entry of the window set: a visible top-level window
// of the connected process.
type WindowInfo struct {
	Index     int
	Title     string
	Handle    uintptr
	IsMain    bool
	IsCurrent bool
}

// ListWindows rebuilds the window set from a live enumeration. The
// current pointer is transient: it reflects this enumeration only and
// is re-validated on every use.
func (s *Session) ListWindows() ([]WindowInfo, error) {
	if s.conn == nil {
		return nil, ErrNotConnected
	}
	ops := s.provider.Windows
	if ops == nil {
		return nil, fmt.Errorf("no window backend is available on this platform")
	}

	handles, err := ops.TopLevelWindows()
	if err != nil {
		return nil, fmt.Errorf("cannot enumerate windows: %w", err)
	}

	current := s.currentHandle
	if current == 0 {
		current = s.conn.mainHandle
	}

	var windows []WindowInfo
	for _, h := range handles {
		if ops.WindowPID(h) != s.conn.pid || !ops.IsVisible(h) {
			continue
		}
		windows = append(windows, WindowInfo{
			Index:     len(windows),
			Title:     ops.WindowText(h),
			Handle:    h,
			IsMain:    h == s.conn.mainHandle,
			IsCurrent: h == current,
		})
	}
	return windows, nil
}

// SwitchWindow selects which window subsequent operations target, by
// title substring or by index into the live window set; exactly one
// selector must be given (index < 0 means unset). Switching to the main
// window restores the default targeting, under which a detected dialog
// always takes priority anyway.
func (s *Session) SwitchWindow(title string, index int) (string, error) {
	hasTitle := title != ""
	hasIndex := index >= 0
	if hasTitle == hasIndex {
		return "", fmt.Errorf("provide exactly one of title or index")
	}

	windows, err := s.ListWindows()
	if err != nil {
		return "", err
	}

	var chosen *WindowInfo
	if hasTitle {
		for i := range windows {
			if strings.Contains(windows[i].Title, title) {
				chosen = &windows[i]
				break
			}
		}
		if chosen == nil {
			return "", fmt.Errorf("no window matching title '%s': %w", title, ErrNotFound)
		}
	} else {
		if index >= len(windows) {
			return "", &OutOfRangeError{What: "window index", Index: index, Max: len(windows) - 1}
		}
		chosen = &windows[index]
	}

	if chosen.IsMain {
		s.currentHandle = 0
	} else {
		s.currentHandle = chosen.Handle
	}
	s.log.Info("switched window", "title", chosen.Title, "main", chosen.IsMain)
	return chosen.Title, nil
}
