package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"winauto-mcp/internal/platform"
)

// SelectMenu navigates a menu path like "File->Open": opens the first
// segment from the menu bar, then invokes each remaining segment among
// the window's descendants. A timeout on the final segment very
// plausibly means the menu action opened a modal dialog, so it is
// reported as an outcome rather than an error; timeouts on earlier
// segments are real failures. An unmatched segment dispatches escape to
// close any open menus before failing.
func (s *Session) SelectMenu(menuPath string) (string, error) {
	segments := s.splitMenuPath(menuPath)
	if len(segments) == 0 {
		return "", fmt.Errorf("empty menu path")
	}
	lastIdx := len(segments) - 1

	window, err := s.target()
	if err != nil {
		return "", err
	}

	menuBar, err := s.findMenuBar(window)
	if err != nil {
		return "", err
	}

	first, err := findChildByName(menuBar, segments[0])
	if err != nil {
		return "", err
	}
	if first == nil {
		return "", fmt.Errorf("menu item '%s' not found in menu bar: %w", segments[0], ErrNotFound)
	}

	if msg, err := s.openMenu(first, segments[0], lastIdx == 0, menuPath); err != nil || msg != "" {
		return msg, err
	}
	if lastIdx == 0 {
		return "Selected menu: " + menuPath, nil
	}

	for i, segment := range segments[1:] {
		idx := i + 1
		// Wait for the submenu to appear.
		time.Sleep(s.opts.SettleDelay)

		item := s.findMenuItem(window, segment)
		if item == nil {
			s.dismissOpenMenus(window)
			return "", fmt.Errorf("menu item '%s' not found: %w", segment, ErrNotFound)
		}

		ierr := s.exec.Run(s.opts.Timeout, item.Invoke)
		if ierr == nil {
			continue
		}
		if errors.Is(ierr, ErrTimedOut) {
			if idx == lastIdx {
				return s.menuTimeoutMessage(menuPath), nil
			}
			return "", fmt.Errorf("menu item '%s': %w", segment, ierr)
		}
		// Invoke unsupported on this item: fall back to expand.
		if eerr := s.exec.Run(s.opts.Timeout, item.Expand); eerr != nil {
			return "", fmt.Errorf("cannot click menu '%s': %w", segment, eerr)
		}
	}

	return "Selected menu: " + menuPath, nil
}

func (s *Session) splitMenuPath(menuPath string) []string {
	var segments []string
	for _, seg := range strings.Split(menuPath, s.opts.MenuSeparator) {
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// findMenuBar picks the application menu bar among the window's direct
// children, skipping the window-manager system menu.
func (s *Session) findMenuBar(window platform.Element) (platform.Element, error) {
	kids, err := window.Children()
	if err != nil {
		return nil, fmt.Errorf("cannot enumerate window children: %w", err)
	}
	for _, child := range kids {
		if child.ControlType() != "MenuBar" {
			continue
		}
		if s.isSystemMenuName(child.Name()) {
			continue
		}
		return child, nil
	}
	return nil, fmt.Errorf("no menu bar found in the window")
}

func (s *Session) isSystemMenuName(name string) bool {
	for _, sys := range s.opts.SystemMenuNames {
		if name == sys {
			return true
		}
	}
	return false
}

func findChildByName(el platform.Element, name string) (platform.Element, error) {
	kids, err := el.Children()
	if err != nil {
		return nil, fmt.Errorf("cannot enumerate menu bar items: %w", err)
	}
	for _, child := range kids {
		if child.Name() == name {
			return child, nil
		}
	}
	return nil, nil
}

// openMenu opens the first path segment, preferring expand and falling
// back to invoke. Returns a non-empty message when a timeout on a
// single-segment path resolved into a dialog report.
func (s *Session) openMenu(item platform.Element, segment string, isLast bool, menuPath string) (string, error) {
	err := s.exec.Run(s.opts.Timeout, item.Expand)
	if err == nil {
		return "", nil
	}
	if errors.Is(err, ErrTimedOut) {
		if isLast {
			return s.menuTimeoutMessage(menuPath), nil
		}
		return "", fmt.Errorf("cannot open menu '%s': %w", segment, err)
	}

	ierr := s.exec.Run(s.opts.Timeout, item.Invoke)
	if ierr == nil {
		return "", nil
	}
	if errors.Is(ierr, ErrTimedOut) {
		if isLast {
			return s.menuTimeoutMessage(menuPath), nil
		}
	}
	return "", fmt.Errorf("cannot open menu '%s': %w", segment, ierr)
}

// findMenuItem searches the whole window's descendants for a menu item
// with the exact name. Enumeration failures yield no match.
func (s *Session) findMenuItem(window platform.Element, name string) platform.Element {
	descendants, err := window.Descendants()
	if err != nil {
		s.log.Debug("descendant enumeration failed", "err", err)
		return nil
	}
	for _, d := range descendants {
		if d.ControlType() == "MenuItem" && d.Name() == name {
			return d
		}
	}
	return nil
}

// dismissOpenMenus sends escape to close any menus left open by a
// partial navigation. Best-effort.
func (s *Session) dismissOpenMenus(window platform.Element) {
	err := s.exec.Run(s.opts.Timeout, func() error {
		return window.TypeKeys("{ESC}")
	})
	if err != nil {
		s.log.Debug("escape dispatch failed", "err", err)
	}
}

func (s *Session) menuTimeoutMessage(menuPath string) string {
	if dialog := s.findDialog(); dialog != nil {
		title := dialog.Name()
		if title == "" {
			title = "(untitled)"
		}
		return fmt.Sprintf("Selected menu: %s. A dialog appeared: '%s'. Use get_ui_tree to see the dialog contents.",
			menuPath, title)
	}
	return fmt.Sprintf("Selected menu: %s. The operation timed out but no dialog was detected. The application may be busy.",
		menuPath)
}
