package engine

import "winauto-mcp/internal/platform"

// findDialog reports an active modal dialog: the first visible
// top-level window owned by the connected process whose handle differs
// from the main window, in enumeration (Z/creation) order. When several
// non-main windows exist, whichever the enumeration visits first wins;
// no title or recency tie-break is attempted.
//
// The scan uses only raw window operations, so it works even while the
// accessibility layer is stuck inside a call blocked on that dialog.
// Returns nil when no connection exists, no dialog is up, or the
// enumeration fails.
func (s *Session) findDialog() platform.Element {
	if s.conn == nil {
		return nil
	}
	ops := s.provider.Windows
	if ops == nil {
		return nil
	}

	handles, err := ops.TopLevelWindows()
	if err != nil {
		s.log.Debug("window enumeration failed", "err", err)
		return nil
	}

	for _, h := range handles {
		if ops.WindowPID(h) != s.conn.pid {
			continue
		}
		if h == s.conn.mainHandle || !ops.IsVisible(h) {
			continue
		}
		dialog := newRawElement(ops, h)
		s.log.Debug("dialog detected", "title", dialog.Name(), "handle", h)
		return dialog
	}
	return nil
}
