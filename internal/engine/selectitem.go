package engine

import (
	"fmt"
	"strings"
	"time"

	"winauto-mcp/internal/platform"
)

// SelectItem selects an item by exact name inside a combo box or list:
// expand, find the descendant, select, collapse. Collapse is always
// attempted, including on the failure paths, and its own errors are
// swallowed.
func (s *Session) SelectItem(sel *Selector, itemName string) (string, error) {
	el, err := s.FindElement(sel)
	if err != nil {
		return "", err
	}
	controlType, name := el.ControlType(), el.Name()

	if eerr := s.exec.Run(s.opts.Timeout, el.Expand); eerr == nil {
		// Let the dropdown populate before searching it.
		time.Sleep(s.opts.SettleDelay)
	}

	item := findDescendantByName(el, itemName)
	if item == nil {
		s.collapseQuietly(el)
		return "", fmt.Errorf("item '%s' not found in %s '%s': %w", itemName, controlType, name, ErrNotFound)
	}

	if serr := item.Select(); serr != nil {
		s.collapseQuietly(el)
		return "", fmt.Errorf("cannot select '%s': %w", itemName, serr)
	}

	s.collapseQuietly(el)
	return fmt.Sprintf("Selected '%s' in %s '%s'", itemName, controlType, name), nil
}

func findDescendantByName(el platform.Element, name string) platform.Element {
	descendants, err := el.Descendants()
	if err != nil {
		return nil
	}
	for _, d := range descendants {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

func (s *Session) collapseQuietly(el platform.Element) {
	if err := s.exec.Run(s.opts.Timeout, el.Collapse); err != nil {
		s.log.Debug("collapse failed", "err", err)
	}
}

// SelectGridRow selects a data-grid row by 0-based index. Rows are the
// grid children whose control type is in the configured row set and
// whose name carries no header marker; the selection pattern is tried
// on the row, then on its first cell, then a raw click through the
// bounded executor.
func (s *Session) SelectGridRow(sel *Selector, rowIndex int) (string, error) {
	el, err := s.FindElement(sel)
	if err != nil {
		return "", err
	}
	controlType, name := el.ControlType(), el.Name()

	kids, err := el.Children()
	if err != nil {
		return "", fmt.Errorf("cannot enumerate rows in %s '%s': %w", controlType, name, err)
	}
	var rows []platform.Element
	for _, child := range kids {
		if s.isGridRow(child) {
			rows = append(rows, child)
		}
	}

	if rowIndex < 0 || rowIndex >= len(rows) {
		return "", &OutOfRangeError{
			What:    "row index",
			Index:   rowIndex,
			Max:     len(rows) - 1,
			Subject: fmt.Sprintf("%s '%s'", controlType, name),
		}
	}
	row := rows[rowIndex]
	selected := fmt.Sprintf("Selected row %d in %s '%s'", rowIndex, controlType, name)

	if serr := row.Select(); serr == nil {
		return selected, nil
	}

	if cells, cerr := row.Children(); cerr == nil && len(cells) > 0 {
		if serr := cells[0].Select(); serr == nil {
			return selected, nil
		}
	}

	if cerr := s.exec.Run(s.opts.Timeout, row.Click); cerr != nil {
		return "", fmt.Errorf("cannot select row %d in %s '%s': %w", rowIndex, controlType, name, cerr)
	}
	return selected, nil
}

// isGridRow applies the configured row heuristic: a row-like control
// type whose name does not look like a header or scrollbar row.
func (s *Session) isGridRow(el platform.Element) bool {
	controlType := el.ControlType()
	rowType := false
	for _, t := range s.opts.GridRowTypes {
		if controlType == t {
			rowType = true
			break
		}
	}
	if !rowType {
		return false
	}
	name := strings.ToLower(el.Name())
	for _, marker := range s.opts.GridHeaderMarkers {
		if strings.Contains(name, strings.ToLower(marker)) {
			return false
		}
	}
	return true
}
