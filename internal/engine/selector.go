package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"winauto-mcp/internal/platform"
)

// Selector describes a UI element declaratively. Each set field is an
// exact-equality test; unset fields are ignored. A parent selector
// narrows the search to that parent's subtree.
type Selector struct {
	Title       *string   `json:"title,omitempty"`
	ControlType *string   `json:"control_type,omitempty"`
	AutoID      *string   `json:"auto_id,omitempty"`
	Parent      *Selector `json:"parent,omitempty"`
}

// ParseSelector decodes the JSON selector shape used on the wire,
// e.g. {"title": "OK", "control_type": "Button"}. Unknown fields are a
// parse error: a misspelled field would otherwise be silently dropped
// and the selector would match far more than intended.
func ParseSelector(raw string) (*Selector, error) {
	var sel Selector
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sel); err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", raw, err)
	}
	return &sel, nil
}

func (sel *Selector) hasCriteria() bool {
	return sel.Title != nil || sel.ControlType != nil || sel.AutoID != nil
}

func (sel *Selector) matches(el platform.Element) bool {
	if sel.Title != nil && el.Name() != *sel.Title {
		return false
	}
	if sel.ControlType != nil && el.ControlType() != *sel.ControlType {
		return false
	}
	if sel.AutoID != nil && el.AutomationID() != *sel.AutoID {
		return false
	}
	return true
}

// String renders the selector for error messages.
func (sel *Selector) String() string {
	var parts []string
	if sel.Title != nil {
		parts = append(parts, fmt.Sprintf("title=%q", *sel.Title))
	}
	if sel.ControlType != nil {
		parts = append(parts, fmt.Sprintf("control_type=%q", *sel.ControlType))
	}
	if sel.AutoID != nil {
		parts = append(parts, fmt.Sprintf("auto_id=%q", *sel.AutoID))
	}
	if sel.Parent != nil {
		parts = append(parts, fmt.Sprintf("parent={%s}", sel.Parent))
	}
	return strings.Join(parts, " ")
}

// FindElement resolves a selector against the current target. When a
// parent selector is present the parent is resolved first and the
// search continues from there. Traversal is pre-order depth-first over
// children (the root itself is not a candidate); the first match wins.
func (s *Session) FindElement(sel *Selector) (platform.Element, error) {
	if !sel.hasCriteria() {
		return nil, fmt.Errorf("selector must contain at least one of: title, control_type, auto_id: %w", ErrNotFound)
	}

	var root platform.Element
	var err error
	if sel.Parent != nil {
		root, err = s.FindElement(sel.Parent)
	} else {
		root, err = s.target()
	}
	if err != nil {
		return nil, err
	}

	match, err := searchSubtree(root, sel)
	if err != nil {
		return nil, fmt.Errorf("element search failed: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("element not found: {%s}: %w", sel, ErrNotFound)
	}
	return match, nil
}

func searchSubtree(root platform.Element, sel *Selector) (platform.Element, error) {
	kids, err := root.Children()
	if err != nil {
		return nil, err
	}
	for _, child := range kids {
		if sel.matches(child) {
			return child, nil
		}
		found, err := searchSubtree(child, sel)
		if err != nil {
			return nil, err
		}
		if found != nil {
			return found, nil
		}
	}
	return nil, nil
}
