package engine

import (
	"errors"
	"fmt"

	"winauto-mcp/internal/platform"
)

// strategy is one candidate in an ordered fallback chain. Chains are
// evaluated until one succeeds; intermediate failures are swallowed and
// only the final outcome surfaces.
type strategy struct {
	name string
	run  func() error
}

// Click invokes the element described by the selector, trying the
// invoke pattern, then toggle, then expand/collapse depending on state.
// A bounded-executor timeout is not an error here: it usually means the
// click opened a modal dialog, so the dialog detector is re-queried and
// the outcome reported either way.
func (s *Session) Click(sel *Selector) (string, error) {
	el, err := s.FindElement(sel)
	if err != nil {
		return "", err
	}
	controlType, name := el.ControlType(), el.Name()

	chain := []strategy{
		{"invoke", func() error {
			return s.exec.Run(s.opts.Timeout, el.Invoke)
		}},
		{"toggle", func() error {
			return s.exec.Run(s.opts.Timeout, el.Toggle)
		}},
		{"expand/collapse", func() error {
			state, serr := el.ExpandState()
			if serr != nil {
				return serr
			}
			if state == platform.ExpandStateCollapsed {
				return s.exec.Run(s.opts.Timeout, el.Expand)
			}
			return s.exec.Run(s.opts.Timeout, el.Collapse)
		}},
	}

	for _, st := range chain {
		err := st.run()
		if err == nil {
			return fmt.Sprintf("Clicked: %s '%s'", controlType, name), nil
		}
		if errors.Is(err, ErrTimedOut) {
			return s.clickTimeoutMessage(controlType, name), nil
		}
		s.log.Debug("click strategy failed", "strategy", st.name, "err", err)
	}

	return "", fmt.Errorf("cannot click %s '%s': element does not support invoke, toggle, or expand/collapse: %w",
		controlType, name, ErrUnsupported)
}

// clickTimeoutMessage reports a timed-out click, naming the dialog that
// appeared when one is detectable.
func (s *Session) clickTimeoutMessage(controlType, name string) string {
	if dialog := s.findDialog(); dialog != nil {
		title := dialog.Name()
		if title == "" {
			title = "(untitled)"
		}
		return fmt.Sprintf("Clicked: %s '%s'. A dialog appeared: '%s'. Use get_ui_tree to see the dialog contents.",
			controlType, name, title)
	}
	return fmt.Sprintf("Clicked: %s '%s'. The operation timed out but no dialog was detected. The application may be busy.",
		controlType, name)
}

// SetText writes text into the element, preferring a direct value-set
// over the synthetic edit-text fallback. Only the last attempt's
// failure surfaces.
func (s *Session) SetText(sel *Selector, text string) (string, error) {
	el, err := s.FindElement(sel)
	if err != nil {
		return "", err
	}
	controlType, name := el.ControlType(), el.Name()

	if verr := el.SetValue(text); verr == nil {
		return fmt.Sprintf("Set text on %s '%s'", controlType, name), nil
	}
	if eerr := el.SetEditText(text); eerr != nil {
		return "", fmt.Errorf("cannot set text on %s '%s': %w", controlType, name, eerr)
	}
	return fmt.Sprintf("Set text on %s '%s'", controlType, name), nil
}

// GetText reads the element's current value, falling back to its
// window text.
func (s *Session) GetText(sel *Selector) (string, error) {
	el, err := s.FindElement(sel)
	if err != nil {
		return "", err
	}
	if value, verr := el.Value(); verr == nil {
		return value, nil
	}
	return el.WindowText(), nil
}

// SendKeys focuses the target window and dispatches the key sequence.
// The target is brought to the foreground as an observable side effect.
// While a dialog is targeted, key dispatch is a declared limitation and
// fails with an unsupported-operation error.
func (s *Session) SendKeys(keys string) (string, error) {
	target, err := s.target()
	if err != nil {
		return "", err
	}

	err = s.exec.Run(s.opts.Timeout, func() error {
		if ferr := target.SetFocus(); ferr != nil {
			return ferr
		}
		return target.TypeKeys(keys)
	})
	if err != nil {
		return "", fmt.Errorf("cannot send keys: %w", err)
	}
	return "Sent keys: " + keys, nil
}
