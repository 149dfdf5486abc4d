package engine

import (
	"errors"
	"strings"
	"testing"
	"time"

	"winauto-mcp/internal/platform"
)

func TestClickInvokes(t *testing.T) {
	btn := &fakeElement{name: "OK", controlType: "Button"}
	root := &fakeElement{name: "App", controlType: "Window", children: []*fakeElement{btn}}
	s := newConnectedSession(root, newFakeWindowOps())

	msg, err := s.Click(&Selector{Title: str("OK")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Clicked: Button 'OK'" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if btn.invoked != 1 {
		t.Fatalf("expected one invoke, got %d", btn.invoked)
	}
}

func TestClickFallsBackToToggle(t *testing.T) {
	box := &fakeElement{name: "Remember me", controlType: "CheckBox", invokeErr: errTest}
	root := &fakeElement{name: "App", controlType: "Window", children: []*fakeElement{box}}
	s := newConnectedSession(root, newFakeWindowOps())

	msg, err := s.Click(&Selector{Title: str("Remember me")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Clicked: CheckBox 'Remember me'" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if box.toggled != 1 {
		t.Fatalf("expected toggle fallback, got %d toggles", box.toggled)
	}
}

func TestClickExpandsCollapsedElement(t *testing.T) {
	combo := &fakeElement{
		name: "Font", controlType: "ComboBox",
		invokeErr: errTest, toggleErr: errTest,
	}
	root := &fakeElement{name: "App", controlType: "Window", children: []*fakeElement{combo}}
	s := newConnectedSession(root, newFakeWindowOps())

	if _, err := s.Click(&Selector{Title: str("Font")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if combo.expanded != 1 || combo.collapsed != 0 {
		t.Fatalf("collapsed element must be expanded, got expand=%d collapse=%d", combo.expanded, combo.collapsed)
	}
}

func TestClickCollapsesExpandedElement(t *testing.T) {
	combo := &fakeElement{
		name: "Font", controlType: "ComboBox",
		invokeErr: errTest, toggleErr: errTest,
		expandState: platform.ExpandStateExpanded,
	}
	root := &fakeElement{name: "App", controlType: "Window", children: []*fakeElement{combo}}
	s := newConnectedSession(root, newFakeWindowOps())

	if _, err := s.Click(&Selector{Title: str("Font")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if combo.collapsed != 1 {
		t.Fatalf("expanded element must be collapsed, got %d", combo.collapsed)
	}
}

func TestClickUnsupportedElement(t *testing.T) {
	label := &fakeElement{
		name: "Ready", controlType: "Text",
		invokeErr: errTest, toggleErr: errTest, expandStateErr: errTest,
	}
	root := &fakeElement{name: "App", controlType: "Window", children: []*fakeElement{label}}
	s := newConnectedSession(root, newFakeWindowOps())

	_, err := s.Click(&Selector{Title: str("Ready")})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestClickTimeoutReportsDialog(t *testing.T) {
	ops := newFakeWindowOps()
	withMainWindow(ops, "App")
	btn := &fakeElement{
		name: "Save", controlType: "Button",
		invokeDelay: 200 * time.Millisecond,
		// The blocked click pops a modal dialog.
		invokeHook: func() {
			ops.add(0x200, &fakeWindow{pid: testPID, title: "Confirm save", class: "#32770", visible: true})
		},
	}
	root := &fakeElement{name: "App", controlType: "Window", children: []*fakeElement{btn}}
	s := newConnectedSession(root, ops)

	msg, err := s.Click(&Selector{Title: str("Save")})
	if err != nil {
		t.Fatalf("a timed-out click is not an error: %v", err)
	}
	want := "Clicked: Button 'Save'. A dialog appeared: 'Confirm save'. Use get_ui_tree to see the dialog contents."
	if msg != want {
		t.Fatalf("unexpected message:\nwant %q\ngot  %q", want, msg)
	}
}

func TestClickTimeoutWithoutDialog(t *testing.T) {
	btn := &fakeElement{name: "Save", controlType: "Button", invokeDelay: 200 * time.Millisecond}
	root := &fakeElement{name: "App", controlType: "Window", children: []*fakeElement{btn}}
	ops := newFakeWindowOps()
	withMainWindow(ops, "App")
	s := newConnectedSession(root, ops)

	msg, err := s.Click(&Selector{Title: str("Save")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(msg, "no dialog was detected") {
		t.Fatalf("expected busy-application message, got %q", msg)
	}
}

func TestClickElementNotFound(t *testing.T) {
	root := &fakeElement{name: "App", controlType: "Window"}
	s := newConnectedSession(root, newFakeWindowOps())

	if _, err := s.Click(&Selector{Title: str("Missing")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetTextPrefersValuePattern(t *testing.T) {
	edit := &fakeElement{name: "Name", controlType: "Edit"}
	root := &fakeElement{name: "App", controlType: "Window", children: []*fakeElement{edit}}
	s := newConnectedSession(root, newFakeWindowOps())

	msg, err := s.SetText(&Selector{Title: str("Name")}, "Alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Set text on Edit 'Name'" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if len(edit.setValues) != 1 || edit.setValues[0] != "Alice" {
		t.Fatalf("expected value-pattern write, got %v", edit.setValues)
	}
	if len(edit.setEdits) != 0 {
		t.Fatalf("edit-text fallback should not run, got %v", edit.setEdits)
	}
}

func TestSetTextFallsBackToEditText(t *testing.T) {
	edit := &fakeElement{name: "Name", controlType: "Edit", setValueErr: errTest}
	root := &fakeElement{name: "App", controlType: "Window", children: []*fakeElement{edit}}
	s := newConnectedSession(root, newFakeWindowOps())

	if _, err := s.SetText(&Selector{Title: str("Name")}, "Bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edit.setEdits) != 1 || edit.setEdits[0] != "Bob" {
		t.Fatalf("expected edit-text fallback, got %v", edit.setEdits)
	}
}

func TestSetTextBothPathsFail(t *testing.T) {
	edit := &fakeElement{name: "Name", controlType: "Edit", setValueErr: errTest, setEditErr: errors.New("edit failed")}
	root := &fakeElement{name: "App", controlType: "Window", children: []*fakeElement{edit}}
	s := newConnectedSession(root, newFakeWindowOps())

	_, err := s.SetText(&Selector{Title: str("Name")}, "x")
	if err == nil || !strings.Contains(err.Error(), "edit failed") {
		t.Fatalf("expected the last attempt's failure, got %v", err)
	}
}

func TestGetTextPrefersValue(t *testing.T) {
	edit := &fakeElement{name: "Name", controlType: "Edit", value: "Alice"}
	root := &fakeElement{name: "App", controlType: "Window", children: []*fakeElement{edit}}
	s := newConnectedSession(root, newFakeWindowOps())

	text, err := s.GetText(&Selector{Title: str("Name")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Alice" {
		t.Fatalf("expected value, got %q", text)
	}
}

func TestGetTextFallsBackToWindowText(t *testing.T) {
	label := &fakeElement{name: "Ready", controlType: "Text", valueErr: errTest}
	root := &fakeElement{name: "App", controlType: "Window", children: []*fakeElement{label}}
	s := newConnectedSession(root, newFakeWindowOps())

	text, err := s.GetText(&Selector{Title: str("Ready")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Ready" {
		t.Fatalf("expected window text fallback, got %q", text)
	}
}

func TestSendKeysFocusesTarget(t *testing.T) {
	root := &fakeElement{name: "App", controlType: "Window"}
	s := newConnectedSession(root, newFakeWindowOps())

	msg, err := s.SendKeys("^s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Sent keys: ^s" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if root.focused != 1 {
		t.Fatalf("target must be focused before keys, got %d", root.focused)
	}
	if len(root.typedKeys) != 1 || root.typedKeys[0] != "^s" {
		t.Fatalf("unexpected key dispatch: %v", root.typedKeys)
	}
}

func TestSendKeysToDialogUnsupported(t *testing.T) {
	root := &fakeElement{name: "App", controlType: "Window"}
	ops := newFakeWindowOps()
	withMainWindow(ops, "App")
	ops.add(0x200, &fakeWindow{pid: testPID, title: "Confirm", class: "#32770", visible: true})
	s := newConnectedSession(root, ops)

	_, err := s.SendKeys("{ENTER}")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for a dialog target, got %v", err)
	}
}

func TestSendKeysNotConnected(t *testing.T) {
	s := New(newTestProvider(), testOptions())
	if _, err := s.SendKeys("abc"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}
