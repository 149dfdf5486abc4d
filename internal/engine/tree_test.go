package engine

import (
	"strings"
	"testing"
)

func TestUITreeDepthOne(t *testing.T) {
	root := &fakeElement{
		name: "Calculator", controlType: "Window",
		children: []*fakeElement{
			{name: "Display", controlType: "Text", autoID: "txtDisplay",
				children: []*fakeElement{{name: "Nested", controlType: "Text"}}},
			{name: "Equals", controlType: "Button", autoID: "btnEq"},
		},
	}
	s := newConnectedSession(root, newFakeWindowOps())

	tree, err := s.UITree(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(tree, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected root + 2 direct children, got %d lines:\n%s", len(lines), tree)
	}
	if lines[0] != `Window  Name="Calculator"  AutoId=""` {
		t.Fatalf("bad root line: %q", lines[0])
	}
	if lines[1] != `  Text  Name="Display"  AutoId="txtDisplay"` {
		t.Fatalf("bad child line: %q", lines[1])
	}
	if lines[2] != `  Button  Name="Equals"  AutoId="btnEq"` {
		t.Fatalf("bad child line: %q", lines[2])
	}
}

func TestUITreeTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("x", 80)
	root := &fakeElement{name: long, controlType: "Window"}
	s := newConnectedSession(root, newFakeWindowOps())

	tree, err := s.UITree(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `Window  Name="` + strings.Repeat("x", 50) + `"  AutoId=""`
	if tree != want {
		t.Fatalf("expected truncated name:\nwant %q\ngot  %q", want, tree)
	}
}

func TestUITreeIndentGrowsWithDepth(t *testing.T) {
	root := &fakeElement{
		name: "W", controlType: "Window",
		children: []*fakeElement{
			{name: "A", controlType: "Pane",
				children: []*fakeElement{{name: "B", controlType: "Button"}}},
		},
	}
	s := newConnectedSession(root, newFakeWindowOps())

	tree, err := s.UITree(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(tree, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[2], "    Button") {
		t.Fatalf("expected 4-space indent at depth 2, got %q", lines[2])
	}
}

// A branch whose children cannot be enumerated is pruned, not fatal.
func TestUITreeSwallowsChildErrors(t *testing.T) {
	root := &fakeElement{
		name: "W", controlType: "Window",
		children: []*fakeElement{
			{name: "Broken", controlType: "Pane", childrenErr: errTest},
			{name: "Fine", controlType: "Button"},
		},
	}
	s := newConnectedSession(root, newFakeWindowOps())

	tree, err := s.UITree(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(tree, `Name="Fine"`) {
		t.Fatalf("sibling of broken branch missing:\n%s", tree)
	}
}

func TestUITreeNotConnected(t *testing.T) {
	s := New(newTestProvider(), testOptions())
	if _, err := s.UITree(3); err == nil {
		t.Fatal("expected error when not connected")
	}
}
