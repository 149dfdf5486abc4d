package engine

import (
	"fmt"
	"strings"

	"winauto-mcp/internal/platform"
)

const treeNameLimit = 50

// UITree renders the element tree of the current target as indented
// text, one line per element, two spaces per depth level, names
// truncated to 50 characters. Child enumeration failures prune that
// branch rather than failing the dump.
func (s *Session) UITree(maxDepth int) (string, error) {
	target, err := s.target()
	if err != nil {
		return "", err
	}

	var lines []string
	var walk func(el platform.Element, depth int)
	walk = func(el platform.Element, depth int) {
		name := el.Name()
		if runes := []rune(name); len(runes) > treeNameLimit {
			name = string(runes[:treeNameLimit])
		}
		lines = append(lines, fmt.Sprintf("%s%s  Name=\"%s\"  AutoId=\"%s\"",
			strings.Repeat("  ", depth), el.ControlType(), name, el.AutomationID()))

		if depth >= maxDepth {
			return
		}
		kids, err := el.Children()
		if err != nil {
			return
		}
		for _, child := range kids {
			walk(child, depth+1)
		}
	}

	walk(target, 0)
	return strings.Join(lines, "\n"), nil
}
