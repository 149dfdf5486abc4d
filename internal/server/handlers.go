package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"winauto-mcp/internal/engine"
)

// stringParam extracts a string argument with a default.
func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return def
}

// intParam extracts a numeric argument with a default. JSON numbers
// arrive as float64.
func intParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func floatParam(params map[string]interface{}, key string, def float64) float64 {
	if v, ok := params[key].(float64); ok {
		return v
	}
	return def
}

// errResult reduces any failure to an error text result. The failure
// kind stays visible in the message for diagnosis.
func errResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err))
}

// selectorFrom parses the JSON selector argument.
func selectorFrom(params map[string]interface{}) (*engine.Selector, error) {
	raw := stringParam(params, "selector", "")
	if raw == "" {
		return nil, fmt.Errorf("selector is required")
	}
	return engine.ParseSelector(raw)
}

func (s *Server) handleConnectApp(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern := stringParam(request.GetArguments(), "app_name_regex", "")
	if pattern == "" {
		return errResult(fmt.Errorf("app_name_regex is required")), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	title, err := s.engine.Connect(pattern)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(connectMessage(title, s.engine.ProcessName())), nil
}

// connectMessage names the target process when it could be identified.
func connectMessage(title, process string) string {
	if process == "" {
		return "Connected to: " + title
	}
	return fmt.Sprintf("Connected to: %s (process: %s)", title, process)
}

func (s *Server) handleGetUITree(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	maxDepth := intParam(request.GetArguments(), "max_depth", 3)

	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := s.engine.UITree(maxDepth)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(tree), nil
}

func (s *Server) handleClickElement(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	sel, err := selectorFrom(params)
	if err != nil {
		return errResult(err), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.engine.Click(sel)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleSetText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	sel, err := selectorFrom(params)
	if err != nil {
		return errResult(err), nil
	}
	text := stringParam(params, "text", "")

	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.engine.SetText(sel, text)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleGetText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := selectorFrom(request.GetArguments())
	if err != nil {
		return errResult(err), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := s.engine.GetText(sel)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleSelectItem(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	sel, err := selectorFrom(params)
	if err != nil {
		return errResult(err), nil
	}
	itemName := stringParam(params, "item_name", "")

	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.engine.SelectItem(sel, itemName)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleSelectGridRow(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	sel, err := selectorFrom(params)
	if err != nil {
		return errResult(err), nil
	}
	rowIndex := intParam(params, "row_index", -1)

	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.engine.SelectGridRow(sel, rowIndex)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleSelectMenu(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	menuPath := stringParam(request.GetArguments(), "menu_path", "")

	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.engine.SelectMenu(menuPath)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleSendKeys(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keys := stringParam(request.GetArguments(), "keys", "")

	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.engine.SendKeys(keys)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleSaveScreenshot(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	filename := stringParam(params, "filename", "")
	scale := floatParam(params, "scale", 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.engine.SaveScreenshot(filename, scale)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return mcp.NewToolResultText(s.engine.Close()), nil
}

func (s *Server) handleListWindows(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	windows, err := s.engine.ListWindows()
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(formatWindowList(windows)), nil
}

// formatWindowList renders the window set as indexed lines with main /
// current markers.
func formatWindowList(windows []engine.WindowInfo) string {
	if len(windows) == 0 {
		return "No visible windows found."
	}
	var b strings.Builder
	b.WriteString("Windows:")
	for _, w := range windows {
		var markers []string
		if w.IsMain {
			markers = append(markers, "main")
		}
		if w.IsCurrent {
			markers = append(markers, "current")
		}
		fmt.Fprintf(&b, "\n  %d: %s", w.Index, w.Title)
		if len(markers) > 0 {
			fmt.Fprintf(&b, "  [%s]", strings.Join(markers, ", "))
		}
	}
	return b.String()
}

func (s *Server) handleSwitchWindow(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	title := stringParam(params, "title", "")
	index := intParam(params, "index", -1)

	s.mu.Lock()
	defer s.mu.Unlock()

	newTitle, err := s.engine.SwitchWindow(title, index)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText("Switched to: " + newTitle), nil
}
