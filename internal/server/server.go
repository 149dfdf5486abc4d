// Package server exposes the automation engine over the Model Context
// Protocol. Every tool returns a human-readable success string or an
// "Error: ..." string; no failure propagates past this boundary.
package server

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"winauto-mcp/internal/engine"
	"winauto-mcp/internal/version"
)

// Config holds the transport configuration.
type Config struct {
	Transport string
	Port      int
}

// Server wraps the MCP server around a single automation session. The
// mutex serializes tool invocations; the engine itself is not
// re-entrant.
type Server struct {
	engine *engine.Session
	log    *slog.Logger
	mu     sync.Mutex
	mcp    *mcpserver.MCPServer
}

// New creates a server over the given session and registers all tools.
func New(sess *engine.Session, log *slog.Logger) *Server {
	s := &Server{
		engine: sess,
		log:    log,
	}
	s.mcp = mcpserver.NewMCPServer("winauto", version.Version)
	s.registerTools()
	return s
}

// Serve starts the configured transport and blocks.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("connect_app",
			mcp.WithDescription("Connect to a running Windows application by window title (regex match). Example: connect_app(\".*Notepad.*\"). Must be called before using any other tools."),
			mcp.WithString("app_name_regex", mcp.Description("Regular expression matched against window titles"), mcp.Required()),
		),
		s.handleConnectApp,
	)

	s.mcp.AddTool(
		mcp.NewTool("get_ui_tree",
			mcp.WithDescription("Get the UI element tree of the connected application window. Returns hierarchical text showing ControlType, Name, and AutomationId. Use this to discover elements before operating on them."),
			mcp.WithNumber("max_depth", mcp.Description("Maximum tree depth to walk (default: 3)")),
		),
		s.handleGetUITree,
	)

	s.mcp.AddTool(
		mcp.NewTool("click_element",
			mcp.WithDescription("Click a UI element using non-intrusive patterns (no mouse movement). selector: JSON string, e.g. {\"title\": \"OK\", \"control_type\": \"Button\"}. Selector fields (use any combination): title, control_type, auto_id, parent."),
			mcp.WithString("selector", mcp.Description("JSON selector"), mcp.Required()),
		),
		s.handleClickElement,
	)

	s.mcp.AddTool(
		mcp.NewTool("set_text",
			mcp.WithDescription("Set text on a UI element using the value pattern (no keyboard emulation). selector: JSON string, e.g. {\"auto_id\": \"txtName\"}."),
			mcp.WithString("selector", mcp.Description("JSON selector"), mcp.Required()),
			mcp.WithString("text", mcp.Description("Text to set"), mcp.Required()),
		),
		s.handleSetText,
	)

	s.mcp.AddTool(
		mcp.NewTool("get_text",
			mcp.WithDescription("Get the text content of a UI element. selector: JSON string, e.g. {\"auto_id\": \"lblStatus\"}."),
			mcp.WithString("selector", mcp.Description("JSON selector"), mcp.Required()),
		),
		s.handleGetText,
	)

	s.mcp.AddTool(
		mcp.NewTool("select_item",
			mcp.WithDescription("Select an item in a combo box or list by item name."),
			mcp.WithString("selector", mcp.Description("JSON selector identifying the combo/list element"), mcp.Required()),
			mcp.WithString("item_name", mcp.Description("Visible text of the item to select"), mcp.Required()),
		),
		s.handleSelectItem,
	)

	s.mcp.AddTool(
		mcp.NewTool("select_grid_row",
			mcp.WithDescription("Select a row in a data grid by row index (0-based)."),
			mcp.WithString("selector", mcp.Description("JSON selector identifying the grid element"), mcp.Required()),
			mcp.WithNumber("row_index", mcp.Description("0-based row index"), mcp.Required()),
		),
		s.handleSelectGridRow,
	)

	s.mcp.AddTool(
		mcp.NewTool("select_menu",
			mcp.WithDescription("Select a menu item from the menu bar. menu_path: arrow-separated path, e.g. \"File->Open\" or \"Edit->Find->Replace\"."),
			mcp.WithString("menu_path", mcp.Description("Menu path"), mcp.Required()),
		),
		s.handleSelectMenu,
	)

	s.mcp.AddTool(
		mcp.NewTool("send_keys",
			mcp.WithDescription("Send keyboard shortcuts to the connected window. Key format: ^ = Ctrl, % = Alt, + = Shift. Examples: \"^s\" (Ctrl+S), \"%{F4}\" (Alt+F4), \"{ENTER}\". NOTE: this briefly brings the window to the foreground."),
			mcp.WithString("keys", mcp.Description("Key sequence"), mcp.Required()),
		),
		s.handleSendKeys,
	)

	s.mcp.AddTool(
		mcp.NewTool("save_screenshot",
			mcp.WithDescription("Capture a screenshot of the connected window and save it to a local PNG file. NOTE: this briefly brings the window to the foreground."),
			mcp.WithString("filename", mcp.Description("File name or path; saved relative to the working directory if not absolute"), mcp.Required()),
			mcp.WithNumber("scale", mcp.Description("Optional downscale factor between 0 and 1")),
		),
		s.handleSaveScreenshot,
	)

	s.mcp.AddTool(
		mcp.NewTool("close_window",
			mcp.WithDescription("Close the connected application window and reset the session."),
		),
		s.handleCloseWindow,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List all visible windows of the connected application with index, title, and which window is the current target. Use switch_window to change the target."),
		),
		s.handleListWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("switch_window",
			mcp.WithDescription("Switch which window is the target for subsequent operations. Provide either title (substring match) or index (from list_windows). Switching to the main window re-enables automatic dialog targeting."),
			mcp.WithString("title", mcp.Description("Window title substring")),
			mcp.WithNumber("index", mcp.Description("Window index from list_windows")),
		),
		s.handleSwitchWindow,
	)
}
