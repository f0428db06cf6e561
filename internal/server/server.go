// Package server exposes fence management as MCP tools.
package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/mj1618/desktop-fences/internal/app"
	"github.com/mj1618/desktop-fences/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// Server wraps the MCP server with the App and the listing cache.
type Server struct {
	app   *app.App
	cache *ListCache
	log   zerolog.Logger
	appMu sync.Mutex
	mcp   *mcpserver.MCPServer
}

// New creates and configures an MCP server with every fence tool.
func New(a *app.App, cfg Config, log zerolog.Logger) *Server {
	s := &Server{
		app:   a,
		cache: NewListCache(cfg.CacheTTL),
		log:   log,
	}
	s.mcp = mcpserver.NewMCPServer("desktop-fences", version.Version)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		addr := fmt.Sprintf(":%d", cfg.Port)
		s.log.Info().Str("addr", addr).Msg("serving MCP over streamable HTTP")
		return mcpserver.NewStreamableHTTPServer(s.mcp).Start(addr)
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func fenceArg() mcp.ToolOption {
	return mcp.WithString("fence", mcp.Description("Fence id or unique id prefix"), mcp.Required())
}

func (s *Server) registerTools() {
	// list
	s.mcp.AddTool(
		mcp.NewTool("list",
			mcp.WithDescription("List every fence with its tabs and tracked items. Items hidden in the staging directory are marked staged."),
		),
		s.handleList,
	)

	// show-fence
	s.mcp.AddTool(
		mcp.NewTool("show-fence",
			mcp.WithDescription("Show one fence"),
			fenceArg(),
		),
		s.readHandler("show-fence"),
	)

	// create
	s.mcp.AddTool(
		mcp.NewTool("create",
			mcp.WithDescription("Create an empty fence"),
			mcp.WithString("name", mcp.Description("Fence title")),
			mcp.WithString("bounds", mcp.Description("Screen rectangle as x,y,w,h (default from config)")),
		),
		s.writeHandler("create"),
	)

	// remove
	s.mcp.AddTool(
		mcp.NewTool("remove",
			mcp.WithDescription("Delete a fence and restore its files to the desktop"),
			fenceArg(),
		),
		s.writeHandler("remove"),
	)

	// rename
	s.mcp.AddTool(
		mcp.NewTool("rename",
			mcp.WithDescription("Change a fence's title"),
			fenceArg(),
			mcp.WithString("name", mcp.Description("New title"), mcp.Required()),
		),
		s.writeHandler("rename"),
	)

	// move
	s.mcp.AddTool(
		mcp.NewTool("move",
			mcp.WithDescription("Move or resize a fence"),
			fenceArg(),
			mcp.WithString("bounds", mcp.Description("Screen rectangle as x,y,w,h"), mcp.Required()),
		),
		s.writeHandler("move"),
	)

	// lock
	s.mcp.AddTool(
		mcp.NewTool("lock",
			mcp.WithDescription("Lock or unlock a fence"),
			fenceArg(),
			mcp.WithBoolean("locked", mcp.Description("Lock state (default: true)")),
		),
		s.writeHandler("lock"),
	)

	// add
	s.mcp.AddTool(
		mcp.NewTool("add",
			mcp.WithDescription("Track a desktop file or folder in a fence and hide it from the desktop"),
			fenceArg(),
			mcp.WithString("path", mcp.Description("Path of the desktop entry"), mcp.Required()),
			mcp.WithNumber("tab", mcp.Description("Tab index (default: 0)")),
		),
		s.writeHandler("add"),
	)

	// drop
	s.mcp.AddTool(
		mcp.NewTool("drop",
			mcp.WithDescription("Stop tracking an item and restore it to the desktop"),
			fenceArg(),
			mcp.WithString("path", mcp.Description("Tracked path or file name"), mcp.Required()),
		),
		s.writeHandler("drop"),
	)

	// move-item
	s.mcp.AddTool(
		mcp.NewTool("move-item",
			mcp.WithDescription("Move a tracked item to another tab of the same fence"),
			fenceArg(),
			mcp.WithString("path", mcp.Description("Tracked path or file name"), mcp.Required()),
			mcp.WithNumber("to", mcp.Description("Destination tab index"), mcp.Required()),
		),
		s.writeHandler("move-item"),
	)

	// tab-add
	s.mcp.AddTool(
		mcp.NewTool("tab-add",
			mcp.WithDescription("Append a tab to a fence"),
			fenceArg(),
			mcp.WithString("name", mcp.Description("Tab name")),
		),
		s.writeHandler("tab-add"),
	)

	// tab-rename
	s.mcp.AddTool(
		mcp.NewTool("tab-rename",
			mcp.WithDescription("Rename a tab"),
			fenceArg(),
			mcp.WithNumber("tab", mcp.Description("Tab index"), mcp.Required()),
			mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
		),
		s.writeHandler("tab-rename"),
	)

	// tab-delete
	s.mcp.AddTool(
		mcp.NewTool("tab-delete",
			mcp.WithDescription("Delete a tab and restore its files to the desktop. The last tab cannot be deleted."),
			fenceArg(),
			mcp.WithNumber("tab", mcp.Description("Tab index"), mcp.Required()),
		),
		s.writeHandler("tab-delete"),
	)

	// tab-move
	s.mcp.AddTool(
		mcp.NewTool("tab-move",
			mcp.WithDescription("Reorder tabs"),
			fenceArg(),
			mcp.WithNumber("from", mcp.Description("Current tab index"), mcp.Required()),
			mcp.WithNumber("to", mcp.Description("New tab index"), mcp.Required()),
		),
		s.writeHandler("tab-move"),
	)

	// hide / show
	s.mcp.AddTool(
		mcp.NewTool("hide",
			mcp.WithDescription("Move every tracked file into the staging directory"),
		),
		s.writeHandler("hide"),
	)
	s.mcp.AddTool(
		mcp.NewTool("show",
			mcp.WithDescription("Restore every tracked file to the desktop"),
		),
		s.writeHandler("show"),
	)

	// reconcile
	s.mcp.AddTool(
		mcp.NewTool("reconcile",
			mcp.WithDescription("Repair fences after files were renamed or deleted in the staging directory"),
		),
		s.writeHandler("reconcile"),
	)

	// resolve
	s.mcp.AddTool(
		mcp.NewTool("resolve",
			mcp.WithDescription("Report where a tracked path currently lives on disk"),
			mcp.WithString("path", mcp.Description("Tracked path"), mcp.Required()),
			mcp.WithBoolean("icon", mcp.Description("Also resolve the display icon")),
		),
		s.readHandler("resolve"),
	)

	// hittest
	s.mcp.AddTool(
		mcp.NewTool("hittest",
			mcp.WithDescription("Classify a screen point as empty-desktop, icon or other-window"),
			mcp.WithNumber("x", mcp.Description("Screen X coordinate"), mcp.Required()),
			mcp.WithNumber("y", mcp.Description("Screen Y coordinate"), mcp.Required()),
		),
		s.readHandler("hittest"),
	)

	// preview
	s.mcp.AddTool(
		mcp.NewTool("preview",
			mcp.WithDescription("Render the fence layout as an image"),
			mcp.WithString("format", mcp.Description("Image format: png, jpg (default: png)")),
			mcp.WithNumber("max-width", mcp.Description("Downscale to at most this width (default: 1024)")),
		),
		s.handlePreview,
	)

	// do (batch)
	s.mcp.AddTool(
		mcp.NewTool("do",
			mcp.WithDescription("Execute multiple fence operations in a batch. Each step is an object with an action key plus that tool's parameters."),
			mcp.WithArray("steps", mcp.Description("Array of step objects"), mcp.Required()),
			mcp.WithBoolean("stop-on-error", mcp.Description("Stop on first error (default: true)")),
		),
		s.handleDo,
	)
}
