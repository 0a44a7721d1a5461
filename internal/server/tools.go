package server

import "github.com/mark3labs/mcp-go/mcp"

func (s *Server) registerTools() {
	// status
	s.mcp.AddTool(
		mcp.NewTool("status",
			mcp.WithDescription("Report the active accessibility backend, whether it is a real platform backend, and the mirrored node count"),
		),
		s.handleStatus,
	)

	// tree
	s.mcp.AddTool(
		mcp.NewTool("tree",
			mcp.WithDescription("Read the accessible element tree as assistive technology sees it. Returns elements with IDs, role codes, names, values, cell bounds, states and actions."),
			mcp.WithString("roles", mcp.Description("Comma-separated role codes to keep (e.g. 'btn,input' or 'interactive')")),
			mcp.WithString("text", mcp.Description("Filter elements by name, value, description or hint")),
			mcp.WithBoolean("focused", mcp.Description("Only return the focused element and its ancestors")),
			mcp.WithString("bbox", mcp.Description("Only elements intersecting 'x,y,w,h' in cells")),
			mcp.WithBoolean("prune", mcp.Description("Drop anonymous structural groups")),
			mcp.WithString("format", mcp.Description("Output format: yaml (default), json or tree")),
		),
		s.handleTree,
	)

	// nodes
	s.mcp.AddTool(
		mcp.NewTool("nodes",
			mcp.WithDescription("List mirrored elements as a flat list with a path breadcrumb per element"),
			mcp.WithString("roles", mcp.Description("Comma-separated role codes to keep")),
			mcp.WithString("text", mcp.Description("Filter elements by text content")),
		),
		s.handleNodes,
	)

	// node
	s.mcp.AddTool(
		mcp.NewTool("node",
			mcp.WithDescription("Show one mirrored node, its links, and the native role and actions the backend exposes"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Node ID")),
		),
		s.handleNode,
	)

	// focus
	s.mcp.AddTool(
		mcp.NewTool("focus",
			mcp.WithDescription("Move UI focus to an element, or clear it when id is empty"),
			mcp.WithString("id", mcp.Description("Element ID")),
		),
		s.handleFocus,
	)

	// announce
	s.mcp.AddTool(
		mcp.NewTool("announce",
			mcp.WithDescription("Queue a message for screen readers"),
			mcp.WithString("message", mcp.Required(), mcp.Description("Text to announce")),
			mcp.WithString("priority", mcp.Description("polite (default) or assertive")),
		),
		s.handleAnnounce,
	)

	// action
	s.mcp.AddTool(
		mcp.NewTool("action",
			mcp.WithDescription("Perform an accessibility action on an element, as a screen reader would: invoke, focus, set-value, toggle, expand, collapse, select, scroll-into-view, increment, decrement"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Element ID")),
			mcp.WithString("action", mcp.Required(), mcp.Description("Action name")),
			mcp.WithString("value", mcp.Description("Value for set-value")),
		),
		s.handleAction,
	)

	// signals
	s.mcp.AddTool(
		mcp.NewTool("signals",
			mcp.WithDescription("List the OS notifications an emulated backend (linux, darwin) would have raised, oldest first"),
			mcp.WithNumber("limit", mcp.Description("Only the most recent N signals (0 = all)")),
		),
		s.handleSignals,
	)
}
