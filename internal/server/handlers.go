package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/output"
	"github.com/mj1618/a11y-bridge/internal/platform"
	"github.com/mj1618/a11y-bridge/internal/scene"
)

// StatusResult is the output of the status tool.
type StatusResult struct {
	Platform  string   `yaml:"platform"          json:"platform"`
	Supported bool     `yaml:"supported"         json:"supported"`
	Enabled   bool     `yaml:"enabled"           json:"enabled"`
	Nodes     int      `yaml:"nodes"             json:"nodes"`
	Root      string   `yaml:"root,omitempty"    json:"root,omitempty"`
	Focused   string   `yaml:"focused,omitempty" json:"focused,omitempty"`
	Backends  []string `yaml:"backends,flow"     json:"backends"`
}

// NodeResult is the output of the node tool.
type NodeResult struct {
	Element       model.Element `yaml:"element"                  json:"element"`
	Parent        string        `yaml:"parent,omitempty"         json:"parent,omitempty"`
	Children      []string      `yaml:"children,flow,omitempty"  json:"children,omitempty"`
	NativeRole    string        `yaml:"native_role,omitempty"    json:"native_role,omitempty"`
	NativeActions []string      `yaml:"native_actions,flow,omitempty" json:"native_actions,omitempty"`
}

// ActionResult is the output of the action tool.
type ActionResult struct {
	ID      string `yaml:"id"      json:"id"`
	Action  string `yaml:"action"  json:"action"`
	Handled bool   `yaml:"handled" json:"handled"`
}

// yamlResult serializes v to YAML for an MCP response.
func yamlResult(v any) *mcp.CallToolResult {
	text, err := output.MarshalYAML(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(text)
}

func (s *Server) tree() []model.Element {
	return s.cache.Tree(s.bridge.Tree)
}

func (s *Server) handleStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return yamlResult(StatusResult{
		Platform:  s.bridge.PlatformName(),
		Supported: s.bridge.IsPlatformSupported(),
		Enabled:   s.bridge.IsEnabled(),
		Nodes:     s.bridge.NodeCount(),
		Root:      s.bridge.RootID(),
		Focused:   s.bridge.FocusedID(),
		Backends:  platform.Registered(),
	}), nil
}

func queryFrom(request mcp.CallToolRequest) (model.Query, error) {
	q := model.Query{
		Roles:   model.SplitRoles(request.GetString("roles", "")),
		Text:    request.GetString("text", ""),
		Focused: request.GetBool("focused", false),
		Prune:   request.GetBool("prune", false),
	}
	if bbox := request.GetString("bbox", ""); bbox != "" {
		b, err := model.ParseBounds(bbox)
		if err != nil {
			return q, err
		}
		q.BBox = b
	}
	return q, nil
}

func (s *Server) handleTree(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := queryFrom(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := output.ParseFormat(request.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	elements := q.Apply(s.tree())
	result := output.TreeResult{
		Platform: s.bridge.PlatformName(),
		Root:     s.bridge.RootID(),
		Focused:  s.bridge.FocusedID(),
		Count:    s.bridge.NodeCount(),
		Elements: elements,
	}
	switch format {
	case output.FormatTree:
		return mcp.NewToolResultText(output.RenderTree(elements)), nil
	case output.FormatJSON:
		text, err := output.MarshalJSON(result)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	}
	return yamlResult(result), nil
}

func (s *Server) handleNodes(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := queryFrom(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	flat := model.FlattenElements(q.Apply(s.tree()))
	return yamlResult(output.FlatResult{
		Platform: s.bridge.PlatformName(),
		Focused:  s.bridge.FocusedID(),
		Count:    len(flat),
		Elements: flat,
	}), nil
}

func (s *Server) handleNode(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, ok := s.bridge.Node(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("node %q not found", id)), nil
	}
	result := NodeResult{
		Element:  model.ElementFromNode(n),
		Parent:   n.ParentID,
		Children: n.ChildIDs,
	}
	if e, ok := platform.EmulatedOf(s.bridge.Backend()); ok {
		result.NativeRole, _ = e.NativeRole(id)
		result.NativeActions = e.Actions(id)
	}
	return yamlResult(result), nil
}

func (s *Server) handleFocus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	err := s.do(ctx, func() error {
		_, err := s.scene.Apply(s.mirror, scene.Step{Focus: &id})
		return err
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(map[string]string{"focused": s.bridge.FocusedID()}), nil
}

func (s *Server) handleAnnounce(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msg, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a := &scene.Announcement{Message: msg, Priority: request.GetString("priority", "")}
	err = s.do(ctx, func() error {
		_, err := s.scene.Apply(s.mirror, scene.Step{Announce: a})
		return err
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(map[string]string{"announced": msg}), nil
}

func (s *Server) handleAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a := &scene.Action{ID: id, Action: name}
	if v, ok := request.GetArguments()["value"].(string); ok {
		a.Value = &v
	}

	var out scene.Outcome
	err = s.do(ctx, func() error {
		var err error
		out, err = s.scene.Apply(s.mirror, scene.Step{Action: a})
		return err
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(ActionResult{ID: id, Action: name, Handled: out.Handled}), nil
}

func (s *Server) handleSignals(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e, ok := platform.EmulatedOf(s.bridge.Backend())
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("backend %q does not record signals", s.bridge.PlatformName())), nil
	}
	signals := e.Signals()
	if limit := request.GetInt("limit", 0); limit > 0 && limit < len(signals) {
		signals = signals[len(signals)-limit:]
	}
	return yamlResult(signals), nil
}
