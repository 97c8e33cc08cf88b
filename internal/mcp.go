package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"shortgen-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	// generate_short tool (paid - runs the full generation workflow)
	s.mcpServer.AddTool(mcp.NewTool("generate_short",
		mcp.WithDescription("Generate a narrated short video from a topic prompt (PAID - makes OpenAI chat, image and speech calls) and save it as a project. Requires OPENAI_API_KEY to be set. Returns the saved project summary."),
		mcp.WithString("topic",
			mcp.Description("Topic prompt for the short, e.g. 'A robot learns to cook'"),
			mcp.Required(),
		),
	), s.handleGenerateShort)

	// list_projects tool
	s.mcpServer.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List all saved short projects with their ids, topics, titles and scene counts (FREE, local only)."),
	), s.handleListProjects)

	// get_project tool
	s.mcpServer.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Get one saved project by id: topic, title, hashtags and the full scene breakdown (FREE, local only)."),
		mcp.WithString("id",
			mcp.Description("Numeric project id as returned by list_projects"),
			mcp.Required(),
		),
	), s.handleGetProject)
}

// handleGenerateShort implements the generate_short tool
func (s *MCPServer) handleGenerateShort(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("topic parameter is required and must be a string"), nil
	}

	MCPLogInfo("generate_short topic=%q", topic)

	result, err := s.app.workflow.Generate(ctx, topic, nil)
	if err != nil {
		s.app.workflow.Restart()
		MCPLogError("generate_short failed: %v", err)
		return mcp.NewToolResultErrorFromErr("generation failed", err), nil
	}

	project, err := s.app.library.Save(ctx, result)
	if err != nil {
		MCPLogError("generate_short save failed: %v", err)
		return mcp.NewToolResultErrorFromErr("generated but could not save project", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Project: %d\n", project.ID))
	buf.WriteString(formatProject(project))
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleListProjects implements the list_projects tool
func (s *MCPServer) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects := s.app.library.Projects()
	MCPLogDebug("list_projects -> %d projects", len(projects))
	if len(projects) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("No saved projects")},
		}, nil
	}

	var buf strings.Builder
	for _, p := range projects {
		buf.WriteString(fmt.Sprintf("%d\t%s\t%s\t%d scenes\n", p.ID, p.Topic, p.Title, len(p.Scenes)))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleGetProject implements the get_project tool
func (s *MCPServer) handleGetProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arg, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required and must be a string"), nil
	}

	id, err := ParseProjectID(arg)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid project id", err), nil
	}

	MCPLogDebug("get_project id=%d", id)
	project := s.app.library.Get(id)
	if project == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no project with id %d", id)), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(formatProject(project))},
	}, nil
}

// formatProject renders a project as plain text for tool output
func formatProject(p *SavedProject) string {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Topic: %s\n", p.Topic))
	buf.WriteString(fmt.Sprintf("Title: %s\n", p.Title))
	buf.WriteString(fmt.Sprintf("Hashtags: %s\n", p.Hashtags))
	for i, scene := range p.Scenes {
		buf.WriteString(fmt.Sprintf("Scene %d (%.1fs): %s\n", i+1, scene.Duration, scene.SceneDescription))
	}
	return buf.String()
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}
