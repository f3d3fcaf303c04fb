package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/mindchat/internal/agent"
	"github.com/ziadkadry99/mindchat/internal/knowledge"
	"github.com/ziadkadry99/mindchat/internal/widget"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the study assistant as tools.
type Server struct {
	assistant  agent.Agent
	kb         *knowledge.Store
	classifier *widget.Classifier
	mcp        *server.MCPServer
}

// NewServer creates a new MCP server. kb may be nil when no knowledge
// base is loaded.
func NewServer(assistant agent.Agent, kb *knowledge.Store, classifier *widget.Classifier) *Server {
	if classifier == nil {
		classifier = widget.NewClassifier(widget.DefaultDiagramTag)
	}
	s := &Server{
		assistant:  assistant,
		kb:         kb,
		classifier: classifier,
	}

	s.mcp = server.NewMCPServer(
		"mindchat",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askAssistantTool, s.handleAskAssistant)
	s.mcp.AddTool(classifyReplyTool, s.handleClassifyReply)
	s.mcp.AddTool(searchKnowledgeTool, s.handleSearchKnowledge)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
