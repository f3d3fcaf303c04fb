package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/mindchat/internal/knowledge"
)

// classifyResult is the JSON shape returned by classify_reply.
type classifyResult struct {
	PlainText     bool   `json:"plain_text"`
	DiagramSource string `json:"diagram_source,omitempty"`
	SummaryText   string `json:"summary_text,omitempty"`
}

// handleAskAssistant routes a message through the assistant and returns its reply.
func (s *Server) handleAskAssistant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil || strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}

	reply, err := s.assistant.Respond(ctx, message)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("assistant failed: %v", err)), nil
	}

	return mcp.NewToolResultText(reply), nil
}

// handleClassifyReply returns the widget's classification of a reply as JSON.
func (s *Server) handleClassifyReply(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reply, err := request.RequireString("reply")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: reply"), nil
	}

	c := s.classifier.Classify(reply)
	data, err := json.MarshalIndent(classifyResult{
		PlainText:     c.PlainText,
		DiagramSource: c.DiagramSource,
		SummaryText:   c.SummaryText,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

// handleSearchKnowledge performs semantic search over the knowledge base.
func (s *Server) handleSearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	if s.kb == nil || s.kb.Count() == 0 {
		return mcp.NewToolResultText("No knowledge base is loaded. Set knowledge_dir in .mindchat.yml and restart."), nil
	}

	passages, err := s.kb.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(passages) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}

	return mcp.NewToolResultText(formatPassages(passages)), nil
}

func formatPassages(passages []knowledge.Passage) string {
	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "### %s (similarity: %.2f)\n\n%s\n", p.Source, p.Similarity, strings.TrimSpace(p.Text))
	}
	return b.String()
}
