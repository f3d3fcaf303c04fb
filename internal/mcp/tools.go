package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askAssistantTool defines the ask_assistant MCP tool.
var askAssistantTool = mcp.NewTool("ask_assistant",
	mcp.WithDescription("Send a message to the study assistant. Requests for a mind map or knowledge graph return a fenced Mermaid diagram followed by a summary; anything else returns practice questions in Markdown."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The message to send, as a user would type it into the chat widget"),
	),
)

// classifyReplyTool defines the classify_reply MCP tool.
var classifyReplyTool = mcp.NewTool("classify_reply",
	mcp.WithDescription("Split an assistant reply into diagram source and summary text the way the chat widget does before rendering."),
	mcp.WithString("reply",
		mcp.Required(),
		mcp.Description("The reply text to classify"),
	),
)

// searchKnowledgeTool defines the search_knowledge MCP tool.
var searchKnowledgeTool = mcp.NewTool("search_knowledge",
	mcp.WithDescription("Search the loaded knowledge base for passages related to a query."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of passages to return (default 5)"),
	),
)
