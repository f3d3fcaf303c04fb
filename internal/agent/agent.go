// Package agent answers chat messages. A Router sends mindmap and
// knowledge-graph requests to the graph agent and everything else to the
// question agent.
package agent

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Agent produces the reply text for one chat message.
type Agent interface {
	Respond(ctx context.Context, message string) (string, error)
}

// Replies used when the agent a message routes to failed to load.
const (
	GraphUnavailable    = "The knowledge graph assistant is not loaded, so this request cannot be handled."
	QuestionUnavailable = "The question assistant is not loaded, so this request cannot be handled."
)

// graphKeywords route a message to the graph agent. ASCII keywords match
// case-insensitively.
var graphKeywords = []string{"知识图谱", "思维导图", "mindmap", "图谱", "mind map", "knowledge graph"}

// WantsGraph reports whether message asks for a knowledge graph or mindmap.
func WantsGraph(message string) bool {
	lower := strings.ToLower(message)
	for _, k := range graphKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Router picks an agent per message. Either agent may be nil when it
// could not be loaded.
type Router struct {
	graph    Agent
	question Agent
	log      zerolog.Logger
}

// NewRouter creates a router over the two agents.
func NewRouter(graph, question Agent, log zerolog.Logger) *Router {
	return &Router{graph: graph, question: question, log: log}
}

// Respond routes message and returns the chosen agent's reply.
func (r *Router) Respond(ctx context.Context, message string) (string, error) {
	if WantsGraph(message) {
		if r.graph == nil {
			return GraphUnavailable, nil
		}
		r.log.Debug().Str("route", "graph").Msg("routing message")
		return r.graph.Respond(ctx, message)
	}
	if r.question == nil {
		return QuestionUnavailable, nil
	}
	r.log.Debug().Str("route", "question").Msg("routing message")
	return r.question.Respond(ctx, message)
}
