package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/mindchat/internal/knowledge"
	"github.com/ziadkadry99/mindchat/internal/llm"
)

const questionSystemPrompt = `You are a patient tutor who writes practice questions.
For the student's request, write three to five study questions in Markdown:
a numbered list, each question followed by a short answer hint in italics.
Base the questions on the reference material when it is relevant. Answer in
the language of the request.`

// Retriever finds reference passages for a request.
type Retriever interface {
	Search(ctx context.Context, query string, n int) ([]knowledge.Passage, error)
}

// QuestionAgent writes study questions, grounded in the knowledge base
// when one is loaded.
type QuestionAgent struct {
	llm     llm.Provider
	kb      Retriever
	results int
	log     zerolog.Logger
}

// NewQuestionAgent creates a question agent. kb may be nil; results caps
// how many passages go into the prompt.
func NewQuestionAgent(p llm.Provider, kb Retriever, results int, log zerolog.Logger) *QuestionAgent {
	return &QuestionAgent{llm: p, kb: kb, results: results, log: log}
}

func (a *QuestionAgent) Respond(ctx context.Context, message string) (string, error) {
	passages := a.retrieve(ctx, message)

	reply, err := a.llm.Complete(ctx, llm.Request{
		System:      questionSystemPrompt,
		Prompt:      questionPrompt(message, passages),
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("question agent: %w", err)
	}
	return reply.Text, nil
}

// retrieve returns reference passages. Retrieval problems are logged and
// the agent continues without context.
func (a *QuestionAgent) retrieve(ctx context.Context, message string) []knowledge.Passage {
	if a.kb == nil || a.results <= 0 {
		return nil
	}
	passages, err := a.kb.Search(ctx, message, a.results)
	if err != nil {
		a.log.Warn().Err(err).Msg("knowledge search failed, answering without context")
		return nil
	}
	a.log.Debug().Int("passages", len(passages)).Msg("knowledge retrieved")
	return passages
}

func questionPrompt(message string, passages []knowledge.Passage) string {
	var b strings.Builder
	if len(passages) > 0 {
		b.WriteString("Reference material:\n")
		for i, p := range passages {
			fmt.Fprintf(&b, "[%d] (%s)\n%s\n\n", i+1, p.Source, strings.TrimSpace(p.Text))
		}
	}
	b.WriteString("Request: ")
	b.WriteString(message)
	return b.String()
}
