package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/mindchat/internal/diagram"
	"github.com/ziadkadry99/mindchat/internal/llm"
	"github.com/ziadkadry99/mindchat/internal/widget"
)

const graphSystemPrompt = `You are a study assistant who turns a topic into a knowledge map.
Return a JSON object with two fields:
  "root": {"label": string, "children": [ ...same shape, nested... ]}
  "summary": a short Markdown paragraph explaining how the branches relate.
Keep labels under six words. Use two to four levels and at most eight
branches per node. Answer in the language of the topic.`

// graphPlan is the JSON shape the model is asked for.
type graphPlan struct {
	Root    diagram.Topic `json:"root"`
	Summary string        `json:"summary"`
}

// GraphAgent answers with a mindmap of the requested topic followed by a
// short summary, as one fenced diagram block the widget can draw.
type GraphAgent struct {
	llm    llm.Provider
	tag    string
	engine *diagram.Engine
	log    zerolog.Logger
}

// NewGraphAgent creates a graph agent. tag is the fence language the
// widget recognizes; empty means "mermaid".
func NewGraphAgent(p llm.Provider, tag string, log zerolog.Logger) *GraphAgent {
	if tag == "" {
		tag = widget.DefaultDiagramTag
	}
	return &GraphAgent{llm: p, tag: tag, engine: diagram.New(diagram.Mindmap()), log: log}
}

func (a *GraphAgent) Respond(ctx context.Context, message string) (string, error) {
	topic := ExtractTopic(message)

	reply, err := a.llm.Complete(ctx, llm.Request{
		System:      graphSystemPrompt,
		Prompt:      "Topic: " + topic,
		Temperature: 0.3,
		JSON:        true,
	})
	if err != nil {
		return "", fmt.Errorf("graph agent: %w", err)
	}

	source, summary := a.plan(topic, reply.Text)
	if source == "" {
		return reply.Text, nil
	}
	if _, err := a.engine.Parse(source); err != nil {
		a.log.Warn().Err(err).Str("topic", topic).Msg("generated diagram does not parse")
	}
	return a.compose(source, summary), nil
}

// plan turns the model's reply into diagram source and summary. It accepts
// the requested JSON, a fenced diagram block, or bare diagram source. An
// empty source means the reply has no usable diagram.
func (a *GraphAgent) plan(topic, text string) (string, string) {
	if p, ok := parsePlan(text); ok {
		if strings.TrimSpace(p.Root.Label) == "" {
			p.Root.Label = topic
		}
		return diagram.MindmapSource(p.Root), p.Summary
	}

	if c := widget.NewClassifier(a.tag).Classify(text); !c.PlainText {
		return diagram.Sanitize(c.DiagramSource), c.SummaryText
	}

	if looksLikeDiagram(text) {
		return diagram.Sanitize(text), ""
	}
	return "", ""
}

func looksLikeDiagram(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(fields[0]) {
	case "mindmap", "graph", "flowchart":
		return true
	}
	return false
}

func parsePlan(text string) (graphPlan, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return graphPlan{}, false
	}
	var p graphPlan
	if err := json.Unmarshal([]byte(text[start:end+1]), &p); err != nil {
		return graphPlan{}, false
	}
	if p.Root.Label == "" && len(p.Root.Children) == 0 {
		return graphPlan{}, false
	}
	return p, true
}

func (a *GraphAgent) compose(source, summary string) string {
	var b strings.Builder
	b.WriteString("```")
	b.WriteString(a.tag)
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(source))
	b.WriteString("\n```")
	if s := strings.TrimSpace(summary); s != "" {
		b.WriteString("\n\n")
		b.WriteString(s)
	}
	return b.String()
}
