package agent

import (
	"regexp"
	"strings"
)

// topicFillers are removed verbatim, longest first so 知识图谱 goes before
// 图谱.
var topicFillers = []string{
	"知识图谱", "思维导图", "mindmap", "图谱",
	"生成", "制作", "构建", "画", "帮我", "请", "关于",
	"：", ":",
}

var (
	graphKeywordPattern = regexp.MustCompile(`(?i)\b(knowledge graph|mind ?map)\b`)
	leadingFillers      = regexp.MustCompile(`(?i)^(?:[\s,:]*\b(?:please|generate|draw|make|build|create|about|on|of|for me|me|an|a|the)\b)+`)
	trailingFillers     = regexp.MustCompile(`(?i)(?:[\s,]*\b(?:please|for me))+[\s,.!?]*$`)
)

// ExtractTopic strips request phrasing from a graph request and returns
// the subject. English filler words are only stripped at the start or end,
// so words inside the subject survive. When nothing is left the whole input
// is the topic.
func ExtractTopic(input string) string {
	topic := input
	for _, f := range topicFillers {
		topic = strings.ReplaceAll(topic, f, "")
	}
	topic = graphKeywordPattern.ReplaceAllString(topic, " ")
	topic = strings.Join(strings.Fields(topic), " ")
	topic = leadingFillers.ReplaceAllString(topic, "")
	topic = trailingFillers.ReplaceAllString(topic, "")
	topic = strings.TrimLeft(topic, "，,。 、")
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return strings.TrimSpace(input)
	}
	return topic
}
