package health

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-logr/logr"
)

const (
	// ExternalCommandOutput is the name of messages that carry the output of
	// the remote diagnostic tool. Only these messages are checked for a
	// verdict and remembered as the preceding message.
	ExternalCommandOutput = "ExternalCommandOutput"

	statusOK           = "OK"
	messageUnavailable = "Message Unavailable"
)

var (
	nodeBoundaryPattern = regexp.MustCompile(`Check connection from master to remote replica '([^']*)`)
	resultPattern       = regexp.MustCompile(`(ecure port|TCP) \([0-9]*\): (.*)`)
	namedLinePattern    = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*): (.*)$`)
)

// Message is one entry of the legacy diagnostic stream.
type Message struct {
	Name string
	Text string
}

// ParseLegacyMessages extracts per-node health from the ordered output of the
// legacy connectivity check.
//
// A boundary message opens a new node, initially CREATED. A failed verdict
// marks the current node UNHEALTHY and records the previous distinguished
// message as the issue. Messages before the first boundary are discarded.
func ParseLegacyMessages(ctx context.Context, messages []Message) []NodeHealth {
	logger := logr.FromContextOrDiscard(ctx)

	var nodes []NodeHealth
	current := -1
	preceding := messageUnavailable

	for _, msg := range messages {
		if m := nodeBoundaryPattern.FindStringSubmatch(msg.Text); m != nil {
			nodes = append(nodes, NodeHealth{Name: m[1], Status: InstanceCreated})
			current = len(nodes) - 1
		}

		if current < 0 {
			// TODO(health): decide whether a failure reported before the first
			// boundary should mark the probed instance instead of being dropped.
			logger.Info("no node for legacy health message", "message", msg.Text)
			continue
		}
		if msg.Name != ExternalCommandOutput {
			continue
		}

		if r := resultPattern.FindStringSubmatch(msg.Text); r != nil && strings.TrimSpace(r[2]) != statusOK {
			nodes[current].Status = InstanceUnhealthy
			nodes[current].Issues = append(nodes[current].Issues, preceding)
		}
		preceding = msg.Text
	}

	return nodes
}

// MessagesFromLines turns raw tool output into messages. A line of the form
// "Name: text" keeps its name; any other line is external command output.
// Blank lines are skipped.
func MessagesFromLines(lines []string) []Message {
	messages := make([]Message, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := namedLinePattern.FindStringSubmatch(line); m != nil {
			messages = append(messages, Message{Name: m[1], Text: m[2]})
			continue
		}
		messages = append(messages, Message{Name: ExternalCommandOutput, Text: line})
	}
	return messages
}
