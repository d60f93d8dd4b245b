// Package chat implements the ephemeral help chat sub-flow. The chat
// graph is pushed on top of whatever activity the learner is in and is
// deliberately excluded from session-slot persistence: closing the chat
// pops back to the parent activity, and a new browser session never
// lands inside a half-open chat.
package chat

import (
	"context"

	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/graphspec"
	"github.com/courselets/trail/pkg/plugin"
)

// GraphName is the name the chat graph deploys under.
const GraphName = "chat"

const nodeTalk = "TALK"

// Register adds the chat behaviors to the registry.
func Register(reg *plugin.Registry) {
	reg.Register("chat.start", start{})
	reg.Register("chat.talk", talk{})
}

// Source supplies the chat graph for deployment.
var Source = graphspec.SourceFunc(func() []*graphspec.Spec {
	return []*graphspec.Spec{
		graphspec.New(GraphName).
			Title("Help chat").
			Hide(true, true, true).
			PersistAsRoot(false).
			Node(domain.StartNodeName).Behavior("chat.start").Done().
			Node(nodeTalk).Title("Chat").Path("ct:chat").Behavior("chat.talk").Done().
			Node(domain.TerminalNodeName).Done().
			Edge(domain.StartNodeName, "next", nodeTalk).
			Edge(nodeTalk, "say", nodeTalk).
			EdgeSpec(graphspec.EdgeSpec{
				From: nodeTalk, Name: "close", To: domain.TerminalNodeName,
				Title: "Close chat", ShowOption: true,
			}).
			Spec(),
	}
})

// start drops the learner straight into the conversation.
type start struct{}

func (start) StartEvent(ctx context.Context, t *plugin.Trans) (string, bool, error) {
	path, err := t.Stack.EventOn(ctx, t.R, t.State, "next")
	if err != nil || path == "" {
		return "", false, err
	}
	return path, true, nil
}

// talk rejects empty messages on the self-loop edge.
type talk struct{}

func (talk) InputFilters() map[string]plugin.FilterFunc {
	return map[string]plugin.FilterFunc{
		"say": func(value any) bool {
			s, ok := value.(string)
			return ok && s != ""
		},
	}
}
