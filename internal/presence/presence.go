// Package presence infers whether the chat counterpart is online by
// scanning a group's message history. It is a heuristic over recency, not
// a guarantee: a join event with no later traffic reads as online
// indefinitely, because nothing here expires on wall-clock time.
package presence

import (
	"strings"

	"github.com/JException/mentee-hotline/internal/models"
)

type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// Message is the slice of a chat message the inference needs.
type Message struct {
	SenderRole string
	Kind       string
	Event      string
	Content    string
}

// Infer classifies the remote counterpart from the viewer's standpoint.
// Messages may be passed in display order (oldest first); the scan runs
// newest first. The first message from the other side decides:
//
//   - a presence join event (typed, or legacy "_..._" marker text
//     containing "joined") means online;
//   - a presence leave event ("disconnected"/"left") means offline;
//   - any regular message means online, since recent real activity
//     implies presence;
//   - anything else keeps scanning.
//
// Messages from the viewer's own side never flip the status. With no
// qualifying message at all the counterpart is reported offline.
func Infer(msgs []Message, viewerRole string) Status {
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		if !fromOtherSide(msg, viewerRole) {
			continue
		}

		if msg.Kind == models.MessageKindPresence {
			switch msg.Event {
			case models.PresenceEventJoined:
				return StatusOnline
			case models.PresenceEventLeft:
				return StatusOffline
			}
			continue
		}

		if isLegacyMarker(msg.Content) {
			lower := strings.ToLower(msg.Content)
			if strings.Contains(lower, "joined") {
				return StatusOnline
			}
			if strings.Contains(lower, "disconnected") || strings.Contains(lower, "left") {
				return StatusOffline
			}
			continue
		}

		return StatusOnline
	}
	return StatusOffline
}

// fromOtherSide reports whether the message's sender is the counterpart
// relative to the viewer: members look for the mentor, the mentor looks
// for any non-mentor sender.
func fromOtherSide(msg Message, viewerRole string) bool {
	if viewerRole == models.RoleMentor {
		return msg.SenderRole != models.RoleMentor
	}
	return msg.SenderRole == models.RoleMentor
}

func isLegacyMarker(content string) bool {
	return len(content) >= 2 &&
		strings.HasPrefix(content, "_") &&
		strings.HasSuffix(content, "_")
}
