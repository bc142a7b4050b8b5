package presence

import (
	"testing"

	"github.com/JException/mentee-hotline/internal/models"

	"github.com/stretchr/testify/assert"
)

func chat(role, content string) Message {
	return Message{SenderRole: role, Kind: models.MessageKindChat, Content: content}
}

func event(role, ev string) Message {
	return Message{SenderRole: role, Kind: models.MessageKindPresence, Event: ev}
}

func legacy(role, content string) Message {
	return Message{SenderRole: role, Kind: models.MessageKindChat, Content: content}
}

func TestInferEmptyHistory(t *testing.T) {
	assert.Equal(t, StatusOffline, Infer(nil, models.RoleMember))
	assert.Equal(t, StatusOffline, Infer([]Message{}, models.RoleMentor))
}

func TestInferTypedJoin(t *testing.T) {
	msgs := []Message{
		chat(models.RoleMember, "anyone there?"),
		event(models.RoleMentor, models.PresenceEventJoined),
	}
	assert.Equal(t, StatusOnline, Infer(msgs, models.RoleMember))
}

func TestInferTypedLeave(t *testing.T) {
	msgs := []Message{
		event(models.RoleMentor, models.PresenceEventJoined),
		chat(models.RoleMentor, "back later"),
		event(models.RoleMentor, models.PresenceEventLeft),
	}
	assert.Equal(t, StatusOffline, Infer(msgs, models.RoleMember))
}

func TestInferLegacyMarkers(t *testing.T) {
	joined := []Message{legacy(models.RoleMentor, "_Mentor has joined the chat._")}
	assert.Equal(t, StatusOnline, Infer(joined, models.RoleMember))

	disconnected := []Message{legacy(models.RoleMentor, "_Mentor has disconnected._")}
	assert.Equal(t, StatusOffline, Infer(disconnected, models.RoleMember))

	left := []Message{legacy(models.RoleMentor, "_Mentor left (Closed Tab)._")}
	assert.Equal(t, StatusOffline, Infer(left, models.RoleMember))
}

// A regular message is recent real activity: it wins even over an older
// leave marker.
func TestInferRegularMessageMeansOnline(t *testing.T) {
	msgs := []Message{
		event(models.RoleMentor, models.PresenceEventLeft),
		chat(models.RoleMentor, "actually, one more thing"),
	}
	assert.Equal(t, StatusOnline, Infer(msgs, models.RoleMember))
}

// Join marker followed by a normal message from the same side: the normal
// message is the first qualifying one and reads as online.
func TestInferJoinThenChatViewedByMentor(t *testing.T) {
	msgs := []Message{
		legacy(models.RoleMember, "_A has joined the chat._"),
		chat(models.RoleMember, "hello"),
	}
	assert.Equal(t, StatusOnline, Infer(msgs, models.RoleMentor))
}

// Messages from the viewer's own side are skipped entirely; a self-sent
// join marker must not flip the counterpart's status.
func TestInferIgnoresOwnSide(t *testing.T) {
	msgs := []Message{
		legacy(models.RoleMember, "_A has joined the chat._"),
		chat(models.RoleMember, "is anyone here?"),
	}
	assert.Equal(t, StatusOffline, Infer(msgs, models.RoleMember))
}

func TestInferMentorViewpoint(t *testing.T) {
	msgs := []Message{
		chat(models.RoleMentor, "checking in"),
		event(models.RoleMember, models.PresenceEventJoined),
	}
	assert.Equal(t, StatusOnline, Infer(msgs, models.RoleMentor))

	msgs = append(msgs, event(models.RoleMember, models.PresenceEventLeft))
	assert.Equal(t, StatusOffline, Infer(msgs, models.RoleMentor))
}

// A system-looking marker without a join/leave keyword is not a verdict;
// the scan continues into older history.
func TestInferSkipsUnknownMarkers(t *testing.T) {
	msgs := []Message{
		event(models.RoleMentor, models.PresenceEventJoined),
		legacy(models.RoleMentor, "_history purged_"),
	}
	assert.Equal(t, StatusOnline, Infer(msgs, models.RoleMember))
}

func TestInferNoMessagesFromOtherSide(t *testing.T) {
	msgs := []Message{
		chat(models.RoleMember, "hello?"),
		chat(models.RoleMember, "anyone?"),
	}
	assert.Equal(t, StatusOffline, Infer(msgs, models.RoleMember))
}
