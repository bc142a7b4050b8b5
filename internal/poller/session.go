package poller

import (
	"github.com/JException/mentee-hotline/internal/models"
	"github.com/JException/mentee-hotline/internal/services"
)

// Session is the explicit session context created at login and destroyed
// at logout. It replaces the page-level globals of earlier revisions:
// everything downstream (the poller, the presence inference) receives it
// instead of reading shared mutable state.
type Session struct {
	ParticipantID uint
	Name          string
	Role          string
	GroupNum      int
	Token         string
}

// Login verifies the access code and binds the returned token to the
// client for all later calls.
func Login(client *Client, code string) (*Session, error) {
	result, err := client.Verify(code)
	if err != nil {
		return nil, err
	}

	client.SetToken(result.Token)
	return &Session{
		ParticipantID: result.Participant.ParticipantID,
		Name:          result.Participant.Name,
		Role:          result.Participant.Role,
		GroupNum:      result.Participant.GroupNum,
		Token:         result.Token,
	}, nil
}

func (s *Session) IsMentor() bool {
	return s.Role == models.RoleMentor
}

// Context converts to the server-side session shape where needed.
func (s *Session) Context() *services.SessionContext {
	return &services.SessionContext{
		ParticipantID: s.ParticipantID,
		Name:          s.Name,
		Role:          s.Role,
		GroupNum:      s.GroupNum,
	}
}
