package services

import (
	"testing"

	"github.com/JException/mentee-hotline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberSession(p *models.Participant) *SessionContext {
	return &SessionContext{ParticipantID: p.ID, Name: p.Name, Role: p.Role, GroupNum: p.GroupNum}
}

func mentorSession(p *models.Participant) *SessionContext {
	return &SessionContext{ParticipantID: p.ID, Name: p.Name, Role: models.RoleMentor, GroupNum: models.MentorGroup}
}

func TestCreateAndListTickets(t *testing.T) {
	db := openTestDB(t)
	svc := NewTicketService(db)
	p2 := createMember(t, db, "Group 2 Representative", 2, "")
	p3 := createMember(t, db, "Group 3 Representative", 3, "")

	_, err := svc.Create(CreateTicketInput{Title: "Printer broken", Description: "no toner", GroupNum: 2, CreatedByID: p2.ID})
	require.NoError(t, err)
	second, err := svc.Create(CreateTicketInput{Title: "Wifi down", Description: "room 3", GroupNum: 3, CreatedByID: p3.ID})
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusOpen, second.Status)
	assert.Equal(t, p3.Name, second.CreatedBy.Name)

	all, err := svc.List(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	group := 2
	scoped, err := svc.List(&group)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Printer broken", scoped[0].Title)

	_, err = svc.Create(CreateTicketInput{Title: "", Description: "x", GroupNum: 2, CreatedByID: p2.ID})
	assert.Error(t, err)
}

func TestToggleStatusRoundTrip(t *testing.T) {
	db := openTestDB(t)
	svc := NewTicketService(db)
	p := createMember(t, db, "Group 2 Representative", 2, "")

	ticket, err := svc.Create(CreateTicketInput{Title: "Printer broken", Description: "no toner", GroupNum: 2, CreatedByID: p.ID})
	require.NoError(t, err)

	resolved, err := svc.ToggleStatus(ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusResolved, resolved.Status)

	reopened, err := svc.ToggleStatus(ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusOpen, reopened.Status)

	_, err = svc.ToggleStatus(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddAndDeleteReply(t *testing.T) {
	db := openTestDB(t)
	svc := NewTicketService(db)
	mentor := createMentor(t, db)
	p := createMember(t, db, "Group 2 Representative", 2, "")
	other := createMember(t, db, "Group 3 Representative", 3, "")

	ticket, err := svc.Create(CreateTicketInput{Title: "Printer broken", Description: "no toner", GroupNum: 2, CreatedByID: p.ID})
	require.NoError(t, err)

	withReply, err := svc.AddReply(ticket.ID, p.Name, p.Role, "any update?")
	require.NoError(t, err)
	require.Len(t, withReply.Replies, 1)
	reply := withReply.Replies[0]
	assert.NotEmpty(t, reply.ID)
	assert.Equal(t, p.Name, reply.Sender)

	_, err = svc.AddReply(ticket.ID, p.Name, p.Role, "")
	assert.Error(t, err)

	// Someone else's member session may not delete the reply.
	_, err = svc.DeleteReply(ticket.ID, reply.ID, memberSession(other))
	assert.Error(t, err)

	// The author may.
	after, err := svc.DeleteReply(ticket.ID, reply.ID, memberSession(p))
	require.NoError(t, err)
	assert.Empty(t, after.Replies)

	// The mentor may delete anyone's reply.
	withReply, err = svc.AddReply(ticket.ID, p.Name, p.Role, "still waiting")
	require.NoError(t, err)
	_, err = svc.DeleteReply(ticket.ID, withReply.Replies[0].ID, mentorSession(mentor))
	require.NoError(t, err)

	_, err = svc.DeleteReply(ticket.ID, "missing-reply", memberSession(p))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTicket(t *testing.T) {
	db := openTestDB(t)
	svc := NewTicketService(db)
	p := createMember(t, db, "Group 2 Representative", 2, "")

	ticket, err := svc.Create(CreateTicketInput{Title: "Printer broken", Description: "no toner", GroupNum: 2, CreatedByID: p.ID})
	require.NoError(t, err)

	updated, err := svc.Update(ticket.ID, "Printer still broken", "no toner, no paper", "http://img/printer.png")
	require.NoError(t, err)
	assert.Equal(t, "Printer still broken", updated.Title)
	assert.Equal(t, "http://img/printer.png", updated.ImageURL)

	_, err = svc.Update(999, "x", "y", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTicketPermissions(t *testing.T) {
	db := openTestDB(t)
	svc := NewTicketService(db)
	mentor := createMentor(t, db)
	p := createMember(t, db, "Group 2 Representative", 2, "")
	other := createMember(t, db, "Group 3 Representative", 3, "")

	ticket, err := svc.Create(CreateTicketInput{Title: "Printer broken", Description: "no toner", GroupNum: 2, CreatedByID: p.ID})
	require.NoError(t, err)
	_, err = svc.AddReply(ticket.ID, p.Name, p.Role, "bump")
	require.NoError(t, err)

	assert.Error(t, svc.Delete(ticket.ID, memberSession(other)))
	require.NoError(t, svc.Delete(ticket.ID, memberSession(p)))

	var replies int64
	db.Model(&models.TicketReply{}).Where("ticket_id = ?", ticket.ID).Count(&replies)
	assert.Zero(t, replies)

	ticket, err = svc.Create(CreateTicketInput{Title: "Wifi down", Description: "room 3", GroupNum: 3, CreatedByID: other.ID})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ticket.ID, mentorSession(mentor)))

	assert.ErrorIs(t, svc.Delete(999, mentorSession(mentor)), ErrNotFound)
}
