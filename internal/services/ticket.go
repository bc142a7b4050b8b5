package services

import (
	"errors"
	"time"

	"github.com/JException/mentee-hotline/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketService struct {
	db *gorm.DB
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db}
}

type CreateTicketInput struct {
	Title       string
	Description string
	GroupNum    int
	CreatedByID uint
	ImageURL    string
}

// List returns tickets newest first. group == nil means all groups
// (mentor dashboard view).
func (s *TicketService) List(group *int) ([]models.Ticket, error) {
	q := s.db.Order("created_at DESC").
		Preload("CreatedBy").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
	if group != nil {
		q = q.Where("group_num = ?", *group)
	}

	var tickets []models.Ticket
	if err := q.Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *TicketService) Create(in CreateTicketInput) (*models.Ticket, error) {
	if in.Title == "" || in.Description == "" {
		return nil, errors.New("title and description are required")
	}

	ticket := models.Ticket{
		Title:       in.Title,
		Description: in.Description,
		Status:      models.TicketStatusOpen,
		GroupNum:    in.GroupNum,
		CreatedByID: in.CreatedByID,
		ImageURL:    in.ImageURL,
	}
	if err := s.db.Create(&ticket).Error; err != nil {
		return nil, err
	}
	return s.get(ticket.ID)
}

// ToggleStatus flips OPEN <-> RESOLVED. Toggling twice restores the
// original status.
func (s *TicketService) ToggleStatus(ticketID uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.First(&ticket, ticketID).Error; err != nil {
		return nil, ErrNotFound
	}

	newStatus := models.TicketStatusResolved
	if ticket.Status == models.TicketStatusResolved {
		newStatus = models.TicketStatusOpen
	}
	if err := s.db.Model(&ticket).Update("status", newStatus).Error; err != nil {
		return nil, err
	}
	return s.get(ticketID)
}

func (s *TicketService) AddReply(ticketID uint, sender, role, content string) (*models.Ticket, error) {
	if content == "" {
		return nil, errors.New("reply content cannot be empty")
	}

	var ticket models.Ticket
	if err := s.db.First(&ticket, ticketID).Error; err != nil {
		return nil, ErrNotFound
	}

	reply := models.TicketReply{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		Sender:    sender,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&reply).Error; err != nil {
		return nil, err
	}
	return s.get(ticketID)
}

// DeleteReply removes a reply. Only the reply's author or the mentor may
// do so.
func (s *TicketService) DeleteReply(ticketID uint, replyID string, actor *SessionContext) (*models.Ticket, error) {
	var reply models.TicketReply
	if err := s.db.Where("id = ? AND ticket_id = ?", replyID, ticketID).
		First(&reply).Error; err != nil {
		return nil, ErrNotFound
	}

	if actor.Role != models.RoleMentor && reply.Sender != actor.Name {
		return nil, errors.New("not allowed to delete this reply")
	}

	if err := s.db.Delete(&reply).Error; err != nil {
		return nil, err
	}
	return s.get(ticketID)
}

// Update edits the ticket's user-facing fields.
func (s *TicketService) Update(ticketID uint, title, description, imageURL string) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.First(&ticket, ticketID).Error; err != nil {
		return nil, ErrNotFound
	}

	updates := map[string]interface{}{
		"title":       title,
		"description": description,
		"image_url":   imageURL,
	}
	if err := s.db.Model(&ticket).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.get(ticketID)
}

// Delete removes a ticket and its replies. Only the creator or the mentor
// may delete.
func (s *TicketService) Delete(ticketID uint, actor *SessionContext) error {
	var ticket models.Ticket
	if err := s.db.First(&ticket, ticketID).Error; err != nil {
		return ErrNotFound
	}

	if actor.Role != models.RoleMentor && ticket.CreatedByID != actor.ParticipantID {
		return errors.New("not allowed to delete this ticket")
	}

	if err := s.db.Where("ticket_id = ?", ticketID).Delete(&models.TicketReply{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&ticket).Error
}

func (s *TicketService) get(ticketID uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.Preload("CreatedBy").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&ticket, ticketID).Error; err != nil {
		return nil, ErrNotFound
	}
	return &ticket, nil
}
