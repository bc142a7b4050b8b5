package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JException/mentee-hotline/internal/models"

	"gorm.io/gorm"
)

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// MessageView is a message with its sender expanded to the fields the
// clients actually render.
type MessageView struct {
	ID        uint       `json:"id"`
	Sender    SenderInfo `json:"sender"`
	SenderID  uint       `json:"sender_id"`
	GroupNum  int        `json:"group_num"`
	Content   string     `json:"content"`
	Kind      string     `json:"kind"`
	Event     string     `json:"event,omitempty"`
	IsPinned  bool       `json:"is_pinned"`
	CreatedAt time.Time  `json:"created_at"`
}

type SenderInfo struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// ListByGroup returns the group's full history, oldest first.
func (s *MessageService) ListByGroup(group int) ([]MessageView, error) {
	var msgs []models.Message
	if err := s.db.Where("group_num = ?", group).
		Order("created_at ASC, id ASC").
		Preload("Sender").
		Find(&msgs).Error; err != nil {
		return nil, err
	}

	views := make([]MessageView, len(msgs))
	for i, m := range msgs {
		views[i] = toView(m)
	}
	return views, nil
}

// Send stores a chat message. Legacy clients encode presence as
// underscore-delimited text, so content is classified on ingest: wrapped
// text with a join/leave keyword is stored as a typed presence event.
func (s *MessageService) Send(senderID uint, group int, content string) (*MessageView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("message content cannot be empty")
	}

	var sender models.Participant
	if err := s.db.First(&sender, senderID).Error; err != nil {
		return nil, ErrNotFound
	}

	kind, event := classifyContent(content)
	msg := models.Message{
		SenderID: senderID,
		GroupNum: group,
		Content:  content,
		Kind:     kind,
		Event:    event,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}

	msg.Sender = sender
	view := toView(msg)
	return &view, nil
}

// SendPresence records a typed join/leave event for the group. The content
// keeps the legacy marker text so mixed histories stay renderable.
func (s *MessageService) SendPresence(senderID uint, group int, name, event string) (*MessageView, error) {
	var content string
	switch event {
	case models.PresenceEventJoined:
		content = fmt.Sprintf("_%s has joined the chat._", name)
	case models.PresenceEventLeft:
		content = fmt.Sprintf("_%s has disconnected._", name)
	default:
		return nil, errors.New("unknown presence event")
	}

	var sender models.Participant
	if err := s.db.First(&sender, senderID).Error; err != nil {
		return nil, ErrNotFound
	}

	msg := models.Message{
		SenderID: senderID,
		GroupNum: group,
		Content:  content,
		Kind:     models.MessageKindPresence,
		Event:    event,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}

	msg.Sender = sender
	view := toView(msg)
	return &view, nil
}

// SetPinned flips the pinned flag on a single message.
func (s *MessageService) SetPinned(messageID uint, pinned bool) error {
	res := s.db.Model(&models.Message{}).
		Where("id = ?", messageID).
		Update("is_pinned", pinned)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeGroup wipes a group's entire message history. Destructive and
// mentor-only; callers surface failures explicitly.
func (s *MessageService) PurgeGroup(group int) (int64, error) {
	res := s.db.Where("group_num = ?", group).Delete(&models.Message{})
	return res.RowsAffected, res.Error
}

// classifyContent detects the legacy system-marker convention: content
// wrapped in underscores whose text names a join or leave.
func classifyContent(content string) (kind, event string) {
	if len(content) < 2 || !strings.HasPrefix(content, "_") || !strings.HasSuffix(content, "_") {
		return models.MessageKindChat, ""
	}
	lower := strings.ToLower(content)
	if strings.Contains(lower, "joined") {
		return models.MessageKindPresence, models.PresenceEventJoined
	}
	if strings.Contains(lower, "disconnected") || strings.Contains(lower, "left") {
		return models.MessageKindPresence, models.PresenceEventLeft
	}
	return models.MessageKindChat, ""
}

func toView(m models.Message) MessageView {
	return MessageView{
		ID:        m.ID,
		Sender:    SenderInfo{Name: m.Sender.Name, Role: m.Sender.Role},
		SenderID:  m.SenderID,
		GroupNum:  m.GroupNum,
		Content:   m.Content,
		Kind:      m.Kind,
		Event:     m.Event,
		IsPinned:  m.IsPinned,
		CreatedAt: m.CreatedAt,
	}
}
