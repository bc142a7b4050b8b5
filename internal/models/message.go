package models

import "time"

// Message is a chat line scoped to one group. Presence events (join/leave)
// are stored as kind "presence" with the event name; their content still
// carries the legacy underscore-delimited text so old clients render them.
type Message struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	SenderID  uint        `gorm:"not null;index" json:"sender_id"`
	Sender    Participant `gorm:"foreignKey:SenderID" json:"-"`
	GroupNum  int         `gorm:"not null;index:idx_messages_group_time" json:"group_num"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Kind      string      `gorm:"size:10;not null;default:'chat'" json:"kind"`
	Event     string      `gorm:"size:10" json:"event,omitempty"`
	IsPinned  bool        `gorm:"not null;default:false" json:"is_pinned"`
	CreatedAt time.Time   `gorm:"index:idx_messages_group_time" json:"created_at"`
}

const (
	MessageKindChat     = "chat"
	MessageKindPresence = "presence"

	PresenceEventJoined = "joined"
	PresenceEventLeft   = "left"
)
