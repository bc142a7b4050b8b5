package models

import "time"

type Ticket struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Status      string        `gorm:"size:10;not null;default:'OPEN'" json:"status"`
	GroupNum    int           `gorm:"not null;index" json:"group_num"`
	CreatedByID uint          `gorm:"not null" json:"created_by_id"`
	CreatedBy   Participant   `gorm:"foreignKey:CreatedByID" json:"-"`
	ImageURL    string        `gorm:"size:500" json:"image_url,omitempty"`
	Replies     []TicketReply `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"replies"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

const (
	TicketStatusOpen     = "OPEN"
	TicketStatusResolved = "RESOLVED"
)

type TicketReply struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TicketID  uint      `gorm:"not null;index" json:"ticket_id"`
	Sender    string    `gorm:"size:100;not null" json:"sender"`
	Role      string    `gorm:"size:10;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
