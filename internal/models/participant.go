package models

import "time"

// Participant is either the mentor or a group representative. Group numbers
// are unique among members; the mentor sits in the sentinel group 0.
type Participant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Role         string    `gorm:"size:10;not null;default:'member'" json:"role"`
	GroupNum     int       `gorm:"not null;default:0;index" json:"group_num"`
	AccessKey    string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	LastActiveAt time.Time `gorm:"index" json:"last_active_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	RoleMentor = "mentor"
	RoleMember = "member"

	MentorGroup = 0
)
