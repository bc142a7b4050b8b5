package services

import (
	"fmt"

	"github.com/JException/mentee-hotline/internal/models"

	"gorm.io/gorm"
)

// SeedService wipes the database and recreates the fixed mentor-plus-groups
// roster. Used for initial setup and administrator-triggered resets only.
type SeedService struct {
	db          *gorm.DB
	groupCount  int
	participant *ParticipantService
}

func NewSeedService(db *gorm.DB, groupCount int, participant *ParticipantService) *SeedService {
	return &SeedService{db: db, groupCount: groupCount, participant: participant}
}

type SeedResult struct {
	MentorID uint        `json:"mentor_id"`
	Groups   []SeedGroup `json:"groups"`
}

type SeedGroup struct {
	GroupNum  int    `json:"group_num"`
	ID        uint   `json:"id"`
	AccessKey string `json:"access_key"`
}

// Run wipes participants, messages and tickets, then recreates the mentor
// and one member participant per group with fresh access keys.
func (s *SeedService) Run() (*SeedResult, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.TicketReply{}, &models.Ticket{}, &models.Message{}, &models.Participant{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: wipe failed: %w", err)
	}

	mentor := models.Participant{
		Name:      "Mentor",
		Role:      models.RoleMentor,
		GroupNum:  models.MentorGroup,
		AccessKey: "mentor:" + randomCode(),
	}
	if err := s.db.Create(&mentor).Error; err != nil {
		return nil, fmt.Errorf("seed: create mentor: %w", err)
	}

	result := &SeedResult{MentorID: mentor.ID}
	for i := 1; i <= s.groupCount; i++ {
		p, err := s.participant.Create(fmt.Sprintf("Group %d Representative", i), i, "")
		if err != nil {
			return nil, fmt.Errorf("seed: create group %d: %w", i, err)
		}
		result.Groups = append(result.Groups, SeedGroup{
			GroupNum:  p.GroupNum,
			ID:        p.ID,
			AccessKey: p.AccessKey,
		})
	}
	return result, nil
}
