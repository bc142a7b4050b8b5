package services

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/JException/mentee-hotline/internal/models"

	"gorm.io/gorm"
)

// ParticipantService owns group/participant administration: listing,
// creation with uniqueness enforcement, and settings edits.
type ParticipantService struct {
	db *gorm.DB
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{db: db}
}

func (s *ParticipantService) List() ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.Order("group_num ASC").Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *ParticipantService) Get(id uint) (*models.Participant, error) {
	var p models.Participant
	if err := s.db.First(&p, id).Error; err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Create adds a member participant. Group numbers and access keys must
// each resolve to at most one participant; collisions are rejected here
// rather than left to the database so callers get a typed error.
func (s *ParticipantService) Create(name string, group int, accessKey string) (*models.Participant, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	if group <= 0 {
		return nil, errors.New("group number must be positive")
	}

	var count int64
	s.db.Model(&models.Participant{}).
		Where("group_num = ? AND role = ?", group, models.RoleMember).
		Count(&count)
	if count > 0 {
		return nil, ErrDuplicateGroupNumber
	}

	if accessKey == "" {
		accessKey = s.generateUniqueKey()
	} else {
		s.db.Model(&models.Participant{}).Where("access_key = ?", accessKey).Count(&count)
		if count > 0 {
			return nil, ErrDuplicateAccessCode
		}
	}

	p := models.Participant{
		Name:      name,
		Role:      models.RoleMember,
		GroupNum:  group,
		AccessKey: accessKey,
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Update renames a participant and/or rotates its access key. Empty fields
// are left untouched.
func (s *ParticipantService) Update(id uint, newName, newKey string) (*models.Participant, error) {
	var p models.Participant
	if err := s.db.First(&p, id).Error; err != nil {
		return nil, ErrNotFound
	}

	updates := map[string]interface{}{}
	if newName != "" {
		updates["name"] = newName
	}
	if newKey != "" {
		var count int64
		s.db.Model(&models.Participant{}).
			Where("access_key = ? AND id != ?", newKey, id).
			Count(&count)
		if count > 0 {
			return nil, ErrDuplicateAccessCode
		}
		updates["access_key"] = newKey
	}
	if len(updates) == 0 {
		return nil, errors.New("no changes provided")
	}

	if err := s.db.Model(&p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ParticipantService) generateUniqueKey() string {
	for {
		key := fmt.Sprintf("%06d", rand.Intn(1000000))
		var count int64
		s.db.Model(&models.Participant{}).Where("access_key = ?", key).Count(&count)
		if count == 0 {
			return key
		}
	}
}

func randomCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}
