package services

import (
	"fmt"
	"time"

	"github.com/JException/mentee-hotline/internal/models"

	"gorm.io/gorm"
)

// HeartbeatService keeps per-participant liveness timestamps and derives
// the per-group online counts shown on the mentor dashboard.
type HeartbeatService struct {
	db     *gorm.DB
	window time.Duration
	now    func() time.Time
}

func NewHeartbeatService(db *gorm.DB, window time.Duration) *HeartbeatService {
	return &HeartbeatService{db: db, window: window, now: time.Now}
}

// Beat marks the participant as active now. Safe to call repeatedly.
func (s *HeartbeatService) Beat(participantID uint) error {
	res := s.db.Model(&models.Participant{}).
		Where("id = ?", participantID).
		Update("last_active_at", s.now())
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrHeartbeatUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// OnlineCounts returns group number -> count of member participants seen
// within the liveness window. The counts represent student presence for
// the mentor's dashboard, so the mentor is never included. Groups with no
// recent heartbeat are simply absent.
func (s *HeartbeatService) OnlineCounts() (map[int]int, error) {
	cutoff := s.now().Add(-s.window)

	var rows []struct {
		GroupNum int
		Count    int
	}
	err := s.db.Model(&models.Participant{}).
		Select("group_num, count(*) as count").
		Where("role = ? AND last_active_at > ?", models.RoleMember, cutoff).
		Group("group_num").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeartbeatUnavailable, err)
	}

	counts := make(map[int]int, len(rows))
	for _, r := range rows {
		counts[r.GroupNum] = r.Count
	}
	return counts, nil
}
