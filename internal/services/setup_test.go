package services

import (
	"testing"

	"github.com/JException/mentee-hotline/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own in-memory database with the full
// schema migrated. Open connections are capped at one so the in-memory
// store is not silently duplicated per pooled connection.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Participant{},
		&models.Message{},
		&models.Ticket{},
		&models.TicketReply{},
	))
	return db
}

func createMember(t *testing.T, db *gorm.DB, name string, group int, key string) *models.Participant {
	t.Helper()
	p, err := NewParticipantService(db).Create(name, group, key)
	require.NoError(t, err)
	return p
}

func createMentor(t *testing.T, db *gorm.DB) *models.Participant {
	t.Helper()
	mentor := &models.Participant{
		Name:      "Mentor",
		Role:      models.RoleMentor,
		GroupNum:  models.MentorGroup,
		AccessKey: "mentor:test",
	}
	require.NoError(t, db.Create(mentor).Error)
	return mentor
}
