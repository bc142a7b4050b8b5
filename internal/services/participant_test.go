package services

import (
	"testing"

	"github.com/JException/mentee-hotline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateParticipantValidation(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	_, err := svc.Create("", 1, "")
	assert.Error(t, err)
	_, err = svc.Create("Group 0 Representative", 0, "")
	assert.Error(t, err)
	_, err = svc.Create("Negative", -2, "")
	assert.Error(t, err)
}

func TestCreateParticipantGeneratesKey(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	p, err := svc.Create("Group 1 Representative", 1, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, p.Role)
	assert.Len(t, p.AccessKey, 6)
}

func TestCreateParticipantDuplicateGroup(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	_, err := svc.Create("Group 1 Representative", 1, "")
	require.NoError(t, err)

	_, err = svc.Create("Another Group 1", 1, "")
	assert.ErrorIs(t, err, ErrDuplicateGroupNumber)
}

func TestCreateParticipantDuplicateKey(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	_, err := svc.Create("Group 1 Representative", 1, "sharedkey")
	require.NoError(t, err)

	_, err = svc.Create("Group 2 Representative", 2, "sharedkey")
	assert.ErrorIs(t, err, ErrDuplicateAccessCode)
}

func TestUpdateParticipant(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	p1, err := svc.Create("Group 1 Representative", 1, "key-one")
	require.NoError(t, err)
	_, err = svc.Create("Group 2 Representative", 2, "key-two")
	require.NoError(t, err)

	renamed, err := svc.Update(p1.ID, "Team Alpha", "")
	require.NoError(t, err)
	assert.Equal(t, "Team Alpha", renamed.Name)
	assert.Equal(t, "key-one", renamed.AccessKey)

	rotated, err := svc.Update(p1.ID, "", "key-three")
	require.NoError(t, err)
	assert.Equal(t, "key-three", rotated.AccessKey)

	// Rotating onto another participant's key is rejected.
	_, err = svc.Update(p1.ID, "", "key-two")
	assert.ErrorIs(t, err, ErrDuplicateAccessCode)

	// Rotating onto your own current key is fine.
	_, err = svc.Update(p1.ID, "", "key-three")
	require.NoError(t, err)

	_, err = svc.Update(p1.ID, "", "")
	assert.Error(t, err)

	_, err = svc.Update(999, "x", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedCreatesRoster(t *testing.T) {
	db := openTestDB(t)
	participants := NewParticipantService(db)
	seed := NewSeedService(db, 11, participants)

	// Pre-existing data must be wiped by the reseed.
	old := createMember(t, db, "Leftover", 42, "old-key")
	msgs := NewMessageService(db)
	_, err := msgs.Send(old.ID, 42, "stale")
	require.NoError(t, err)

	result, err := seed.Run()
	require.NoError(t, err)
	assert.NotZero(t, result.MentorID)
	require.Len(t, result.Groups, 11)

	keys := map[string]bool{}
	for i, g := range result.Groups {
		assert.Equal(t, i+1, g.GroupNum)
		assert.False(t, keys[g.AccessKey], "duplicate access key %q", g.AccessKey)
		keys[g.AccessKey] = true
	}

	var total int64
	db.Model(&models.Participant{}).Count(&total)
	assert.EqualValues(t, 12, total) // mentor + 11 groups

	stale, err := msgs.ListByGroup(42)
	require.NoError(t, err)
	assert.Empty(t, stale)
}
