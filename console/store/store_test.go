package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/relayforge/gateway-console/database/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "console.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Credential{}))
	return db
}

func TestMemoryOnlyStore(t *testing.T) {
	s := New(nil)

	assert.False(t, s.Has(model.RoleUser))

	s.Set(model.RoleUser, "tok-u")
	token, ok := s.Get(model.RoleUser)
	assert.True(t, ok)
	assert.Equal(t, "tok-u", token)
	assert.False(t, s.Has(model.RoleAdmin))

	s.Clear(model.RoleUser)
	assert.False(t, s.Has(model.RoleUser))
}

func TestCredentialsSurviveRestart(t *testing.T) {
	db := openTestDB(t)

	s := New(db)
	s.Set(model.RoleAdmin, "tok-a")
	s.Set(model.RoleUser, "tok-u")

	restored := New(db)
	token, ok := restored.Get(model.RoleAdmin)
	assert.True(t, ok)
	assert.Equal(t, "tok-a", token)
	token, ok = restored.Get(model.RoleUser)
	assert.True(t, ok)
	assert.Equal(t, "tok-u", token)
}

func TestClearRemovesPersistedCredential(t *testing.T) {
	db := openTestDB(t)

	s := New(db)
	s.Set(model.RoleUser, "tok-u")
	s.Clear(model.RoleUser)

	restored := New(db)
	assert.False(t, restored.Has(model.RoleUser))
}

func TestSetReplacesExistingRow(t *testing.T) {
	db := openTestDB(t)

	s := New(db)
	s.Set(model.RoleUser, "tok-1")
	s.Set(model.RoleUser, "tok-2")

	var count int64
	require.NoError(t, db.Model(&model.Credential{}).Where("role = ?", model.RoleUser).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	restored := New(db)
	token, _ := restored.Get(model.RoleUser)
	assert.Equal(t, "tok-2", token)
}

func TestListenersObserveChanges(t *testing.T) {
	s := New(nil)

	type event struct {
		role  model.Role
		token string
	}
	var events []event
	s.Subscribe(func(role model.Role, token string) {
		events = append(events, event{role, token})
	})

	s.Set(model.RoleUser, "tok-1")
	s.Set(model.RoleUser, "tok-1") // unchanged, no event
	s.Set(model.RoleUser, "tok-2")
	s.Clear(model.RoleUser)
	s.Clear(model.RoleUser) // already absent, no event
	s.Set(model.RoleAdmin, "tok-a")

	assert.Equal(t, []event{
		{model.RoleUser, "tok-1"},
		{model.RoleUser, "tok-2"},
		{model.RoleUser, ""},
		{model.RoleAdmin, "tok-a"},
	}, events)
}

func TestSetEmptyTokenClears(t *testing.T) {
	s := New(nil)
	s.Set(model.RoleAdmin, "tok-a")
	s.Set(model.RoleAdmin, "")
	assert.False(t, s.Has(model.RoleAdmin))
}
