package migration

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/pkg/database"
)

type note struct {
	ID   uint
	Body string
}

type createNotes struct{}

func (createNotes) Up(db *gorm.DB) error   { return db.AutoMigrate(&note{}) }
func (createNotes) Down(db *gorm.DB) error { return db.Migrator().DropTable(&note{}) }

func TestRunStatusRollback(t *testing.T) {
	Register("20990101000000_create_notes_table", createNotes{})
	t.Cleanup(func() {
		mu.Lock()
		delete(registry, "20990101000000_create_notes_table")
		mu.Unlock()
	})

	db, err := database.Open("sqlite", "file:migration_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var out bytes.Buffer
	r := New(db, &out)

	n, err := r.Run()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
	assert.True(t, db.Migrator().HasTable(&note{}))
	assert.Contains(t, out.String(), "Migrated:  20990101000000_create_notes_table")

	n, err = r.Run()
	require.NoError(t, err)
	assert.Zero(t, n)

	status, err := r.Status()
	require.NoError(t, err)
	require.NotEmpty(t, status)
	last := status[len(status)-1]
	assert.Equal(t, Status{Name: "20990101000000_create_notes_table", Ran: true, Batch: 1}, last)

	_, err = r.Rollback()
	require.NoError(t, err)
	assert.False(t, db.Migrator().HasTable(&note{}))
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	Register("20990101000001_dup", createNotes{})
	t.Cleanup(func() {
		mu.Lock()
		delete(registry, "20990101000001_dup")
		mu.Unlock()
	})
	assert.Panics(t, func() { Register("20990101000001_dup", createNotes{}) })
}
