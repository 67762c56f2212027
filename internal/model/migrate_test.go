package model_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/db"
	"github.com/Leganyst/campaign-platform/internal/model"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), db.GormConfig(nil))
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func TestAutoMigrateAndRollback(t *testing.T) {
	gdb := openDB(t)
	models := model.MigrationOrder()

	require.NoError(t, model.AutoMigrate(gdb))
	for _, m := range models {
		assert.True(t, gdb.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, gdb.Migrator().HasTable("user_roles"))
	assert.True(t, gdb.Migrator().HasTable("inventory"))

	// Повторная миграция не должна падать.
	require.NoError(t, model.AutoMigrate(gdb))

	require.NoError(t, model.Rollback(gdb))
	for _, m := range models {
		assert.False(t, gdb.Migrator().HasTable(m), "%T", m)
	}
}

func TestMigrationOrder_ParentsFirst(t *testing.T) {
	pos := map[string]int{}
	for i, m := range model.MigrationOrder() {
		pos[typeName(m)] = i
	}

	before := [][2]string{
		{"*model.User", "*model.Character"},
		{"*model.Role", "*model.UserRole"},
		{"*model.Character", "*model.CharacterAttribute"},
		{"*model.AttributeType", "*model.Attribute"},
		{"*model.Item", "*model.Inventory"},
		{"*model.Bucket", "*model.BucketTicket"},
		{"*model.BucketTicket", "*model.TicketAccess"},
		{"*model.AdvancementListAttribute", "*model.AdvancementListRequirement"},
	}
	for _, pair := range before {
		assert.Less(t, pos[pair[0]], pos[pair[1]], "%s must precede %s", pair[0], pair[1])
	}
}

func TestRollback_DataGone(t *testing.T) {
	gdb := openDB(t)
	require.NoError(t, model.AutoMigrate(gdb))

	u := &model.User{Email: "gm@example.com", Username: "gm", PasswordHash: "x"}
	require.NoError(t, gdb.Create(u).Error)
	require.NoError(t, gdb.Omit("User").Create(&model.Character{Name: "Aria", UserID: u.ID}).Error)

	require.NoError(t, model.Rollback(gdb))
	require.NoError(t, model.AutoMigrate(gdb))

	var n int64
	require.NoError(t, gdb.Model(&model.Character{}).Count(&n).Error)
	assert.Zero(t, n)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
