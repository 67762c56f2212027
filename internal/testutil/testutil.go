// Package testutil содержит общие помощники для тестов с in-memory SQLite.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/db"
	"github.com/Leganyst/campaign-platform/internal/model"
)

// NewDB открывает чистую in-memory базу с полной схемой.
// Одно соединение: каждое новое соединение к :memory: видит пустую базу.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), db.GormConfig(nil))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// TestPassword: пароль всех пользователей, созданных через CreateUser.
const TestPassword = "secret-password"

// CreateUser создаёт пользователя с уникальными email и username.
func CreateUser(t testing.TB, gdb *gorm.DB, name string, admin bool) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &model.User{
		Email:        fmt.Sprintf("%s@example.com", name),
		Username:     name,
		PasswordHash: string(hash),
		IsAdmin:      admin,
	}
	if err := gdb.WithContext(context.Background()).Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

// CreateRole создаёт роль с указанным именем.
func CreateRole(t testing.TB, gdb *gorm.DB, name string) *model.Role {
	t.Helper()

	r := &model.Role{Name: name}
	if err := gdb.Create(r).Error; err != nil {
		t.Fatalf("create role %s: %v", name, err)
	}
	return r
}

// CreateCharacter создаёт персонажа, принадлежащего ownerID.
func CreateCharacter(t testing.TB, gdb *gorm.DB, name string, ownerID int64) *model.Character {
	t.Helper()

	c := &model.Character{Name: name, UserID: ownerID}
	if err := gdb.Omit("User").Create(c).Error; err != nil {
		t.Fatalf("create character %s: %v", name, err)
	}
	return c
}
