package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/model"
)

type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountCreatedTickets(ctx context.Context, userID int64) (int64, error)
	// LockRegistration держит блокировку регистрации до конца транзакции.
	// Вызывается только внутри Repositories.Transaction.
	LockRegistration(ctx context.Context) error
}

// registrationLockKey: ключ advisory-блокировки регистрации в PostgreSQL.
const registrationLockKey int64 = 0x63796e01

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *GormUserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Preload("Roles.Role").
		Preload("Characters").
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Preload("Roles.Role").
		Preload("Characters").
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("user_name = ?", strings.TrimSpace(username)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) Create(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *GormUserRepository) Update(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Omit("Roles", "Characters", "Awards").Save(u).Error
}

// Delete удаляет пользователя вместе с ролями и сессиями.
// Проверка на наличие персонажей выполняется на уровне сервиса.
func (r *GormUserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.TicketAccess{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&model.TicketComment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.BucketTicket{}).Where("assignee_id = ?", id).Update("assignee_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.AwardLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormUserRepository) CountCreatedTickets(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.BucketTicket{}).Where("creator_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormUserRepository) LockRegistration(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		return db.Exec("SELECT pg_advisory_xact_lock(?)", registrationLockKey).Error
	}
	// SQLite: пустой UPDATE берёт блокировку записи на всю транзакцию.
	return db.Exec("UPDATE users SET id = id WHERE 1 = 0").Error
}
