package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/campaign-platform/internal/model"
)

type TicketRepository interface {
	ListBuckets(ctx context.Context) ([]model.Bucket, error)
	GetBucket(ctx context.Context, id int64) (*model.Bucket, error)
	CreateBucket(ctx context.Context, b *model.Bucket) error

	Create(ctx context.Context, t *model.BucketTicket) error
	GetByID(ctx context.Context, id int64) (*model.BucketTicket, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	AddComment(ctx context.Context, c *model.TicketComment) error

	// SetAccess создаёт или обновляет права пользователя на тикет.
	SetAccess(ctx context.Context, a *model.TicketAccess) error
	GetAccess(ctx context.Context, ticketID, userID int64) (*model.TicketAccess, error)
	// VisibleTo возвращает тикеты, которые пользователь может читать.
	VisibleTo(ctx context.Context, userID int64) ([]model.BucketTicket, error)
	ListAll(ctx context.Context) ([]model.BucketTicket, error)
}

type GormTicketRepository struct {
	db *gorm.DB
}

func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

func (r *GormTicketRepository) ListBuckets(ctx context.Context) ([]model.Bucket, error) {
	var buckets []model.Bucket
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&buckets).Error; err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *GormTicketRepository) GetBucket(ctx context.Context, id int64) (*model.Bucket, error) {
	var b model.Bucket
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormTicketRepository) CreateBucket(ctx context.Context, b *model.Bucket) error {
	return r.db.WithContext(ctx).Omit("Tickets").Create(b).Error
}

func (r *GormTicketRepository) Create(ctx context.Context, t *model.BucketTicket) error {
	return r.db.WithContext(ctx).
		Omit("Bucket", "Creator", "Assignee", "Comments", "Access").
		Create(t).Error
}

func (r *GormTicketRepository) GetByID(ctx context.Context, id int64) (*model.BucketTicket, error) {
	var t model.BucketTicket
	err := r.db.WithContext(ctx).
		Preload("Bucket").
		Preload("Creator").
		Preload("Assignee").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Comments.Author").
		Preload("Access").
		Preload("Access.User").
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTicketRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.BucketTicket{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormTicketRepository) AddComment(ctx context.Context, c *model.TicketComment) error {
	return r.db.WithContext(ctx).Omit("Ticket", "Author").Create(c).Error
}

func (r *GormTicketRepository) SetAccess(ctx context.Context, a *model.TicketAccess) error {
	return r.db.WithContext(ctx).
		Omit("Ticket", "User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticket_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"can_read", "can_write"}),
		}).
		Create(a).Error
}

func (r *GormTicketRepository) GetAccess(ctx context.Context, ticketID, userID int64) (*model.TicketAccess, error) {
	var a model.TicketAccess
	err := r.db.WithContext(ctx).Where("ticket_id = ? AND user_id = ?", ticketID, userID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormTicketRepository) VisibleTo(ctx context.Context, userID int64) ([]model.BucketTicket, error) {
	var tickets []model.BucketTicket
	err := r.db.WithContext(ctx).
		Preload("Bucket").
		Joins("JOIN ticket_access_lists tal ON tal.ticket_id = bucket_tickets.id").
		Where("tal.user_id = ? AND tal.can_read = ?", userID, true).
		Order("bucket_tickets.id ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *GormTicketRepository) ListAll(ctx context.Context) ([]model.BucketTicket, error) {
	var tickets []model.BucketTicket
	if err := r.db.WithContext(ctx).Preload("Bucket").Order("id ASC").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}
