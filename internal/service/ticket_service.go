package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
)

// TicketService: очередь обращений к персоналу.
// Корзины, назначение, статусы и доступы меняют только администраторы;
// тикет может открыть любой вошедший пользователь.
type TicketService struct {
	repos *repository.Repositories
	log   *zap.Logger
	now   func() time.Time
}

func NewTicketService(repos *repository.Repositories, log *zap.Logger) *TicketService {
	return &TicketService{
		repos: repos,
		log:   loggerOrNop(log).Named("tickets"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *TicketService) CreateBucket(ctx context.Context, actor *model.User, name string) (*model.Bucket, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name, err := cleanRequired("name", name, 64)
	if err != nil {
		return nil, err
	}
	b := &model.Bucket{Name: name}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return tx.Tickets.CreateBucket(ctx, b)
	})
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return b, nil
}

func (s *TicketService) ListBuckets(ctx context.Context, actor *model.User) ([]model.Bucket, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	buckets, err := s.repos.Tickets.ListBuckets(ctx)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return buckets, nil
}

// OpenTicket создаёт тикет в статусе Open; автор получает права на чтение и запись.
func (s *TicketService) OpenTicket(ctx context.Context, actor *model.User, bucketID int64, title string) (*model.BucketTicket, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	title, err := cleanRequired("title", title, 128)
	if err != nil {
		return nil, err
	}

	now := s.now()
	t := &model.BucketTicket{
		BucketID:     bucketID,
		Title:        title,
		CreatorID:    actor.ID,
		Status:       model.TicketStatusOpen,
		CreatedAt:    now,
		LastModified: now,
	}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Tickets.GetBucket(ctx, bucketID); err != nil {
			return invalidRef(err, "bucket", MsgBucketMissing)
		}
		if err := tx.Tickets.Create(ctx, t); err != nil {
			return storageErr(err, MsgStorage)
		}
		return storageErr(tx.Tickets.SetAccess(ctx, &model.TicketAccess{
			TicketID: t.ID,
			UserID:   actor.ID,
			CanRead:  true,
			CanWrite: true,
		}), MsgStorage)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("ticket opened", actorField(actor), zap.Int64("ticket_id", t.ID), zap.Int64("bucket_id", bucketID))
	return t, nil
}

// Get возвращает тикет с комментариями, если у пользователя есть право чтения.
func (s *TicketService) Get(ctx context.Context, actor *model.User, ticketID int64) (*model.BucketTicket, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	t, err := s.repos.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, storageErr(err, MsgTicketMissing)
	}
	if actor.IsAdmin {
		return t, nil
	}
	for _, a := range t.Access {
		if a.UserID == actor.ID && a.CanRead {
			return t, nil
		}
	}
	return nil, apperrors.PermissionDenied(MsgNoReadAccess)
}

// AssignTicket назначает исполнителя; assigneeID == nil снимает назначение.
func (s *TicketService) AssignTicket(ctx context.Context, actor *model.User, ticketID int64, assigneeID *int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if assigneeID != nil {
			if _, err := tx.Users.GetByID(ctx, *assigneeID); err != nil {
				return invalidRef(err, "assignee", MsgUserMissing)
			}
		}
		err := tx.Tickets.Update(ctx, ticketID, map[string]any{
			"assignee_id":   assigneeID,
			"last_modified": s.now(),
		})
		if err != nil {
			return storageErr(err, MsgTicketMissing)
		}
		if assigneeID == nil {
			return nil
		}
		return storageErr(tx.Tickets.SetAccess(ctx, &model.TicketAccess{
			TicketID: ticketID,
			UserID:   *assigneeID,
			CanRead:  true,
			CanWrite: true,
		}), MsgStorage)
	})
}

func (s *TicketService) SetTicketStatus(ctx context.Context, actor *model.User, ticketID int64, status model.TicketStatus) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !status.Valid() {
		return apperrors.Invalid("status", MsgStatus)
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		err := tx.Tickets.Update(ctx, ticketID, map[string]any{
			"status":        status,
			"last_modified": s.now(),
		})
		return storageErr(err, MsgTicketMissing)
	})
	if err != nil {
		return err
	}
	s.log.Info("ticket status changed", actorField(actor), zap.Int64("ticket_id", ticketID), zap.Stringer("status", status))
	return nil
}

// CommentTicket добавляет комментарий. Нужны права записи или администратор.
func (s *TicketService) CommentTicket(ctx context.Context, actor *model.User, ticketID int64, text string) (*model.TicketComment, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	text, err := cleanRequired("comment", text, 1024)
	if err != nil {
		return nil, err
	}

	now := s.now()
	c := &model.TicketComment{TicketID: ticketID, AuthorID: actor.ID, Comment: text, CreatedAt: now}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Tickets.GetByID(ctx, ticketID); err != nil {
			return storageErr(err, MsgTicketMissing)
		}
		if !actor.IsAdmin {
			acc, err := tx.Tickets.GetAccess(ctx, ticketID, actor.ID)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return apperrors.PermissionDenied(MsgNoWriteAccess)
			case err != nil:
				return storageErr(err, MsgStorage)
			case !acc.CanWrite:
				return apperrors.PermissionDenied(MsgNoWriteAccess)
			}
		}
		if err := tx.Tickets.AddComment(ctx, c); err != nil {
			return storageErr(err, MsgStorage)
		}
		return storageErr(tx.Tickets.Update(ctx, ticketID, map[string]any{"last_modified": now}), MsgTicketMissing)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *TicketService) GrantTicketAccess(ctx context.Context, actor *model.User, ticketID, userID int64, canRead, canWrite bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Tickets.GetByID(ctx, ticketID); err != nil {
			return storageErr(err, MsgTicketMissing)
		}
		if _, err := tx.Users.GetByID(ctx, userID); err != nil {
			return invalidRef(err, "user", MsgUserMissing)
		}
		// запись без чтения не имеет смысла
		if canWrite {
			canRead = true
		}
		if err := tx.Tickets.SetAccess(ctx, &model.TicketAccess{
			TicketID: ticketID,
			UserID:   userID,
			CanRead:  canRead,
			CanWrite: canWrite,
		}); err != nil {
			return storageErr(err, MsgStorage)
		}
		return storageErr(tx.Tickets.Update(ctx, ticketID, map[string]any{"last_modified": s.now()}), MsgTicketMissing)
	})
}

// TicketsVisibleTo: администратор видит все тикеты, остальные только доступные им.
func (s *TicketService) TicketsVisibleTo(ctx context.Context, actor *model.User) ([]model.BucketTicket, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	var (
		tickets []model.BucketTicket
		err     error
	)
	if actor.IsAdmin {
		tickets, err = s.repos.Tickets.ListAll(ctx)
	} else {
		tickets, err = s.repos.Tickets.VisibleTo(ctx, actor.ID)
	}
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return tickets, nil
}
