package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
)

// GrantInput: начисление очков пользователю, опционально за персонажа.
type GrantInput struct {
	UserID      int64
	CharacterID *int64
	AwardTypeID int64
	Amount      int
	Reason      string
	// Нулевая дата означает сегодня.
	Date time.Time
}

// AwardService: типы наград и журнал начислений.
type AwardService struct {
	repos *repository.Repositories
	log   *zap.Logger
	now   func() time.Time
}

func NewAwardService(repos *repository.Repositories, log *zap.Logger) *AwardService {
	return &AwardService{
		repos: repos,
		log:   loggerOrNop(log).Named("awards"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *AwardService) ListTypes(ctx context.Context, actor *model.User) ([]model.AwardType, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	types, err := s.repos.Awards.ListTypes(ctx)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return types, nil
}

func (s *AwardService) AddType(ctx context.Context, actor *model.User, name string) (*model.AwardType, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name, err := cleanRequired("name", name, 32)
	if err != nil {
		return nil, err
	}

	t := &model.AwardType{Name: name}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return tx.Awards.CreateType(ctx, t)
	})
	if err != nil {
		return nil, storageErr(err, MsgDuplicate)
	}
	return t, nil
}

// GrantAward записывает начисление. Персонаж, если указан, должен принадлежать пользователю.
func (s *AwardService) GrantAward(ctx context.Context, actor *model.User, in GrantInput) (*model.AwardLog, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if in.Amount == 0 {
		return nil, apperrors.Invalid("amount", MsgAmount)
	}
	reason, err := cleanOptional("reason", in.Reason, 512)
	if err != nil {
		return nil, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	log := &model.AwardLog{
		UserID:      in.UserID,
		CharacterID: in.CharacterID,
		AwardTypeID: in.AwardTypeID,
		AwardDate:   datatypes.Date(time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)),
		Amount:      in.Amount,
		Reason:      reason,
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Users.GetByID(ctx, in.UserID); err != nil {
			return invalidRef(err, "user", MsgUserMissing)
		}
		if _, err := tx.Awards.GetType(ctx, in.AwardTypeID); err != nil {
			return invalidRef(err, "award_type", MsgAwardTypeMissing)
		}
		if in.CharacterID != nil {
			c, err := tx.Characters.GetByID(ctx, *in.CharacterID)
			if err != nil {
				return invalidRef(err, "character", MsgCharacterMissing)
			}
			if c.UserID != in.UserID {
				return apperrors.Invalid("character", MsgForeignCharacter)
			}
		}
		return storageErr(tx.Awards.Create(ctx, log), MsgStorage)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("award granted",
		actorField(actor),
		zap.Int64("user_id", in.UserID),
		zap.Int64("award_type_id", in.AwardTypeID),
		zap.Int("amount", in.Amount),
	)
	return log, nil
}

func (s *AwardService) History(ctx context.Context, actor *model.User, userID int64) ([]model.AwardLog, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	logs, err := s.repos.Awards.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return logs, nil
}

// AwardTotals суммирует начисления пользователя по типам наград.
func (s *AwardService) AwardTotals(ctx context.Context, actor *model.User, userID int64) ([]repository.AwardTotal, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.repos.Users.GetByID(ctx, userID); err != nil {
		return nil, storageErr(err, MsgUserMissing)
	}
	totals, err := s.repos.Awards.TotalsByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return totals, nil
}
