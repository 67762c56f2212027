package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
)

// AssignInput: выбранные в форме персонаж и роль.
type AssignInput struct {
	CharacterID int64
	RoleID      int64
}

// AssignmentOptions: данные для формы назначения, читаются заново на каждый запрос.
type AssignmentOptions struct {
	User       *model.User
	Characters []model.Character
	Roles      []model.Role
}

// UserProfile: карточка пользователя для администратора.
type UserProfile struct {
	User       *model.User
	Characters []model.Character
	Roles      []model.Role
}

// UserService: администрирование пользователей.
type UserService struct {
	repos *repository.Repositories
	log   *zap.Logger
}

func NewUserService(repos *repository.Repositories, log *zap.Logger) *UserService {
	return &UserService{repos: repos, log: loggerOrNop(log).Named("users")}
}

func (s *UserService) List(ctx context.Context, actor *model.User) ([]model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return users, nil
}

func (s *UserService) Profile(ctx context.Context, actor *model.User, userID int64) (*UserProfile, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	u, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err, MsgUserMissing)
	}
	chars, err := s.repos.Characters.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	roles, err := s.repos.Roles.RolesOfUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return &UserProfile{User: u, Characters: chars, Roles: roles}, nil
}

// loadAssignable загружает пользователя и проверяет, что ему можно назначать.
func loadAssignable(ctx context.Context, repos *repository.Repositories, id int64) (*model.User, error) {
	u, err := repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, MsgUserMissing)
	}
	if u.IsAdmin {
		return nil, apperrors.PermissionDenied(MsgTargetIsAdmin)
	}
	return u, nil
}

func (s *UserService) AssignmentOptions(ctx context.Context, actor *model.User, userID int64) (*AssignmentOptions, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	u, err := loadAssignable(ctx, s.repos, userID)
	if err != nil {
		return nil, err
	}
	chars, err := s.repos.Characters.List(ctx)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	roles, err := s.repos.Roles.List(ctx)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return &AssignmentOptions{User: u, Characters: chars, Roles: roles}, nil
}

// Assign передаёт выбранного персонажа пользователю и заменяет его роли выбранной.
func (s *UserService) Assign(ctx context.Context, actor *model.User, userID int64, in AssignInput) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := loadAssignable(ctx, tx, userID); err != nil {
			return err
		}
		if in.CharacterID <= 0 {
			return apperrors.Invalid("character", MsgFieldRequired)
		}
		if in.RoleID <= 0 {
			return apperrors.Invalid("role", MsgFieldRequired)
		}
		if _, err := tx.Characters.GetByID(ctx, in.CharacterID); err != nil {
			return invalidRef(err, "character", MsgCharacterMissing)
		}
		if _, err := tx.Roles.GetByID(ctx, in.RoleID); err != nil {
			return invalidRef(err, "role", MsgRoleMissing)
		}
		if err := tx.Characters.SetOwner(ctx, in.CharacterID, userID); err != nil {
			return storageErr(err, MsgStorage)
		}
		return storageErr(tx.Roles.SetUserRole(ctx, userID, in.RoleID), MsgStorage)
	})
	if err != nil {
		return err
	}

	s.log.Info("user assigned",
		actorField(actor),
		zap.Int64("user_id", userID),
		zap.Int64("character_id", in.CharacterID),
		zap.Int64("role_id", in.RoleID),
	)
	return nil
}

// DeleteUser удаляет пользователя, если у него нет персонажей и созданных тикетов.
func (s *UserService) DeleteUser(ctx context.Context, actor *model.User, userID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == userID {
		return apperrors.New(apperrors.CodeFailedPrecondition, MsgSelfDelete)
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Users.GetByID(ctx, userID); err != nil {
			return storageErr(err, MsgUserMissing)
		}
		n, err := tx.Characters.CountByUser(ctx, userID)
		if err != nil {
			return storageErr(err, MsgStorage)
		}
		if n > 0 {
			return apperrors.New(apperrors.CodeFailedPrecondition, MsgUserHasChars)
		}
		n, err = tx.Users.CountCreatedTickets(ctx, userID)
		if err != nil {
			return storageErr(err, MsgStorage)
		}
		if n > 0 {
			return apperrors.New(apperrors.CodeFailedPrecondition, MsgUserHasTickets)
		}
		return storageErr(tx.Users.Delete(ctx, userID), MsgInUse)
	})
	if err != nil {
		return err
	}

	s.log.Info("user deleted", actorField(actor), zap.Int64("user_id", userID))
	return nil
}

func (s *UserService) SetAdmin(ctx context.Context, actor *model.User, userID int64, admin bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == userID && !admin {
		return apperrors.New(apperrors.CodeFailedPrecondition, MsgSelfDemote)
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		u, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return storageErr(err, MsgUserMissing)
		}
		u.IsAdmin = admin
		return storageErr(tx.Users.Update(ctx, u), MsgStorage)
	})
	if err != nil {
		return err
	}

	s.log.Info("admin flag changed", actorField(actor), zap.Int64("user_id", userID), zap.Bool("admin", admin))
	return nil
}

// invalidRef превращает отсутствующую ссылку из формы в ошибку поля.
func invalidRef(err error, field, msg string) error {
	err = storageErr(err, msg)
	if apperrors.HasCode(err, apperrors.CodeNotFound) {
		return apperrors.Invalid(field, msg)
	}
	return err
}
