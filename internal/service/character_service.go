package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
)

// CharacterInput: данные формы персонажа.
type CharacterInput struct {
	Name string
}

// CharacterService: администрирование персонажей.
type CharacterService struct {
	repos *repository.Repositories
	log   *zap.Logger
}

func NewCharacterService(repos *repository.Repositories, log *zap.Logger) *CharacterService {
	return &CharacterService{repos: repos, log: loggerOrNop(log).Named("characters")}
}

func (s *CharacterService) List(ctx context.Context, actor *model.User) ([]model.Character, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	chars, err := s.repos.Characters.List(ctx)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return chars, nil
}

// Owned: персонажи текущего пользователя, доступно любому вошедшему.
func (s *CharacterService) Owned(ctx context.Context, actor *model.User) ([]model.Character, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	chars, err := s.repos.Characters.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return chars, nil
}

func (s *CharacterService) Get(ctx context.Context, actor *model.User, id int64) (*model.Character, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	c, err := s.repos.Characters.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, MsgCharacterMissing)
	}
	return c, nil
}

// Add создаёт персонажа. Владельцем становится администратор, создавший его;
// передать персонажа игроку можно через назначение пользователю.
func (s *CharacterService) Add(ctx context.Context, actor *model.User, in CharacterInput) (*model.Character, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name, err := cleanRequired("name", in.Name, 60)
	if err != nil {
		return nil, err
	}

	c := &model.Character{Name: name, UserID: actor.ID}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return tx.Characters.Create(ctx, c)
	})
	if err != nil {
		return nil, storageErr(err, MsgDuplicate)
	}

	s.log.Info("character created", actorField(actor), zap.Int64("character_id", c.ID))
	return c, nil
}

func (s *CharacterService) Edit(ctx context.Context, actor *model.User, id int64, in CharacterInput) (*model.Character, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var out *model.Character
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		c, err := tx.Characters.GetByID(ctx, id)
		if err != nil {
			return storageErr(err, MsgCharacterMissing)
		}
		name, err := cleanRequired("name", in.Name, 60)
		if err != nil {
			return err
		}
		c.Name = name
		if err := tx.Characters.Update(ctx, c); err != nil {
			return storageErr(err, MsgDuplicate)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("character updated", actorField(actor), zap.Int64("character_id", id))
	return out, nil
}

// Delete удаляет персонажа вместе с зависимыми записями.
func (s *CharacterService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Characters.GetByID(ctx, id); err != nil {
			return storageErr(err, MsgCharacterMissing)
		}
		if err := tx.Characters.Delete(ctx, id); err != nil {
			return storageErr(err, MsgInUse)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("character deleted", actorField(actor), zap.Int64("character_id", id))
	return nil
}
