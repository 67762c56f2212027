package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
)

type AttributeTypeInput struct {
	Name string
}

type AttributeInput struct {
	Name        string
	Description string
	TypeID      int64
}

// CharacterAttributeInput: ранг и комментарий атрибута персонажа.
type CharacterAttributeInput struct {
	AttributeID int64
	Rank        int
	Comment     string
}

// AttributeService: типы атрибутов, атрибуты и их ранги у персонажей.
type AttributeService struct {
	repos *repository.Repositories
	log   *zap.Logger
	now   func() time.Time
}

func NewAttributeService(repos *repository.Repositories, log *zap.Logger) *AttributeService {
	return &AttributeService{
		repos: repos,
		log:   loggerOrNop(log).Named("attributes"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *AttributeService) ListTypes(ctx context.Context, actor *model.User) ([]model.AttributeType, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	types, err := s.repos.Attributes.ListTypes(ctx)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return types, nil
}

func (s *AttributeService) GetType(ctx context.Context, actor *model.User, id int64) (*model.AttributeType, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	t, err := s.repos.Attributes.GetType(ctx, id)
	if err != nil {
		return nil, storageErr(err, MsgTypeMissing)
	}
	return t, nil
}

func (s *AttributeService) AddType(ctx context.Context, actor *model.User, in AttributeTypeInput) (*model.AttributeType, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name, err := cleanRequired("name", in.Name, 200)
	if err != nil {
		return nil, err
	}

	t := &model.AttributeType{Name: name}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return tx.Attributes.CreateType(ctx, t)
	})
	if err != nil {
		return nil, storageErr(err, MsgDuplicate)
	}
	s.log.Info("attribute type created", actorField(actor), zap.Int64("type_id", t.ID))
	return t, nil
}

func (s *AttributeService) EditType(ctx context.Context, actor *model.User, id int64, in AttributeTypeInput) (*model.AttributeType, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var out *model.AttributeType
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		t, err := tx.Attributes.GetType(ctx, id)
		if err != nil {
			return storageErr(err, MsgTypeMissing)
		}
		name, err := cleanRequired("name", in.Name, 200)
		if err != nil {
			return err
		}
		t.Name = name
		if err := tx.Attributes.UpdateType(ctx, t); err != nil {
			return storageErr(err, MsgDuplicate)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteType запрещён, пока у типа есть атрибуты.
func (s *AttributeService) DeleteType(ctx context.Context, actor *model.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Attributes.GetType(ctx, id); err != nil {
			return storageErr(err, MsgTypeMissing)
		}
		n, err := tx.Attributes.CountByType(ctx, id)
		if err != nil {
			return storageErr(err, MsgStorage)
		}
		if n > 0 {
			return apperrors.New(apperrors.CodeFailedPrecondition, MsgInUse)
		}
		return storageErr(tx.Attributes.DeleteType(ctx, id), MsgInUse)
	})
	if err != nil {
		return err
	}
	s.log.Info("attribute type deleted", actorField(actor), zap.Int64("type_id", id))
	return nil
}

func (s *AttributeService) List(ctx context.Context, actor *model.User) ([]model.Attribute, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	attrs, err := s.repos.Attributes.List(ctx)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return attrs, nil
}

func (s *AttributeService) Add(ctx context.Context, actor *model.User, in AttributeInput) (*model.Attribute, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name, err := cleanRequired("name", in.Name, 200)
	if err != nil {
		return nil, err
	}
	desc, err := cleanOptional("description", in.Description, 200)
	if err != nil {
		return nil, err
	}

	a := &model.Attribute{Name: name, Description: desc, AttributeTypeID: in.TypeID}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Attributes.GetType(ctx, in.TypeID); err != nil {
			return invalidRef(err, "type", MsgTypeMissing)
		}
		return storageErr(tx.Attributes.Create(ctx, a), MsgDuplicate)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("attribute created", actorField(actor), zap.Int64("attribute_id", a.ID))
	return a, nil
}

// Delete удаляет атрибут вместе с рангами персонажей и опциями списков развития.
func (s *AttributeService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return storageErr(tx.Attributes.Delete(ctx, id), MsgAttrMissing)
	})
	if err != nil {
		return err
	}
	s.log.Info("attribute deleted", actorField(actor), zap.Int64("attribute_id", id))
	return nil
}

// SetCharacterAttribute создаёт или обновляет ранг атрибута у персонажа.
func (s *AttributeService) SetCharacterAttribute(ctx context.Context, actor *model.User, characterID int64, in CharacterAttributeInput) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if in.Rank < 0 {
		return apperrors.Invalid("rank", MsgRank)
	}
	comment, err := cleanOptional("comments", in.Comment, 1024)
	if err != nil {
		return err
	}

	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Characters.GetByID(ctx, characterID); err != nil {
			return storageErr(err, MsgCharacterMissing)
		}
		if _, err := tx.Attributes.GetByID(ctx, in.AttributeID); err != nil {
			return invalidRef(err, "attribute", MsgAttrMissing)
		}
		return storageErr(tx.Attributes.SetRank(ctx, &model.CharacterAttribute{
			CharacterID:  characterID,
			AttributeID:  in.AttributeID,
			Rank:         in.Rank,
			Comments:     comment,
			LastModified: s.now(),
		}), MsgStorage)
	})
}

func (s *AttributeService) RemoveCharacterAttribute(ctx context.Context, actor *model.User, characterID, attributeID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return storageErr(tx.Attributes.RemoveFromCharacter(ctx, characterID, attributeID), MsgAttrMissing)
	})
}

func (s *AttributeService) CharacterAttributes(ctx context.Context, actor *model.User, characterID int64) ([]model.CharacterAttribute, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.repos.Characters.GetByID(ctx, characterID); err != nil {
		return nil, storageErr(err, MsgCharacterMissing)
	}
	out, err := s.repos.Attributes.ListForCharacter(ctx, characterID)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return out, nil
}
