package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
)

type ItemInput struct {
	Name        string
	Description string
	ItemAttr    string
}

func (in ItemInput) clean() (ItemInput, error) {
	name, err := cleanRequired("name", in.Name, 200)
	if err != nil {
		return in, err
	}
	desc, err := cleanOptional("description", in.Description, 0)
	if err != nil {
		return in, err
	}
	attr, err := cleanOptional("item_attr", in.ItemAttr, 0)
	if err != nil {
		return in, err
	}
	return ItemInput{Name: name, Description: desc, ItemAttr: attr}, nil
}

// ItemService: справочник предметов и инвентарь персонажей.
type ItemService struct {
	repos *repository.Repositories
	log   *zap.Logger
}

func NewItemService(repos *repository.Repositories, log *zap.Logger) *ItemService {
	return &ItemService{repos: repos, log: loggerOrNop(log).Named("items")}
}

func (s *ItemService) List(ctx context.Context, actor *model.User) ([]model.Item, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	items, err := s.repos.Items.List(ctx)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return items, nil
}

func (s *ItemService) Get(ctx context.Context, actor *model.User, id int64) (*model.Item, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	item, err := s.repos.Items.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, MsgItemMissing)
	}
	return item, nil
}

func (s *ItemService) Add(ctx context.Context, actor *model.User, in ItemInput) (*model.Item, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	in, err := in.clean()
	if err != nil {
		return nil, err
	}

	item := &model.Item{Name: in.Name, Description: in.Description, ItemAttr: in.ItemAttr}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return tx.Items.Create(ctx, item)
	})
	if err != nil {
		return nil, storageErr(err, MsgDuplicate)
	}

	s.log.Info("item created", actorField(actor), zap.Int64("item_id", item.ID))
	return item, nil
}

func (s *ItemService) Edit(ctx context.Context, actor *model.User, id int64, in ItemInput) (*model.Item, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var out *model.Item
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		item, err := tx.Items.GetByID(ctx, id)
		if err != nil {
			return storageErr(err, MsgItemMissing)
		}
		in, err := in.clean()
		if err != nil {
			return err
		}
		item.Name, item.Description, item.ItemAttr = in.Name, in.Description, in.ItemAttr
		if err := tx.Items.Update(ctx, item); err != nil {
			return storageErr(err, MsgDuplicate)
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete запрещён, пока предмет лежит в чьём-то инвентаре.
func (s *ItemService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Items.GetByID(ctx, id); err != nil {
			return storageErr(err, MsgItemMissing)
		}
		n, err := tx.Items.CountStacks(ctx, id)
		if err != nil {
			return storageErr(err, MsgStorage)
		}
		if n > 0 {
			return apperrors.New(apperrors.CodeFailedPrecondition, MsgInUse)
		}
		return storageErr(tx.Items.Delete(ctx, id), MsgInUse)
	})
	if err != nil {
		return err
	}

	s.log.Info("item deleted", actorField(actor), zap.Int64("item_id", id))
	return nil
}

func (s *ItemService) Inventory(ctx context.Context, actor *model.User, characterID int64) ([]model.Inventory, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.repos.Characters.GetByID(ctx, characterID); err != nil {
		return nil, storageErr(err, MsgCharacterMissing)
	}
	inv, err := s.repos.Items.Inventory(ctx, characterID)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return inv, nil
}

// AddItem кладёт qty предметов персонажу, объединяя с существующей стопкой.
func (s *ItemService) AddItem(ctx context.Context, actor *model.User, characterID, itemID int64, qty int) (*model.Inventory, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, apperrors.Invalid("quantity", MsgQuantity)
	}

	var out *model.Inventory
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Characters.GetByID(ctx, characterID); err != nil {
			return storageErr(err, MsgCharacterMissing)
		}
		if _, err := tx.Items.GetByID(ctx, itemID); err != nil {
			return invalidRef(err, "item", MsgItemMissing)
		}

		stack, err := tx.Items.AddToStack(ctx, characterID, itemID, qty)
		if err != nil {
			return storageErr(err, MsgStorage)
		}
		out = stack
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("item added",
		actorField(actor),
		zap.Int64("character_id", characterID),
		zap.Int64("item_id", itemID),
		zap.Int("quantity", qty),
	)
	return out, nil
}

// RemoveItem уменьшает стопку на qty и удаляет её при нуле.
// Возвращает оставшееся количество.
func (s *ItemService) RemoveItem(ctx context.Context, actor *model.User, characterID, itemID int64, qty int) (int, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	if qty <= 0 {
		return 0, apperrors.Invalid("quantity", MsgQuantity)
	}

	left := 0
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		stack, err := tx.Items.FindStack(ctx, characterID, itemID)
		if err != nil {
			return storageErr(err, MsgItemMissing)
		}
		if stack.Quantity < qty {
			return apperrors.Invalid("quantity", MsgNotEnoughItems)
		}
		left = stack.Quantity - qty
		if left == 0 {
			return storageErr(tx.Items.DeleteStack(ctx, stack.ID), MsgStorage)
		}
		return storageErr(tx.Items.SetQuantity(ctx, stack.ID, left), MsgStorage)
	})
	if err != nil {
		return 0, err
	}
	return left, nil
}
