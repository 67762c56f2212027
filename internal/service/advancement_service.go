package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
)

type AdvancementListInput struct {
	Name        string
	ChargenOnly bool
	StaffOnly   bool
}

type RequirementInput struct {
	AttributeID int64
	Rank        int
}

// OptionInput: опция списка развития и её требования.
type OptionInput struct {
	AttributeID          int64
	StaffOnly            bool
	FreeWithRequirements bool
	Requirements         []RequirementInput
}

// AdvancementService: списки развития персонажей.
type AdvancementService struct {
	repos *repository.Repositories
	log   *zap.Logger
}

func NewAdvancementService(repos *repository.Repositories, log *zap.Logger) *AdvancementService {
	return &AdvancementService{repos: repos, log: loggerOrNop(log).Named("advancement")}
}

func (s *AdvancementService) Lists(ctx context.Context, actor *model.User) ([]model.AdvancementList, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	lists, err := s.repos.Advancement.ListLists(ctx)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	if actor.IsAdmin {
		return lists, nil
	}
	out := lists[:0]
	for _, l := range lists {
		if !l.IsStaffOnly {
			out = append(out, l)
		}
	}
	return out, nil
}

// GetList возвращает список со всеми опциями и требованиями.
func (s *AdvancementService) GetList(ctx context.Context, actor *model.User, listID int64) (*model.AdvancementList, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	l, err := s.repos.Advancement.GetList(ctx, listID)
	if err != nil {
		return nil, storageErr(err, MsgListMissing)
	}
	return l, nil
}

func (s *AdvancementService) CreateList(ctx context.Context, actor *model.User, in AdvancementListInput) (*model.AdvancementList, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name, err := cleanRequired("name", in.Name, 200)
	if err != nil {
		return nil, err
	}

	l := &model.AdvancementList{Name: name, IsChargenOnly: in.ChargenOnly, IsStaffOnly: in.StaffOnly}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return tx.Advancement.CreateList(ctx, l)
	})
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	s.log.Info("advancement list created", actorField(actor), zap.Int64("list_id", l.ID))
	return l, nil
}

// AddOption добавляет в список опцию вместе с требованиями одной транзакцией.
func (s *AdvancementService) AddOption(ctx context.Context, actor *model.User, listID int64, in OptionInput) (*model.AdvancementListAttribute, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	for _, req := range in.Requirements {
		if req.Rank < 0 {
			return nil, apperrors.Invalid("requirements", MsgRank)
		}
	}

	opt := &model.AdvancementListAttribute{
		AdvancementListID:      listID,
		AttributeID:            in.AttributeID,
		IsStaffOnly:            in.StaffOnly,
		IsFreeWithRequirements: in.FreeWithRequirements,
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Advancement.GetList(ctx, listID); err != nil {
			return storageErr(err, MsgListMissing)
		}
		if _, err := tx.Attributes.GetByID(ctx, in.AttributeID); err != nil {
			return invalidRef(err, "attribute", MsgAttrMissing)
		}
		if err := tx.Advancement.CreateOption(ctx, opt); err != nil {
			return storageErr(err, MsgStorage)
		}
		for _, r := range in.Requirements {
			if _, err := tx.Attributes.GetByID(ctx, r.AttributeID); err != nil {
				return invalidRef(err, "requirements", MsgAttrMissing)
			}
			req := model.AdvancementListRequirement{
				AdvancementListAttributeID: opt.ID,
				AttributeRequirementID:     r.AttributeID,
				RequirementRank:            r.Rank,
			}
			if err := tx.Advancement.AddRequirement(ctx, &req); err != nil {
				return storageErr(err, MsgDuplicate)
			}
			opt.Requirements = append(opt.Requirements, req)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return opt, nil
}

// AvailableOptions возвращает опции списка, требования которых персонаж выполняет.
// Опции и списки только для персонала видны лишь администраторам.
// Игрок может запрашивать только своих персонажей.
func (s *AdvancementService) AvailableOptions(ctx context.Context, actor *model.User, listID, characterID int64) ([]model.AdvancementListAttribute, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	staff := actor.IsAdmin

	c, err := s.repos.Characters.GetByID(ctx, characterID)
	if err != nil {
		return nil, storageErr(err, MsgCharacterMissing)
	}
	if !staff && c.UserID != actor.ID {
		return nil, apperrors.PermissionDenied(MsgForeignCharacter)
	}

	list, err := s.repos.Advancement.GetList(ctx, listID)
	if err != nil {
		return nil, storageErr(err, MsgListMissing)
	}
	if list.IsStaffOnly && !staff {
		return nil, apperrors.PermissionDenied(MsgAdminRequired)
	}

	attrs, err := s.repos.Attributes.ListForCharacter(ctx, characterID)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	if list.IsChargenOnly && len(attrs) > 0 {
		return nil, apperrors.New(apperrors.CodeFailedPrecondition, MsgChargenOnly)
	}

	ranks := make(map[int64]int, len(attrs))
	for _, a := range attrs {
		ranks[a.AttributeID] = a.Rank
	}
	return filterOptions(list.Options, ranks, staff), nil
}

func filterOptions(opts []model.AdvancementListAttribute, ranks map[int64]int, staff bool) []model.AdvancementListAttribute {
	out := make([]model.AdvancementListAttribute, 0, len(opts))
	for _, opt := range opts {
		if opt.IsStaffOnly && !staff {
			continue
		}
		if !requirementsMet(opt.Requirements, ranks) {
			continue
		}
		out = append(out, opt)
	}
	return out
}

func requirementsMet(reqs []model.AdvancementListRequirement, ranks map[int64]int) bool {
	for _, r := range reqs {
		rank, ok := ranks[r.AttributeRequirementID]
		if !ok || rank < r.RequirementRank {
			return false
		}
	}
	return true
}
