package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
)

type RoleInput struct {
	Name        string
	Description string
}

func (in RoleInput) clean() (RoleInput, error) {
	name, err := cleanRequired("name", in.Name, 60)
	if err != nil {
		return in, err
	}
	desc, err := cleanRequired("description", in.Description, 200)
	if err != nil {
		return in, err
	}
	return RoleInput{Name: name, Description: desc}, nil
}

// RoleService: администрирование ролей.
type RoleService struct {
	repos *repository.Repositories
	log   *zap.Logger
}

func NewRoleService(repos *repository.Repositories, log *zap.Logger) *RoleService {
	return &RoleService{repos: repos, log: loggerOrNop(log).Named("roles")}
}

func (s *RoleService) List(ctx context.Context, actor *model.User) ([]model.Role, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	roles, err := s.repos.Roles.List(ctx)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return roles, nil
}

func (s *RoleService) Get(ctx context.Context, actor *model.User, id int64) (*model.Role, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	r, err := s.repos.Roles.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, MsgRoleMissing)
	}
	return r, nil
}

func (s *RoleService) Add(ctx context.Context, actor *model.User, in RoleInput) (*model.Role, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	in, err := in.clean()
	if err != nil {
		return nil, err
	}

	role := &model.Role{Name: in.Name, Description: in.Description}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return tx.Roles.Create(ctx, role)
	})
	if err != nil {
		return nil, roleStorageErr(err)
	}

	s.log.Info("role created", actorField(actor), zap.Int64("role_id", role.ID), zap.String("name", role.Name))
	return role, nil
}

func (s *RoleService) Edit(ctx context.Context, actor *model.User, id int64, in RoleInput) (*model.Role, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var out *model.Role
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		role, err := tx.Roles.GetByID(ctx, id)
		if err != nil {
			return storageErr(err, MsgRoleMissing)
		}
		in, err := in.clean()
		if err != nil {
			return err
		}
		role.Name = in.Name
		role.Description = in.Description
		if err := tx.Roles.Update(ctx, role); err != nil {
			return roleStorageErr(err)
		}
		out = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("role updated", actorField(actor), zap.Int64("role_id", id))
	return out, nil
}

func (s *RoleService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Roles.GetByID(ctx, id); err != nil {
			return storageErr(err, MsgRoleMissing)
		}
		return storageErr(tx.Roles.Delete(ctx, id), MsgInUse)
	})
	if err != nil {
		return err
	}

	s.log.Info("role deleted", actorField(actor), zap.Int64("role_id", id))
	return nil
}

func roleStorageErr(err error) error {
	err = storageErr(err, MsgRoleDuplicate)
	if e, ok := err.(*apperrors.Error); ok && e.Code == apperrors.CodeAlreadyExists {
		e.Field = "name"
	}
	return err
}
