package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
)

type NoteInput struct {
	Title string
	Body  string
}

func (in NoteInput) clean() (NoteInput, error) {
	title, err := cleanRequired("title", in.Title, 200)
	if err != nil {
		return in, err
	}
	return NoteInput{Title: title, Body: in.Body}, nil
}

// NoteService: заметки мастера о персонажах.
type NoteService struct {
	repos *repository.Repositories
	log   *zap.Logger
}

func NewNoteService(repos *repository.Repositories, log *zap.Logger) *NoteService {
	return &NoteService{repos: repos, log: loggerOrNop(log).Named("notes")}
}

func (s *NoteService) List(ctx context.Context, actor *model.User, characterID int64) ([]model.CharacterNote, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.repos.Characters.GetByID(ctx, characterID); err != nil {
		return nil, storageErr(err, MsgCharacterMissing)
	}
	notes, err := s.repos.Notes.ListByCharacter(ctx, characterID)
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, actor *model.User, noteID int64) (*model.CharacterNote, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	n, err := s.repos.Notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, storageErr(err, MsgNoteMissing)
	}
	return n, nil
}

func (s *NoteService) Add(ctx context.Context, actor *model.User, characterID int64, in NoteInput) (*model.CharacterNote, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	in, err := in.clean()
	if err != nil {
		return nil, err
	}

	n := &model.CharacterNote{CharacterID: characterID, Title: in.Title, Body: in.Body}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Characters.GetByID(ctx, characterID); err != nil {
			return storageErr(err, MsgCharacterMissing)
		}
		return storageErr(tx.Notes.Create(ctx, n), MsgStorage)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("note created", actorField(actor), zap.Int64("note_id", n.ID), zap.Int64("character_id", characterID))
	return n, nil
}

func (s *NoteService) Update(ctx context.Context, actor *model.User, noteID int64, in NoteInput) (*model.CharacterNote, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var out *model.CharacterNote
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		n, err := tx.Notes.GetByID(ctx, noteID)
		if err != nil {
			return storageErr(err, MsgNoteMissing)
		}
		in, err := in.clean()
		if err != nil {
			return err
		}
		n.Title, n.Body = in.Title, in.Body
		if err := tx.Notes.Update(ctx, n); err != nil {
			return storageErr(err, MsgStorage)
		}
		out = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *NoteService) Delete(ctx context.Context, actor *model.User, noteID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return storageErr(tx.Notes.Delete(ctx, noteID), MsgNoteMissing)
	})
}
