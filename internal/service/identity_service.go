package service

import (
	"context"
	"errors"
	"net/mail"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/apperrors"
	"github.com/Leganyst/campaign-platform/internal/auth"
	"github.com/Leganyst/campaign-platform/internal/model"
	"github.com/Leganyst/campaign-platform/internal/repository"
)

const (
	MsgEmailInUse       = "email already in use"
	MsgUsernameInUse    = "username already in use"
	MsgInvalidEmail     = "invalid email address"
	MsgPasswordMismatch = "passwords must match"
	MsgPasswordShort    = "password is too short"
	MsgBadCredentials   = "invalid email or password"
	MsgSessionExpired   = "session expired, please log in again"
	MsgInvalidChoice    = "invalid choice"
)

const minPasswordLen = 8

// MinBirthYear: самый ранний год рождения, который принимает регистрация.
const MinBirthYear = 1950

// BirthMonths: допустимые значения месяца рождения.
var BirthMonths = []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"}

// RegisterInput: данные формы регистрации.
type RegisterInput struct {
	Email                  string
	Username               string
	FirstName              string
	LastName               string
	Phone                  string
	BirthMonth             string
	BirthDay               int
	BirthYear              int
	EmergencyContactName   string
	EmergencyContactNumber string
	Password               string
	ConfirmPassword        string
}

// IdentityService реализует регистрацию, вход и проверку сессий.
type IdentityService struct {
	repos *repository.Repositories
	log   *zap.Logger
	ttl   time.Duration
	now   func() time.Time
}

func NewIdentityService(repos *repository.Repositories, log *zap.Logger, sessionTTL time.Duration) *IdentityService {
	return &IdentityService{
		repos: repos,
		log:   loggerOrNop(log).Named("identity"),
		ttl:   sessionTTL,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Register создаёт пользователя. Первый зарегистрированный пользователь становится администратором.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, apperrors.Invalid("email", MsgFieldRequired)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.Invalid("email", MsgInvalidEmail)
	}
	username, err := cleanRequired("username", in.Username, 200)
	if err != nil {
		return nil, err
	}
	profile, err := cleanProfile(in, s.now().Year())
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperrors.Invalid("password", MsgPasswordShort)
	}
	if in.Password != in.ConfirmPassword {
		return nil, apperrors.Invalid("confirm_password", MsgPasswordMismatch)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "hash password", err)
	}

	now := s.now()
	join := datatypes.Date(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
	u := profile
	u.Email = email
	u.Username = username
	u.PasswordHash = hash
	u.JoinDate = &join

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		// Регистрации идут по одной: администратором становится ровно один первый пользователь.
		if err := tx.Users.LockRegistration(ctx); err != nil {
			return storageErr(err, MsgStorage)
		}
		if _, err := tx.Users.FindByEmail(ctx, email); err == nil {
			return apperrors.Invalid("email", MsgEmailInUse)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storageErr(err, MsgStorage)
		}
		if _, err := tx.Users.FindByUsername(ctx, username); err == nil {
			return apperrors.Invalid("username", MsgUsernameInUse)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storageErr(err, MsgStorage)
		}

		n, err := tx.Users.Count(ctx)
		if err != nil {
			return storageErr(err, MsgStorage)
		}
		u.IsAdmin = n == 0
		return storageErr(tx.Users.Create(ctx, u), MsgEmailInUse)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", u.ID), zap.Bool("admin", u.IsAdmin))
	return u, nil
}

// cleanProfile проверяет анкетные поля регистрации.
func cleanProfile(in RegisterInput, currentYear int) (*model.User, error) {
	u := &model.User{BirthDay: in.BirthDay, BirthYear: in.BirthYear}
	text := []struct {
		field string
		value string
		max   int
		dst   *string
	}{
		{"first_name", in.FirstName, 60, &u.FirstName},
		{"last_name", in.LastName, 60, &u.LastName},
		{"phone", in.Phone, 20, &u.Phone},
		{"birth_month", in.BirthMonth, 20, &u.BirthMonth},
		{"emergency_contact_name", in.EmergencyContactName, 60, &u.EmergencyContactName},
		{"emergency_contact_number", in.EmergencyContactNumber, 20, &u.EmergencyContactNumber},
	}
	for _, t := range text {
		v, err := cleanRequired(t.field, t.value, t.max)
		if err != nil {
			return nil, err
		}
		*t.dst = v
	}

	if !slices.Contains(BirthMonths, u.BirthMonth) {
		return nil, apperrors.Invalid("birth_month", MsgInvalidChoice)
	}
	if in.BirthDay == 0 {
		return nil, apperrors.Invalid("birth_day", MsgFieldRequired)
	}
	if in.BirthDay < 1 || in.BirthDay > 31 {
		return nil, apperrors.Invalid("birth_day", MsgInvalidChoice)
	}
	if in.BirthYear == 0 {
		return nil, apperrors.Invalid("birth_year", MsgFieldRequired)
	}
	if in.BirthYear < MinBirthYear || in.BirthYear > currentYear {
		return nil, apperrors.Invalid("birth_year", MsgInvalidChoice)
	}
	return u, nil
}

// Login проверяет пароль и открывает новую сессию.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	u, err := s.repos.Users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, MsgBadCredentials)
	}
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnauthenticated, MsgBadCredentials, err)
	}

	now := s.now()
	sess := &model.Session{
		Token:     auth.NewToken(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Sessions.DeleteExpired(ctx, now); err != nil {
			return err
		}
		return tx.Sessions.Create(ctx, sess)
	})
	if err != nil {
		return nil, storageErr(err, MsgStorage)
	}
	sess.User = u

	s.log.Info("user logged in", zap.Int64("user_id", u.ID))
	return sess, nil
}

func (s *IdentityService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return storageErr(s.repos.Sessions.Delete(ctx, token), MsgStorage)
}

// ResolveSession возвращает владельца действующей сессии.
func (s *IdentityService) ResolveSession(ctx context.Context, token string) (*model.User, error) {
	u, err := auth.ValidateSession(ctx, s.repos.Sessions, token, s.now())
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, auth.ErrSessionExpired):
		return nil, apperrors.Wrap(apperrors.CodeUnauthenticated, MsgSessionExpired, err)
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUserNotFound):
		return nil, apperrors.Wrap(apperrors.CodeUnauthenticated, MsgLoginRequired, err)
	default:
		return nil, storageErr(err, MsgStorage)
	}
}
