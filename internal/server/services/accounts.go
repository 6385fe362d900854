// Package services contains server-side business logic. This file implements
// AccountService: registration, login, profile edits, and email verification.
//
// Every operation returns a result object. Expected failures become
// {Ok: false, Error: <message>}; unexpected faults are logged and reported
// with a generic message, and nothing is propagated to the caller.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/eatery/internal/common"
	"github.com/dmitrijs2005/eatery/internal/dbx"
	"github.com/dmitrijs2005/eatery/internal/logging"
	"github.com/dmitrijs2005/eatery/internal/server/events"
	"github.com/dmitrijs2005/eatery/internal/server/models"
	"github.com/dmitrijs2005/eatery/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// TokenSigner issues session tokens.
type TokenSigner interface {
	Sign(userID string) (string, error)
}

// Notifier sends account emails without blocking the caller.
type Notifier interface {
	SendVerificationEmail(email, code string)
}

// VerificationIssuer creates and redeems verification codes inside the
// caller's transaction.
type VerificationIssuer interface {
	Issue(ctx context.Context, tx dbx.DBTX, user *models.User) (*models.Verification, error)
	Redeem(ctx context.Context, tx dbx.DBTX, code string) (*models.Verification, error)
}

// AccountService orchestrates storage, verification codes, notification
// emails, and session tokens.
type AccountService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	verifications VerificationIssuer
	tokens        TokenSigner
	notifier      Notifier
	events        events.Publisher
	validate      *validator.Validate
	logger        logging.Logger
	now           func() time.Time
}

// NewAccountService wires the service. A nil publisher disables events.
func NewAccountService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	verifications VerificationIssuer,
	tokens TokenSigner,
	notifier Notifier,
	publisher events.Publisher,
	logger logging.Logger,
) *AccountService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &AccountService{
		db:            db,
		repomanager:   m,
		verifications: verifications,
		tokens:        tokens,
		notifier:      notifier,
		events:        publisher,
		validate:      newValidator(),
		logger:        logger.With("module", "accounts"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreateAccount registers an unverified user and mails a verification code.
// The duplicate check, the insert, and the code issue share one transaction;
// a concurrent insert of the same email is caught by the unique index.
func (s *AccountService) CreateAccount(ctx context.Context, in CreateAccountInput) CreateAccountOutput {
	in.Email = common.NormalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		s.logger.Debug(ctx, "invalid create account input", "fields", fieldErrors(err))
		return CreateAccountOutput{Output: fail(ErrInvalidInput)}
	}
	role, _ := models.ParseRole(in.Role)

	// hash outside the transaction
	user, err := models.NewUser(in.Email, in.Password, role)
	if err != nil {
		s.logger.Error(ctx, "failed to build user", "error", err)
		return CreateAccountOutput{Output: fail(ErrAccountCreationFailed)}
	}

	var v *models.Verification
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, user.Email)
		if err == nil {
			return ErrDuplicateEmail
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if _, err := repo.Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return ErrDuplicateEmail
			}
			return err
		}

		v, err = s.verifications.Issue(ctx, tx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return CreateAccountOutput{Output: fail(ErrDuplicateEmail)}
		}
		s.logger.Error(ctx, "failed to create account", "email", common.MaskEmail(user.Email), "error", err)
		return CreateAccountOutput{Output: fail(ErrAccountCreationFailed)}
	}

	s.notifier.SendVerificationEmail(user.Email, v.Code)
	s.events.Publish(ctx, events.UserCreated, events.UserCreatedEvent{
		UserID: user.ID, Email: user.Email, Role: user.Role.String(),
	})
	s.logger.Info(ctx, "account created", "user_id", user.ID, "role", user.Role)

	return CreateAccountOutput{Output: ok()}
}

// Login checks credentials and returns a signed session token.
func (s *AccountService) Login(ctx context.Context, in LoginInput) LoginOutput {
	if err := s.validate.Struct(in); err != nil {
		return LoginOutput{Output: fail(ErrInvalidInput)}
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, common.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return LoginOutput{Output: fail(ErrUserNotFound)}
		}
		s.logger.Error(ctx, "failed to look up user", "error", err)
		return LoginOutput{Output: fail(ErrInternal)}
	}

	if !user.CheckPassword(in.Password) {
		return LoginOutput{Output: fail(ErrInvalidCredentials)}
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		s.logger.Error(ctx, "failed to sign token", "user_id", user.ID, "error", err)
		return LoginOutput{Output: fail(ErrInternal)}
	}

	return LoginOutput{Output: ok(), Token: token}
}

// FindByID returns the user with id, or common.ErrorNotFound.
func (s *AccountService) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// UserProfile is FindByID in result-object form.
func (s *AccountService) UserProfile(ctx context.Context, id string) UserProfileOutput {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return UserProfileOutput{Output: fail(ErrUserNotFound)}
		}
		s.logger.Error(ctx, "failed to load profile", "user_id", id, "error", err)
		return UserProfileOutput{Output: fail(ErrInternal)}
	}
	return UserProfileOutput{Output: ok(), User: user}
}

// EditProfile applies the provided email and/or password.
//
// A changed email must not belong to another account; it resets Verified
// and replaces any outstanding verification code with a new one, which is
// mailed after commit. A password-only edit leaves verification state alone.
func (s *AccountService) EditProfile(ctx context.Context, userID string, in EditProfileInput) EditProfileOutput {
	var newEmail, newPassword string
	if in.Email != nil {
		newEmail = common.NormalizeEmail(*in.Email)
	}
	if in.Password != nil {
		newPassword = *in.Password
	}

	if newEmail != "" {
		if err := s.validate.Var(newEmail, "email,max=254"); err != nil {
			return EditProfileOutput{Output: fail(ErrInvalidInput)}
		}
	}
	if len(newPassword) > maxPasswordBytes {
		return EditProfileOutput{Output: fail(ErrInvalidInput)}
	}

	var (
		user         *models.User
		v            *models.Verification
		emailChanged bool
	)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		var err error
		user, err = repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		changed := false

		if newEmail != "" && newEmail != user.Email {
			other, err := repo.GetByEmail(ctx, newEmail)
			switch {
			case err == nil && other.ID != user.ID:
				return ErrDuplicateEmail
			case err != nil && !errors.Is(err, common.ErrorNotFound):
				return err
			}
			user.Email = newEmail
			user.Verified = false
			emailChanged = true
			changed = true
		}

		if newPassword != "" {
			if err := user.SetPassword(newPassword); err != nil {
				return err
			}
			changed = true
		}

		if !changed {
			return nil
		}

		user.UpdatedAt = s.now()
		if err := repo.Update(ctx, user); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return ErrDuplicateEmail
			}
			return err
		}

		if emailChanged {
			v, err = s.verifications.Issue(ctx, tx, user)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			return EditProfileOutput{Output: fail(ErrUserNotFound)}
		case errors.Is(err, ErrDuplicateEmail):
			return EditProfileOutput{Output: fail(ErrDuplicateEmail)}
		}
		s.logger.Error(ctx, "failed to edit profile", "user_id", userID, "error", err)
		return EditProfileOutput{Output: fail(ErrInternal)}
	}

	if emailChanged {
		s.notifier.SendVerificationEmail(user.Email, v.Code)
		s.events.Publish(ctx, events.UserEmailChanged, events.UserEmailChangedEvent{
			UserID: user.ID, Email: user.Email,
		})
	}

	return EditProfileOutput{Output: ok(), User: user}
}

// VerifyEmail redeems code: the owning user becomes verified and the code
// is deleted, so a replay fails with ErrInvalidCode. Expired codes are
// removed and also fail with ErrInvalidCode.
func (s *AccountService) VerifyEmail(ctx context.Context, in VerifyEmailInput) VerifyEmailOutput {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return VerifyEmailOutput{Output: fail(ErrInvalidCode)}
	}

	var (
		user    *models.User
		expired bool
	)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		v, err := s.verifications.Redeem(ctx, tx, code)
		if err != nil {
			if errors.Is(err, common.ErrVerificationExpired) {
				// commit the removal of the stale code
				expired = true
				return nil
			}
			if errors.Is(err, common.ErrorNotFound) {
				return ErrInvalidCode
			}
			return err
		}

		user = v.User
		user.Verified = true
		user.UpdatedAt = s.now()
		if err := s.repomanager.Users(tx).Update(ctx, user); err != nil {
			return err
		}

		return s.repomanager.Verifications(tx).DeleteByID(ctx, v.ID)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return VerifyEmailOutput{Output: fail(ErrInvalidCode)}
		}
		s.logger.Error(ctx, "failed to verify email", "error", err)
		return VerifyEmailOutput{Output: fail(ErrInternal)}
	}
	if expired {
		return VerifyEmailOutput{Output: fail(ErrInvalidCode)}
	}

	s.events.Publish(ctx, events.UserVerified, events.UserVerifiedEvent{UserID: user.ID, Email: user.Email})
	s.logger.Info(ctx, "email verified", "user_id", user.ID)

	return VerifyEmailOutput{Output: ok()}
}
