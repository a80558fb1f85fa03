package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yamdb-api/internal/mail"
	"yamdb-api/internal/model"
	"yamdb-api/internal/pkg/confirmcode"
	"yamdb-api/internal/pkg/jwtutil"
	"yamdb-api/internal/repository"
	"yamdb-api/internal/validation"
)

type AuthService struct {
	userRepo  *repository.UserRepository
	validator *validation.Validator
	sender    mail.Sender
	cfg       AuthConfig
	logger    *slog.Logger
}

type AuthConfig struct {
	JWTSecret     string
	JWTExpiration time.Duration
	CodeHashCost  int
	MailFrom      string
}

type SignUpInput struct {
	Username string `json:"username" validate:"required,max=150,username,notme"`
	Email    string `json:"email" validate:"required,max=254,email"`
}

type SignUpResult struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenInput struct {
	Username         string `json:"username" validate:"required,max=150,username,notme"`
	ConfirmationCode string `json:"confirmation_code" validate:"required,len=6,numeric"`
}

type TokenResult struct {
	Token string `json:"token"`
}

func NewAuthService(
	userRepo *repository.UserRepository,
	validator *validation.Validator,
	sender mail.Sender,
	cfg AuthConfig,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		validator: validator,
		sender:    sender,
		cfg:       cfg,
		logger:    logger,
	}
}

// SignUp mails a fresh confirmation code to input.Email, creating the account
// when needed. An identical username/email pair that already holds a code is a
// no-op so that client retries do not trigger duplicate emails. Accounts
// created without a code (admin-created, createsuperuser) get their first one
// here.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	result := &SignUpResult{Username: input.Username, Email: input.Email}

	existing, err := s.userRepo.GetByUsernameAndEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ConfirmationCode != "" {
		return result, nil
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	code, err := confirmcode.Generate()
	if err != nil {
		return nil, err
	}
	hash, err := confirmcode.Hash(code, s.cfg.CodeHashCost)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if _, err := s.userRepo.SetConfirmationCode(ctx, input.Email, hash); err != nil {
			return nil, err
		}
	} else {
		if err := checkUserUnique(ctx, s.userRepo, 0, input.Username, input.Email); err != nil {
			return nil, err
		}
		user := &model.User{
			Username:         input.Username,
			Email:            input.Email,
			Role:             model.RoleUser,
			ConfirmationCode: hash,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, duplicateAsValidation(err)
		}
	}

	msg := mail.NewConfirmationMessage(s.cfg.MailFrom, input.Email, code)
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "send confirmation code failed",
			"username", input.Username, "message_id", msg.ID, "error", err)
		// An undelivered code must not arm the no-op shortcut, or the pair
		// could never receive one.
		if _, clearErr := s.userRepo.SetConfirmationCode(ctx, input.Email, ""); clearErr != nil {
			s.logger.ErrorContext(ctx, "clear undelivered confirmation code failed",
				"username", input.Username, "error", clearErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	s.logger.InfoContext(ctx, "confirmation code issued", "username", input.Username, "message_id", msg.ID)

	return result, nil
}

// IssueToken exchanges a username and confirmation code for an access token.
func (s *AuthService) IssueToken(ctx context.Context, input TokenInput) (*TokenResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.ConfirmationCode = strings.TrimSpace(input.ConfirmationCode)
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if !confirmcode.Verify(user.ConfirmationCode, input.ConfirmationCode) {
		return nil, fieldError("confirmation_code", "Invalid confirmation code.")
	}

	token, err := jwtutil.GenerateToken(s.cfg.JWTSecret, s.cfg.JWTExpiration, user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &TokenResult{Token: token}, nil
}

// Authenticate resolves the account behind a validated token. A token whose
// account was deleted is treated as unauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, userID uint) (*model.User, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// checkUserUnique reports username/email collisions with accounts other than
// selfID. Empty values are not checked.
func checkUserUnique(ctx context.Context, repo *repository.UserRepository, selfID uint, username, email string) error {
	errs := validation.Errors{}
	if username != "" {
		existing, err := repo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			errs.Add("username", "A user with that username already exists.")
		}
	}
	if email != "" {
		existing, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			errs.Add("email", "A user with that email already exists.")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
