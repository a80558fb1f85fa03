package app

import (
	"context"
	"errors"
	"strings"

	"yamdb-api/internal/model"
	"yamdb-api/internal/repository"
	"yamdb-api/internal/validation"
)

type UserService struct {
	userRepo  *repository.UserRepository
	validator *validation.Validator
}

type CreateUserInput struct {
	Username  string  `json:"username" validate:"required,max=150,username,notme"`
	Email     string  `json:"email" validate:"required,max=254,email"`
	FirstName string  `json:"first_name" validate:"max=150"`
	LastName  string  `json:"last_name" validate:"max=150"`
	Bio       *string `json:"bio"`
	Role      string  `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Username  *string `json:"username" validate:"omitnil,min=1,max=150,username,notme"`
	Email     *string `json:"email" validate:"omitnil,min=1,max=254,email"`
	FirstName *string `json:"first_name" validate:"omitnil,max=150"`
	LastName  *string `json:"last_name" validate:"omitnil,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" validate:"omitnil,oneof=user moderator admin"`
}

func NewUserService(userRepo *repository.UserRepository, validator *validation.Validator) *UserService {
	return &UserService{userRepo: userRepo, validator: validator}
}

func (s *UserService) List(ctx context.Context, search string, page repository.Page) ([]model.User, int64, error) {
	return s.userRepo.List(ctx, strings.TrimSpace(search), page)
}

func (s *UserService) Get(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	if err := checkUserUnique(ctx, s.userRepo, 0, input.Username, input.Email); err != nil {
		return nil, err
	}

	role := model.Role(input.Role)
	if role == "" {
		role = model.RoleUser
	}
	user := &model.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, duplicateAsValidation(err)
	}
	return user, nil
}

// Update applies an admin edit to the account named username.
func (s *UserService) Update(ctx context.Context, username string, input UpdateUserInput) (*model.User, error) {
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, input)
}

// UpdateSelf applies a self-service edit. Whatever role the payload carries,
// the caller keeps the role it had before the edit.
func (s *UserService) UpdateSelf(ctx context.Context, caller *model.User, input UpdateUserInput) (*model.User, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	role := string(user.Role)
	input.Role = &role
	return s.apply(ctx, user, input)
}

// Promote marks user as a superuser with the admin role.
func (s *UserService) Promote(ctx context.Context, user *model.User) error {
	user.Role = model.RoleAdmin
	user.IsSuperuser = true
	return s.userRepo.Save(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	deleted, err := s.userRepo.DeleteByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) apply(ctx context.Context, user *model.User, input UpdateUserInput) (*model.User, error) {
	if input.Username != nil {
		trimmed := strings.TrimSpace(*input.Username)
		input.Username = &trimmed
	}
	if input.Email != nil {
		trimmed := strings.TrimSpace(*input.Email)
		input.Email = &trimmed
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	var newUsername, newEmail string
	if input.Username != nil && *input.Username != user.Username {
		newUsername = *input.Username
	}
	if input.Email != nil && *input.Email != user.Email {
		newEmail = *input.Email
	}
	if err := checkUserUnique(ctx, s.userRepo, user.ID, newUsername, newEmail); err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}
	if input.Role != nil {
		user.Role = model.Role(*input.Role)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, duplicateAsValidation(err)
	}
	return user, nil
}

func duplicateAsValidation(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fieldError("username", "A user with that username or email already exists.")
	}
	return err
}
