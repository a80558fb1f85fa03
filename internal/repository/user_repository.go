package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"yamdb-api/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user failed: %w", translate(err))
	}
	return nil
}

// Save writes every column of an existing user.
func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("save user failed: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, "query user by username failed", "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "query user by email failed", "email = ?", email)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	return r.first(ctx, "query user by id failed", "id = ?", id)
}

func (r *UserRepository) GetByUsernameAndEmail(ctx context.Context, username, email string) (*model.User, error) {
	return r.first(ctx, "query user by username and email failed", "username = ? AND email = ?", username, email)
}

// SetConfirmationCode overwrites the stored code hash of the user owning email.
func (r *UserRepository) SetConfirmationCode(ctx context.Context, email, hash string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Update("confirmation_code", hash)
	if res.Error != nil {
		return false, fmt.Errorf("update confirmation code failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// List returns users whose username contains search, ordered by username.
func (r *UserRepository) List(ctx context.Context, search string, page Page) ([]model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if search != "" {
		q = q.Where(containsClause("username", search))
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users failed: %w", err)
	}

	var users []model.User
	if err := page.apply(q.Order("username ASC")).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users failed: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) DeleteByUsername(ctx context.Context, username string) (bool, error) {
	res := r.db.WithContext(ctx).Where("username = ?", username).Delete(&model.User{})
	if res.Error != nil {
		return false, fmt.Errorf("delete user failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *UserRepository) first(ctx context.Context, op string, query string, args ...any) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}
