package service

import (
	"context"
	"errors"

	"github.com/pixelcraft/agency-api/internal/apperror"
	"github.com/pixelcraft/agency-api/internal/models"
	"github.com/pixelcraft/agency-api/internal/repository"
)

// ============================================
// User Service
// ============================================

type UserService interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
	List(ctx context.Context, q *models.UserListQuery) ([]*repository.User, models.Pagination, error)
	UpdateProfile(ctx context.Context, id string, name, email, avatar *string) (*repository.User, error)
	AdminUpdate(ctx context.Context, id string, req *models.AdminUpdateUserRequest) (*repository.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, q *models.UserListQuery) ([]*repository.User, models.Pagination, error) {
	page, p, l, err := pageFor(q.Page, q.Limit, models.DefaultLimit, q.Sort, repository.UserSortFields)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	users, err := s.userRepo.List(ctx, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return users, models.NewPagination(p, l, total), nil
}

// ensureEmailFree fails with Conflict when another user already owns email.
func (s *userService) ensureEmailFree(ctx context.Context, userID, email string) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if existing != nil && existing.ID != userID {
		return apperror.Conflict("Email is already in use")
	}
	return nil
}

func (s *userService) save(ctx context.Context, user *repository.User) (*repository.User, error) {
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.Wrap(err, apperror.KindConflict, "Email is already in use")
		}
		return nil, notFound(err, "User not found")
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, name, email, avatar *string) (*repository.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		user.Name = *name
	}
	if email != nil && *email != user.Email {
		if err := s.ensureEmailFree(ctx, user.ID, *email); err != nil {
			return nil, err
		}
		user.Email = *email
	}
	if avatar != nil {
		user.Avatar = avatar
	}
	return s.save(ctx, user)
}

func (s *userService) AdminUpdate(ctx context.Context, id string, req *models.AdminUpdateUserRequest) (*repository.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		if err := s.ensureEmailFree(ctx, user.ID, *req.Email); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsEmailVerified != nil {
		user.IsEmailVerified = *req.IsEmailVerified
	}
	return s.save(ctx, user)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return notFound(err, "User not found")
	}
	return nil
}
