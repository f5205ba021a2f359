package services

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/lotoracle/lotoracle-backend/internal/apierr"
  "github.com/lotoracle/lotoracle-backend/internal/logger"
  "github.com/lotoracle/lotoracle-backend/internal/repos"
  "github.com/lotoracle/lotoracle-backend/internal/types"
)

type UserService interface {
  CreateUser(ctx context.Context, email string, name string) (*types.User, error)
  RevokeAccess(ctx context.Context, email string) error
  ActivateUser(ctx context.Context, email string) error
  ListUsers(ctx context.Context) ([]*types.User, error)
}

type userService struct {
  log      *logger.Logger
  db       *gorm.DB
  userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, db *gorm.DB, userRepo repos.UserRepo) UserService {
  return &userService{
    log:      log.With("service", "UserService"),
    db:       db,
    userRepo: userRepo,
  }
}

func (s *userService) CreateUser(ctx context.Context, email string, name string) (*types.User, error) {
  if email == "" {
    return nil, apierr.InvalidInput("Email is required")
  }

  existing, err := s.userRepo.GetByEmail(ctx, nil, email)
  if err != nil {
    return nil, apierr.Internal(err)
  }
  if existing != nil {
    return nil, apierr.InvalidInput("User already exists")
  }

  if name == "" {
    name = "User"
  }
  user := &types.User{
    ID:          uuid.New(),
    Email:       email,
    Name:        name,
    AccessToken: uuid.NewString(),
    CreatedAt:   time.Now().UTC(),
    IsActive:    true,
  }

  created, err := s.userRepo.Create(ctx, nil, user)
  if err != nil {
    return nil, apierr.Internal(err)
  }

  s.log.Info("User created", "user_id", created.ID.String(), "email", created.Email)
  return created, nil
}

func (s *userService) RevokeAccess(ctx context.Context, email string) error {
  return s.setActive(ctx, email, false)
}

func (s *userService) ActivateUser(ctx context.Context, email string) error {
  return s.setActive(ctx, email, true)
}

func (s *userService) setActive(ctx context.Context, email string, active bool) error {
  if email == "" {
    return apierr.InvalidInput("Email is required")
  }

  rows, err := s.userRepo.SetActive(ctx, nil, email, active)
  if err != nil {
    return apierr.Internal(err)
  }
  if rows == 0 {
    return apierr.NotFound("User not found")
  }

  s.log.Info("User access changed", "email", email, "is_active", active)
  return nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*types.User, error) {
  users, err := s.userRepo.List(ctx, nil)
  if err != nil {
    return nil, apierr.Internal(err)
  }
  return users, nil
}
