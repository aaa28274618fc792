package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Guizzs26/go-order-guard/internal/events"
	"github.com/Guizzs26/go-order-guard/internal/models"
	"github.com/google/uuid"
)

// UserRepository defines the contract for user persistence
type UserRepository interface {
	Insert(ctx context.Context, u models.User) error
	Update(ctx context.Context, u models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
}

// UserService owns user entities and announces their lifecycle on the
// exchange. Every event carries the full current snapshot so consumers can
// overwrite blindly
type UserService struct {
	repo      UserRepository
	publisher Publisher
	logger    *slog.Logger
}

func NewUserService(r UserRepository, p Publisher, l *slog.Logger) *UserService {
	return &UserService{
		repo:      r,
		publisher: p,
		logger:    l,
	}
}

func (s *UserService) CreateUser(ctx context.Context, name, email string) (models.User, error) {
	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("user persistence failed: %w", err)
	}

	s.publisher.Emit(ctx, events.UserCreated, user)

	s.logger.Info("User created", "user_id", user.ID)
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id, name, email string) (models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	user.Name = name
	user.Email = email
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return models.User{}, err
	}

	s.publisher.Emit(ctx, events.UserUpdated, user)

	s.logger.Info("User updated", "user_id", user.ID)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.repo.GetByID(ctx, id)
}
