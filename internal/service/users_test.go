package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Guizzs26/go-order-guard/internal/db"
	"github.com/Guizzs26/go-order-guard/internal/events"
	"github.com/Guizzs26/go-order-guard/internal/models"
	"github.com/Guizzs26/go-order-guard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (f *fakeUserRepo) Insert(ctx context.Context, u models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u models.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return db.ErrNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, db.ErrNotFound
	}
	return u, nil
}

func newUserService(repo *fakeUserRepo, pub service.Publisher) *service.UserService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewUserService(repo, pub, logger)
}

func TestCreateUser_PersistsAndAnnounces(t *testing.T) {
	repo := newFakeUserRepo()
	pub := &recordingPublisher{}
	svc := newUserService(repo, pub)

	user, err := svc.CreateUser(context.Background(), "Alice", "alice@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	assert.Equal(t, []string{events.UserCreated}, pub.emitted)
}

func TestUpdateUser_AnnouncesFullSnapshot(t *testing.T) {
	repo := newFakeUserRepo()
	pub := &recordingPublisher{}
	svc := newUserService(repo, pub)

	user, err := svc.CreateUser(context.Background(), "Alice", "alice@example.com")
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), user.ID, "Alice B", "alice.b@example.com")
	require.NoError(t, err)

	assert.Equal(t, "Alice B", updated.Name)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, []string{events.UserCreated, events.UserUpdated}, pub.emitted)
}

func TestUpdateUser_MissingUser(t *testing.T) {
	svc := newUserService(newFakeUserRepo(), &recordingPublisher{})

	_, err := svc.UpdateUser(context.Background(), "ghost", "Nobody", "no@example.com")
	assert.ErrorIs(t, err, db.ErrNotFound)
}
