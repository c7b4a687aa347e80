package user

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entity.User
	err    error
}

func newMemStore() *memStore { return &memStore{rows: map[int64]entity.User{}} }

func (m *memStore) Create(_ context.Context, u *entity.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.nextID++
	u.ID = m.nextID
	m.rows[u.ID] = *u
	return u.ID, nil
}

func (m *memStore) find(match func(entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.rows {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *memStore) GetByID(_ context.Context, id int64) (*entity.User, error) {
	return m.find(func(u entity.User) bool { return u.ID == id })
}

func (m *memStore) GetByUsername(_ context.Context, name string) (*entity.User, error) {
	return m.find(func(u entity.User) bool { return u.Username == name })
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *memStore) List(_ context.Context, skip, limit int) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.User{}
	for id := int64(1); id <= m.nextID; id++ {
		if u, ok := m.rows[id]; ok {
			out = append(out, u)
		}
	}
	if skip > len(out) {
		return []entity.User{}, nil
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.ID]; !ok {
		return apperr.ErrNotFound
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// plainHasher stands in for argon2 so tests stay fast; it counts verifies.
type plainHasher struct {
	mu       sync.Mutex
	verifies int
}

func (h *plainHasher) Hash(plain string) (string, error) { return "plain$" + plain, nil }

func (h *plainHasher) Verify(plain, digest string) bool {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return digest == "plain$"+plain
}

func newTestService(t *testing.T) (*UserService, *memStore, *plainHasher) {
	t.Helper()
	store := newMemStore()
	hasher := &plainHasher{}
	return NewUserService(store, hasher, nil), store, hasher
}

func TestRegister(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: " test ", Email: "Test@Example.com", Password: "testpassword"})
	require.NoError(t, err)
	assert.Equal(t, "test", u.Username)
	assert.Equal(t, "test@example.com", u.Email)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.True(t, u.Active)
	assert.Equal(t, "plain$testpassword", store.rows[u.ID].PasswordHash)

	_, err = svc.Register(ctx, RegisterInput{Username: "test", Email: "other@example.com", Password: "testpassword"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.EqualError(t, err, "username already registered")

	_, err = svc.Register(ctx, RegisterInput{Username: "other", Email: "TEST@example.com", Password: "testpassword"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.EqualError(t, err, "email already registered")
}

func TestCreateWithRole(t *testing.T) {
	svc, _, _ := newTestService(t)
	inactive := false
	u, err := svc.Create(context.Background(), CreateInput{
		Username: "testadmin", Email: "admin@example.com", Password: "testadminpassword",
		Role: entity.RoleAdministrator, Active: &inactive,
	})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
	assert.False(t, u.Active)

	_, err = svc.Create(context.Background(), CreateInput{Username: "x", Email: "x@example.com", Password: "pw", Role: "root"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAuthenticate(t *testing.T) {
	svc, _, hasher := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "test", Email: "test@example.com", Password: "testpassword"})
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "test", "testpassword")
	require.NoError(t, err)
	assert.Equal(t, "test", u.Username)

	u, err = svc.Authenticate(ctx, "TEST@example.com", "testpassword")
	require.NoError(t, err)
	assert.Equal(t, "test", u.Username)

	_, err = svc.Authenticate(ctx, "test", "wrong")
	assert.ErrorIs(t, err, apperr.ErrBadCredentials)

	before := hasher.verifies
	_, err = svc.Authenticate(ctx, "nobody", "testpassword")
	assert.ErrorIs(t, err, apperr.ErrBadCredentials)
	assert.Equal(t, before+1, hasher.verifies, "a miss still runs one verify")

	_, err = svc.Authenticate(ctx, "", "testpassword")
	assert.ErrorIs(t, err, apperr.ErrBadCredentials)
}

func TestAuthenticateIgnoresActiveFlag(t *testing.T) {
	svc, _, _ := newTestService(t)
	inactive := false
	_, err := svc.Create(context.Background(), CreateInput{Username: "gone", Email: "gone@example.com", Password: "password1", Active: &inactive})
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "gone", "password1")
	require.NoError(t, err)
	assert.False(t, u.Active)
}

func TestAuthenticateStorageError(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.err = &apperr.StorageError{Op: "users.get_by_username", Err: errors.New("db down")}

	_, err := svc.Authenticate(context.Background(), "test", "pw")
	assert.True(t, apperr.IsStorage(err))
	assert.NotErrorIs(t, err, apperr.ErrBadCredentials)
}

func TestUpdatePermissions(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	alice, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)
	bob, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "password1"})
	require.NoError(t, err)
	root, err := svc.Create(ctx, CreateInput{Username: "root", Email: "root@example.com", Password: "password1", Role: entity.RoleAdministrator})
	require.NoError(t, err)

	newEmail := "alice2@example.com"
	updated, err := svc.Update(ctx, alice, alice.ID, UpdateInput{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, newEmail, updated.Email)

	_, err = svc.Update(ctx, alice, bob.ID, UpdateInput{Email: &newEmail})
	assert.ErrorIs(t, err, apperr.ErrInsufficientPrivileges)

	admin := entity.RoleAdministrator
	_, err = svc.Update(ctx, alice, alice.ID, UpdateInput{Role: &admin})
	assert.ErrorIs(t, err, apperr.ErrInsufficientPrivileges)

	taken := "bob"
	_, err = svc.Update(ctx, alice, alice.ID, UpdateInput{Username: &taken})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	off := false
	updated, err = svc.Update(ctx, root, bob.ID, UpdateInput{Active: &off, Role: &admin})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.True(t, updated.IsAdmin())

	pw := "newpassword"
	_, err = svc.Update(ctx, alice, alice.ID, UpdateInput{Password: &pw})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "alice", "newpassword")
	assert.NoError(t, err)

	_, err = svc.Update(ctx, root, 999, UpdateInput{Active: &off})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Username: "test", Email: "test@example.com", Password: "password1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), apperr.ErrNotFound)
	_, err = svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
