package access

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/deskbooker/internal/persistence"
)

const superadminID int64 = 1000

type stubUsers struct {
	users map[int64]persistence.User
	err   error
	panic bool
	calls int
}

func (s *stubUsers) GetUser(_ context.Context, id int64) (persistence.User, error) {
	s.calls++
	if s.panic {
		panic("driver exploded")
	}
	if s.err != nil {
		return persistence.User{}, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func TestResolver_IsSuperadmin(t *testing.T) {
	r := NewResolver(superadminID, &stubUsers{}, nil)

	assert.True(t, r.IsSuperadmin(superadminID))
	assert.False(t, r.IsSuperadmin(1))
	assert.False(t, NewResolver(0, &stubUsers{}, nil).IsSuperadmin(0), "an unset superadmin matches nobody")
}

func TestResolver_IsAdmin(t *testing.T) {
	users := map[int64]persistence.User{
		1: {ID: 1, Name: "admin", IsAdmin: true},
		2: {ID: 2, Name: "plain"},
		3: {ID: 3, Name: "delisted admin", IsAdmin: true, IsDelisted: true},
	}

	tests := []struct {
		name    string
		actorID int64
		store   *stubUsers
		want    bool
	}{
		{"admin row", 1, &stubUsers{users: users}, true},
		{"plain user", 2, &stubUsers{users: users}, false},
		{"delisted admin keeps admin status", 3, &stubUsers{users: users}, true},
		{"unknown actor", 9, &stubUsers{users: users}, false},
		{"store failure fails closed", 1, &stubUsers{users: users, err: errors.New("disk I/O error")}, false},
		{"panic fails closed", 1, &stubUsers{users: users, panic: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(superadminID, tt.store, nil)
			assert.Equal(t, tt.want, r.IsAdmin(context.Background(), tt.actorID))
		})
	}
}

func TestResolver_IsAdmin_SuperadminSkipsStore(t *testing.T) {
	store := &stubUsers{err: errors.New("store offline")}
	r := NewResolver(superadminID, store, nil)

	assert.True(t, r.IsAdmin(context.Background(), superadminID))
	assert.Zero(t, store.calls)
}

func TestResolver_IsAdmin_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := NewResolver(superadminID, &stubUsers{err: errors.New("disk I/O error")}, logger)

	require.False(t, r.IsAdmin(context.Background(), 5))
	assert.Contains(t, buf.String(), "admin check failed")
	assert.Contains(t, buf.String(), "actor_id=5")
}

func TestResolver_Lookup(t *testing.T) {
	store := &stubUsers{users: map[int64]persistence.User{7: {ID: 7, Name: "Ann"}}}
	r := NewResolver(superadminID, store, nil)
	ctx := context.Background()

	user, found, err := r.Lookup(ctx, 7)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ann", user.Name)

	_, found, err = r.Lookup(ctx, 8)
	require.NoError(t, err)
	assert.False(t, found)

	store.err = errors.New("locked")
	_, found, err = r.Lookup(ctx, 7)
	require.Error(t, err)
	assert.False(t, found)
}
