package application_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/deskbooker/internal/application"
	"github.com/example/deskbooker/internal/testfixtures"
)

func TestUserService_Register(t *testing.T) {
	store := testfixtures.NewStore(t, nil)
	services := testfixtures.NewServiceFactory().NewServices(store)
	ctx := context.Background()

	created, err := services.Users.Register(ctx, 42, "  Ann  ")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = services.Users.Register(ctx, 42, "Somebody else")
	require.NoError(t, err)
	assert.False(t, created, "registration is insert-if-absent")

	user, err := store.Users.GetUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)

	_, err = services.Users.Register(ctx, 43, "   ")
	var vErr *application.ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = services.Users.Register(ctx, 43, strings.Repeat("x", 65))
	require.ErrorAs(t, err, &vErr)
}

func TestUserService_Administration(t *testing.T) {
	store := testfixtures.NewStore(t, nil)
	services := testfixtures.NewServiceFactory().NewServices(store)
	ctx := context.Background()

	require.NoError(t, services.Users.AddUser(ctx, 7, "Gus"))
	assert.ErrorIs(t, services.Users.AddUser(ctx, 7, "Gus"), application.ErrAlreadyExists)

	var vErr *application.ValidationError
	err := services.Users.AddUser(ctx, -1, "")
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.FieldErrors, 2)

	require.NoError(t, services.Users.SetAdmin(ctx, 7, true))
	require.NoError(t, services.Users.DelistUser(ctx, 7))
	user, err := store.Users.GetUser(ctx, 7)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.True(t, user.IsDelisted)

	assert.ErrorIs(t, services.Users.SetAdmin(ctx, 8, true), application.ErrNotFound)
	assert.ErrorIs(t, services.Users.DelistUser(ctx, 8), application.ErrNotFound)

	require.NoError(t, services.Users.RelistUser(ctx, 7))
	user, err = store.Users.GetUser(ctx, 7)
	require.NoError(t, err)
	assert.False(t, user.IsDelisted)
	assert.True(t, user.IsAdmin, "relisting keeps the admin flag")
	assert.ErrorIs(t, services.Users.RelistUser(ctx, 8), application.ErrNotFound)

	users, err := services.Users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, services.Users.RemoveUser(ctx, 7))
	assert.ErrorIs(t, services.Users.RemoveUser(ctx, 7), application.ErrNotFound)
}

func TestUserService_RemoveUserWithBookings(t *testing.T) {
	store := testfixtures.NewStore(t, nil)
	services := testfixtures.NewServiceFactory().NewServices(store)
	floor := testfixtures.SeedFloor(t, store, "Main", 1)
	testfixtures.SeedUser(t, store, 5, "Eve", false)
	ctx := context.Background()

	_, err := services.Bookings.Book(ctx, application.BookDeskParams{UserID: 5, DeskID: floor.Desks[0].ID, Date: testfixtures.ReferenceDate(1)})
	require.NoError(t, err)

	assert.ErrorIs(t, services.Users.RemoveUser(ctx, 5), application.ErrInUse)
}
