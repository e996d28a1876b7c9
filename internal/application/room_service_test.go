package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/deskbooker/internal/application"
	"github.com/example/deskbooker/internal/testfixtures"
)

func TestRoomService_Lifecycle(t *testing.T) {
	store := testfixtures.NewStore(t, nil)
	services := testfixtures.NewServiceFactory().NewServices(store)
	ctx := context.Background()

	room, err := services.Rooms.AddRoom(ctx, " Atrium ")
	require.NoError(t, err)
	assert.Equal(t, "Atrium", room.Name)
	assert.True(t, room.Available)

	require.NoError(t, services.Rooms.RenameRoom(ctx, room.ID, "Atrium West"))
	require.NoError(t, services.Rooms.SetPlanURL(ctx, room.ID, "https://plans.example/atrium.png"))
	require.NoError(t, services.Rooms.SetAvailability(ctx, room.ID, false))

	var vErr *application.ValidationError
	require.ErrorAs(t, services.Rooms.SetPlanURL(ctx, room.ID, "not a url"), &vErr)
	require.ErrorAs(t, services.Rooms.RenameRoom(ctx, room.ID, ""), &vErr)
	assert.ErrorIs(t, services.Rooms.RenameRoom(ctx, 404, "x"), application.ErrNotFound)

	got, err := store.Rooms.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Atrium West", got.Name)
	assert.False(t, got.Available)
	require.NotNil(t, got.PlanURL)
	assert.Equal(t, "https://plans.example/atrium.png", *got.PlanURL)

	require.NoError(t, services.Rooms.RemoveRoom(ctx, room.ID))
	assert.ErrorIs(t, services.Rooms.RemoveRoom(ctx, room.ID), application.ErrNotFound)
}

func TestRoomService_ListRooms(t *testing.T) {
	store := testfixtures.NewStore(t, nil)
	services := testfixtures.NewServiceFactory().NewServices(store)
	testfixtures.SeedFloor(t, store, "North", 2)
	testfixtures.SeedFloor(t, store, "South", 0)

	overviews, err := services.Rooms.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, overviews, 2)
	assert.Equal(t, "North", overviews[0].Room.Name)
	assert.Len(t, overviews[0].Desks, 2)
	assert.Empty(t, overviews[1].Desks)

	detached, err := services.Rooms.DetachedDesks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, detached)

	require.NoError(t, services.Rooms.RemoveRoom(context.Background(), overviews[0].Room.ID))
	detached, err = services.Rooms.DetachedDesks(context.Background())
	require.NoError(t, err)
	require.Len(t, detached, 2)
	assert.Nil(t, detached[0].RoomID)
	assert.Equal(t, []int{1, 2}, []int{detached[0].Number, detached[1].Number})
}

func TestDeskService_Lifecycle(t *testing.T) {
	store := testfixtures.NewStore(t, nil)
	services := testfixtures.NewServiceFactory().NewServices(store)
	floor := testfixtures.SeedFloor(t, store, "Main", 1)
	ctx := context.Background()

	desk, err := services.Desks.AddDesk(ctx, floor.Room.ID, 2)
	require.NoError(t, err)
	assert.True(t, desk.Available)

	_, err = services.Desks.AddDesk(ctx, floor.Room.ID, 1)
	assert.ErrorIs(t, err, application.ErrAlreadyExists, "numbers are unique within a room")
	_, err = services.Desks.AddDesk(ctx, 404, 1)
	assert.ErrorIs(t, err, application.ErrNotFound)
	_, err = services.Desks.AddDesk(ctx, floor.Room.ID, 0)
	var vErr *application.ValidationError
	assert.ErrorAs(t, err, &vErr)

	assert.ErrorIs(t, services.Desks.RenumberDesk(ctx, desk.ID, 1), application.ErrAlreadyExists)
	require.NoError(t, services.Desks.RenumberDesk(ctx, desk.ID, 2), "keeping its own number is fine")
	require.NoError(t, services.Desks.RenumberDesk(ctx, desk.ID, 5))
	require.NoError(t, services.Desks.SetAvailability(ctx, desk.ID, false))

	got, err := store.Desks.GetDesk(ctx, desk.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Number)
	assert.False(t, got.Available)

	require.NoError(t, services.Desks.RemoveDesk(ctx, desk.ID))
	assert.ErrorIs(t, services.Desks.RemoveDesk(ctx, desk.ID), application.ErrNotFound)
	assert.ErrorIs(t, services.Desks.SetAvailability(ctx, desk.ID, true), application.ErrNotFound)
}
