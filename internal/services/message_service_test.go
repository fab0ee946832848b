package services

import (
	"context"
	"strings"
	"testing"

	"campuspool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("append and notify", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		rider := f.createUser(t, "rider@state.edu")
		ride := f.createRide(t, driver.ID, rideOptions{})

		message, err := f.messageService.SendMessage(ctx, rider.ID, &SendMessageRequest{
			ReceiverID: driver.ID,
			RideID:     ride.ID,
			Content:    "  still got a seat on Friday?  ",
		})
		require.NoError(t, err)

		assert.Equal(t, "still got a seat on Friday?", message.Content)
		assert.False(t, message.IsRead)
		assert.Equal(t, 1, f.countNotifications(t, driver.ID, models.NotificationTypeMessage))
	})

	t.Run("rejects empty, oversized, self-addressed and dangling-ride messages", func(t *testing.T) {
		f := newFixtures(t)
		driver := f.createUser(t, "driver@state.edu")
		rider := f.createUser(t, "rider@state.edu")
		ride := f.createRide(t, driver.ID, rideOptions{})

		_, err := f.messageService.SendMessage(ctx, rider.ID, &SendMessageRequest{
			ReceiverID: driver.ID, RideID: ride.ID, Content: "   ",
		})
		assert.ErrorIs(t, err, models.ErrInvalidArgument)

		_, err = f.messageService.SendMessage(ctx, rider.ID, &SendMessageRequest{
			ReceiverID: driver.ID, RideID: ride.ID, Content: strings.Repeat("x", 1001),
		})
		assert.ErrorIs(t, err, models.ErrInvalidArgument)

		_, err = f.messageService.SendMessage(ctx, rider.ID, &SendMessageRequest{
			ReceiverID: rider.ID, RideID: ride.ID, Content: "hi me",
		})
		assert.ErrorIs(t, err, models.ErrInvalidArgument)

		_, err = f.messageService.SendMessage(ctx, rider.ID, &SendMessageRequest{
			ReceiverID: driver.ID, RideID: primitive.NewObjectID(), Content: "hello",
		})
		assert.ErrorIs(t, err, models.ErrRideNotFound)
	})
}

func TestConversation(t *testing.T) {
	ctx := context.Background()

	f := newFixtures(t)
	driver := f.createUser(t, "driver@state.edu")
	rider := f.createUser(t, "rider@state.edu")
	other := f.createUser(t, "other@state.edu")
	ride := f.createRide(t, driver.ID, rideOptions{})

	send := func(from, to primitive.ObjectID, content string) {
		_, err := f.messageService.SendMessage(ctx, from, &SendMessageRequest{
			ReceiverID: to, RideID: ride.ID, Content: content,
		})
		require.NoError(t, err)
	}

	send(rider.ID, driver.ID, "any seats left?")
	send(driver.ID, rider.ID, "one, yes")
	send(other.ID, driver.ID, "me too please")

	conversation, err := f.messageService.GetConversation(ctx, driver.ID, rider.ID, ride.ID)
	require.NoError(t, err)
	require.Len(t, conversation, 2)
	assert.Equal(t, "any seats left?", conversation[0].Content)
	assert.Equal(t, "one, yes", conversation[1].Content)

	// Driver has two unread: one from rider, one from other.
	unread, err := f.messageService.CountUnread(ctx, driver.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	// Reading the rider conversation leaves the other thread untouched.
	require.NoError(t, f.messageService.MarkConversationRead(ctx, driver.ID, rider.ID, ride.ID))

	unread, err = f.messageService.CountUnread(ctx, driver.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	conversation, err = f.messageService.GetConversation(ctx, driver.ID, rider.ID, ride.ID)
	require.NoError(t, err)
	assert.True(t, conversation[0].IsRead)
	require.NotNil(t, conversation[0].ReadAt)
	assert.False(t, conversation[1].IsRead, "own outgoing message stays untouched")
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()

	f := newFixtures(t)
	driver := f.createUser(t, "driver@state.edu")
	rider := f.createUser(t, "rider@state.edu")
	ride := f.createRide(t, driver.ID, rideOptions{})

	message, err := f.messageService.SendMessage(ctx, rider.ID, &SendMessageRequest{
		ReceiverID: driver.ID, RideID: ride.ID, Content: "ping",
	})
	require.NoError(t, err)

	// Only the receiver can flip the flag; the sender's call is a no-op.
	require.NoError(t, f.messageService.MarkRead(ctx, rider.ID, message.ID))
	fresh, err := f.messages.GetByID(ctx, message.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsRead)

	require.NoError(t, f.messageService.MarkRead(ctx, driver.ID, message.ID))
	fresh, err = f.messages.GetByID(ctx, message.ID)
	require.NoError(t, err)
	assert.True(t, fresh.IsRead)
}
