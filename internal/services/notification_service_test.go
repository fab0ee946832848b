package services

import (
	"context"
	"fmt"
	"testing"

	"campuspool/internal/models"
	"campuspool/internal/repositories/memory"
	"campuspool/pkg/push"
	"campuspool/pkg/sms"
	ws "campuspool/pkg/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubPush struct {
	sent []*push.NotificationRequest
	err  error
}

func (p *stubPush) SendNotification(ctx context.Context, request *push.NotificationRequest) (*push.NotificationResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.sent = append(p.sent, request)
	return &push.NotificationResponse{Success: true}, nil
}

type stubSMS struct {
	sent []*sms.SMSRequest
	err  error
}

func (s *stubSMS) SendSMS(ctx context.Context, request *sms.SMSRequest) (*sms.SMSResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, request)
	return &sms.SMSResponse{Status: "sent"}, nil
}

type stubRealtime struct {
	messages []ws.Message
}

func (r *stubRealtime) SendToUser(userID primitive.ObjectID, message ws.Message) {
	r.messages = append(r.messages, message)
}

func TestNotify(t *testing.T) {
	ctx := context.Background()

	newRecipient := func(t *testing.T, users *memory.UserRepository) *models.User {
		t.Helper()
		user := &models.User{
			FirstName:        "Ana",
			LastName:         "Silva",
			Email:            "ana@state.edu",
			Phone:            "+15125550100",
			FCMTokens:        []string{"fcm-1", "fcm-2"},
			APNSTokens:       []string{"apns-1"},
			SMSNotifications: true,
		}
		require.NoError(t, users.Create(ctx, user))
		return user
	}

	t.Run("persists and fans out over every channel", func(t *testing.T) {
		users := memory.NewUserRepository()
		notifications := memory.NewNotificationRepository()
		user := newRecipient(t, users)

		fcm := &stubPush{}
		apns := &stubPush{}
		smsProvider := &stubSMS{}
		realtime := &stubRealtime{}

		svc := NewNotificationService(notifications, users, realtime, fcm, apns, smsProvider, "+15125550000", newTestLogger(t))

		notification, err := svc.Notify(ctx, &NotifyRequest{
			UserID:  user.ID,
			Type:    models.NotificationTypeRideApproved,
			Title:   "Request approved",
			Message: "See you Friday",
			Data:    map[string]string{"ride_id": primitive.NewObjectID().Hex()},
		})
		require.NoError(t, err)
		assert.False(t, notification.ID.IsZero())

		assert.Len(t, realtime.messages, 1)
		assert.Equal(t, "ride_approved", realtime.messages[0].Type)
		assert.Len(t, fcm.sent, 2, "one push per FCM token")
		assert.Len(t, apns.sent, 1)

		require.Len(t, smsProvider.sent, 1)
		assert.Equal(t, user.Phone, smsProvider.sent[0].To)
		assert.Equal(t, "+15125550000", smsProvider.sent[0].From)
	})

	t.Run("channel failures are swallowed", func(t *testing.T) {
		users := memory.NewUserRepository()
		notifications := memory.NewNotificationRepository()
		user := newRecipient(t, users)

		fcm := &stubPush{err: fmt.Errorf("fcm quota exceeded")}
		smsProvider := &stubSMS{err: fmt.Errorf("carrier rejected")}

		svc := NewNotificationService(notifications, users, nil, fcm, nil, smsProvider, "+15125550000", newTestLogger(t))

		_, err := svc.Notify(ctx, &NotifyRequest{
			UserID:  user.ID,
			Type:    models.NotificationTypeMessage,
			Title:   "New message",
			Message: "hello",
		})
		require.NoError(t, err)

		count, err := svc.CountUnread(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("sms respects the opt-in flag", func(t *testing.T) {
		users := memory.NewUserRepository()
		notifications := memory.NewNotificationRepository()

		user := &models.User{
			FirstName: "Ben", LastName: "Okafor", Email: "ben@state.edu",
			Phone: "+15125550101", SMSNotifications: false,
		}
		require.NoError(t, users.Create(ctx, user))

		smsProvider := &stubSMS{}
		svc := NewNotificationService(notifications, users, nil, nil, nil, smsProvider, "+15125550000", newTestLogger(t))

		_, err := svc.Notify(ctx, &NotifyRequest{
			UserID: user.ID, Type: models.NotificationTypeMessage, Title: "t", Message: "m",
		})
		require.NoError(t, err)
		assert.Empty(t, smsProvider.sent)
	})

	t.Run("missing title is rejected", func(t *testing.T) {
		svc := NewNotificationService(memory.NewNotificationRepository(), memory.NewUserRepository(), nil, nil, nil, nil, "", newTestLogger(t))

		_, err := svc.Notify(ctx, &NotifyRequest{UserID: primitive.NewObjectID(), Message: "m"})
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})
}

func TestNotificationReadState(t *testing.T) {
	ctx := context.Background()

	notifications := memory.NewNotificationRepository()
	users := memory.NewUserRepository()
	svc := NewNotificationService(notifications, users, nil, nil, nil, nil, "", newTestLogger(t))

	user := &models.User{FirstName: "Ana", LastName: "Silva", Email: "ana@state.edu"}
	require.NoError(t, users.Create(ctx, user))

	var first *models.Notification
	for i := 0; i < 3; i++ {
		n, err := svc.Notify(ctx, &NotifyRequest{
			UserID: user.ID, Type: models.NotificationTypeMessage, Title: "t", Message: "m",
		})
		require.NoError(t, err)
		if first == nil {
			first = n
		}
	}

	count, err := svc.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, svc.MarkRead(ctx, first.ID, user.ID))
	count, err = svc.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkAllRead(ctx, user.ID))
	count, err = svc.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
