package services

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"campuspool/internal/models"
	"campuspool/internal/repositories/memory"
	"campuspool/pkg/oauth"
	"campuspool/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStorage struct {
	uploads []*storage.UploadRequest
	fail    bool
}

func (s *stubStorage) Upload(ctx context.Context, request *storage.UploadRequest) (*storage.UploadResponse, error) {
	if s.fail {
		return nil, fmt.Errorf("bucket unavailable")
	}
	s.uploads = append(s.uploads, request)
	return &storage.UploadResponse{
		Key: request.Key,
		URL: "https://cdn.example.com/" + request.Key,
	}, nil
}

func (s *stubStorage) Delete(ctx context.Context, key string) error { return nil }

func (s *stubStorage) GetURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "", fmt.Errorf("not implemented")
}

type stubGoogle struct {
	info *oauth.UserInfo
	err  error
}

func (g *stubGoogle) GetUserInfo(ctx context.Context, accessToken string) (*oauth.UserInfo, error) {
	return g.info, g.err
}

func newUserService(t *testing.T, users *memory.UserRepository, store storage.StorageProvider, google oauth.OAuthProvider) UserService {
	t.Helper()
	return NewUserService(users, store, google, []string{"state.edu", "tech.edu"}, newTestLogger(t))
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("campus email is accepted", func(t *testing.T) {
		users := memory.NewUserRepository()
		svc := newUserService(t, users, nil, nil)

		user, err := svc.Register(ctx, &RegisterUserRequest{
			FirstName: "Ana",
			LastName:  "Silva",
			Email:     "Ana.Silva@State.EDU",
		})
		require.NoError(t, err)

		assert.Equal(t, "ana.silva@state.edu", user.Email)
		assert.Equal(t, models.UserStatusActive, user.Status)
		assert.False(t, user.IsVerified)
	})

	t.Run("subdomain of an allowed domain is accepted", func(t *testing.T) {
		svc := newUserService(t, memory.NewUserRepository(), nil, nil)

		_, err := svc.Register(ctx, &RegisterUserRequest{
			FirstName: "Ben",
			LastName:  "Okafor",
			Email:     "ben@cs.state.edu",
		})
		assert.NoError(t, err)
	})

	t.Run("foreign domain is rejected", func(t *testing.T) {
		svc := newUserService(t, memory.NewUserRepository(), nil, nil)

		_, err := svc.Register(ctx, &RegisterUserRequest{
			FirstName: "Eve",
			LastName:  "Mallory",
			Email:     "eve@gmail.com",
		})
		assert.ErrorIs(t, err, models.ErrDomainNotAllowed)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		users := memory.NewUserRepository()
		svc := newUserService(t, users, nil, nil)

		req := &RegisterUserRequest{FirstName: "Ana", LastName: "Silva", Email: "ana@state.edu"}
		_, err := svc.Register(ctx, req)
		require.NoError(t, err)

		_, err = svc.Register(ctx, req)
		assert.Error(t, err)
	})

	t.Run("malformed input is rejected", func(t *testing.T) {
		svc := newUserService(t, memory.NewUserRepository(), nil, nil)

		_, err := svc.Register(ctx, &RegisterUserRequest{FirstName: "Ana", LastName: "Silva", Email: "not-an-email"})
		assert.ErrorIs(t, err, models.ErrInvalidArgument)

		_, err = svc.Register(ctx, &RegisterUserRequest{FirstName: "A", LastName: "Silva", Email: "a@state.edu"})
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	svc := newUserService(t, users, nil, nil)

	user, err := svc.Register(ctx, &RegisterUserRequest{
		FirstName: "Ana", LastName: "Silva", Email: "ana@state.edu",
	})
	require.NoError(t, err)

	bio := "senior, commutes on weekends"
	smsOn := true
	updated, err := svc.UpdateProfile(ctx, user.ID, &UpdateProfileRequest{
		Bio:              &bio,
		SMSNotifications: &smsOn,
	})
	require.NoError(t, err)

	assert.Equal(t, bio, updated.Bio)
	assert.True(t, updated.SMSNotifications)
	assert.Equal(t, "Ana", updated.FirstName)

	badPhone := "abc"
	_, err = svc.UpdateProfile(ctx, user.ID, &UpdateProfileRequest{Phone: &badPhone})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestUploadProfilePhoto(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	store := &stubStorage{}
	svc := newUserService(t, users, store, nil)

	user, err := svc.Register(ctx, &RegisterUserRequest{
		FirstName: "Ana", LastName: "Silva", Email: "ana@state.edu",
	})
	require.NoError(t, err)

	url, err := svc.UploadProfilePhoto(ctx, user.ID, "me.png", "image/png", bytes.NewReader([]byte("png")), 3)
	require.NoError(t, err)
	assert.Contains(t, url, "profiles/"+user.ID.Hex())

	fresh, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, url, fresh.ProfilePicture)

	require.Len(t, store.uploads, 1)
	assert.Equal(t, "image/png", store.uploads[0].ContentType)
}

func TestVerifyWithGoogle(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, google oauth.OAuthProvider) (UserService, *models.User) {
		users := memory.NewUserRepository()
		svc := newUserService(t, users, nil, google)
		user, err := svc.Register(ctx, &RegisterUserRequest{
			FirstName: "Ana", LastName: "Silva", Email: "ana@state.edu",
		})
		require.NoError(t, err)
		return svc, user
	}

	t.Run("matching verified campus account flips the flag", func(t *testing.T) {
		svc, user := register(t, &stubGoogle{info: &oauth.UserInfo{
			Email:         "ana@state.edu",
			EmailVerified: true,
			Provider:      "google",
		}})

		verified, err := svc.VerifyWithGoogle(ctx, user.ID, "token")
		require.NoError(t, err)
		assert.True(t, verified.IsVerified)
	})

	t.Run("unverified google email is rejected", func(t *testing.T) {
		svc, user := register(t, &stubGoogle{info: &oauth.UserInfo{
			Email: "ana@state.edu",
		}})

		_, err := svc.VerifyWithGoogle(ctx, user.ID, "token")
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})

	t.Run("mismatched account is rejected", func(t *testing.T) {
		svc, user := register(t, &stubGoogle{info: &oauth.UserInfo{
			Email:         "someone.else@state.edu",
			EmailVerified: true,
		}})

		_, err := svc.VerifyWithGoogle(ctx, user.ID, "token")
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})
}

func TestRegisterPushToken(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	svc := newUserService(t, users, nil, nil)

	user, err := svc.Register(ctx, &RegisterUserRequest{
		FirstName: "Ana", LastName: "Silva", Email: "ana@state.edu",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RegisterPushToken(ctx, user.ID, "FCM", "fcm-token"))
	require.NoError(t, svc.RegisterPushToken(ctx, user.ID, "apns", "apns-token"))
	require.NoError(t, svc.RegisterPushToken(ctx, user.ID, "fcm", "fcm-token"), "re-registering is idempotent")

	fresh, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"fcm-token"}, fresh.FCMTokens)
	assert.Equal(t, []string{"apns-token"}, fresh.APNSTokens)

	err = svc.RegisterPushToken(ctx, user.ID, "pigeon", "t")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}
