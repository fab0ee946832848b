package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"campuspool/internal/models"
	"campuspool/internal/repositories/interfaces"
	"campuspool/internal/utils"
	"campuspool/pkg/logger"
	"campuspool/pkg/oauth"
	"campuspool/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	Register(ctx context.Context, req *RegisterUserRequest) (*models.User, error)
	GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *UpdateProfileRequest) (*models.User, error)

	// UploadProfilePhoto stores the image with the configured storage provider
	// and records the resulting URL on the profile.
	UploadProfilePhoto(ctx context.Context, userID primitive.ObjectID, filename, contentType string, reader io.Reader, size int64) (string, error)

	// VerifyWithGoogle confirms the user controls a campus Workspace account:
	// the Google profile email must be verified by Google, belong to the user,
	// and sit on the institutional allow-list.
	VerifyWithGoogle(ctx context.Context, userID primitive.ObjectID, accessToken string) (*models.User, error)

	RegisterPushToken(ctx context.Context, userID primitive.ObjectID, platform, token string) error
}

type RegisterUserRequest struct {
	FirstName  string        `json:"first_name" validate:"required,min=2,max=50"`
	LastName   string        `json:"last_name" validate:"required,min=2,max=50"`
	Email      string        `json:"email" validate:"required,email"`
	Phone      string        `json:"phone" validate:"omitempty,phone"`
	University string        `json:"university" validate:"omitempty,max=100"`
	StudentID  string        `json:"student_id" validate:"omitempty,max=50"`
	Gender     models.Gender `json:"gender" validate:"omitempty,oneof=male female other"`
}

type UpdateProfileRequest struct {
	FirstName        *string `json:"first_name,omitempty" validate:"omitempty,min=2,max=50"`
	LastName         *string `json:"last_name,omitempty" validate:"omitempty,min=2,max=50"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Bio              *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	University       *string `json:"university,omitempty" validate:"omitempty,max=100"`
	SMSNotifications *bool   `json:"sms_notifications,omitempty"`
}

type userService struct {
	userRepo       interfaces.UserRepository
	storage        storage.StorageProvider
	googleProvider oauth.OAuthProvider
	allowedDomains []string
	logger         *logger.Logger
}

func NewUserService(
	userRepo interfaces.UserRepository,
	storageProvider storage.StorageProvider,
	googleProvider oauth.OAuthProvider,
	allowedDomains []string,
	log *logger.Logger,
) UserService {
	return &userService{
		userRepo:       userRepo,
		storage:        storageProvider,
		googleProvider: googleProvider,
		allowedDomains: allowedDomains,
		logger:         log,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterUserRequest) (*models.User, error) {
	if req == nil {
		return nil, models.ErrInvalidArgument
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.IsValidEmail(email) {
		return nil, models.ErrInvalidArgument
	}
	if !utils.IsAllowedEmailDomain(email, s.allowedDomains) {
		return nil, models.ErrDomainNotAllowed
	}
	if !utils.IsValidName(req.FirstName) || !utils.IsValidName(req.LastName) {
		return nil, models.ErrInvalidArgument
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %s is already registered", email)
	}

	user := &models.User{
		FirstName:  utils.SanitizeString(req.FirstName),
		LastName:   utils.SanitizeString(req.LastName),
		Email:      email,
		Phone:      strings.TrimSpace(req.Phone),
		University: utils.SanitizeString(req.University),
		StudentID:  strings.TrimSpace(req.StudentID),
		Gender:     req.Gender,
		Status:     models.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.LogUserAction(user.ID, "user_registered", map[string]interface{}{
		"email_domain": utils.EmailDomain(email),
	})

	return user, nil
}

func (s *userService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *UpdateProfileRequest) (*models.User, error) {
	if req == nil {
		return nil, models.ErrInvalidArgument
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		if !utils.IsValidName(*req.FirstName) {
			return nil, models.ErrInvalidArgument
		}
		updates["first_name"] = utils.SanitizeString(*req.FirstName)
	}
	if req.LastName != nil {
		if !utils.IsValidName(*req.LastName) {
			return nil, models.ErrInvalidArgument
		}
		updates["last_name"] = utils.SanitizeString(*req.LastName)
	}
	if req.Phone != nil {
		if *req.Phone != "" && !utils.IsValidPhone(*req.Phone) {
			return nil, models.ErrInvalidArgument
		}
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Bio != nil {
		updates["bio"] = utils.SanitizeString(*req.Bio)
	}
	if req.University != nil {
		updates["university"] = utils.SanitizeString(*req.University)
	}
	if req.SMSNotifications != nil {
		updates["sms_notifications"] = *req.SMSNotifications
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(ctx, userID, updates); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) UploadProfilePhoto(ctx context.Context, userID primitive.ObjectID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("no storage provider configured")
	}
	if reader == nil || filename == "" {
		return "", models.ErrInvalidArgument
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return "", err
	}

	key := fmt.Sprintf("profiles/%s/%d%s", userID.Hex(), time.Now().Unix(), path.Ext(filename))

	response, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      reader,
		ContentType: contentType,
		Size:        size,
		ACL:         "public-read",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload profile photo: %w", err)
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"profile_picture": response.URL}); err != nil {
		return "", err
	}

	return response.URL, nil
}

func (s *userService) VerifyWithGoogle(ctx context.Context, userID primitive.ObjectID, accessToken string) (*models.User, error) {
	if s.googleProvider == nil {
		return nil, fmt.Errorf("no identity provider configured")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	info, err := s.googleProvider.GetUserInfo(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	if !info.EmailVerified {
		return nil, models.ErrInvalidArgument
	}

	googleEmail := strings.ToLower(strings.TrimSpace(info.Email))
	if googleEmail != user.Email {
		return nil, models.ErrInvalidArgument
	}
	if !utils.IsAllowedEmailDomain(googleEmail, s.allowedDomains) {
		return nil, models.ErrDomainNotAllowed
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"is_verified": true}); err != nil {
		return nil, err
	}

	s.logger.LogUserAction(userID, "user_verified", map[string]interface{}{
		"provider": info.Provider,
	})

	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) RegisterPushToken(ctx context.Context, userID primitive.ObjectID, platform, token string) error {
	platform = strings.ToLower(platform)
	if platform != "fcm" && platform != "apns" {
		return models.ErrInvalidArgument
	}
	if token == "" {
		return models.ErrInvalidArgument
	}
	return s.userRepo.AddPushToken(ctx, userID, platform, token)
}
