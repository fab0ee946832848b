package handlers

import (
	"campuspool/internal/services"
	"campuspool/internal/utils"
	"campuspool/internal/validators"
	"campuspool/pkg/logger"

	"github.com/gin-gonic/gin"
)

const maxProfilePhotoSize = 5 << 20 // 5 MB

type UserHandler struct {
	userService services.UserService
	logger      *logger.Logger
}

func NewUserHandler(userService services.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      log,
	}
}

// Register handles POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}
	if errs := validators.ValidateRegisterUser(&req); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "User registered", user)
}

// GetProfile handles GET /users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved", user)
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "User retrieved", user.ToPublicProfile())
}

// UpdateProfile handles PUT /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid request body")
		return
	}
	if errs := validators.ValidateUpdateProfile(&req); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated", user)
}

// UploadProfilePhoto handles POST /users/me/photo (multipart form, field "photo")
func (h *UserHandler) UploadProfilePhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		utils.BadRequestResponse(c, "photo file is required")
		return
	}
	if fileHeader.Size > maxProfilePhotoSize {
		utils.BadRequestResponse(c, "photo must be smaller than 5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "unable to read photo")
		return
	}
	defer file.Close()

	url, err := h.userService.UploadProfilePhoto(
		c.Request.Context(),
		userID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Photo uploaded", gin.H{"url": url})
}

type verifyGoogleRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// VerifyWithGoogle handles POST /users/me/verify/google
func (h *UserHandler) VerifyWithGoogle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req verifyGoogleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "access_token is required")
		return
	}

	user, err := h.userService.VerifyWithGoogle(c.Request.Context(), userID, req.AccessToken)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Account verified", user)
}

type registerPushTokenRequest struct {
	Platform string `json:"platform" binding:"required"`
	Token    string `json:"token" binding:"required"`
}

// RegisterPushToken handles POST /users/me/push-tokens
func (h *UserHandler) RegisterPushToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req registerPushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "platform and token are required")
		return
	}

	if err := h.userService.RegisterPushToken(c.Request.Context(), userID, req.Platform, req.Token); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Push token registered", nil)
}
