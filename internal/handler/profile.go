package handler

import (
	"Go_Stow/internal/apperr"
	"Go_Stow/internal/dto"
	"Go_Stow/internal/middleware"
	"Go_Stow/internal/service"
	"Go_Stow/utils"

	"github.com/gin-gonic/gin"
)

// CreateProfile creates the caller's profile.
func CreateProfile(c *gin.Context) {
	userNo, err := pathUint(c, "user_no")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.ProfileCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	profile, err := service.CreateProfile(c.Request.Context(), middleware.Principal(c), userNo, req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, dto.NewProfileResponse(profile))
}

// UpdateProfile changes the fields present in the body.
func UpdateProfile(c *gin.Context) {
	userNo, err := pathUint(c, "user_no")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	profile, err := service.UpdateProfile(c.Request.Context(), middleware.Principal(c), userNo, req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, dto.NewProfileResponse(profile))
}

// GetProfile returns the caller's profile.
func GetProfile(c *gin.Context) {
	userNo, err := pathUint(c, "user_no")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	profile, err := service.GetProfile(c.Request.Context(), middleware.Principal(c), userNo)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, dto.NewProfileResponse(profile))
}

// UploadProfileImage stores the multipart "file" as the caller's profile image.
func UploadProfileImage(c *gin.Context) {
	userNo, err := pathUint(c, "user_no")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		utils.Fail(c, apperr.BadRequest("file is required"))
		return
	}
	profile, err := service.UploadProfileImage(c.Request.Context(), middleware.Principal(c), userNo, file)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, dto.NewProfileResponse(profile))
}
