package handler

import (
	"Go_Stow/internal/apperr"
	"Go_Stow/internal/dto"
	"Go_Stow/internal/middleware"
	"Go_Stow/internal/service"
	"Go_Stow/utils"

	"github.com/gin-gonic/gin"
)

// Signup registers a disabled user and mails the verification code.
func Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	user, err := service.Signup(c.Request.Context(), req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, dto.NewUserResponse(user))
}

// VerifyCode activates an account.
func VerifyCode(c *gin.Context) {
	var req dto.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	if err := service.VerifyCode(c.Request.Context(), req.Email, req.VerificationCode); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Message(c, "Account successfully verified")
}

// ResendCode sends a new verification code to an unverified account.
func ResendCode(c *gin.Context) {
	var req dto.ResendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	if err := service.ResendCode(c.Request.Context(), req.Email); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Message(c, "Verification code sent")
}

// Login accepts JSON {email, password} or a username/password form.
func Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	if req.Login() == "" {
		utils.Fail(c, apperr.BadRequest("email is required"))
		return
	}
	resp, err := service.Login(c.Request.Context(), req.Login(), req.Password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnauthorized {
			c.Header("WWW-Authenticate", "Bearer")
		}
		utils.Fail(c, err)
		return
	}
	utils.Success(c, resp)
}

// Refresh exchanges a refresh token for a new token pair.
func Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	resp, err := service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, resp)
}

// ChangePassword replaces the caller's password.
func ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	if err := service.ChangePassword(c.Request.Context(), middleware.Principal(c), req); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Message(c, "Password successfully changed")
}

// Me returns the caller.
func Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.Fail(c, apperr.ErrUnauthorized)
		return
	}
	utils.Success(c, dto.NewUserResponse(user))
}

// UserInfo returns a user with its profile.
func UserInfo(c *gin.Context) {
	userNo, err := pathUint(c, "user_no")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	user, err := service.GetUserInfo(c.Request.Context(), middleware.Principal(c), userNo)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, dto.NewUserResponse(user))
}
