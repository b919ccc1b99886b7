package middleware

import (
	"Go_Stow/internal/apperr"
	"Go_Stow/internal/service"
	"Go_Stow/model"
	"Go_Stow/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserNo = "user_no"
	ContextUser   = "user"
)

// Auth resolves the bearer token to a user and stores it in the context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := utils.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			utils.Fail(c, apperr.ErrUnauthorized)
			return
		}
		user, err := service.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			utils.Fail(c, err)
			return
		}
		c.Set(ContextUserNo, user.UserNo)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// RequireSelf rejects requests whose path parameter names another user.
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userNo, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil {
			utils.Fail(c, apperr.BadRequest(param+" must be a positive integer"))
			return
		}
		if userNo != Principal(c) {
			utils.Fail(c, apperr.Forbidden("You do not have permission to access this resource."))
			return
		}
		c.Next()
	}
}

// Principal returns the authenticated user number, 0 outside Auth.
func Principal(c *gin.Context) uint64 {
	return c.GetUint64(ContextUserNo)
}

// CurrentUser returns the authenticated user, nil outside Auth.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
