package utils

import (
	"Go_Stow/internal/apperr"
	"Go_Stow/internal/logging"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success writes data with 200.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes data with 201.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message writes {"msg": msg} with 200.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"msg": msg})
}

// Fail maps err to its status and writes {"detail": ...}. Internal causes are logged, not returned.
func Fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		_ = c.Error(err)
		logging.L().Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.AbortWithStatusJSON(kind.Status(), gin.H{"detail": apperr.DetailOf(err)})
}

// BadRequest writes a 400 with a binding or parsing error.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}
