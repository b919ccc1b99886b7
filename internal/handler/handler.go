package handler

import (
	"Go_Stow/internal/apperr"
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathUint reads a positive integer path parameter.
func pathUint(c *gin.Context, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, apperr.BadRequest(name + " must be a positive integer")
	}
	return v, nil
}
