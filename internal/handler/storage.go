package handler

import (
	"Go_Stow/internal/dto"
	"Go_Stow/internal/middleware"
	"Go_Stow/internal/service"
	"Go_Stow/utils"

	"github.com/gin-gonic/gin"
)

// CreateArea adds a storage area for the path user.
func CreateArea(c *gin.Context) {
	userNo, err := pathUint(c, "user_no")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	area, err := service.CreateArea(c.Request.Context(), middleware.Principal(c), userNo, req.AreaName)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, area)
}

// ListAreas lists the path user's areas.
func ListAreas(c *gin.Context) {
	userNo, err := pathUint(c, "user_no")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	areas, err := service.ListAreas(c.Request.Context(), middleware.Principal(c), userNo)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, areas)
}

// GetArea returns one area.
func GetArea(c *gin.Context) {
	areaNo, err := pathUint(c, "area_no")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	area, err := service.GetArea(c.Request.Context(), middleware.Principal(c), areaNo)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, area)
}

// UpdateArea renames an area.
func UpdateArea(c *gin.Context) {
	areaNo, err := pathUint(c, "area_no")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	area, err := service.RenameArea(c.Request.Context(), middleware.Principal(c), areaNo, req.AreaName)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, area)
}

// DeleteArea removes an area and its items.
func DeleteArea(c *gin.Context) {
	areaNo, err := pathUint(c, "area_no")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := service.DeleteArea(c.Request.Context(), middleware.Principal(c), areaNo); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Message(c, "Storage space deleted")
}

// CreateStorage adds an item to an owned area.
func CreateStorage(c *gin.Context) {
	var req dto.StorageCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	item, err := service.CreateItem(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, item)
}

// GetStorage returns one item.
func GetStorage(c *gin.Context) {
	storageNo, err := pathUint(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	item, err := service.GetItem(c.Request.Context(), middleware.Principal(c), storageNo)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, item)
}

// ListStoragesByArea lists the items of an area; the id parameter is the area number.
func ListStoragesByArea(c *gin.Context) {
	areaNo, err := pathUint(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	items, err := service.ListItemsByArea(c.Request.Context(), middleware.Principal(c), areaNo)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, items)
}

// UpdateStorage changes the fields present in the body.
func UpdateStorage(c *gin.Context) {
	storageNo, err := pathUint(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.StorageUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err)
		return
	}
	item, err := service.UpdateItem(c.Request.Context(), middleware.Principal(c), storageNo, req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, item)
}

// DeleteStorage removes an item and returns it.
func DeleteStorage(c *gin.Context) {
	storageNo, err := pathUint(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	item, err := service.DeleteItem(c.Request.Context(), middleware.Principal(c), storageNo)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, item)
}
