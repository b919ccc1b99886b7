package service

import (
	"Go_Stow/internal/apperr"
	"Go_Stow/internal/dto"
	"Go_Stow/internal/repo"
	"Go_Stow/model"
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	detailItemNotFound  = "Storage not found"
	detailItemForbidden = "You do not have permission to access this furniture."
)

func itemByNo(storageNo uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload("Area").Where("storage_no = ?", storageNo)
	}
}

func loadItem(db *gorm.DB, principal, storageNo uint64) (*model.StorageItem, error) {
	return loadOwned[model.StorageItem](db, principal, itemByNo(storageNo), detailItemNotFound, detailItemForbidden)
}

// CreateItem adds an item to an area owned by principal.
func CreateItem(ctx context.Context, principal uint64, req dto.StorageCreateRequest) (*model.StorageItem, error) {
	db := repo.Db.WithContext(ctx)
	area, err := loadOwned[model.StorageArea](db, principal, areaByNo(req.AreaNo), detailAreaNotFound,
		"You do not have permission to add furniture to this area.")
	if err != nil {
		return nil, err
	}
	item := &model.StorageItem{
		AreaNo:      area.AreaNo,
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
	}
	if req.Column != nil {
		item.Column = *req.Column
	}
	if req.Row != nil {
		item.Row = *req.Row
	}
	if err := db.Omit("Area").Create(item).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return item, nil
}

// GetItem returns an item whose area is owned by principal.
func GetItem(ctx context.Context, principal, storageNo uint64) (*model.StorageItem, error) {
	return loadItem(repo.Db.WithContext(ctx), principal, storageNo)
}

// ListItemsByArea returns the items of an owned area; an empty area yields an empty list.
func ListItemsByArea(ctx context.Context, principal, areaNo uint64) ([]model.StorageItem, error) {
	db := repo.Db.WithContext(ctx)
	if _, err := loadArea(db, principal, areaNo); err != nil {
		return nil, err
	}
	items := make([]model.StorageItem, 0)
	if err := db.Where("area_no = ?", areaNo).Order("storage_no").Find(&items).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// UpdateItem applies the fields present in req. Moving an item requires owning the target area.
func UpdateItem(ctx context.Context, principal, storageNo uint64, req dto.StorageUpdateRequest) (*model.StorageItem, error) {
	var updated *model.StorageItem
	err := repo.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := loadItem(tx, principal, storageNo)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		updates := map[string]interface{}{"storage_modified_date": &now}
		if req.AreaNo != nil && *req.AreaNo != item.AreaNo {
			target, err := loadOwned[model.StorageArea](tx, principal, areaByNo(*req.AreaNo), detailAreaNotFound,
				"You do not have permission to move furniture to this area.")
			if err != nil {
				return err
			}
			updates["area_no"] = target.AreaNo
		}
		if req.Name != nil {
			updates["storage_name"] = *req.Name
		}
		if req.Column != nil {
			updates["storage_column"] = *req.Column
		}
		if req.Row != nil {
			updates["storage_row"] = *req.Row
		}
		if req.Location != nil {
			updates["storage_location"] = *req.Location
		}
		if req.Description != nil {
			updates["storage_description"] = *req.Description
		}
		if err := tx.Model(&model.StorageItem{}).Where("storage_no = ?", item.StorageNo).Updates(updates).Error; err != nil {
			return apperr.Internal(err)
		}
		updated, err = loadItem(tx, principal, storageNo)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteItem removes an item whose area is owned by principal and returns it.
func DeleteItem(ctx context.Context, principal, storageNo uint64) (*model.StorageItem, error) {
	var deleted *model.StorageItem
	err := repo.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := loadItem(tx, principal, storageNo)
		if err != nil {
			return err
		}
		if err := tx.Where("storage_no = ?", item.StorageNo).Delete(&model.StorageItem{}).Error; err != nil {
			return apperr.Internal(err)
		}
		deleted = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
