package service

import (
	"Go_Stow/internal/apperr"
	"Go_Stow/internal/repo"
	"Go_Stow/model"
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	detailAreaNotFound  = "Storage area not found"
	detailAreaForbidden = "You do not have permission to access this storage space."
)

func areaByNo(areaNo uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("area_no = ?", areaNo)
	}
}

func loadArea(db *gorm.DB, principal, areaNo uint64) (*model.StorageArea, error) {
	return loadOwned[model.StorageArea](db, principal, areaByNo(areaNo), detailAreaNotFound, detailAreaForbidden)
}

// CreateArea adds a storage area for userNo.
func CreateArea(ctx context.Context, principal, userNo uint64, name string) (*model.StorageArea, error) {
	if err := requireSelf(principal, userNo, "You do not have permission to add storage space."); err != nil {
		return nil, err
	}
	area := &model.StorageArea{
		UserNo:       userNo,
		AreaName:     strings.TrimSpace(name),
		CreatedDate:  time.Now().UTC(),
		StorageOwner: true,
	}
	if area.AreaName == "" {
		return nil, apperr.BadRequest("area_name is required")
	}
	if err := repo.Db.WithContext(ctx).Create(area).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return area, nil
}

// ListAreas returns the areas of userNo ordered by creation.
func ListAreas(ctx context.Context, principal, userNo uint64) ([]model.StorageArea, error) {
	if err := requireSelf(principal, userNo, detailAreaForbidden); err != nil {
		return nil, err
	}
	areas := make([]model.StorageArea, 0)
	if err := repo.Db.WithContext(ctx).Where("user_no = ?", userNo).Order("area_no").Find(&areas).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return areas, nil
}

// GetArea returns one area owned by principal.
func GetArea(ctx context.Context, principal, areaNo uint64) (*model.StorageArea, error) {
	return loadArea(repo.Db.WithContext(ctx), principal, areaNo)
}

// RenameArea changes the name of an owned area.
func RenameArea(ctx context.Context, principal, areaNo uint64, name string) (*model.StorageArea, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.BadRequest("area_name is required")
	}
	db := repo.Db.WithContext(ctx)
	area, err := loadArea(db, principal, areaNo)
	if err != nil {
		return nil, err
	}
	if err := db.Model(&model.StorageArea{}).Where("area_no = ?", area.AreaNo).Update("area_name", name).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	area.AreaName = name
	return area, nil
}

// DeleteArea removes an owned area together with its items.
func DeleteArea(ctx context.Context, principal, areaNo uint64) error {
	return repo.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		area, err := loadArea(tx, principal, areaNo)
		if err != nil {
			return err
		}
		if err := tx.Where("area_no = ?", area.AreaNo).Delete(&model.StorageItem{}).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := tx.Where("area_no = ?", area.AreaNo).Delete(&model.StorageArea{}).Error; err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}
