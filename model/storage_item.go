package model

import "time"

type StorageItem struct {
	StorageNo    uint64     `gorm:"column:storage_no;primaryKey" json:"storage_no"`
	AreaNo       uint64     `gorm:"column:area_no;not null;index" json:"area_no"`
	Name         string     `gorm:"column:storage_name;type:varchar(50);not null" json:"storage_name"`
	Column       int        `gorm:"column:storage_column;not null" json:"storage_column"`
	Row          int        `gorm:"column:storage_row;not null" json:"storage_row"`
	Location     string     `gorm:"column:storage_location;type:varchar(50);not null" json:"storage_location"`
	Description  *string    `gorm:"column:storage_description;type:varchar(100)" json:"storage_description"`
	CreatedDate  time.Time  `gorm:"column:storage_created_date;autoCreateTime" json:"storage_created_date"`
	ModifiedDate *time.Time `gorm:"column:storage_modified_date" json:"storage_modified_date"`

	Area *StorageArea `gorm:"foreignKey:AreaNo;references:AreaNo" json:"-"`
}

// TableName returns the database table name.
func (StorageItem) TableName() string {
	return "storage_storage"
}

// OwnerNo returns the owner of the parent area, or 0 when the area was not loaded.
func (s *StorageItem) OwnerNo() uint64 {
	if s.Area == nil {
		return 0
	}
	return s.Area.UserNo
}
