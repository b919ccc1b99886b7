package model

import "time"

type StorageArea struct {
	AreaNo      uint64    `gorm:"column:area_no;primaryKey" json:"area_no"`
	UserNo      uint64    `gorm:"column:user_no;not null;index" json:"user_no"`
	AreaName    string    `gorm:"column:area_name;type:varchar(50);not null" json:"area_name"`
	CreatedDate time.Time `gorm:"column:area_created_date;not null" json:"area_created_date"`
	// StorageOwner is always true for areas created through the API.
	StorageOwner bool `gorm:"column:storage_owner;not null;default:true" json:"storage_owner"`
}

// TableName returns the database table name.
func (StorageArea) TableName() string {
	return "storage_area"
}

// OwnerNo returns the owning user.
func (a *StorageArea) OwnerNo() uint64 {
	return a.UserNo
}
