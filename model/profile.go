package model

import "time"

type Profile struct {
	ProfileID  uint64     `gorm:"column:profile_id;primaryKey" json:"profile_id"`
	UserNo     uint64     `gorm:"column:user_no;not null;uniqueIndex" json:"user_no"`
	Nickname   string     `gorm:"column:nickname;type:varchar(12)" json:"nickname"`
	ImageURL   string     `gorm:"column:image_url;type:varchar(255)" json:"image_url"`
	ImageKey   string     `gorm:"column:image_key;type:varchar(255)" json:"-"`
	CreateDate time.Time  `gorm:"column:create_date" json:"create_date"`
	UpdateDate *time.Time `gorm:"column:update_date" json:"update_date"`
}

// TableName returns the database table name.
func (Profile) TableName() string {
	return "member_profile"
}

// OwnerNo returns the owning user.
func (p *Profile) OwnerNo() uint64 {
	return p.UserNo
}
