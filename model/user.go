package model

import (
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type User struct {
	UserNo uint64 `gorm:"column:user_no;primaryKey" json:"user_no"`

	Email string `gorm:"column:email;type:varchar(128);not null;unique" json:"email"`

	Password string `gorm:"column:password;type:varchar(128);not null" json:"-"`

	UserName  string    `gorm:"column:user_name;type:varchar(20);not null" json:"user_name"`
	CellPhone string    `gorm:"column:cell_phone;type:varchar(11);not null;unique" json:"cell_phone"`
	Birthday  time.Time `gorm:"column:birthday;not null" json:"birthday"`
	Gender    Gender    `gorm:"column:gender;type:varchar(10);not null" json:"gender"`

	// Disabled stays true until the emailed verification code is confirmed.
	Disabled         bool      `gorm:"column:user_is_disabled;not null;default:false" json:"user_is_disabled"`
	RegistrationDate time.Time `gorm:"column:user_registration_date;not null" json:"user_registration_date"`
	VerificationCode *string   `gorm:"column:verification_code;type:varchar(6)" json:"-"`

	Profile      *Profile      `gorm:"foreignKey:UserNo;references:UserNo" json:"profile,omitempty"`
	SocialLogins []SocialLogin `gorm:"foreignKey:UserNo;references:UserNo" json:"-"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "member_user"
}
