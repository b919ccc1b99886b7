package dto

import (
	"Go_Stow/model"
	"Go_Stow/utils"
	"time"
)

// LoginResponse carries the token pair and the caller's user number.
type LoginResponse struct {
	utils.TokenPair
	UserNo uint64 `json:"user_no"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	UserNo           uint64           `json:"user_no"`
	Email            string           `json:"email"`
	UserName         string           `json:"user_name"`
	CellPhone        string           `json:"cell_phone"`
	Birthday         time.Time        `json:"birthday"`
	Gender           model.Gender     `json:"gender"`
	Disabled         bool             `json:"user_is_disabled"`
	RegistrationDate time.Time        `json:"user_registration_date"`
	Profile          *ProfileResponse `json:"profile,omitempty"`
}

type ProfileResponse struct {
	ProfileID  uint64     `json:"profile_id"`
	UserNo     uint64     `json:"user_no"`
	Nickname   string     `json:"nickname"`
	ImageURL   string     `json:"image_url"`
	CreateDate time.Time  `json:"create_date"`
	UpdateDate *time.Time `json:"update_date"`
}

// NewUserResponse builds the view of u, including its profile when loaded.
func NewUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		UserNo:           u.UserNo,
		Email:            u.Email,
		UserName:         u.UserName,
		CellPhone:        u.CellPhone,
		Birthday:         u.Birthday,
		Gender:           u.Gender,
		Disabled:         u.Disabled,
		RegistrationDate: u.RegistrationDate,
	}
	if u.Profile != nil {
		p := NewProfileResponse(u.Profile)
		resp.Profile = &p
	}
	return resp
}

func NewProfileResponse(p *model.Profile) ProfileResponse {
	return ProfileResponse{
		ProfileID:  p.ProfileID,
		UserNo:     p.UserNo,
		Nickname:   p.Nickname,
		ImageURL:   p.ImageURL,
		CreateDate: p.CreateDate,
		UpdateDate: p.UpdateDate,
	}
}
