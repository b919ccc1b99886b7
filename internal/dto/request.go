package dto

import (
	"errors"
	"strings"
	"time"
)

type SignupRequest struct {
	Email     string `json:"email" binding:"required,email,max=128"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
	UserName  string `json:"user_name" binding:"required,max=20"`
	CellPhone string `json:"cell_phone" binding:"required,numeric,len=11"`
	// Birthday accepts 2006-01-02 or RFC 3339.
	Birthday string `json:"birthday" binding:"required"`
	Gender   string `json:"gender" binding:"required,oneof=male female other"`
}

// ParseBirthday parses Birthday as a date or a full timestamp.
func (r SignupRequest) ParseBirthday() (time.Time, error) {
	return ParseDate(r.Birthday)
}

// ParseDate accepts 2006-01-02 or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("birthday must be YYYY-MM-DD or RFC 3339")
}

type VerifyCodeRequest struct {
	Email            string `json:"email" binding:"required,email"`
	VerificationCode string `json:"verification_code" binding:"required"`
}

type ResendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest accepts a JSON body with email or an OAuth2 password form with username.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login returns the identifier the client sent.
func (r LoginRequest) Login() string {
	if r.Email != "" {
		return strings.TrimSpace(r.Email)
	}
	return strings.TrimSpace(r.Username)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	// UserNo is optional; when present it must name the caller.
	UserNo          *uint64 `json:"user_no"`
	CurrentPassword string  `json:"current_password" binding:"required"`
	Password        string  `json:"password" binding:"required,min=6,max=72"`
}

type ProfileCreateRequest struct {
	Nickname string `json:"nickname" binding:"required,max=12"`
	ImageURL string `json:"image_url" binding:"omitempty,url,max=255"`
}

type ProfileUpdateRequest struct {
	Nickname *string `json:"nickname" binding:"omitempty,max=12"`
	ImageURL *string `json:"image_url" binding:"omitempty,url,max=255"`
}

type AreaRequest struct {
	AreaName string `json:"area_name" binding:"required,max=50"`
}

type StorageCreateRequest struct {
	AreaNo      uint64  `json:"area_no" binding:"required"`
	Name        string  `json:"storage_name" binding:"required,max=50"`
	Column      *int    `json:"storage_column" binding:"required,gte=0"`
	Row         *int    `json:"storage_row" binding:"required,gte=0"`
	Location    string  `json:"storage_location" binding:"required,max=50"`
	Description *string `json:"storage_description" binding:"omitempty,max=100"`
}

// StorageUpdateRequest changes only the fields that are present.
type StorageUpdateRequest struct {
	AreaNo      *uint64 `json:"area_no" binding:"omitempty,gt=0"`
	Name        *string `json:"storage_name" binding:"omitempty,min=1,max=50"`
	Column      *int    `json:"storage_column" binding:"omitempty,gte=0"`
	Row         *int    `json:"storage_row" binding:"omitempty,gte=0"`
	Location    *string `json:"storage_location" binding:"omitempty,min=1,max=50"`
	Description *string `json:"storage_description" binding:"omitempty,max=100"`
}
