package model

// Provider codes stored in SocialLogin.SocialCode.
const (
	SocialCodeGoogle = 1
)

type SocialLogin struct {
	SocialLoginID uint64 `gorm:"column:social_login_id;primaryKey"`
	UserNo        uint64 `gorm:"column:user_no;not null;index"`
	SocialCode    int    `gorm:"column:social_code;not null;uniqueIndex:uk_social_external"`
	ExternalID    string `gorm:"column:external_id;type:varchar(64);not null;uniqueIndex:uk_social_external"`
	AccessToken   string `gorm:"column:access_token;type:varchar(2048)"`
	RefreshToken  string `gorm:"column:refresh_token;type:varchar(2048)"`
}

// TableName returns the database table name.
func (SocialLogin) TableName() string {
	return "auth_social_login"
}

// SocialCodeFor maps a goth provider name to its stored code, 0 if unknown.
func SocialCodeFor(provider string) int {
	switch provider {
	case "google":
		return SocialCodeGoogle
	}
	return 0
}
