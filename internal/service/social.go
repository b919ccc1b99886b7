package service

import (
	"Go_Stow/internal/apperr"
	"Go_Stow/internal/dto"
	"Go_Stow/internal/repo"
	"Go_Stow/model"
	"Go_Stow/utils"
	"context"
	"errors"

	"github.com/markbates/goth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialLogin links a provider identity to the verified user with the same email
// and issues a token pair. Users are never created here.
func SocialLogin(ctx context.Context, provider string, gu goth.User) (*dto.LoginResponse, error) {
	code := model.SocialCodeFor(provider)
	if code == 0 {
		return nil, apperr.BadRequest("unsupported provider " + provider)
	}
	if gu.UserID == "" || gu.Email == "" {
		return nil, apperr.BadRequest("provider did not return an email")
	}

	db := repo.Db.WithContext(ctx)
	var user model.User
	if err := db.Where("email = ?", normalizeEmail(gu.Email)).First(&user).Error; err != nil {
		return nil, dbErr(err, detailUserNotFound)
	}
	if user.Disabled {
		return nil, apperr.Unauthorized(detailNotVerified)
	}

	var linked model.SocialLogin
	err := db.Where("social_code = ? AND external_id = ?", code, gu.UserID).First(&linked).Error
	switch {
	case err == nil && linked.UserNo != user.UserNo:
		return nil, apperr.Conflict("This account is linked to another user")
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Internal(err)
	}

	row := model.SocialLogin{
		UserNo:       user.UserNo,
		SocialCode:   code,
		ExternalID:   gu.UserID,
		AccessToken:  gu.AccessToken,
		RefreshToken: gu.RefreshToken,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "social_code"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token"}),
	}).Create(&row).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	_ = utils.InvalidateUserInfoCache(ctx, user.UserNo)
	return issueTokens(user.UserNo)
}
