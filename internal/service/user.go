package service

import (
	"Go_Stow/config"
	"Go_Stow/internal/apperr"
	"Go_Stow/internal/dto"
	"Go_Stow/internal/logging"
	"Go_Stow/internal/repo"
	"Go_Stow/model"
	"Go_Stow/utils"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	detailUserNotFound   = "User not found"
	detailInvalidCode    = "Invalid verification code"
	detailBadCredentials = "Incorrect user ID or password"
	detailNotVerified    = "Email not verified"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func verifyFailKey(email string) string {
	return utils.BuildCacheKey("verify:fail", email)
}

func resendLockKey(email string) string {
	return utils.BuildCacheKey("verify:resend", email)
}

// Signup creates a disabled user, stores a fresh verification code and mails it.
// The insert is rolled back when the code cannot be dispatched.
func Signup(ctx context.Context, req dto.SignupRequest) (*model.User, error) {
	birthday, err := req.ParseBirthday()
	if err != nil {
		return nil, apperr.BadRequest(err.Error())
	}
	gender := model.Gender(req.Gender)
	if !gender.Valid() {
		return nil, apperr.BadRequest("gender must be male, female or other")
	}
	email := normalizeEmail(req.Email)

	var taken int64
	if err := repo.Db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? OR cell_phone = ?", email, req.CellPhone).
		Count(&taken).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if taken > 0 {
		return nil, apperr.Conflict("User already registered")
	}

	hash, err := utils.GetPwd(req.Password)
	if err != nil {
		return nil, apperr.BadRequest("password cannot be hashed")
	}
	code, err := utils.GenVerificationCode()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &model.User{
		Email:            email,
		Password:         hash,
		UserName:         strings.TrimSpace(req.UserName),
		CellPhone:        req.CellPhone,
		Birthday:         birthday,
		Gender:           gender,
		Disabled:         true,
		RegistrationDate: time.Now().UTC(),
		VerificationCode: &code,
	}
	err = repo.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("User already registered")
			}
			return err
		}
		if err := mailer.SendVerificationCode(ctx, email, code); err != nil {
			return apperr.Internal(fmt.Errorf("send verification code: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, dbErr(err, detailUserNotFound)
	}
	logging.L().Info("user signed up", "user_no", user.UserNo)
	return user, nil
}

// VerifyCode enables the account when code matches the stored one and clears the code.
// Failures never touch the user row.
func VerifyCode(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	cfg := config.AppConfig
	if err := checkVerifyAttempts(ctx, email, cfg.VerifyMaxAttempts); err != nil {
		return err
	}

	var user model.User
	if err := repo.Db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			recordVerifyFailure(ctx, email, cfg.VerifyAttemptWindow)
		}
		return dbErr(err, detailUserNotFound)
	}
	if user.VerificationCode == nil || *user.VerificationCode == "" || !codeMatches(*user.VerificationCode, code) {
		recordVerifyFailure(ctx, email, cfg.VerifyAttemptWindow)
		return apperr.BadRequest(detailInvalidCode)
	}

	res := repo.Db.WithContext(ctx).Model(&model.User{}).
		Where("user_no = ? AND verification_code = ?", user.UserNo, code).
		Updates(map[string]interface{}{
			"user_is_disabled":  false,
			"verification_code": nil,
		})
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.BadRequest(detailInvalidCode)
	}

	if repo.Redis != nil {
		_ = repo.Redis.Del(ctx, verifyFailKey(email)).Err()
	}
	_ = utils.InvalidateUserInfoCache(ctx, user.UserNo)
	logging.L().Info("user verified", "user_no", user.UserNo)
	return nil
}

func checkVerifyAttempts(ctx context.Context, email string, max int) error {
	if repo.Redis == nil || max <= 0 {
		return nil
	}
	n, err := repo.Redis.Get(ctx, verifyFailKey(email)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.L().Warn("verify attempts lookup failed", "err", err)
		}
		return nil
	}
	if n >= int64(max) {
		return apperr.TooManyRequests("Too many verification attempts, try again later")
	}
	return nil
}

func codeMatches(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func recordVerifyFailure(ctx context.Context, email string, window time.Duration) {
	if repo.Redis == nil {
		return
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	if _, err := repo.IncrWindow(ctx, repo.Redis, verifyFailKey(email), window); err != nil {
		logging.L().Warn("verify attempts update failed", "err", err)
	}
}

// ResendCode replaces the pending code of an unverified user and mails it again.
func ResendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	var user model.User
	if err := repo.Db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return dbErr(err, detailUserNotFound)
	}
	if !user.Disabled {
		return apperr.BadRequest("Account already verified")
	}

	var lock *repo.RedisLock
	if repo.Redis != nil && config.AppConfig.ResendCooldown > 0 {
		lock = repo.NewRedisLock(repo.Redis, resendLockKey(email), config.AppConfig.ResendCooldown)
		if err := lock.Lock(ctx); err != nil {
			if errors.Is(err, repo.ErrLockBusy) {
				return apperr.TooManyRequests("Verification code was sent recently")
			}
			logging.L().Warn("resend cooldown unavailable", "err", err)
		}
	}

	code, err := utils.GenVerificationCode()
	if err != nil {
		if lock != nil {
			_ = lock.Unlock(context.WithoutCancel(ctx))
		}
		return apperr.Internal(err)
	}
	err = repo.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).
			Where("user_no = ?", user.UserNo).
			Update("verification_code", code).Error; err != nil {
			return err
		}
		if err := mailer.SendVerificationCode(ctx, email, code); err != nil {
			return apperr.Internal(fmt.Errorf("send verification code: %w", err))
		}
		return nil
	})
	if err != nil {
		// no code went out; release the cooldown
		if lock != nil {
			if unlockErr := lock.Unlock(context.WithoutCancel(ctx)); unlockErr != nil {
				logging.L().Warn("resend cooldown release failed", "err", unlockErr)
			}
		}
		return dbErr(err, detailUserNotFound)
	}
	return nil
}

// Login checks credentials and issues a token pair.
func Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var user model.User
	err := repo.Db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized(detailBadCredentials)
		}
		return nil, apperr.Internal(err)
	}
	if !utils.CheckPwd(password, user.Password) {
		return nil, apperr.Unauthorized(detailBadCredentials)
	}
	if user.Disabled {
		return nil, apperr.Unauthorized(detailNotVerified)
	}
	return issueTokens(user.UserNo)
}

// Refresh exchanges a valid refresh token for a new token pair.
func Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	userNo, err := tokens().Verify(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}
	user, err := loadPrincipal(ctx, userNo)
	if err != nil {
		return nil, err
	}
	return issueTokens(user.UserNo)
}

func issueTokens(userNo uint64) (*dto.LoginResponse, error) {
	pair, err := tokens().IssuePair(userNo)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &dto.LoginResponse{TokenPair: pair, UserNo: userNo}, nil
}

func tokens() *utils.TokenIssuer {
	if utils.Tokens == nil {
		panic("token issuer not initialized")
	}
	return utils.Tokens
}

// ResolvePrincipal verifies an access token and loads its user.
// Every failure, including a deleted or unverified user, is ErrUnauthorized.
func ResolvePrincipal(ctx context.Context, accessToken string) (*model.User, error) {
	userNo, err := tokens().Verify(accessToken, utils.TokenTypeAccess)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}
	return loadPrincipal(ctx, userNo)
}

func loadPrincipal(ctx context.Context, userNo uint64) (*model.User, error) {
	if cached, ok := utils.GetUserInfoFromCache(ctx, userNo); ok {
		if cached.Disabled {
			return nil, apperr.ErrUnauthorized
		}
		return cached, nil
	}
	var user model.User
	if err := repo.Db.WithContext(ctx).Where("user_no = ?", userNo).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, apperr.Internal(err)
	}
	if user.Disabled {
		return nil, apperr.ErrUnauthorized
	}
	user.Password = ""
	user.VerificationCode = nil
	if err := utils.SetUserInfoToCache(ctx, &user, config.AppConfig.UserCacheTTL); err != nil {
		logging.L().Warn("user cache write failed", "user_no", userNo, "err", err)
	}
	return &user, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func ChangePassword(ctx context.Context, principal uint64, req dto.ChangePasswordRequest) error {
	if req.UserNo != nil {
		if err := requireSelf(principal, *req.UserNo, "You do not have permission to change this password."); err != nil {
			return err
		}
	}
	var user model.User
	if err := repo.Db.WithContext(ctx).Where("user_no = ?", principal).First(&user).Error; err != nil {
		return dbErr(err, detailUserNotFound)
	}
	if !utils.CheckPwd(req.CurrentPassword, user.Password) {
		return apperr.BadRequest("Current password is incorrect")
	}
	hash, err := utils.GetPwd(req.Password)
	if err != nil {
		return apperr.BadRequest("password cannot be hashed")
	}
	if err := repo.Db.WithContext(ctx).Model(&model.User{}).
		Where("user_no = ?", principal).
		Update("password", hash).Error; err != nil {
		return apperr.Internal(err)
	}
	_ = utils.InvalidateUserInfoCache(ctx, principal)
	return nil
}

// GetUserInfo returns a user together with its profile.
func GetUserInfo(ctx context.Context, principal, userNo uint64) (*model.User, error) {
	if err := requireSelf(principal, userNo, "You do not have permission to access this user."); err != nil {
		return nil, err
	}
	var user model.User
	if err := repo.Db.WithContext(ctx).Preload("Profile").Where("user_no = ?", userNo).First(&user).Error; err != nil {
		return nil, dbErr(err, detailUserNotFound)
	}
	return &user, nil
}
