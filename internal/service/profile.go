package service

import (
	"Go_Stow/config"
	"Go_Stow/internal/apperr"
	"Go_Stow/internal/dto"
	"Go_Stow/internal/logging"
	"Go_Stow/internal/repo"
	"Go_Stow/internal/storage"
	"Go_Stow/model"
	"Go_Stow/utils"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"
	"time"

	"gorm.io/gorm"
)

const (
	detailProfileNotFound  = "Profile not found"
	detailProfileForbidden = "You do not have permission to access this profile."
)

func profileOf(userNo uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_no = ?", userNo)
	}
}

// CreateProfile creates the profile of userNo. A user has at most one profile.
func CreateProfile(ctx context.Context, principal, userNo uint64, req dto.ProfileCreateRequest) (*model.Profile, error) {
	if err := requireSelf(principal, userNo, "You do not have permission to create this profile."); err != nil {
		return nil, err
	}
	var exists int64
	if err := repo.Db.WithContext(ctx).Model(&model.Profile{}).Where("user_no = ?", userNo).Count(&exists).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	if exists > 0 {
		return nil, apperr.Conflict("Profile already exists")
	}
	profile := &model.Profile{
		UserNo:     userNo,
		Nickname:   req.Nickname,
		ImageURL:   req.ImageURL,
		CreateDate: time.Now().UTC(),
	}
	if err := repo.Db.WithContext(ctx).Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Profile already exists")
		}
		return nil, apperr.Internal(err)
	}
	return profile, nil
}

// UpdateProfile applies the fields present in req.
func UpdateProfile(ctx context.Context, principal, userNo uint64, req dto.ProfileUpdateRequest) (*model.Profile, error) {
	if err := requireSelf(principal, userNo, "You do not have permission to update this profile."); err != nil {
		return nil, err
	}
	db := repo.Db.WithContext(ctx)
	profile, err := loadOwned[model.Profile](db, principal, profileOf(userNo), detailProfileNotFound, detailProfileForbidden)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	updates := map[string]interface{}{"update_date": &now}
	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
		updates["image_key"] = ""
	}
	if err := db.Model(&model.Profile{}).Where("profile_id = ?", profile.ProfileID).Updates(updates).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return GetProfile(ctx, principal, userNo)
}

// GetProfile returns the profile of userNo.
func GetProfile(ctx context.Context, principal, userNo uint64) (*model.Profile, error) {
	if err := requireSelf(principal, userNo, detailProfileForbidden); err != nil {
		return nil, err
	}
	return loadOwned[model.Profile](repo.Db.WithContext(ctx), principal, profileOf(userNo), detailProfileNotFound, detailProfileForbidden)
}

// UploadProfileImage stores an image in object storage and points the profile at it.
// The previous image is removed on a best-effort basis.
func UploadProfileImage(ctx context.Context, principal, userNo uint64, file *multipart.FileHeader) (*model.Profile, error) {
	if err := requireSelf(principal, userNo, detailProfileForbidden); err != nil {
		return nil, err
	}
	store := storage.Default
	if store == nil {
		return nil, apperr.Internal(errors.New("object storage not configured"))
	}
	cfg := config.AppConfig.Storage
	if file == nil || file.Size <= 0 {
		return nil, apperr.BadRequest("file is required")
	}
	if cfg.MaxImageBytes > 0 && file.Size > cfg.MaxImageBytes {
		return nil, apperr.BadRequest(fmt.Sprintf("image exceeds %d bytes", cfg.MaxImageBytes))
	}

	db := repo.Db.WithContext(ctx)
	profile, err := loadOwned[model.Profile](db, principal, profileOf(userNo), detailProfileNotFound, detailProfileForbidden)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperr.BadRequest("cannot read file")
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperr.BadRequest("cannot read file")
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if len(cfg.AllowedImageTypes) > 0 && !slices.Contains(cfg.AllowedImageTypes, contentType) {
		return nil, apperr.BadRequest("unsupported image type " + contentType)
	}

	object := utils.NewObjectName(fmt.Sprintf("profiles/%d", userNo), file.Filename)
	reader := io.MultiReader(bytes.NewReader(head), src)
	if err := store.PutObject(ctx, cfg.BucketName, object, reader, file.Size, storage.PutOptions{ContentType: contentType}); err != nil {
		return nil, apperr.Internal(fmt.Errorf("put profile image: %w", err))
	}

	now := time.Now().UTC()
	if err := db.Model(&model.Profile{}).Where("profile_id = ?", profile.ProfileID).Updates(map[string]interface{}{
		"image_url":   cfg.ObjectURL(object),
		"image_key":   object,
		"update_date": &now,
	}).Error; err != nil {
		_ = store.RemoveObject(ctx, cfg.BucketName, object)
		return nil, apperr.Internal(err)
	}

	if profile.ImageKey != "" && profile.ImageKey != object {
		if err := store.RemoveObject(ctx, cfg.BucketName, profile.ImageKey); err != nil {
			logging.L().Warn("remove previous profile image failed", "object", profile.ImageKey, "err", err)
		}
	}
	return GetProfile(ctx, principal, userNo)
}
