package service

import (
	"Go_Stow/config"
	"Go_Stow/internal/repo/repotest"
	"Go_Stow/model"
	"Go_Stow/utils"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentCode struct {
	to   string
	code string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (m *fakeMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentCode{to: to, code: code})
	return nil
}

func (m *fakeMailer) last(t *testing.T) sentCode {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail sent")
	return m.sent[len(m.sent)-1]
}

var errMailDown = errors.New("smtp: connection refused")

// setup points the package at a fresh database, token issuer, mailer and config.
func setup(t *testing.T) (*gorm.DB, *fakeMailer) {
	t.Helper()
	db := repotest.UseTestDB(t)

	issuer, err := utils.NewTokenIssuer("test", []byte("test-secret"), 30*time.Minute, 7*24*time.Hour, nil)
	require.NoError(t, err)
	prevTokens := utils.Tokens
	utils.Tokens = issuer

	prevCfg := config.AppConfig
	config.AppConfig = config.Config{
		VerifyMaxAttempts:   3,
		VerifyAttemptWindow: time.Minute,
		ResendCooldown:      time.Minute,
		UserCacheTTL:        time.Minute,
	}

	m := &fakeMailer{}
	SetMailer(m)
	t.Cleanup(func() {
		utils.Tokens = prevTokens
		config.AppConfig = prevCfg
		SetMailer(nil)
	})
	return db, m
}

// createUser inserts a user with password "password1".
func createUser(t *testing.T, db *gorm.DB, email, phone string, verified bool) *model.User {
	t.Helper()
	hash, err := utils.GetPwd("password1")
	require.NoError(t, err)
	user := &model.User{
		Email:            email,
		Password:         hash,
		UserName:         "tester",
		CellPhone:        phone,
		Birthday:         time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		Gender:           model.GenderOther,
		Disabled:         !verified,
		RegistrationDate: time.Now().UTC(),
	}
	if !verified {
		code := "111111"
		user.VerificationCode = &code
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createArea(t *testing.T, db *gorm.DB, userNo uint64, name string) *model.StorageArea {
	t.Helper()
	area := &model.StorageArea{UserNo: userNo, AreaName: name, CreatedDate: time.Now().UTC(), StorageOwner: true}
	require.NoError(t, db.Create(area).Error)
	return area
}

func createItem(t *testing.T, db *gorm.DB, areaNo uint64, name string) *model.StorageItem {
	t.Helper()
	item := &model.StorageItem{AreaNo: areaNo, Name: name, Column: 1, Row: 2, Location: "left"}
	require.NoError(t, db.Create(item).Error)
	return item
}
